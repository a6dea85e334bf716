package helper

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"masjidku_dashboard/internals/configs"
)

// batas ukuran upload sebelum dikonversi
const MaxUploadSize = int64(5 * 1024 * 1024)

type WebPOptions struct {
	MaxW    int     // batas lebar (resize keep-aspect)
	MaxH    int     // batas tinggi
	Quality float32 // 0-100
}

func DefaultWebPOptions() WebPOptions {
	q := float32(configs.GetEnvInt("IMAGE_WEBP_QUALITY", 80))
	return WebPOptions{
		MaxW:    configs.GetEnvInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:    configs.GetEnvInt("IMAGE_WEBP_MAX_H", 1600),
		Quality: q,
	}
}

// UploadFile: file siap diteruskan ke upstream sebagai multipart.
type UploadFile struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

var reUnsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(filename string) string {
	return reUnsafeFilename.ReplaceAllString(filename, "_")
}

func GenerateUniqueFilename(folder, originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	safe := sanitizeFilename(filepath.Base(originalFilename))
	name := fmt.Sprintf("%s-%s-%s", timestamp, uuid.New().String(), safe)
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > MaxUploadSize {
		return nil, fmt.Errorf("ukuran file melebihi %dMB", MaxUploadSize/1024/1024)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("gagal membuka file: %w", err)
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, io.LimitReader(src, MaxUploadSize+1)); err != nil {
		return nil, fmt.Errorf("gagal membaca file: %w", err)
	}
	if int64(buf.Len()) > MaxUploadSize {
		return nil, fmt.Errorf("ukuran file melebihi %dMB", MaxUploadSize/1024/1024)
	}
	return buf.Bytes(), nil
}

// ImageUploadAsWebP membaca gambar dari form, resize bila perlu, lalu encode WebP.
func ImageUploadAsWebP(field string, fh *multipart.FileHeader, opt WebPOptions) (UploadFile, error) {
	all, err := readFileHeader(fh)
	if err != nil {
		return UploadFile{}, err
	}
	img, err := decodeImage(all, fh.Filename)
	if err != nil {
		return UploadFile{}, fmt.Errorf("gagal decode gambar: %w", err)
	}
	img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)

	q := opt.Quality
	if q <= 0 || q > 100 {
		q = 80
	}
	out := new(bytes.Buffer)
	if err := webp.Encode(out, img, &webp.Options{Lossless: false, Quality: q}); err != nil {
		return UploadFile{}, fmt.Errorf("gagal encode webp: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename)) + ".webp"
	return UploadFile{
		Field:       field,
		Filename:    GenerateUniqueFilename("", name),
		ContentType: "image/webp",
		Data:        out.Bytes(),
	}, nil
}

// FileUploadAsIs meneruskan dokumen tanpa konversi.
func FileUploadAsIs(field string, fh *multipart.FileHeader) (UploadFile, error) {
	all, err := readFileHeader(fh)
	if err != nil {
		return UploadFile{}, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(all)
	}
	return UploadFile{
		Field:       field,
		Filename:    GenerateUniqueFilename("", fh.Filename),
		ContentType: ct,
		Data:        all,
	}, nil
}

/* =======================================================================
   Decode gambar (jpeg/png/webp) dari []byte dengan sniff MIME
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	switch {
	case strings.Contains(ct, "jpeg"):
		return jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		return png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		return webp.Decode(bytes.NewReader(all))
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return jpeg.Decode(bytes.NewReader(all))
	case ".png":
		return png.Decode(bytes.NewReader(all))
	case ".webp":
		return webp.Decode(bytes.NewReader(all))
	default:
		return nil, fmt.Errorf("format tidak didukung: %s", ct)
	}
}

// downscaleIfNeeded: resize keep-aspect pakai CatmullRom.
func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
