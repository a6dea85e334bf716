package helper

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeaderOf(t *testing.T, field, filename string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(MaxUploadSize * 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File[field], 1)
	return form.File[field][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 255), G: 120, B: uint8(y % 255), A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestImageUploadAsWebP_ResizesAndEncodes(t *testing.T) {
	fh := fileHeaderOf(t, "cover", "sampul buku.png", pngBytes(t, 400, 200))

	f, err := ImageUploadAsWebP("cover", fh, WebPOptions{MaxW: 100, MaxH: 100, Quality: 70})
	require.NoError(t, err)

	assert.Equal(t, "cover", f.Field)
	assert.Equal(t, "image/webp", f.ContentType)
	assert.True(t, strings.HasSuffix(f.Filename, "-sampul_buku.webp"), f.Filename)

	cfg, err := webp.DecodeConfig(bytes.NewReader(f.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestImageUploadAsWebP_RejectsNonImage(t *testing.T) {
	fh := fileHeaderOf(t, "cover", "catatan.txt", []byte("bukan gambar"))
	_, err := ImageUploadAsWebP("cover", fh, DefaultWebPOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gagal decode gambar")
}

func TestFileUploadAsIs_DetectsContentType(t *testing.T) {
	fh := fileHeaderOf(t, "attachment", "surat.pdf", []byte("%PDF-1.4 isi"))
	f, err := FileUploadAsIs("attachment", fh)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 isi"), f.Data)
	assert.NotEmpty(t, f.ContentType)
	assert.True(t, strings.HasSuffix(f.Filename, "-surat.pdf"))
}

func TestDownscaleIfNeeded_KeepsSmallImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	assert.Same(t, image.Image(img), downscaleIfNeeded(img, 100, 100))
	assert.Same(t, image.Image(img), downscaleIfNeeded(img, 0, 0))
}
