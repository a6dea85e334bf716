package shared

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"masjidku_dashboard/internals/constants"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/formstate"
)

// FormInput: nilai form + penanda field mana yang benar-benar dikirim (untuk PATCH).
type FormInput struct {
	*formstate.Form
	present map[string]bool
}

func (f FormInput) Has(key string) bool { return f.present[key] }

// Fields: hanya field yang dikirim, siap diteruskan ke upstream.
func (f FormInput) Fields() map[string]string {
	out := map[string]string{}
	for k := range f.present {
		out[k] = strings.TrimSpace(f.Get(k))
	}
	return out
}

func isJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEApplicationJSON)
}

// FormFrom membaca key yang diminta dari body JSON, multipart, atau urlencoded.
func FormFrom(c *fiber.Ctx, keys ...string) (FormInput, error) {
	in := FormInput{Form: formstate.New(nil), present: map[string]bool{}}

	if isJSON(c) {
		var m map[string]any
		if len(c.Body()) > 0 {
			if err := sonic.Unmarshal(c.Body(), &m); err != nil {
				return in, fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
			}
		}
		for _, k := range keys {
			v, ok := m[k]
			if !ok {
				continue
			}
			in.present[k] = true
			if v != nil {
				in.Set(k, fmt.Sprint(v))
			}
		}
		return in, nil
	}

	mf, err := c.MultipartForm()
	if err == nil && mf != nil {
		for _, k := range keys {
			if vals, ok := mf.Value[k]; ok {
				in.present[k] = true
				if len(vals) > 0 {
					in.Set(k, vals[0])
				}
			}
		}
		return in, nil
	}
	if err != nil && !errors.Is(err, fasthttp.ErrNoMultipartForm) {
		return in, fiber.NewError(fiber.StatusBadRequest, "Form tidak valid")
	}

	args := c.Request().PostArgs()
	for _, k := range keys {
		if args.Has(k) {
			in.present[k] = true
			in.Set(k, string(args.Peek(k)))
		}
	}
	return in, nil
}

// UploadedImage: gambar opsional dari multipart, dikonversi ke WebP. nil bila tidak ada.
func UploadedImage(c *fiber.Ctx, field string) (*helper.UploadFile, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, nil
	}
	f, err := helper.ImageUploadAsWebP(field, fh, helper.DefaultWebPOptions())
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return &f, nil
}

// UploadedAttachment: dokumen/gambar lampiran (pdf, doc, ppt, gambar). nil bila tidak ada.
func UploadedAttachment(c *fiber.Ctx, field string) (*helper.UploadFile, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, nil
	}
	if !constants.IsAllowedAttachment(fh.Filename) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Jenis file lampiran tidak didukung")
	}
	if constants.DetectFileTypeFromExt(fh.Filename) == constants.FileImage {
		return UploadedImage(c, field)
	}
	f, err := helper.FileUploadAsIs(field, fh)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return &f, nil
}

// FilesOf membuang nil.
func FilesOf(files ...*helper.UploadFile) []helper.UploadFile {
	out := make([]helper.UploadFile, 0, len(files))
	for _, f := range files {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}
