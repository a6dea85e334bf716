package formstate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	helper "masjidku_dashboard/internals/helpers"
)

// handle sosmed: huruf, angka, titik, underscore, dash (tanpa @ di depan), atau URL penuh
var reSosmedHandle = regexp.MustCompile(`^@?[A-Za-z0-9._\-]{1,64}$`)

// nomor WA boleh berspasi/strip: "+62 812-3456"
var rePhoneLike = regexp.MustCompile(`^\+?[0-9\s-]+$`)

func isSosmedHandle(s string) bool {
	if reSosmedHandle.MatchString(s) {
		return true
	}
	return rePhoneLike.MatchString(s) && helper.NormalizeWhatsappNumber(s) != ""
}

// NewValidator: validator dengan tag custom dashboard dan nama field dari tag json.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("latitude_range", func(fl validator.FieldLevel) bool {
		f, ok := floatOf(fl.Field())
		return !ok || helper.IsLatitude(f)
	})
	_ = v.RegisterValidation("longitude_range", func(fl validator.FieldLevel) bool {
		f, ok := floatOf(fl.Field())
		return !ok || helper.IsLongitude(f)
	})
	_ = v.RegisterValidation("domain_name", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s == "" || helper.IsValidDomain(s)
	})
	_ = v.RegisterValidation("sosmed_handle", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if s == "" || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			return true
		}
		return isSosmedHandle(s)
	})
	return v
}

func floatOf(v reflect.Value) (float64, bool) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	}
	return 0, false
}

var tagMessages = map[string]string{
	"required":        "Wajib diisi",
	"latitude_range":  "Latitude harus di antara -90 dan 90",
	"longitude_range": "Longitude harus di antara -180 dan 180",
	"domain_name":     "Domain tidak valid",
	"sosmed_handle":   "Username/handle tidak valid",
	"url":             "URL tidak valid",
	"email":           "Email tidak valid",
	"uuid":            "ID tidak valid",
	"oneof":           "Nilai tidak dikenali",
}

// ValidateStruct: error validator → map field → pesan (bentuk yang sama dengan Form.Errors).
func ValidateStruct(v *validator.Validate, s any) map[string][]string {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return map[string][]string{"_": {err.Error()}}
	}
	out := map[string][]string{}
	for _, fe := range ves {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			switch fe.Tag() {
			case "max":
				msg = "Maksimal " + fe.Param() + " karakter"
			case "min":
				msg = "Minimal " + fe.Param()
			case "gte", "lte", "gt", "lt":
				msg = "Nilai tidak memenuhi batas " + fe.Param()
			default:
				msg = "Tidak valid (" + fe.Tag() + ")"
			}
		}
		out[fe.Field()] = append(out[fe.Field()], msg)
	}
	return out
}
