package controller

import (
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/features/masjids/masjids/dto"
	"masjidku_dashboard/internals/features/masjids/masjids/service"
	"masjidku_dashboard/internals/features/shared"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/formstate"
	"masjidku_dashboard/internals/helpers/mutation"
	authMw "masjidku_dashboard/internals/middlewares/auth"
	"masjidku_dashboard/internals/seeds"
)

const (
	EndpointProfile       = "/api/a/masjids/profile"
	EndpointPublicMasjids = "/public/masjids/"
)

type ProfileController struct {
	Kit *shared.Kit
}

func NewProfileController(kit *shared.Kit) *ProfileController { return &ProfileController{Kit: kit} }

// fixtureForSession: masjid aktif di sesi, atau masjid pertama di data contoh.
func fixtureForSession(c *fiber.Ctx) func() (dto.MasjidProfile, bool) {
	return func() (dto.MasjidProfile, bool) {
		all := seeds.Load[dto.MasjidProfile]("masjids")
		if len(all) == 0 {
			return dto.MasjidProfile{}, false
		}
		if s := authMw.SessionFrom(c); s != nil && s.MasjidID != "" {
			for _, m := range all {
				if m.ID == s.MasjidID {
					return m, true
				}
			}
		}
		return all[0], true
	}
}

func (h *ProfileController) load(c *fiber.Ctx) (shared.ObjectResult[dto.MasjidProfile], error) {
	return shared.LoadObject(c, h.Kit, shared.Scope(c), EndpointProfile, fixtureForSession(c))
}

// GET /d/profile
func (h *ProfileController) Get(c *fiber.Ctx) error {
	res, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonListEx(c, "ok", fiber.Map{
		"masjid":   res.Item,
		"links":    service.Linktree(res.Item),
		"maps_url": service.MapsURL(res.Item),
	}, nil, res.Includes())
}

// parseProfileForm: baca → normalisasi → pasang rules.
func parseProfileForm(c *fiber.Ctx) (*formstate.Form, shared.FormInput, error) {
	in, err := shared.FormFrom(c, dto.ProfileFormKeys...)
	if err != nil {
		return nil, in, err
	}
	values := service.Normalize(in.Fields(), in.Has)
	f := service.Rules(formstate.New(values), in.Has("name"))
	return f, in, nil
}

// POST /d/profile/validate: cek form tanpa menyimpan (untuk validasi live di form).
func (h *ProfileController) Validate(c *fiber.Ctx) error {
	f, _, err := parseProfileForm(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	base := dto.MasjidProfile{}
	if res, err := h.load(c); err == nil {
		base = res.Item
	}
	values := f.Values()
	errs := f.Errors()
	return helper.JsonOK(c, "ok", dto.ProfileValidation{
		Valid:  len(errs) == 0,
		Errors: errs,
		Values: values,
		Links:  service.Linktree(service.ApplyValues(base, values)),
	})
}

// PATCH /d/profile (JSON atau multipart dengan "image")
func (h *ProfileController) Update(c *fiber.Ctx) error {
	f, _, err := parseProfileForm(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	image, err := shared.UploadedImage(c, "image")
	if err != nil {
		return helper.FromError(c, err)
	}

	var out any
	errs, err := f.Submit(func(values map[string]string) error {
		if len(values) == 0 && image == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tidak ada perubahan")
		}
		masjidID := ""
		if s := authMw.SessionFrom(c); s != nil {
			masjidID = s.MasjidID
		}
		body := service.UpstreamBody(values)

		m := mutation.Mutation{
			Entity:     "masjid_profile",
			Action:     mutation.ActionUpdate,
			EntityID:   masjidID,
			Method:     http.MethodPatch,
			Path:       EndpointProfile,
			Invalidate: []string{EndpointProfile},
			Optimistic: &mutation.Optimistic{
				Endpoint: EndpointProfile,
				ID:       masjidID,
				Patch: func(item map[string]any) map[string]any {
					for k, v := range body {
						item[k] = v
					}
					return item
				},
			},
		}
		if image != nil {
			m.UploadKey = shared.UploadKey(c, "masjid_profile")
			m.Fields = values
			m.Files = shared.FilesOf(image)
		} else {
			m.Body = body
		}

		res, err := h.Kit.Mutate(c, m)
		if err != nil {
			return err
		}
		// halaman publik di-cache lintas pengunjung
		if _, err := h.Kit.Cache.Invalidate(c.UserContext(), shared.ScopePublic+"|"+EndpointPublicMasjids); err != nil {
			log.Printf("[CACHE] invalidasi halaman publik gagal: %v", err)
		}
		out = shared.MutationData(res)
		return nil
	})
	if errs != nil {
		return helper.JsonValidationError(c, errs)
	}
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Profil masjid diperbarui", out)
}
