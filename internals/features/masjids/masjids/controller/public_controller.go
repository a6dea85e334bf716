package controller

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/constants"
	"masjidku_dashboard/internals/features/masjids/masjids/dto"
	"masjidku_dashboard/internals/features/masjids/masjids/service"
	"masjidku_dashboard/internals/features/shared"
	helper "masjidku_dashboard/internals/helpers"
	authMw "masjidku_dashboard/internals/middlewares/auth"
	"masjidku_dashboard/internals/seeds"
)

type PublicController struct {
	Kit *shared.Kit
}

func NewPublicController(kit *shared.Kit) *PublicController { return &PublicController{Kit: kit} }

func fixtureBySlug(slug string) func() (dto.MasjidProfile, bool) {
	return func() (dto.MasjidProfile, bool) {
		for _, m := range seeds.Load[dto.MasjidProfile]("masjids") {
			if strings.EqualFold(m.Slug, slug) {
				return m, true
			}
		}
		return dto.MasjidProfile{}, false
	}
}

func (h *PublicController) load(c *fiber.Ctx) (shared.ObjectResult[dto.MasjidProfile], error) {
	slug := strings.ToLower(strings.TrimSpace(c.Params("slug")))
	if slug == "" {
		return shared.ObjectResult[dto.MasjidProfile]{}, fiber.NewError(fiber.StatusBadRequest, "Slug wajib diisi")
	}
	return shared.LoadObject(c, h.Kit, shared.ScopePublic, EndpointPublicMasjids+url.PathEscape(slug), fixtureBySlug(slug))
}

// canEdit: pengurus masjid ini yang sedang login.
func canEdit(c *fiber.Ctx, m dto.MasjidProfile) bool {
	s := authMw.SessionFrom(c)
	if s == nil || m.ID == "" || s.MasjidID != m.ID {
		return false
	}
	for _, r := range s.Roles {
		for _, allowed := range constants.AdminAndAbove {
			if strings.EqualFold(r, allowed) {
				return true
			}
		}
	}
	return false
}

// GET /public/masjids/:slug
func (h *PublicController) Detail(c *fiber.Ctx) error {
	res, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonListEx(c, "ok", dto.PublicMasjid{
		Masjid:  res.Item,
		Links:   service.Linktree(res.Item),
		MapsURL: service.MapsURL(res.Item),
		CanEdit: canEdit(c, res.Item),
	}, nil, res.Includes())
}

// GET /public/masjids/:slug/linktree
func (h *PublicController) Linktree(c *fiber.Ctx) error {
	res, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	m := res.Item
	return helper.JsonListEx(c, "ok", fiber.Map{
		"slug":      m.Slug,
		"name":      m.Name,
		"bio_short": m.BioShort,
		"image_url": m.ImageURL,
		"links":     service.Linktree(m),
		"can_edit":  canEdit(c, m),
	}, nil, res.Includes())
}
