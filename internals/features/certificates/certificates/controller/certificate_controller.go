package controller

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/features/certificates/certificates/dto"
	"masjidku_dashboard/internals/features/shared"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/listfilter"
	"masjidku_dashboard/internals/helpers/mutation"
	"masjidku_dashboard/internals/seeds"
)

const (
	EndpointCertificates = "/api/a/certificates"
	slugMaxLen           = 160
)

type CertificateController struct {
	Kit *shared.Kit
	now func() time.Time
}

func NewCertificateController(kit *shared.Kit) *CertificateController {
	return &CertificateController{Kit: kit, now: time.Now}
}

var certificateSorters = listfilter.Sorters[dto.Certificate]{
	"issued_at": func(desc bool) func(a, b dto.Certificate) bool {
		return listfilter.ByTime(func(x dto.Certificate) *time.Time { return x.IssuedAt.Ptr() }, desc)
	},
	"student_name": func(desc bool) func(a, b dto.Certificate) bool {
		return listfilter.ByString(func(x dto.Certificate) string { return x.StudentName }, desc)
	},
	"number": func(desc bool) func(a, b dto.Certificate) bool {
		return listfilter.ByString(func(x dto.Certificate) string { return x.Number }, desc)
	},
}

// GET /d/certificates?q=&status=&student_id=&from=&to=
func (h *CertificateController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "issued_at", "desc", helper.DefaultOpts)
	res, err := shared.LoadList(c, h.Kit, EndpointCertificates, shared.UpstreamParams(nil), seeds.Loader[dto.Certificate]("certificates"))
	if err != nil {
		return helper.FromError(c, err)
	}

	from, to := shared.DateRange(c)
	crit := listfilter.Criteria[dto.Certificate]{
		Query: c.Query("q"),
		SearchFields: func(x dto.Certificate) []string {
			return []string{x.Title, x.StudentName, x.Number}
		},
		Equals: []listfilter.Equality[dto.Certificate]{
			{Value: c.Query("status"), Field: func(x dto.Certificate) string { return x.Status }},
			{Value: c.Query("student_id"), Field: func(x dto.Certificate) string { return x.StudentID }},
		},
		DateFrom: from,
		DateTo:   to,
		DateOf:   func(x dto.Certificate) *time.Time { return x.IssuedAt.Ptr() },
		Less:     certificateSorters.Pick(p.SortBy, p.Desc()),
	}
	return shared.RespondList(c, "ok", res, crit, p)
}

// POST /d/certificates
func (h *CertificateController) Create(c *fiber.Ctx) error {
	var req dto.CreateCertificateRequest
	if handled, err := h.Kit.BindAndValidate(c, &req); handled {
		return err
	}

	issued := h.now()
	if strings.TrimSpace(req.IssuedAt) != "" {
		t, err := helper.ParseDate(req.IssuedAt)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{"issued_at": {"Format tanggal tidak valid"}})
		}
		issued = t
	}
	status := dto.StatusDraft
	if req.Publish {
		status = dto.StatusPublished
	}
	title := strings.TrimSpace(req.Title)

	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity: "certificate",
		Action: mutation.ActionCreate,
		Method: http.MethodPost,
		Path:   EndpointCertificates,
		Body: fiber.Map{
			"title":        title,
			"student_id":   req.StudentID,
			"student_name": strings.TrimSpace(req.StudentName),
			"number":       strings.TrimSpace(req.Number),
			"issued_at":    issued.In(helper.WIB).Format("2006-01-02"),
			"status":       status,
			"slug":         helper.Slugify(title+" "+req.StudentName, slugMaxLen),
		},
		Invalidate: []string{EndpointCertificates},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Sertifikat berhasil dibuat", shared.MutationData(res))
}

// setStatus: publish/revoke dengan patch status optimistik.
func (h *CertificateController) setStatus(c *fiber.Ctx, action mutation.Action, status string, body any) (mutation.Result, error) {
	id := strings.TrimSpace(c.Params("id"))
	return h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "certificate",
		Action:     action,
		EntityID:   id,
		Method:     http.MethodPost,
		Path:       EndpointCertificates + "/" + url.PathEscape(id) + "/" + string(action),
		Body:       body,
		Invalidate: []string{EndpointCertificates},
		Optimistic: &mutation.Optimistic{
			Endpoint: EndpointCertificates,
			ID:       id,
			Patch: func(item map[string]any) map[string]any {
				item["status"] = status
				return item
			},
		},
	})
}

// POST /d/certificates/:id/publish
func (h *CertificateController) Publish(c *fiber.Ctx) error {
	res, err := h.setStatus(c, mutation.ActionPublish, dto.StatusPublished, nil)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Sertifikat diterbitkan", shared.MutationData(res))
}

// POST /d/certificates/:id/revoke
func (h *CertificateController) Revoke(c *fiber.Ctx) error {
	var req dto.RevokeRequest
	if len(c.Body()) > 0 {
		if handled, err := h.Kit.BindAndValidate(c, &req); handled {
			return err
		}
	}
	res, err := h.setStatus(c, mutation.ActionRevoke, dto.StatusRevoked, fiber.Map{"reason": strings.TrimSpace(req.Reason)})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Sertifikat dicabut", shared.MutationData(res))
}

// DELETE /d/certificates/:id
func (h *CertificateController) Delete(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "certificate",
		Action:     mutation.ActionDelete,
		EntityID:   id,
		Method:     http.MethodDelete,
		Path:       EndpointCertificates + "/" + url.PathEscape(id),
		Invalidate: []string{EndpointCertificates},
		Optimistic: &mutation.Optimistic{Endpoint: EndpointCertificates, ID: id, Remove: true},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Sertifikat dihapus", shared.MutationData(res))
}
