package controller

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/features/school/announcements/dto"
	"masjidku_dashboard/internals/features/shared"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/formstate"
	"masjidku_dashboard/internals/helpers/listfilter"
	"masjidku_dashboard/internals/helpers/mutation"
	"masjidku_dashboard/internals/seeds"
)

const EndpointAnnouncements = "/api/a/announcements"

type AnnouncementController struct {
	Kit *shared.Kit
	now func() time.Time
}

func NewAnnouncementController(kit *shared.Kit) *AnnouncementController {
	return &AnnouncementController{Kit: kit, now: time.Now}
}

var announcementSorters = listfilter.Sorters[dto.Announcement]{
	"date": func(desc bool) func(a, b dto.Announcement) bool {
		return listfilter.ByTime(func(x dto.Announcement) *time.Time { return x.Date.Ptr() }, desc)
	},
	"title": func(desc bool) func(a, b dto.Announcement) bool {
		return listfilter.ByString(func(x dto.Announcement) string { return x.Title }, desc)
	},
}

// GET /d/announcements?q=&theme=&is_published=&from=&to=
func (h *AnnouncementController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "date", "desc", helper.DefaultOpts)
	res, err := shared.LoadList(c, h.Kit, EndpointAnnouncements, shared.UpstreamParams(nil), seeds.Loader[dto.Announcement]("announcements"))
	if err != nil {
		return helper.FromError(c, err)
	}

	from, to := shared.DateRange(c)
	crit := listfilter.Criteria[dto.Announcement]{
		Query: c.Query("q"),
		SearchFields: func(x dto.Announcement) []string {
			return []string{x.Title, x.Content}
		},
		Equals: []listfilter.Equality[dto.Announcement]{
			{Value: c.Query("theme"), Field: func(x dto.Announcement) string { return x.Theme }},
			{Value: strings.ToLower(c.Query("is_published")), Field: func(x dto.Announcement) string { return strconv.FormatBool(x.IsPublished) }},
		},
		DateFrom: from,
		DateTo:   to,
		DateOf:   func(x dto.Announcement) *time.Time { return x.Date.Ptr() },
		Less:     announcementSorters.Pick(p.SortBy, p.Desc()),
	}
	return shared.RespondList(c, "ok", res, crit, p)
}

func validDate(v string, _ map[string]string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	if _, err := helper.ParseDate(v); err != nil {
		return "Format tanggal tidak valid"
	}
	return ""
}

func validBool(v string, _ map[string]string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	if _, err := strconv.ParseBool(v); err != nil {
		return "Harus true atau false"
	}
	return ""
}

func announcementForm(in shared.FormInput, creating bool) *formstate.Form {
	f := in.Form
	if creating || in.Has("title") {
		f.Rule("title", formstate.Required("Judul wajib diisi"), formstate.MaxLen(200))
	}
	if creating || in.Has("content") {
		f.Rule("content", formstate.Required("Isi pengumuman wajib diisi"))
	}
	return f.
		Rule("theme", formstate.MaxLen(60)).
		Rule("date", validDate).
		Rule("is_published", validBool).
		Rule("attachment_url", formstate.URL())
}

// normalizeFields: tanggal → YYYY-MM-DD, boolean → "true"/"false".
func normalizeFields(fields map[string]string) {
	if v, ok := fields["date"]; ok && v != "" {
		if t, err := helper.ParseDate(v); err == nil {
			fields["date"] = t.In(helper.WIB).Format("2006-01-02")
		}
	}
	if v, ok := fields["is_published"]; ok && v != "" {
		b, _ := strconv.ParseBool(v)
		fields["is_published"] = strconv.FormatBool(b)
	}
}

// POST /d/announcements (JSON atau multipart dengan "attachment")
func (h *AnnouncementController) Create(c *fiber.Ctx) error {
	in, err := shared.FormFrom(c, dto.FormKeys...)
	if err != nil {
		return helper.FromError(c, err)
	}
	if errs := announcementForm(in, true).Errors(); len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}
	attachment, err := shared.UploadedAttachment(c, "attachment")
	if err != nil {
		return helper.FromError(c, err)
	}

	fields := in.Fields()
	if fields["date"] == "" {
		fields["date"] = h.now().In(helper.WIB).Format("2006-01-02")
	}
	normalizeFields(fields)

	m := mutation.Mutation{
		Entity:     "announcement",
		Action:     mutation.ActionCreate,
		Method:     http.MethodPost,
		Path:       EndpointAnnouncements,
		Invalidate: []string{EndpointAnnouncements},
	}
	withPayload(&m, shared.UploadKey(c, "announcement:new"), fields, attachment)

	res, err := h.Kit.Mutate(c, m)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Pengumuman berhasil dibuat", shared.MutationData(res))
}

// PATCH /d/announcements/:id
func (h *AnnouncementController) Update(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	in, err := shared.FormFrom(c, dto.FormKeys...)
	if err != nil {
		return helper.FromError(c, err)
	}
	if errs := announcementForm(in, false).Errors(); len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}
	attachment, err := shared.UploadedAttachment(c, "attachment")
	if err != nil {
		return helper.FromError(c, err)
	}

	fields := in.Fields()
	normalizeFields(fields)
	if len(fields) == 0 && attachment == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada perubahan")
	}

	m := mutation.Mutation{
		Entity:     "announcement",
		Action:     mutation.ActionUpdate,
		EntityID:   id,
		Method:     http.MethodPatch,
		Path:       EndpointAnnouncements + "/" + url.PathEscape(id),
		Invalidate: []string{EndpointAnnouncements},
		Optimistic: &mutation.Optimistic{
			Endpoint: EndpointAnnouncements,
			ID:       id,
			Patch: func(item map[string]any) map[string]any {
				for k, v := range fields {
					if k == "is_published" {
						b, _ := strconv.ParseBool(v)
						item[k] = b
						continue
					}
					item[k] = v
				}
				return item
			},
		},
	}
	withPayload(&m, shared.UploadKey(c, "announcement:"+id), fields, attachment)

	res, err := h.Kit.Mutate(c, m)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Pengumuman diperbarui", shared.MutationData(res))
}

// DELETE /d/announcements/:id
func (h *AnnouncementController) Delete(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "announcement",
		Action:     mutation.ActionDelete,
		EntityID:   id,
		Method:     http.MethodDelete,
		Path:       EndpointAnnouncements + "/" + url.PathEscape(id),
		Invalidate: []string{EndpointAnnouncements},
		Optimistic: &mutation.Optimistic{Endpoint: EndpointAnnouncements, ID: id, Remove: true},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Pengumuman dihapus", shared.MutationData(res))
}

func withPayload(m *mutation.Mutation, uploadKey string, fields map[string]string, attachment *helper.UploadFile) {
	if attachment == nil {
		body := make(map[string]any, len(fields))
		for k, v := range fields {
			if k == "is_published" {
				b, _ := strconv.ParseBool(v)
				body[k] = b
				continue
			}
			body[k] = v
		}
		m.Body = body
		return
	}
	m.UploadKey = uploadKey
	m.Fields = fields
	m.Files = shared.FilesOf(attachment)
}
