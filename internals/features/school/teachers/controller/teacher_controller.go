package controller

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/features/school/teachers/dto"
	"masjidku_dashboard/internals/features/shared"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/listfilter"
	"masjidku_dashboard/internals/helpers/mutation"
	"masjidku_dashboard/internals/seeds"
)

const EndpointTeachers = "/api/a/teachers"

type TeacherController struct {
	Kit *shared.Kit
}

func NewTeacherController(kit *shared.Kit) *TeacherController { return &TeacherController{Kit: kit} }

var teacherSorters = listfilter.Sorters[dto.Teacher]{
	"name": func(desc bool) func(a, b dto.Teacher) bool {
		return listfilter.ByString(func(t dto.Teacher) string { return t.Name }, desc)
	},
	"subject": func(desc bool) func(a, b dto.Teacher) bool {
		return listfilter.ByString(func(t dto.Teacher) string { return t.Subject }, desc)
	},
}

// GET /d/teachers?q=&is_active=true&subject=
func (h *TeacherController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	res, err := shared.LoadList(c, h.Kit, EndpointTeachers, shared.UpstreamParams(nil), seeds.Loader[dto.Teacher]("teachers"))
	if err != nil {
		return helper.FromError(c, err)
	}

	crit := listfilter.Criteria[dto.Teacher]{
		Query: c.Query("q"),
		SearchFields: func(t dto.Teacher) []string {
			return []string{t.Name, t.Email, t.Subject}
		},
		Equals: []listfilter.Equality[dto.Teacher]{
			{Value: strings.ToLower(c.Query("is_active")), Field: func(t dto.Teacher) string { return strconv.FormatBool(t.IsActive) }},
			{Value: c.Query("subject"), Field: func(t dto.Teacher) string { return t.Subject }},
		},
		Less: teacherSorters.Pick(p.SortBy, p.Desc()),
	}
	return shared.RespondList(c, "ok", res, crit, p)
}

// POST /d/teachers
func (h *TeacherController) Create(c *fiber.Ctx) error {
	var req dto.CreateTeacherRequest
	if handled, err := h.Kit.BindAndValidate(c, &req); handled {
		return err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity: "teacher",
		Action: mutation.ActionCreate,
		Method: http.MethodPost,
		Path:   EndpointTeachers,
		Body: fiber.Map{
			"name":      strings.TrimSpace(req.Name),
			"email":     strings.ToLower(strings.TrimSpace(req.Email)),
			"phone":     strings.TrimSpace(req.Phone),
			"subject":   strings.TrimSpace(req.Subject),
			"is_active": active,
		},
		Invalidate: []string{EndpointTeachers},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Pengajar berhasil ditambahkan", shared.MutationData(res))
}

// PATCH /d/teachers/:id
func (h *TeacherController) Update(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	var req dto.UpdateTeacherRequest
	if handled, err := h.Kit.BindAndValidate(c, &req); handled {
		return err
	}
	patch := req.Patch()
	if len(patch) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada perubahan")
	}

	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "teacher",
		Action:     mutation.ActionUpdate,
		EntityID:   id,
		Method:     http.MethodPatch,
		Path:       EndpointTeachers + "/" + url.PathEscape(id),
		Body:       patch,
		Invalidate: []string{EndpointTeachers},
		Optimistic: &mutation.Optimistic{
			Endpoint: EndpointTeachers,
			ID:       id,
			Patch: func(item map[string]any) map[string]any {
				for k, v := range patch {
					item[k] = v
				}
				return item
			},
		},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Data pengajar diperbarui", shared.MutationData(res))
}

// DELETE /d/teachers/:id
func (h *TeacherController) Delete(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "teacher",
		Action:     mutation.ActionDelete,
		EntityID:   id,
		Method:     http.MethodDelete,
		Path:       EndpointTeachers + "/" + url.PathEscape(id),
		Invalidate: []string{EndpointTeachers},
		Optimistic: &mutation.Optimistic{Endpoint: EndpointTeachers, ID: id, Remove: true},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Pengajar dihapus", shared.MutationData(res))
}
