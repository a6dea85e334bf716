package controller

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/features/school/students/dto"
	"masjidku_dashboard/internals/features/shared"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/listfilter"
	"masjidku_dashboard/internals/helpers/mutation"
	"masjidku_dashboard/internals/seeds"
)

const EndpointStudents = "/api/a/students"

type StudentController struct {
	Kit *shared.Kit
}

func NewStudentController(kit *shared.Kit) *StudentController { return &StudentController{Kit: kit} }

var studentSorters = listfilter.Sorters[dto.Student]{
	"name": func(desc bool) func(a, b dto.Student) bool {
		return listfilter.ByString(func(s dto.Student) string { return s.Name }, desc)
	},
	"nis": func(desc bool) func(a, b dto.Student) bool {
		return listfilter.ByString(func(s dto.Student) string { return s.NIS }, desc)
	},
	"class_name": func(desc bool) func(a, b dto.Student) bool {
		return listfilter.ByString(func(s dto.Student) string { return s.ClassName }, desc)
	},
	"joined_at": func(desc bool) func(a, b dto.Student) bool {
		return listfilter.ByTime(func(s dto.Student) *time.Time { return s.JoinedAt.Ptr() }, desc)
	},
}

func criteria(c *fiber.Ctx, p helper.Params) listfilter.Criteria[dto.Student] {
	from, to := shared.DateRange(c)
	return listfilter.Criteria[dto.Student]{
		Query: c.Query("q"),
		SearchFields: func(s dto.Student) []string {
			return []string{s.Name, s.NIS, s.ParentName}
		},
		Equals: []listfilter.Equality[dto.Student]{
			{Value: c.Query("status"), Field: func(s dto.Student) string { return s.Status }},
			{Value: c.Query("class_id"), Field: func(s dto.Student) string { return s.ClassID }},
			{Value: c.Query("gender"), Field: func(s dto.Student) string { return s.Gender }},
		},
		DateFrom: from,
		DateTo:   to,
		DateOf:   func(s dto.Student) *time.Time { return s.JoinedAt.Ptr() },
		Less:     studentSorters.Pick(p.SortBy, p.Desc()),
	}
}

func (h *StudentController) load(c *fiber.Ctx) (shared.ListResult[dto.Student], error) {
	return shared.LoadList(c, h.Kit, EndpointStudents, shared.UpstreamParams(nil), seeds.Loader[dto.Student]("students"))
}

// GET /d/students?q=&status=&class_id=&gender=&sort=name_asc
func (h *StudentController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	res, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	return shared.RespondList(c, "ok", res, criteria(c, p), p)
}

// GET /d/students/export.csv
func (h *StudentController) ExportCSV(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.ExportOpts)
	res, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := shared.ExportableList(res); err != nil {
		return helper.FromError(c, err)
	}
	items := listfilter.Apply(res.Items, criteria(c, p))
	return helper.SendCSV(c, "siswa", dto.ExportColumns, dto.ExportRows(items))
}

// POST /d/students
func (h *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if handled, err := h.Kit.BindAndValidate(c, &req); handled {
		return err
	}
	body := fiber.Map{
		"name":        strings.TrimSpace(req.Name),
		"nis":         strings.TrimSpace(req.NIS),
		"gender":      req.Gender,
		"class_id":    req.ClassID,
		"status":      req.Status,
		"parent_name": strings.TrimSpace(req.ParentName),
		"phone":       strings.TrimSpace(req.Phone),
	}
	if body["status"] == "" {
		body["status"] = "active"
	}
	if strings.TrimSpace(req.JoinedAt) != "" {
		t, err := helper.ParseDate(req.JoinedAt)
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{"joined_at": {"Format tanggal tidak valid"}})
		}
		body["joined_at"] = t.Format("2006-01-02")
	}

	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "student",
		Action:     mutation.ActionCreate,
		Method:     http.MethodPost,
		Path:       EndpointStudents,
		Body:       body,
		Invalidate: []string{EndpointStudents, "/api/a/classes"},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Siswa berhasil ditambahkan", shared.MutationData(res))
}

// PATCH /d/students/:id
func (h *StudentController) Update(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	var req dto.UpdateStudentRequest
	if handled, err := h.Kit.BindAndValidate(c, &req); handled {
		return err
	}
	patch := req.Patch()
	if len(patch) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada perubahan")
	}

	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "student",
		Action:     mutation.ActionUpdate,
		EntityID:   id,
		Method:     http.MethodPatch,
		Path:       EndpointStudents + "/" + url.PathEscape(id),
		Body:       patch,
		Invalidate: []string{EndpointStudents},
		Optimistic: &mutation.Optimistic{
			Endpoint: EndpointStudents,
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
	return helper.JsonUpdated(c, "Data siswa diperbarui", shared.MutationData(res))
}

// DELETE /d/students/:id
func (h *StudentController) Delete(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "student",
		Action:     mutation.ActionDelete,
		EntityID:   id,
		Method:     http.MethodDelete,
		Path:       EndpointStudents + "/" + url.PathEscape(id),
		Invalidate: []string{EndpointStudents, "/api/a/classes"},
		Optimistic: &mutation.Optimistic{Endpoint: EndpointStudents, ID: id, Remove: true},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Siswa dihapus", shared.MutationData(res))
}
