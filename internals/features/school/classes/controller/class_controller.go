package controller

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/features/school/classes/dto"
	"masjidku_dashboard/internals/features/school/classes/service"
	"masjidku_dashboard/internals/features/shared"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/listfilter"
	"masjidku_dashboard/internals/helpers/mutation"
	"masjidku_dashboard/internals/seeds"
)

const EndpointClasses = "/api/a/classes"

type ClassController struct {
	Kit *shared.Kit
	now func() time.Time
}

func NewClassController(kit *shared.Kit) *ClassController {
	return &ClassController{Kit: kit, now: time.Now}
}

var classSorters = listfilter.Sorters[dto.Class]{
	"name": func(desc bool) func(a, b dto.Class) bool {
		return listfilter.ByString(func(c dto.Class) string { return c.Name }, desc)
	},
	"student_count": func(desc bool) func(a, b dto.Class) bool {
		return listfilter.ByNumber(func(c dto.Class) float64 { return float64(c.StudentCount) }, desc)
	},
	// kelas tanpa jadwal mendatang selalu di akhir
	"next_event": func(desc bool) func(a, b dto.Class) bool {
		return listfilter.ByTime(func(c dto.Class) *time.Time { return c.NextEventAt }, desc)
	},
}

// GET /d/classes?q=&level=&sort=next_event_asc
func (h *ClassController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	res, err := shared.LoadList(c, h.Kit, EndpointClasses, shared.UpstreamParams(nil), seeds.Loader[dto.Class]("classes"))
	if err != nil {
		return helper.FromError(c, err)
	}
	res.Items = service.WithNextEvent(res.Items, h.now())

	crit := listfilter.Criteria[dto.Class]{
		Query: c.Query("q"),
		SearchFields: func(x dto.Class) []string {
			return []string{x.Name, x.HomeroomTeacher}
		},
		Equals: []listfilter.Equality[dto.Class]{
			{Value: c.Query("level"), Field: func(x dto.Class) string { return x.Level }},
		},
		Less: classSorters.Pick(p.SortBy, p.Desc()),
	}
	return shared.RespondList(c, "ok", res, crit, p)
}

// POST /d/classes
func (h *ClassController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if handled, err := h.Kit.BindAndValidate(c, &req); handled {
		return err
	}
	schedules, errs := service.ScheduleBody(req.Schedules)
	if len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}

	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity: "class",
		Action: mutation.ActionCreate,
		Method: http.MethodPost,
		Path:   EndpointClasses,
		Body: fiber.Map{
			"name":             strings.TrimSpace(req.Name),
			"level":            strings.TrimSpace(req.Level),
			"homeroom_teacher": strings.TrimSpace(req.HomeroomTeacher),
			"schedules":        schedules,
		},
		Invalidate: []string{EndpointClasses},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Kelas berhasil dibuat", shared.MutationData(res))
}

// PATCH /d/classes/:id
func (h *ClassController) Update(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	var req dto.UpdateClassRequest
	if handled, err := h.Kit.BindAndValidate(c, &req); handled {
		return err
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Level != nil {
		patch["level"] = strings.TrimSpace(*req.Level)
	}
	if req.HomeroomTeacher != nil {
		patch["homeroom_teacher"] = strings.TrimSpace(*req.HomeroomTeacher)
	}
	if req.Schedules != nil {
		schedules, errs := service.ScheduleBody(*req.Schedules)
		if len(errs) > 0 {
			return helper.JsonValidationError(c, errs)
		}
		patch["schedules"] = schedules
	}
	if len(patch) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada perubahan")
	}

	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "class",
		Action:     mutation.ActionUpdate,
		EntityID:   id,
		Method:     http.MethodPatch,
		Path:       EndpointClasses + "/" + url.PathEscape(id),
		Body:       patch,
		Invalidate: []string{EndpointClasses},
		Optimistic: &mutation.Optimistic{
			Endpoint: EndpointClasses,
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
	return helper.JsonUpdated(c, "Kelas diperbarui", shared.MutationData(res))
}

// DELETE /d/classes/:id
func (h *ClassController) Delete(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "class",
		Action:     mutation.ActionDelete,
		EntityID:   id,
		Method:     http.MethodDelete,
		Path:       EndpointClasses + "/" + url.PathEscape(id),
		Invalidate: []string{EndpointClasses, "/api/a/students", "/api/a/books"},
		Optimistic: &mutation.Optimistic{Endpoint: EndpointClasses, ID: id, Remove: true},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Kelas dihapus", shared.MutationData(res))
}
