package controller

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"masjidku_dashboard/internals/features/school/books/dto"
	"masjidku_dashboard/internals/features/shared"
	helper "masjidku_dashboard/internals/helpers"
	"masjidku_dashboard/internals/helpers/formstate"
	"masjidku_dashboard/internals/helpers/listfilter"
	"masjidku_dashboard/internals/helpers/mutation"
	"masjidku_dashboard/internals/seeds"
)

const (
	EndpointBooks = "/api/a/books"
	slugMaxLen    = 120
)

type BooksController struct {
	Kit *shared.Kit
}

func NewBooksController(kit *shared.Kit) *BooksController { return &BooksController{Kit: kit} }

var bookSorters = listfilter.Sorters[dto.Book]{
	"title": func(desc bool) func(a, b dto.Book) bool {
		return listfilter.ByString(func(b dto.Book) string { return b.Title }, desc)
	},
	"author": func(desc bool) func(a, b dto.Book) bool {
		return listfilter.ByString(func(b dto.Book) string { return b.Author }, desc)
	},
	"usage_count": func(desc bool) func(a, b dto.Book) bool {
		return listfilter.ByNumber(func(b dto.Book) float64 { return float64(b.UsageCount) }, desc)
	},
}

func usedInClass(b dto.Book, classID string) bool {
	for _, u := range b.Usages {
		if strings.EqualFold(u.ClassID, classID) {
			return true
		}
	}
	return false
}

func (h *BooksController) load(c *fiber.Ctx) (shared.ListResult[dto.Book], error) {
	res, err := shared.LoadList(c, h.Kit, EndpointBooks, shared.UpstreamParams(nil), seeds.Loader[dto.Book]("books"))
	if err != nil {
		return res, err
	}
	for i := range res.Items {
		if res.Items[i].Usages == nil {
			res.Items[i].Usages = []dto.BookUsage{}
		}
		res.Items[i].UsageCount = len(res.Items[i].Usages)
	}
	return res, nil
}

// GET /d/books?q=&class_id=&sort=title_asc
func (h *BooksController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "title", "asc", helper.DefaultOpts)
	res, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	classID := c.Query("class_id")
	crit := listfilter.Criteria[dto.Book]{
		Query: c.Query("q"),
		SearchFields: func(b dto.Book) []string {
			return []string{b.Title, b.Author, b.Slug}
		},
		Less: bookSorters.Pick(p.SortBy, p.Desc()),
	}
	if !listfilter.IsSentinel(classID) {
		// buku dipakai banyak kelas: filter keanggotaan, bukan kesetaraan satu field
		crit.Equals = []listfilter.Equality[dto.Book]{{
			Value: "1",
			Field: func(b dto.Book) string {
				if usedInClass(b, classID) {
					return "1"
				}
				return "0"
			},
		}}
	}
	return shared.RespondList(c, "ok", res, crit, p)
}

// GET /d/books/slug-suggestion?name=&exclude_id=
func (h *BooksController) SlugSuggestion(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "name wajib diisi")
	}
	res, err := h.load(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	exclude := c.Query("exclude_id")
	taken := make([]string, 0, len(res.Items))
	for _, b := range res.Items {
		if b.ID != exclude {
			taken = append(taken, b.Slug)
		}
	}
	base := helper.Slugify(name, slugMaxLen)
	suggested := helper.UniqueSlugAmong(base, taken, slugMaxLen)
	return helper.JsonOK(c, "ok", dto.SlugSuggestion{Base: base, Suggested: suggested, Available: suggested == base})
}

func bookForm(in shared.FormInput, creating bool) *formstate.Form {
	f := in.Form
	if creating || in.Has("title") {
		f.Rule("title", formstate.Required("Judul wajib diisi"), formstate.MaxLen(200))
	}
	return f.
		Rule("author", formstate.MaxLen(150)).
		Rule("url", formstate.URL()).
		Rule("slug", formstate.MaxLen(slugMaxLen))
}

// POST /d/books (multipart: title, author, description, url, slug, image)
func (h *BooksController) Create(c *fiber.Ctx) error {
	in, err := shared.FormFrom(c, dto.FormKeys...)
	if err != nil {
		return helper.FromError(c, err)
	}
	if errs := bookForm(in, true).Errors(); len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}
	image, err := shared.UploadedImage(c, "image")
	if err != nil {
		return helper.FromError(c, err)
	}

	fields := in.Fields()
	if fields["slug"] == "" {
		fields["slug"] = helper.Slugify(fields["title"], slugMaxLen)
	} else {
		fields["slug"] = helper.Slugify(fields["slug"], slugMaxLen)
	}

	m := mutation.Mutation{
		Entity:     "book",
		Action:     mutation.ActionCreate,
		Method:     http.MethodPost,
		Path:       EndpointBooks,
		Invalidate: []string{EndpointBooks},
	}
	withPayload(&m, shared.UploadKey(c, "book:new"), fields, image)

	res, err := h.Kit.Mutate(c, m)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Buku berhasil dibuat", shared.MutationData(res))
}

// PATCH /d/books/:id
func (h *BooksController) Update(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	in, err := shared.FormFrom(c, dto.FormKeys...)
	if err != nil {
		return helper.FromError(c, err)
	}
	if errs := bookForm(in, false).Errors(); len(errs) > 0 {
		return helper.JsonValidationError(c, errs)
	}
	image, err := shared.UploadedImage(c, "image")
	if err != nil {
		return helper.FromError(c, err)
	}

	fields := in.Fields()
	if s, ok := fields["slug"]; ok && s != "" {
		fields["slug"] = helper.Slugify(s, slugMaxLen)
	}
	if len(fields) == 0 && image == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada perubahan")
	}

	m := mutation.Mutation{
		Entity:     "book",
		Action:     mutation.ActionUpdate,
		EntityID:   id,
		Method:     http.MethodPatch,
		Path:       EndpointBooks + "/" + url.PathEscape(id),
		Invalidate: []string{EndpointBooks},
		Optimistic: &mutation.Optimistic{
			Endpoint: EndpointBooks,
			ID:       id,
			Patch: func(item map[string]any) map[string]any {
				for k, v := range fields {
					item[k] = v
				}
				return item
			},
		},
	}
	withPayload(&m, shared.UploadKey(c, "book:"+id), fields, image)

	res, err := h.Kit.Mutate(c, m)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Buku diperbarui", shared.MutationData(res))
}

// DELETE /d/books/:id
func (h *BooksController) Delete(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	res, err := h.Kit.Mutate(c, mutation.Mutation{
		Entity:     "book",
		Action:     mutation.ActionDelete,
		EntityID:   id,
		Method:     http.MethodDelete,
		Path:       EndpointBooks + "/" + url.PathEscape(id),
		Invalidate: []string{EndpointBooks},
		Optimistic: &mutation.Optimistic{Endpoint: EndpointBooks, ID: id, Remove: true},
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Buku dihapus", shared.MutationData(res))
}

// withPayload: dengan gambar → multipart (upload key per buku), tanpa gambar → JSON.
func withPayload(m *mutation.Mutation, uploadKey string, fields map[string]string, image *helper.UploadFile) {
	if image == nil {
		m.Body = fields
		return
	}
	m.UploadKey = uploadKey
	m.Fields = fields
	m.Files = shared.FilesOf(image)
}
