package seeds_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	certDTO "masjidku_dashboard/internals/features/certificates/certificates/dto"
	invoiceDTO "masjidku_dashboard/internals/features/finance/invoices/dto"
	masjidDTO "masjidku_dashboard/internals/features/masjids/masjids/dto"
	announcementDTO "masjidku_dashboard/internals/features/school/announcements/dto"
	bookDTO "masjidku_dashboard/internals/features/school/books/dto"
	classDTO "masjidku_dashboard/internals/features/school/classes/dto"
	studentDTO "masjidku_dashboard/internals/features/school/students/dto"
	teacherDTO "masjidku_dashboard/internals/features/school/teachers/dto"
	"masjidku_dashboard/internals/seeds"
)

// setiap fixture harus bisa di-decode ke DTO yang memakainya
func TestFixturesDecode(t *testing.T) {
	assert.NotEmpty(t, seeds.Load[studentDTO.Student]("students"))
	assert.NotEmpty(t, seeds.Load[classDTO.Class]("classes"))
	assert.NotEmpty(t, seeds.Load[teacherDTO.Teacher]("teachers"))
	assert.NotEmpty(t, seeds.Load[bookDTO.Book]("books"))
	assert.NotEmpty(t, seeds.Load[announcementDTO.Announcement]("announcements"))
	assert.NotEmpty(t, seeds.Load[certDTO.Certificate]("certificates"))
	assert.NotEmpty(t, seeds.Load[invoiceDTO.Invoice]("invoices"))
	assert.NotEmpty(t, seeds.Load[masjidDTO.MasjidProfile]("masjids"))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	out := seeds.Load[studentDTO.Student]("tidak-ada")
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestLoad_ReturnsFreshCopy(t *testing.T) {
	a := seeds.Load[studentDTO.Student]("students")
	a[0].Name = "diubah"
	b := seeds.Loader[studentDTO.Student]("students")()
	assert.NotEqual(t, "diubah", b[0].Name)
}
