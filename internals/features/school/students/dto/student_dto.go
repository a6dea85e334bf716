package dto

import (
	helper "masjidku_dashboard/internals/helpers"
)

type Student struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	NIS        string      `json:"nis"`
	Gender     string      `json:"gender"` // L | P
	ClassID    string      `json:"class_id"`
	ClassName  string      `json:"class_name"`
	Status     string      `json:"status"` // active | inactive | graduated
	ParentName string      `json:"parent_name"`
	Phone      string      `json:"phone"`
	JoinedAt   helper.Date `json:"joined_at"`
}

type CreateStudentRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	NIS        string `json:"nis" validate:"omitempty,max=30"`
	Gender     string `json:"gender" validate:"omitempty,oneof=L P"`
	ClassID    string `json:"class_id"`
	Status     string `json:"status" validate:"omitempty,oneof=active inactive graduated"`
	ParentName string `json:"parent_name" validate:"max=120"`
	Phone      string `json:"phone" validate:"max=20"`
	JoinedAt   string `json:"joined_at"`
}

type UpdateStudentRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=120"`
	NIS        *string `json:"nis" validate:"omitempty,max=30"`
	Gender     *string `json:"gender" validate:"omitempty,oneof=L P"`
	ClassID    *string `json:"class_id"`
	Status     *string `json:"status" validate:"omitempty,oneof=active inactive graduated"`
	ParentName *string `json:"parent_name" validate:"omitempty,max=120"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
}

// Patch: hanya field yang dikirim.
func (r UpdateStudentRequest) Patch() map[string]any {
	out := map[string]any{}
	set := func(k string, v *string) {
		if v != nil {
			out[k] = *v
		}
	}
	set("name", r.Name)
	set("nis", r.NIS)
	set("gender", r.Gender)
	set("class_id", r.ClassID)
	set("status", r.Status)
	set("parent_name", r.ParentName)
	set("phone", r.Phone)
	return out
}

var ExportColumns = []helper.ExportColumn{
	{Key: "nis", Label: "NIS"},
	{Key: "name", Label: "Nama"},
	{Key: "gender", Label: "L/P"},
	{Key: "class_name", Label: "Kelas"},
	{Key: "status", Label: "Status"},
	{Key: "parent_name", Label: "Orang Tua/Wali"},
	{Key: "phone", Label: "No. HP"},
	{Key: "joined_at", Label: "Tanggal Masuk"},
}

func ExportRows(items []Student) []helper.ExportRow {
	rows := make([]helper.ExportRow, 0, len(items))
	for _, s := range items {
		rows = append(rows, helper.ExportRow{
			"nis":         s.NIS,
			"name":        s.Name,
			"gender":      s.Gender,
			"class_name":  s.ClassName,
			"status":      s.Status,
			"parent_name": s.ParentName,
			"phone":       s.Phone,
			"joined_at":   s.JoinedAt,
		})
	}
	return rows
}
