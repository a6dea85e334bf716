package dto

import (
	"time"

	helper "masjidku_dashboard/internals/helpers"
)

type Schedule struct {
	Day string      `json:"day"`
	At  helper.Date `json:"at"`
}

type Class struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Level           string     `json:"level"`
	HomeroomTeacher string     `json:"homeroom_teacher"`
	StudentCount    int        `json:"student_count"`
	Schedules       []Schedule `json:"schedules"`

	// turunan; tidak dikirim ke upstream
	NextEventAt *time.Time `json:"next_event_at"`
}

type ScheduleInput struct {
	Day string `json:"day" validate:"required,oneof=senin selasa rabu kamis jumat sabtu ahad"`
	At  string `json:"at" validate:"required"`
}

type CreateClassRequest struct {
	Name            string          `json:"name" validate:"required,max=80"`
	Level           string          `json:"level" validate:"max=20"`
	HomeroomTeacher string          `json:"homeroom_teacher" validate:"max=120"`
	Schedules       []ScheduleInput `json:"schedules" validate:"omitempty,dive"`
}

type UpdateClassRequest struct {
	Name            *string          `json:"name" validate:"omitempty,max=80"`
	Level           *string          `json:"level" validate:"omitempty,max=20"`
	HomeroomTeacher *string          `json:"homeroom_teacher" validate:"omitempty,max=120"`
	Schedules       *[]ScheduleInput `json:"schedules" validate:"omitempty,dive"`
}
