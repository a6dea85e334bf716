package dto

import (
	helper "masjidku_dashboard/internals/helpers"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusRevoked   = "revoked"
)

type Certificate struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	StudentID   string      `json:"student_id"`
	StudentName string      `json:"student_name"`
	Number      string      `json:"number"`
	IssuedAt    helper.Date `json:"issued_at"`
	Status      string      `json:"status"`
	Slug        string      `json:"slug"`
}

type CreateCertificateRequest struct {
	Title       string `json:"title" validate:"required,max=160"`
	StudentID   string `json:"student_id" validate:"required"`
	StudentName string `json:"student_name" validate:"max=120"`
	Number      string `json:"number" validate:"max=60"`
	IssuedAt    string `json:"issued_at"`
	Publish     bool   `json:"publish"`
}

type RevokeRequest struct {
	Reason string `json:"reason" validate:"max=300"`
}
