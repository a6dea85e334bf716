package dto

import (
	helper "masjidku_dashboard/internals/helpers"
)

type Announcement struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	Theme         string      `json:"theme"`
	Date          helper.Date `json:"date"`
	IsPublished   bool        `json:"is_published"`
	AttachmentURL string      `json:"attachment_url"`
}

// FormKeys: field multipart/JSON yang diterima saat create/update.
var FormKeys = []string{"title", "content", "theme", "date", "is_published", "attachment_url"}
