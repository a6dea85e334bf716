package dto

// BookUsage: keterikatan buku ke kelas/section/mapel.
type BookUsage struct {
	ClassID     string `json:"class_id"`
	ClassName   string `json:"class_name"`
	SectionID   string `json:"section_id"`
	SectionName string `json:"section_name"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
}

type Book struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Author      string      `json:"author"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	ImageURL    string      `json:"image_url"`
	Slug        string      `json:"slug"`
	Usages      []BookUsage `json:"usages"`
	UsageCount  int         `json:"usage_count"`
}

// field form yang diterima saat create/update (multipart atau JSON)
var FormKeys = []string{"title", "author", "description", "url", "slug"}

type SlugSuggestion struct {
	Base      string `json:"base"`
	Suggested string `json:"suggested"`
	Available bool   `json:"available"`
}
