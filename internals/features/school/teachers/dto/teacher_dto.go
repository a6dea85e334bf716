package dto

type Teacher struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject"`
	IsActive bool   `json:"is_active"`
}

type CreateTeacherRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"max=20"`
	Subject  string `json:"subject" validate:"max=80"`
	IsActive *bool  `json:"is_active"`
}

type UpdateTeacherRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=120"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Subject  *string `json:"subject" validate:"omitempty,max=80"`
	IsActive *bool   `json:"is_active"`
}

func (r UpdateTeacherRequest) Patch() map[string]any {
	out := map[string]any{}
	if r.Name != nil {
		out["name"] = *r.Name
	}
	if r.Email != nil {
		out["email"] = *r.Email
	}
	if r.Phone != nil {
		out["phone"] = *r.Phone
	}
	if r.Subject != nil {
		out["subject"] = *r.Subject
	}
	if r.IsActive != nil {
		out["is_active"] = *r.IsActive
	}
	return out
}
