package dto

// UpdateProfileRequest covers the PATCH /auth/me contract: both
// passwords together change the credential, a lone email changes the
// email, name and contact fields patch the profile details, an empty
// body is a no-op.
type UpdateProfileRequest struct {
	Email         string `json:"email,omitempty" binding:"omitempty,email"`
	OldPassword   string `json:"old_password,omitempty"`
	NewPassword   string `json:"new_password,omitempty" binding:"omitempty,min=8"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
}

// UpdatePasswordRequest is the admin-assisted password change.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// AdminCreateUserRequest creates a user without the verification flow.
type AdminCreateUserRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	IsSuperAdmin bool   `json:"is_super_admin,omitempty"`
}

// PaginatedUsers is the list-users page envelope.
type PaginatedUsers struct {
	Items      []*UserResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	HasNext    bool            `json:"has_next"`
	HasPrev    bool            `json:"has_prev"`
}

// NewPaginatedUsers computes the page envelope. TotalPages is the
// ceiling of total/limit and stays 0 for an empty collection.
func NewPaginatedUsers(items []*UserResponse, total int64, page, limit int) *PaginatedUsers {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &PaginatedUsers{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && totalPages > 0,
	}
}
