package types

import "time"

// AdminLoginRequest is the body of POST /admin/login.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateAdminRequest registers a dashboard administrator.
type CreateAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse carries the signed admin token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
}

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment,omitempty" validate:"max=2000"`
}

// Validate validates the AdminLoginRequest.
func (r *AdminLoginRequest) Validate() error {
	return Validator().Struct(r)
}

// Validate validates the CreateAdminRequest.
func (r *CreateAdminRequest) Validate() error {
	return Validator().Struct(r)
}

// Validate validates the FeedbackRequest.
func (r *FeedbackRequest) Validate() error {
	return Validator().Struct(r)
}
