package domain

// User is the single local profile. The store supports exactly one concurrent
// user; setting a new profile replaces the existing one.
type User struct {
	Record
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}
