package domain

import "time"

// Highlight is a saved text selection within a book. BookISBN is a soft
// reference; the highlight survives deletion of the book it annotates.
type Highlight struct {
	ID        string    `json:"id" validate:"required"`
	BookISBN  string    `json:"book_isbn" validate:"required"`
	Text      string    `json:"text" validate:"required"`
	Color     string    `json:"color,omitempty"`
	Note      string    `json:"note,omitempty"`
	CFIRange  string    `json:"cfi_range,omitempty"`
	Page      int       `json:"page,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
