package domain

import "time"

// ReadingProgress tracks how far through a book the reader is.
// Exactly one record exists per ISBN; updates are upserts with
// last-write-wins resolution by UpdatedAt.
type ReadingProgress struct {
	ISBN              string    `json:"isbn" validate:"required"`
	CurrentPercentage float64   `json:"current_percentage" validate:"gte=0,lte=100"`
	CurrentCFI        string    `json:"current_cfi,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsComplete reports whether the book has been read to the end.
// A book counts toward challenge completion only at exactly 100%.
func (p *ReadingProgress) IsComplete() bool {
	return p.CurrentPercentage == 100
}
