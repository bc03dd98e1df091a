package domain

import (
	"slices"
	"time"
)

// Challenge status values. Status is derived from current reading progress at
// read time and never persisted, so it cannot drift from the underlying data.
const (
	ChallengeCompleted  = "completed"
	ChallengeInProgress = "in_progress"
)

// Challenge is a reading goal over a set of books.
type Challenge struct {
	Record
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description,omitempty"`
	GoalCount   int        `json:"goal_count" validate:"gt=0"`
	Categories  []string   `json:"categories,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	IsPrivate   bool       `json:"is_private"`
	Books       []string   `json:"books"`
}

// AddBook adds an ISBN to the challenge if not already present.
func (c *Challenge) AddBook(isbn string) bool {
	if slices.Contains(c.Books, isbn) {
		return false
	}
	c.Books = append(c.Books, isbn)
	return true
}

// RemoveBook removes an ISBN from the challenge.
func (c *Challenge) RemoveBook(isbn string) bool {
	for i, id := range c.Books {
		if id == isbn {
			c.Books = append(c.Books[:i], c.Books[i+1:]...)
			return true
		}
	}
	return false
}

// ContainsBook checks if an ISBN is in this challenge.
func (c *Challenge) ContainsBook(isbn string) bool {
	return slices.Contains(c.Books, isbn)
}

// StatusFor derives the challenge status from the number of referenced books
// whose reading progress is complete.
func (c *Challenge) StatusFor(completedCount int) string {
	if c.GoalCount > 0 && completedCount >= c.GoalCount {
		return ChallengeCompleted
	}
	return ChallengeInProgress
}

// ChallengeView is a challenge with its book references resolved and the
// derived progress fields computed.
type ChallengeView struct {
	Challenge
	HydratedBooks    []Book `json:"hydrated_books"`
	BooksInChallenge int    `json:"books_in_challenge"`
	CompletedCount   int    `json:"completed_count"`
	Status           string `json:"status"`
}
