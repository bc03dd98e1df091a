package domain

import "slices"

// Collection is a named grouping of books. Membership is held as a list of
// ISBNs; entries are soft references and may point at books that no longer
// exist. Dangling entries are filtered when the collection is hydrated for
// display, never removed from storage.
type Collection struct {
	Record
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"collection_name" validate:"required"`
	Description string   `json:"collection_description,omitempty"`
	Books       []string `json:"books"`
}

// AddBook adds an ISBN to the collection if not already present.
// Returns false if the ISBN was already a member.
func (c *Collection) AddBook(isbn string) bool {
	if slices.Contains(c.Books, isbn) {
		return false
	}
	c.Books = append(c.Books, isbn)
	return true
}

// RemoveBook removes an ISBN from the collection.
// Returns false if the ISBN was not a member.
func (c *Collection) RemoveBook(isbn string) bool {
	for i, id := range c.Books {
		if id == isbn {
			c.Books = append(c.Books[:i], c.Books[i+1:]...)
			return true
		}
	}
	return false
}

// ContainsBook checks if an ISBN is in this collection.
func (c *Collection) ContainsBook(isbn string) bool {
	return slices.Contains(c.Books, isbn)
}

// CollectionView is a collection with its book references resolved.
// Books that no longer exist are omitted from the hydrated list.
type CollectionView struct {
	Collection
	HydratedBooks []Book `json:"hydrated_books"`
}
