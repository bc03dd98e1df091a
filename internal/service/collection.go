package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/id"
	"github.com/inkwellapp/inkwell/internal/store"
	"github.com/inkwellapp/inkwell/internal/validation"
)

// CollectionService orchestrates collection operations.
type CollectionService struct {
	store     *store.Store
	hydrator  *Hydrator
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCollectionService creates a new collection service.
func NewCollectionService(s *store.Store, h *Hydrator, v *validation.Validator, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		store:     s,
		hydrator:  h,
		validator: v,
		logger:    logger,
	}
}

// CollectionPatch holds the mutable fields of a collection. Nil fields are
// left unchanged.
type CollectionPatch struct {
	Name        *string
	Description *string
	Books       *[]string
}

// AddCollection creates a new collection. An empty ID gets a generated one.
func (s *CollectionService) AddCollection(ctx context.Context, collection domain.Collection) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if collection.ID == "" {
		cid, err := id.Generate(id.PrefixCollection)
		if err != nil {
			return nil, fmt.Errorf("generate collection id: %w", err)
		}
		collection.ID = cid
	}
	if collection.Books == nil {
		collection.Books = []string{}
	}
	collection.InitTimestamps()

	if err := s.validator.Validate(&collection); err != nil {
		return nil, err
	}

	if err := s.store.Collections.Put(ctx, collection.ID, &collection); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("collection created",
			"collection_id", collection.ID,
			"name", collection.Name,
		)
	}
	return &collection, nil
}

// GetCollections lists every collection as stored, dangling references
// included.
func (s *CollectionService) GetCollections(ctx context.Context) ([]*domain.Collection, error) {
	return s.store.Collections.List(ctx)
}

// GetCollectionViews lists every collection hydrated: book references
// resolved and dangling entries dropped.
func (s *CollectionService) GetCollectionViews(ctx context.Context) ([]*domain.CollectionView, error) {
	collections, err := s.store.Collections.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.CollectionView, 0, len(collections))
	for _, c := range collections {
		view, err := s.hydrator.Collection(ctx, c)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateCollection applies a patch to a collection's mutable fields.
// Returns a NOT_FOUND error when no collection with the id exists.
func (s *CollectionService) UpdateCollection(ctx context.Context, collectionID string, patch CollectionPatch) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock := s.store.Lock(collectionID)
	defer unlock()

	collection, err := s.store.Collections.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		collection.Name = *patch.Name
	}
	if patch.Description != nil {
		collection.Description = *patch.Description
	}
	if patch.Books != nil {
		collection.Books = *patch.Books
	}
	collection.Touch()

	if err := s.validator.Validate(collection); err != nil {
		return nil, err
	}
	if err := s.store.Collections.Put(ctx, collectionID, collection); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("collection updated", "collection_id", collectionID)
	}
	return collection, nil
}

// AddBookToCollection adds an ISBN to a collection's membership. The
// read-modify-write is serialized per collection id so concurrent additions
// cannot lose each other.
func (s *CollectionService) AddBookToCollection(ctx context.Context, collectionID, isbn string) (*domain.Collection, error) {
	return s.mutateMembership(ctx, collectionID, func(c *domain.Collection) bool {
		return c.AddBook(isbn)
	})
}

// RemoveBookFromCollection removes an ISBN from a collection's membership.
func (s *CollectionService) RemoveBookFromCollection(ctx context.Context, collectionID, isbn string) (*domain.Collection, error) {
	return s.mutateMembership(ctx, collectionID, func(c *domain.Collection) bool {
		return c.RemoveBook(isbn)
	})
}

func (s *CollectionService) mutateMembership(ctx context.Context, collectionID string, mutate func(*domain.Collection) bool) (*domain.Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock := s.store.Lock(collectionID)
	defer unlock()

	collection, err := s.store.Collections.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if !mutate(collection) {
		// Membership unchanged; skip the write.
		return collection, nil
	}
	collection.Touch()

	if err := s.store.Collections.Put(ctx, collectionID, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// DeleteCollection removes a collection. The books it referenced are never
// deleted with it. Returns false when no collection existed.
func (s *CollectionService) DeleteCollection(ctx context.Context, collectionID string) (bool, error) {
	existed, err := s.store.Collections.Delete(ctx, collectionID)
	if err != nil {
		return false, err
	}
	if existed && s.logger != nil {
		s.logger.Info("collection deleted", "collection_id", collectionID)
	}
	return existed, nil
}

// GetCollection retrieves a single collection by id.
func (s *CollectionService) GetCollection(ctx context.Context, collectionID string) (*domain.Collection, error) {
	return s.store.Collections.Get(ctx, collectionID)
}

// GetCollectionView retrieves a single collection hydrated.
func (s *CollectionService) GetCollectionView(ctx context.Context, collectionID string) (*domain.CollectionView, error) {
	collection, err := s.store.Collections.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	return s.hydrator.Collection(ctx, collection)
}
