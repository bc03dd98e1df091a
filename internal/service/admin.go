package service

import (
	"context"
	"log/slog"

	"github.com/inkwellapp/inkwell/internal/payload"
	"github.com/inkwellapp/inkwell/internal/search"
	"github.com/inkwellapp/inkwell/internal/store"
)

// AdminService covers lifecycle operations that touch every subsystem at
// once: first-run initialization and the destructive full reset.
type AdminService struct {
	store    *store.Store
	payloads *payload.Store
	index    *search.Index
	logger   *slog.Logger
}

// NewAdminService creates a new admin service. index may be nil when search
// is disabled.
func NewAdminService(s *store.Store, p *payload.Store, index *search.Index, logger *slog.Logger) *AdminService {
	return &AdminService{
		store:    s,
		payloads: p,
		index:    index,
		logger:   logger,
	}
}

// Init marks the store as initialized. Safe to call repeatedly.
func (s *AdminService) Init(ctx context.Context) error {
	return s.store.Init(ctx)
}

// Initialized reports whether the store has been initialized.
func (s *AdminService) Initialized() bool {
	return s.store.Initialized()
}

// ClearAllData wipes every entity table, all stored book payloads, and the
// search index. The store stays initialized afterwards.
func (s *AdminService) ClearAllData(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	if err := s.payloads.Clear(); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.Rebuild(ctx, nil); err != nil {
			return err
		}
	}
	if s.logger != nil {
		s.logger.Info("cleared all library data")
	}
	return nil
}

// RebuildSearchIndex reindexes every book from the store.
func (s *AdminService) RebuildSearchIndex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}
	books, err := s.store.Books.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.index.Rebuild(ctx, books); err != nil {
		return 0, err
	}
	return len(books), nil
}

// Stats summarizes the current library contents.
type Stats struct {
	Books       int `json:"books"`
	Collections int `json:"collections"`
	Challenges  int `json:"challenges"`
	Highlights  int `json:"highlights"`
	Progress    int `json:"progress"`
}

// GetStats counts every entity table.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	for _, c := range []struct {
		dest  *int
		count func(context.Context) (int, error)
	}{
		{&stats.Books, s.store.Books.Count},
		{&stats.Collections, s.store.Collections.Count},
		{&stats.Challenges, s.store.Challenges.Count},
		{&stats.Highlights, s.store.Highlights.Count},
		{&stats.Progress, s.store.Progress.Count},
	} {
		n, err := c.count(ctx)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}
	return stats, nil
}
