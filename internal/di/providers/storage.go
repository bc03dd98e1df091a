package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/payload"
	"github.com/inkwellapp/inkwell/internal/search"
	"github.com/inkwellapp/inkwell/internal/store"
)

// StoreHandle wraps the entity store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the entity store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Store.DataDir, "db")
	db, err := store.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("entity store opened", "path", dbPath, "initialized", db.Initialized())

	return &StoreHandle{Store: db}, nil
}

// PayloadStoreHandle wraps the binary payload store.
type PayloadStoreHandle struct {
	*payload.Store
}

// ProvidePayloadStore provides the binary payload store.
func ProvidePayloadStore(i do.Injector) (*PayloadStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	p, err := payload.NewStore(filepath.Join(cfg.Store.DataDir, "books"))
	if err != nil {
		return nil, err
	}
	return &PayloadStoreHandle{Store: p}, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the full-text search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Store.DataDir,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &SearchIndexHandle{Index: index}, nil
}
