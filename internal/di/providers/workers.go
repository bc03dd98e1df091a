package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/service"
	"github.com/inkwellapp/inkwell/internal/watcher"
)

// InboxWatcherHandle manages the inbox watcher's lifecycle. Watcher is nil
// when watching is disabled in configuration.
type InboxWatcherHandle struct {
	Watcher *watcher.Watcher
	cancel  context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *InboxWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideInboxWatcher provides the import-folder watcher and starts it in
// the background when enabled.
func ProvideInboxWatcher(i do.Injector) (*InboxWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Watch.Enabled {
		log.Debug("inbox watching disabled")
		return &InboxWatcherHandle{}, nil
	}

	books := do.MustInvoke[*service.BookService](i)

	w, err := watcher.New(watcher.Options{Dir: cfg.Watch.Dir},
		func(ctx context.Context, data []byte, fileName string) error {
			_, err := books.AddBookFromEpub(ctx, domain.Book{}, data, fileName)
			return err
		},
		log.Logger,
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := w.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("inbox watcher stopped", "error", err)
		}
	}()

	return &InboxWatcherHandle{Watcher: w, cancel: cancel}, nil
}
