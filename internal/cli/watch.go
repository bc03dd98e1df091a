package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/service"
	"github.com/inkwellapp/inkwell/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inbox directory and import dropped EPUB files",
	Long:  "Watches the configured inbox directory (INKWELL_WATCH_DIR, default <data>/inbox) and adds every .epub dropped into it. Runs until interrupted.",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		cfg := do.MustInvoke[*config.Config](a.injector)
		books := do.MustInvoke[*service.BookService](a.injector)
		log := mustLogger(a)

		w, err := watcher.New(watcher.Options{Dir: cfg.Watch.Dir},
			func(ctx context.Context, data []byte, fileName string) error {
				book, err := books.AddBookFromEpub(ctx, domain.Book{}, data, fileName)
				if err != nil {
					return err
				}
				fmt.Printf("Added %q by %s (isbn %s)\n", book.Title, book.Author, book.ISBN)
				return nil
			},
			log,
		)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %s, drop .epub files there, Ctrl-C to stop\n", cfg.Watch.Dir)
		err = w.Start(ctx)
		stopErr := w.Stop()
		if err != nil && ctx.Err() == nil {
			return err
		}
		return stopErr
	}),
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
