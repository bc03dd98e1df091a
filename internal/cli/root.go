// Package cli implements the inkwell command line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkwellapp/inkwell/internal/di"
	"github.com/inkwellapp/inkwell/internal/di/providers"
	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/service"
)

var rootCmd = &cobra.Command{
	Use:           "inkwell",
	Short:         "Inkwell manages your personal e-book library",
	Long:          "Inkwell is a local-first e-book library: books, collections, reading progress, highlights, challenges, and portable backups, all stored on this machine.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app bundles the DI container for one command invocation.
type app struct {
	injector *do.RootScope
}

// newApp boots the container and makes sure the store is initialized, so
// every command works out of the box on a fresh data directory.
func newApp(ctx context.Context) (*app, error) {
	injector := di.NewContainer()
	if err := di.Bootstrap(injector); err != nil {
		return nil, err
	}

	admin := do.MustInvoke[*service.AdminService](injector)
	if err := admin.Init(ctx); err != nil {
		return nil, err
	}

	return &app{injector: injector}, nil
}

func (a *app) close() {
	log := do.MustInvoke[*logger.Logger](a.injector)
	if err := a.injector.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}

	// Wrapper handles are shut down explicitly; the container only calls
	// Shutdown on services it instantiated itself.
	if storeHandle, err := do.Invoke[*providers.StoreHandle](a.injector); err == nil {
		_ = storeHandle.Shutdown()
	}
	if searchHandle, err := do.Invoke[*providers.SearchIndexHandle](a.injector); err == nil {
		_ = searchHandle.Shutdown()
	}
}

func mustLogger(a *app) *slog.Logger {
	return do.MustInvoke[*logger.Logger](a.injector).Logger
}

// withApp wraps a command body with container setup and teardown.
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(ctx, a, args)
	}
}
