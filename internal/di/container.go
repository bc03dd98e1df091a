// Package di provides dependency injection configuration for Inkwell.
package di

import (
	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/di/providers"
	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/service"
	"github.com/inkwellapp/inkwell/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvidePayloadStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideCollectionService)
	do.Provide(injector, providers.ProvideChallengeService)
	do.Provide(injector, providers.ProvideHighlightService)
	do.Provide(injector, providers.ProvideProgressService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideSeeder)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideBackupService)

	// Workers
	do.Provide(injector, providers.ProvideInboxWatcher)

	return injector
}

// Bootstrap triggers lazy initialization of the core services so that
// startup failures surface immediately instead of on first use.
func Bootstrap(injector *do.RootScope) error {
	invocations := []func() error{
		func() error { _, err := do.Invoke[*config.Config](injector); return err },
		func() error { _, err := do.Invoke[*logger.Logger](injector); return err },
		func() error { _, err := do.Invoke[*validation.Validator](injector); return err },
		func() error { _, err := do.Invoke[*providers.StoreHandle](injector); return err },
		func() error { _, err := do.Invoke[*providers.PayloadStoreHandle](injector); return err },
		func() error { _, err := do.Invoke[*providers.SearchIndexHandle](injector); return err },
		func() error { _, err := do.Invoke[*service.BookService](injector); return err },
		func() error { _, err := do.Invoke[*service.CollectionService](injector); return err },
		func() error { _, err := do.Invoke[*service.ChallengeService](injector); return err },
		func() error { _, err := do.Invoke[*service.HighlightService](injector); return err },
		func() error { _, err := do.Invoke[*service.ProgressService](injector); return err },
		func() error { _, err := do.Invoke[*service.ProfileService](injector); return err },
		func() error { _, err := do.Invoke[*service.Seeder](injector); return err },
		func() error { _, err := do.Invoke[*service.AdminService](injector); return err },
		func() error { _, err := do.Invoke[*service.BackupService](injector); return err },
	}

	for _, invoke := range invocations {
		if err := invoke(); err != nil {
			return err
		}
	}
	return nil
}
