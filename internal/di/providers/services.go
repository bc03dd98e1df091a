package providers

import (
	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/logger"
	"github.com/inkwellapp/inkwell/internal/service"
	"github.com/inkwellapp/inkwell/internal/validation"
)

// appVersion is recorded in backup manifests. Overridden at release time.
const appVersion = "dev"

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	payloads := do.MustInvoke[*PayloadStoreHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, payloads.Store, index.Index, v, log.Logger), nil
}

// ProvideCollectionService provides the collection service.
func ProvideCollectionService(i do.Injector) (*service.CollectionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	hydrator := service.NewHydrator(storeHandle.Store)
	return service.NewCollectionService(storeHandle.Store, hydrator, v, log.Logger), nil
}

// ProvideChallengeService provides the challenge service.
func ProvideChallengeService(i do.Injector) (*service.ChallengeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	hydrator := service.NewHydrator(storeHandle.Store)
	return service.NewChallengeService(storeHandle.Store, hydrator, v, log.Logger), nil
}

// ProvideHighlightService provides the highlight service.
func ProvideHighlightService(i do.Injector) (*service.HighlightService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewHighlightService(storeHandle.Store, v, log.Logger), nil
}

// ProvideProgressService provides the reading progress service.
func ProvideProgressService(i do.Injector) (*service.ProgressService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProgressService(storeHandle.Store, log.Logger), nil
}

// ProvideProfileService provides the user profile and settings service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, v, log.Logger), nil
}

// ProvideSeeder provides the starter data seeder.
func ProvideSeeder(i do.Injector) (*service.Seeder, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	books := do.MustInvoke[*service.BookService](i)
	collections := do.MustInvoke[*service.CollectionService](i)
	highlights := do.MustInvoke[*service.HighlightService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSeeder(storeHandle.Store, books, collections, highlights, log.Logger), nil
}

// ProvideAdminService provides the lifecycle service.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	payloads := do.MustInvoke[*PayloadStoreHandle](i)
	index := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAdminService(storeHandle.Store, payloads.Store, index.Index, log.Logger), nil
}

// ProvideBackupService provides archive export and import.
func ProvideBackupService(i do.Injector) (*service.BackupService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	payloads := do.MustInvoke[*PayloadStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBackupService(storeHandle.Store, payloads.Store, cfg.Backup.Dir, appVersion, log.Logger), nil
}
