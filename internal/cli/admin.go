package cli

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkwellapp/inkwell/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate an empty library with starter data",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		seeder := do.MustInvoke[*service.Seeder](a.injector)

		seeded, err := seeder.Seed(ctx)
		if err != nil {
			return err
		}
		if !seeded {
			fmt.Println("Library already has books; nothing seeded.")
			return nil
		}
		fmt.Println("Starter library created. Run `inkwell list` to see it.")
		return nil
	}),
}

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete ALL library data: books, files, progress, everything",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		if !clearYes {
			return fmt.Errorf("refusing to wipe the library without --yes")
		}

		admin := do.MustInvoke[*service.AdminService](a.injector)
		if err := admin.ClearAllData(ctx); err != nil {
			return err
		}
		fmt.Println("All library data cleared.")
		return nil
	}),
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index from the store",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		admin := do.MustInvoke[*service.AdminService](a.injector)

		n, err := admin.RebuildSearchIndex(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d books\n", n)
		return nil
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library record counts",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		admin := do.MustInvoke[*service.AdminService](a.injector)

		stats, err := admin.GetStats(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Books:       %d\n", stats.Books)
		fmt.Printf("Collections: %d\n", stats.Collections)
		fmt.Printf("Challenges:  %d\n", stats.Challenges)
		fmt.Printf("Highlights:  %d\n", stats.Highlights)
		fmt.Printf("Progress:    %d\n", stats.Progress)
		return nil
	}),
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "confirm deletion")

	rootCmd.AddCommand(seedCmd, clearCmd, reindexCmd, statsCmd)
}
