package cli

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkwellapp/inkwell/internal/di/providers"
	"github.com/inkwellapp/inkwell/internal/search"
)

var searchFlags struct {
	genre string
	limit int
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over titles and authors",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		index := do.MustInvoke[*providers.SearchIndexHandle](a.injector)

		params := search.DefaultParams()
		params.Query = args[0]
		params.Genre = searchFlags.genre
		if searchFlags.limit > 0 {
			params.Limit = searchFlags.limit
		}

		result, err := index.Search(ctx, params)
		if err != nil {
			return err
		}

		if result.Total == 0 {
			fmt.Println("No matches.")
			return nil
		}
		fmt.Printf("%d matches (%dms)\n", result.Total, result.TookMs)
		for _, hit := range result.Hits {
			fmt.Printf("  %s  %s by %s", hit.ISBN, hit.Title, hit.Author)
			if hit.Genre != "" {
				fmt.Printf("  [%s]", hit.Genre)
			}
			fmt.Println()
		}
		return nil
	}),
}

func init() {
	searchCmd.Flags().StringVar(&searchFlags.genre, "genre", "", "restrict to an exact genre")
	searchCmd.Flags().IntVar(&searchFlags.limit, "limit", 0, "maximum number of hits")
	rootCmd.AddCommand(searchCmd)
}
