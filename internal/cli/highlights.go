package cli

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/service"
)

var highlightsCmd = &cobra.Command{
	Use:   "highlights",
	Short: "Manage highlights",
}

var highlightsListCmd = &cobra.Command{
	Use:   "list [isbn]",
	Short: "List highlights, optionally for one book",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		highlights := do.MustInvoke[*service.HighlightService](a.injector)

		var (
			all []*domain.Highlight
			err error
		)
		if len(args) == 1 {
			all, err = highlights.GetHighlightsForBook(ctx, args[0])
		} else {
			all, err = highlights.GetHighlights(ctx)
		}
		if err != nil {
			return err
		}

		if len(all) == 0 {
			fmt.Println("No highlights.")
			return nil
		}
		for _, h := range all {
			fmt.Printf("%s  [%s]  %q", h.ID, h.BookISBN, h.Text)
			if h.Note != "" {
				fmt.Printf("  (note: %s)", h.Note)
			}
			fmt.Println()
		}
		return nil
	}),
}

var highlightAddFlags struct {
	color string
	note  string
	cfi   string
	page  int
}

var highlightsAddCmd = &cobra.Command{
	Use:   "add <isbn> <text>",
	Short: "Add a highlight to a book",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		highlights := do.MustInvoke[*service.HighlightService](a.injector)

		h, err := highlights.AddHighlight(ctx, domain.Highlight{
			BookISBN: args[0],
			Text:     args[1],
			Color:    highlightAddFlags.color,
			Note:     highlightAddFlags.note,
			CFIRange: highlightAddFlags.cfi,
			Page:     highlightAddFlags.page,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added highlight %s\n", h.ID)
		return nil
	}),
}

var highlightsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a highlight",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		highlights := do.MustInvoke[*service.HighlightService](a.injector)

		existed, err := highlights.DeleteHighlight(ctx, args[0])
		if err != nil {
			return err
		}
		if !existed {
			fmt.Printf("No highlight with id %s\n", args[0])
			return nil
		}
		fmt.Println("Deleted.")
		return nil
	}),
}

func init() {
	highlightsAddCmd.Flags().StringVar(&highlightAddFlags.color, "color", "yellow", "highlight color")
	highlightsAddCmd.Flags().StringVar(&highlightAddFlags.note, "note", "", "attached note")
	highlightsAddCmd.Flags().StringVar(&highlightAddFlags.cfi, "cfi", "", "EPUB CFI range")
	highlightsAddCmd.Flags().IntVar(&highlightAddFlags.page, "page", 0, "page number")

	highlightsCmd.AddCommand(highlightsListCmd, highlightsAddCmd, highlightsRmCmd)
	rootCmd.AddCommand(highlightsCmd)
}
