package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	apperrors "github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/service"
)

var progressCFI string

var progressCmd = &cobra.Command{
	Use:   "progress <isbn> [percentage]",
	Short: "Show or update reading progress for a book",
	Args:  cobra.RangeArgs(1, 2),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		progress := do.MustInvoke[*service.ProgressService](a.injector)
		isbn := args[0]

		if len(args) == 1 {
			p, err := progress.GetReadingProgress(ctx, isbn)
			if apperrors.Is(err, apperrors.ErrNotFound) {
				fmt.Printf("No reading progress for %s\n", isbn)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s: %.0f%% (updated %s)\n", isbn, p.CurrentPercentage, p.UpdatedAt.Format(time.RFC3339))
			return nil
		}

		pct, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("percentage must be a number: %w", err)
		}

		p, err := progress.UpdateReadingProgress(ctx, isbn, pct, progressCFI, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("%s: %.0f%%\n", isbn, p.CurrentPercentage)
		return nil
	}),
}

func init() {
	progressCmd.Flags().StringVar(&progressCFI, "cfi", "", "reading position as an EPUB CFI")
	rootCmd.AddCommand(progressCmd)
}
