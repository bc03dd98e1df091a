package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkwellapp/inkwell/internal/domain"
	apperrors "github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/epub"
	"github.com/inkwellapp/inkwell/internal/service"
)

var addFlags struct {
	isbn   string
	title  string
	author string
	genre  string
}

var addCmd = &cobra.Command{
	Use:   "add [file.epub]",
	Short: "Add a book, from an EPUB file or from flags alone",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		books := do.MustInvoke[*service.BookService](a.injector)

		hint := domain.Book{
			ISBN:   addFlags.isbn,
			Title:  addFlags.title,
			Author: addFlags.author,
			Genre:  addFlags.genre,
		}

		var (
			book *domain.Book
			err  error
		)
		if len(args) == 1 {
			path := args[0]
			if !epub.Sniff(path) {
				return fmt.Errorf("%s does not look like an EPUB file", path)
			}
			data, readErr := os.ReadFile(path)
			if readErr != nil {
				return readErr
			}
			book, err = books.AddBookFromEpub(ctx, hint, data, path)
		} else {
			book, err = books.AddBook(ctx, hint, nil, "")
		}
		if err != nil {
			return err
		}

		fmt.Printf("Added %q by %s (isbn %s)\n", book.Title, book.Author, book.ISBN)
		return nil
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every book in the library",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		books := do.MustInvoke[*service.BookService](a.injector)

		all, err := books.GetAllBooks(ctx)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Println("Library is empty. Add a book with `inkwell add` or run `inkwell seed`.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ISBN\tTITLE\tAUTHOR\tGENRE")
		for _, b := range all {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ISBN, b.Title, b.Author, b.Genre)
		}
		return w.Flush()
	}),
}

var showCmd = &cobra.Command{
	Use:   "show <isbn>",
	Short: "Show one book's details and reading state",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		books := do.MustInvoke[*service.BookService](a.injector)
		progress := do.MustInvoke[*service.ProgressService](a.injector)
		highlights := do.MustInvoke[*service.HighlightService](a.injector)

		book, err := books.GetBook(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n  Author: %s\n  Genre:  %s\n  ISBN:   %s\n", book.Title, book.Author, book.Genre, book.ISBN)

		if p, err := progress.GetReadingProgress(ctx, book.ISBN); err == nil {
			fmt.Printf("  Progress: %.0f%%\n", p.CurrentPercentage)
		} else if !apperrors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		hs, err := highlights.GetHighlightsForBook(ctx, book.ISBN)
		if err != nil {
			return err
		}
		if len(hs) > 0 {
			fmt.Printf("  Highlights: %d\n", len(hs))
		}
		return nil
	}),
}

var rmCmd = &cobra.Command{
	Use:   "rm <isbn>",
	Short: "Delete a book and its stored file",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		books := do.MustInvoke[*service.BookService](a.injector)

		existed, err := books.DeleteBook(ctx, args[0])
		if err != nil {
			return err
		}
		if !existed {
			fmt.Printf("No book with isbn %s\n", args[0])
			return nil
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	}),
}

var fileOutput string

var fileCmd = &cobra.Command{
	Use:   "file <isbn>",
	Short: "Copy a book's stored file out of the library",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		books := do.MustInvoke[*service.BookService](a.injector)

		rc, meta, err := books.GetBookFile(ctx, args[0])
		if err != nil {
			return err
		}
		defer rc.Close()

		out := fileOutput
		if out == "" {
			out = meta.FileName
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		n, err := io.Copy(f, rc)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d bytes)\n", out, n)
		return nil
	}),
}

func init() {
	fileCmd.Flags().StringVarP(&fileOutput, "output", "o", "", "destination path (default: original file name)")

	addCmd.Flags().StringVar(&addFlags.isbn, "isbn", "", "ISBN (overrides EPUB metadata)")
	addCmd.Flags().StringVar(&addFlags.title, "title", "", "title (overrides EPUB metadata)")
	addCmd.Flags().StringVar(&addFlags.author, "author", "", "author (overrides EPUB metadata)")
	addCmd.Flags().StringVar(&addFlags.genre, "genre", "", "genre")

	rootCmd.AddCommand(addCmd, listCmd, showCmd, rmCmd, fileCmd)
}
