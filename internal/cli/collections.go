package cli

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/service"
)

var collectionsCmd = &cobra.Command{
	Use:     "collections",
	Aliases: []string{"col"},
	Short:   "Manage collections",
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections with their books",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		collections := do.MustInvoke[*service.CollectionService](a.injector)

		views, err := collections.GetCollectionViews(ctx)
		if err != nil {
			return err
		}
		if len(views) == 0 {
			fmt.Println("No collections.")
			return nil
		}

		for _, v := range views {
			fmt.Printf("%s  %s (%d books)\n", v.ID, v.Name, len(v.HydratedBooks))
			for _, b := range v.HydratedBooks {
				fmt.Printf("    %s  %s\n", b.ISBN, b.Title)
			}
		}
		return nil
	}),
}

var collectionDescription string

var collectionsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		collections := do.MustInvoke[*service.CollectionService](a.injector)

		c, err := collections.AddCollection(ctx, domain.Collection{
			Name:        args[0],
			Description: collectionDescription,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created collection %s (%s)\n", c.Name, c.ID)
		return nil
	}),
}

var collectionsAddCmd = &cobra.Command{
	Use:   "add <collection-id> <isbn>",
	Short: "Add a book to a collection",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		collections := do.MustInvoke[*service.CollectionService](a.injector)

		c, err := collections.AddBookToCollection(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s now has %d books\n", c.Name, len(c.Books))
		return nil
	}),
}

var collectionsRemoveCmd = &cobra.Command{
	Use:   "remove <collection-id> <isbn>",
	Short: "Remove a book from a collection",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		collections := do.MustInvoke[*service.CollectionService](a.injector)

		c, err := collections.RemoveBookFromCollection(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s now has %d books\n", c.Name, len(c.Books))
		return nil
	}),
}

var collectionsRmCmd = &cobra.Command{
	Use:   "rm <collection-id>",
	Short: "Delete a collection (books are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		collections := do.MustInvoke[*service.CollectionService](a.injector)

		existed, err := collections.DeleteCollection(ctx, args[0])
		if err != nil {
			return err
		}
		if !existed {
			fmt.Printf("No collection with id %s\n", args[0])
			return nil
		}
		fmt.Println("Deleted.")
		return nil
	}),
}

func init() {
	collectionsCreateCmd.Flags().StringVar(&collectionDescription, "description", "", "collection description")

	collectionsCmd.AddCommand(collectionsListCmd, collectionsCreateCmd, collectionsAddCmd, collectionsRemoveCmd, collectionsRmCmd)
	rootCmd.AddCommand(collectionsCmd)
}
