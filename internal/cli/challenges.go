package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/service"
)

var challengesCmd = &cobra.Command{
	Use:     "challenges",
	Aliases: []string{"chal"},
	Short:   "Manage reading challenges",
}

var challengesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List challenges with derived progress",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		challenges := do.MustInvoke[*service.ChallengeService](a.injector)

		views, err := challenges.GetChallenges(ctx)
		if err != nil {
			return err
		}
		if len(views) == 0 {
			fmt.Println("No challenges.")
			return nil
		}

		for _, v := range views {
			fmt.Printf("%s  %s  %d/%d finished  [%s]\n", v.ID, v.Title, v.CompletedCount, v.GoalCount, v.Status)
			if v.Deadline != nil {
				fmt.Printf("    deadline %s\n", v.Deadline.Format("2006-01-02"))
			}
		}
		return nil
	}),
}

var challengeCreateFlags struct {
	goal        int
	description string
	deadline    string
	private     bool
}

var challengesCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a reading challenge",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		challenges := do.MustInvoke[*service.ChallengeService](a.injector)

		challenge := domain.Challenge{
			Title:       args[0],
			Description: challengeCreateFlags.description,
			GoalCount:   challengeCreateFlags.goal,
			IsPrivate:   challengeCreateFlags.private,
		}
		if challengeCreateFlags.deadline != "" {
			d, err := time.Parse("2006-01-02", challengeCreateFlags.deadline)
			if err != nil {
				return fmt.Errorf("deadline must be YYYY-MM-DD: %w", err)
			}
			challenge.Deadline = &d
		}

		c, err := challenges.AddChallenge(ctx, challenge)
		if err != nil {
			return err
		}
		fmt.Printf("Created challenge %s (%s)\n", c.Title, c.ID)
		return nil
	}),
}

var challengesAddCmd = &cobra.Command{
	Use:   "add <challenge-id> <isbn>",
	Short: "Add a book to a challenge",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		challenges := do.MustInvoke[*service.ChallengeService](a.injector)

		v, err := challenges.AddBookToChallenge(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d/%d finished [%s]\n", v.Title, v.CompletedCount, v.GoalCount, v.Status)
		return nil
	}),
}

var challengesRemoveCmd = &cobra.Command{
	Use:   "remove <challenge-id> <isbn>",
	Short: "Remove a book from a challenge",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		challenges := do.MustInvoke[*service.ChallengeService](a.injector)

		v, err := challenges.RemoveBookFromChallenge(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d/%d finished [%s]\n", v.Title, v.CompletedCount, v.GoalCount, v.Status)
		return nil
	}),
}

var challengesRmCmd = &cobra.Command{
	Use:   "rm <challenge-id>",
	Short: "Delete a challenge (books are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		challenges := do.MustInvoke[*service.ChallengeService](a.injector)

		existed, err := challenges.DeleteChallenge(ctx, args[0])
		if err != nil {
			return err
		}
		if !existed {
			fmt.Printf("No challenge with id %s\n", args[0])
			return nil
		}
		fmt.Println("Deleted.")
		return nil
	}),
}

func init() {
	challengesCreateCmd.Flags().IntVar(&challengeCreateFlags.goal, "goal", 1, "number of books to finish")
	challengesCreateCmd.Flags().StringVar(&challengeCreateFlags.description, "description", "", "challenge description")
	challengesCreateCmd.Flags().StringVar(&challengeCreateFlags.deadline, "deadline", "", "deadline as YYYY-MM-DD")
	challengesCreateCmd.Flags().BoolVar(&challengeCreateFlags.private, "private", false, "hide from shared views")

	challengesCmd.AddCommand(challengesListCmd, challengesCreateCmd, challengesAddCmd, challengesRemoveCmd, challengesRmCmd)
	rootCmd.AddCommand(challengesCmd)
}
