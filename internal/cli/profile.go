package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/inkwellapp/inkwell/internal/domain"
	apperrors "github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/service"
)

var profileFlags struct {
	name  string
	email string
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the local user profile",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		profile := do.MustInvoke[*service.ProfileService](a.injector)

		if profileFlags.name == "" && profileFlags.email == "" {
			user, err := profile.GetUser(ctx)
			if apperrors.Is(err, apperrors.ErrNotFound) {
				fmt.Println("No profile yet. Create one with `inkwell profile --name <name>`.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s", user.Name)
			if user.Email != "" {
				fmt.Printf(" <%s>", user.Email)
			}
			fmt.Printf("  (id %s)\n", user.ID)
			return nil
		}

		user := domain.User{Name: profileFlags.name, Email: profileFlags.email}
		if existing, err := profile.GetUser(ctx); err == nil {
			user.ID = existing.ID
			if user.Name == "" {
				user.Name = existing.Name
			}
			if user.Email == "" {
				user.Email = existing.Email
			}
		}

		updated, err := profile.SetUser(ctx, user)
		if err != nil {
			return err
		}
		fmt.Printf("Profile saved (%s)\n", updated.ID)
		return nil
	}),
}

var settingsCmd = &cobra.Command{
	Use:   "settings [key=value ...]",
	Short: "Show settings, or merge key=value pairs into them",
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		profile := do.MustInvoke[*service.ProfileService](a.injector)

		if len(args) > 0 {
			patch := domain.Settings{}
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok || key == "" {
					return fmt.Errorf("settings take key=value pairs, got %q", arg)
				}
				patch[key] = value
			}
			merged, err := profile.UpdateSettings(ctx, patch)
			if err != nil {
				return err
			}
			printSettings(merged)
			return nil
		}

		settings, err := profile.GetSettings(ctx)
		if err != nil {
			return err
		}
		if len(settings) == 0 {
			fmt.Println("No settings.")
			return nil
		}
		printSettings(settings)
		return nil
	}),
}

func printSettings(settings domain.Settings) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s = %v\n", k, settings[k])
	}
}

func init() {
	profileCmd.Flags().StringVar(&profileFlags.name, "name", "", "display name")
	profileCmd.Flags().StringVar(&profileFlags.email, "email", "", "email address")

	rootCmd.AddCommand(profileCmd, settingsCmd)
}
