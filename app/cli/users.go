package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lysyi3m/moodlehack/app/auth"
	"github.com/lysyi3m/moodlehack/app/database"
)

func (a *app) createUserCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "create-user <username>",
		Short: "Create an account for the web UI and the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.database()
			if err != nil {
				return err
			}

			if password == "" {
				if password, err = a.readLine("Password: "); err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
			}

			// Token signing is not needed to create an account.
			service := auth.NewService(database.NewUserRepository(db), nil)
			user, err := service.CreateUser(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}

			a.ok("Created user %q (id %d)", user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted for when omitted)")
	return cmd
}
