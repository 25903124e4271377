package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(
		newCreateUserCommand("create", "Create a member account", false),
		newCreateUserCommand("createsuperuser", "Create an admin account", true),
		&cobra.Command{
			Use:   "deactivate USERNAME",
			Short: "Restrict an account so it can no longer sign in",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
				user, err := a.users.GetUserByUsername(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := a.users.SetActive(cmd.Context(), user.ID, false); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User %q restricted\n", user.Username)
				return nil
			}),
		},
	)
	return cmd
}

func newCreateUserCommand(use, short string, admin bool) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   use + " USERNAME",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if password == "" {
				return errors.New("--password is required")
			}
			create := a.users.CreateUser
			if admin {
				create = a.users.CreateSuperuser
			}
			user, err := create(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %q (id %d, admin %t)\n", user.Username, user.ID, user.IsAdmin)
			return nil
		}),
	}
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	return cmd
}
