package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			user, _ := app.Sessions.CurrentUser()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSignupCmd(app *App) *cobra.Command {
	var email, username, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Signup(cmd.Context(), email, username, password); err != nil {
				return err
			}
			user, _ := app.Sessions.CurrentUser()
			fmt.Fprintf(cmd.OutOrStdout(), "Account created, logged in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Sessions.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := app.Sessions.CurrentUser()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s", user.Username)
			if user.Email != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " <%s>", user.Email)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
