package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tinytrail/internal/api"
	"github.com/alexanderramin/tinytrail/internal/cli/formatter"
	"github.com/alexanderramin/tinytrail/internal/session"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := session.FromContext(ctx)

			if username == "" || password == "" {
				if !app.interactive() {
					return fmt.Errorf("--username and --password are required: %w", ErrNotInteractive)
				}
				if err := loginForm(&username, &password).Run(); err != nil {
					return err
				}
			}

			resp, err := app.API.Login(ctx, api.LoginRequest{
				Username: strings.TrimSpace(username),
				Password: password,
			})
			if err != nil {
				return wrapAPI("login failed", err)
			}
			if err := s.Login(ctx, resp.Token, resp.Username); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}

			app.Logger.Info().Str("username", resp.Username).Msg("login succeeded")
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Signed in as "+resp.Username))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")

	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username = strings.TrimSpace(username)
			email = strings.TrimSpace(email)
			if err := validateRequired("username")(username); err != nil {
				return err
			}
			if err := validateEmail(email); err != nil {
				return err
			}

			if password == "" {
				if !app.interactive() {
					return fmt.Errorf("--password is required: %w", ErrNotInteractive)
				}
				if err := registerPasswordForm(&password).Run(); err != nil {
					return err
				}
			}
			if err := validatePassword(minPasswordLength)(password); err != nil {
				return err
			}

			err := app.API.Register(cmd.Context(), api.RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return wrapAPI("registration failed", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success("Registered "+username))
			fmt.Fprintln(out, formatter.Dim("Sign in with: tinytrail login -u "+username))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := session.FromContext(cmd.Context())
			wasSignedIn := s.SignedIn()
			if err := s.Logout(cmd.Context()); err != nil {
				return err
			}
			if !wasSignedIn {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Already signed out."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Signed out"))
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show who is signed in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := session.FromContext(cmd.Context()).State()
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWhoami(st))
			return nil
		},
	}
}
