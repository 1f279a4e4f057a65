package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/shopfront/catalog-console/internal/core/service"
	"github.com/shopfront/catalog-console/internal/guard"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password, returnTo string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and start a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if res := guard.CheckGuest(app.session, returnTo); res.Decision == guard.Redirect {
				fmt.Fprintln(app.out, "Already logged in.")
				app.navigate(res.RedirectTo)
				return nil
			}

			form := service.NewLoginForm(app.session)
			form.Email = email
			form.Password = password
			if err := promptCredentials(&form.Email, &form.Password); err != nil {
				return err
			}

			if !form.Submit(cmd.Context()) {
				return errors.New(form.Message)
			}

			user := app.session.User()
			fmt.Fprintf(app.out, "Logged in as %s (%s)\n", user.Name, user.Role)
			dest := returnTo
			if dest == "" {
				dest = guard.RouteDashboard
			}
			app.navigate(dest)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&returnTo, "return-to", "", "route to continue to after login")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var email, password, firstName, lastName string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and start a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if res := guard.CheckGuest(app.session, ""); res.Decision == guard.Redirect {
				fmt.Fprintln(app.out, "Already logged in.")
				app.navigate(res.RedirectTo)
				return nil
			}

			form := service.NewRegisterForm(app.session)
			form.Email = email
			form.Password = password
			form.FirstName = firstName
			form.LastName = lastName
			if err := promptRegistration(form); err != nil {
				return err
			}

			if !form.Submit(cmd.Context()) {
				return errors.New(form.Message)
			}

			user := app.session.User()
			fmt.Fprintf(app.out, "Registered and logged in as %s\n", user.Name)
			app.navigate(guard.RouteDashboard)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear stored credentials",
		RunE: func(_ *cobra.Command, _ []string) error {
			app.session.Logout()
			fmt.Fprintln(app.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user's profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.guardView(guard.Requirement{}, guard.RouteDashboard) {
				return nil
			}
			if !app.ensureFresh(cmd) {
				return nil
			}
			user := app.session.GetProfile(cmd.Context())
			if user == nil {
				// Non-fatal: the session survives, show the cached record.
				fmt.Fprintln(app.out, "Could not refresh profile; showing cached copy.")
				user = app.session.User()
			}
			fmt.Fprintf(app.out, "ID:    %d\nName:  %s\nEmail: %s\nRole:  %s\n",
				user.ID, user.Name, user.Email, user.Role)
			return nil
		},
	}
}

func newRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored token for a fresh one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.guardView(guard.Requirement{}, guard.RouteDashboard) {
				return nil
			}
			if !app.session.RefreshToken(cmd.Context()) {
				fmt.Fprintln(app.out, "Refresh failed; session cleared. Please log in again.")
				return nil
			}
			fmt.Fprintln(app.out, "Token refreshed.")
			return nil
		},
	}
}

// promptCredentials fills in whichever of email/password were not passed as
// flags.
func promptCredentials(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func promptRegistration(form *service.RegisterForm) error {
	var fields []huh.Field
	if form.FirstName == "" {
		fields = append(fields, huh.NewInput().Title("First name").Value(&form.FirstName))
	}
	if form.LastName == "" {
		fields = append(fields, huh.NewInput().Title("Last name").Value(&form.LastName))
	}
	if form.Email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&form.Email))
	}
	if form.Password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&form.Password))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}
