// Package cli wires the session, guard and product services into the cobra
// command surface. Presentation only: all state lives in the core services.
package cli

import (
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shopfront/catalog-console/internal/core/ports"
	"github.com/shopfront/catalog-console/internal/core/service"
	"github.com/shopfront/catalog-console/internal/guard"
	"github.com/shopfront/catalog-console/internal/infrastructure/api"
	"github.com/shopfront/catalog-console/internal/infrastructure/store"
	"github.com/shopfront/catalog-console/internal/pkg/config"
	"github.com/shopfront/catalog-console/pkg/logger"
)

// App carries the wired services for the lifetime of one invocation.
type App struct {
	cfg      *config.Config
	log      zerolog.Logger
	session  ports.SessionService
	products ports.ProductService
	out      io.Writer
}

// NewRootCmd builds the root command. Services are constructed in the
// persistent pre-run so every subcommand starts from a restored session.
func NewRootCmd() *cobra.Command {
	app := &App{}
	root := &cobra.Command{
		Use:           "catalog-console",
		Short:         "Terminal client for the product catalog API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.bootstrap(cmd)
		},
	}

	root.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newRefreshCmd(app),
		newProductsCmd(app),
	)
	return root
}

// bootstrap builds the dependency graph: config, logger, credential store,
// API client, then the services. The session is restored synchronously before
// any command runs, so guards never observe a loading session.
func (a *App) bootstrap(cmd *cobra.Command) error {
	_ = godotenv.Load()

	a.cfg = config.Load()
	a.log = logger.Init(logger.Options{
		Level:  a.cfg.LogLevel,
		Pretty: a.cfg.LogPretty,
		Output: cmd.ErrOrStderr(),
	})
	a.out = cmd.OutOrStdout()

	path := a.cfg.SessionFile
	if path == "" {
		var err error
		if path, err = store.DefaultPath(); err != nil {
			return err
		}
	}
	credStore, err := store.NewFileStore(path)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}

	client := api.NewClient(a.cfg, credStore, a.log)
	session := service.NewSessionService(client, credStore, a.log)
	a.session = session
	a.products = service.NewProductService(client, session, a.log)

	a.session.Restore()
	return nil
}

// guardView evaluates a protected view and renders the non-allow outcomes.
// Returns true only when the guarded content may render.
func (a *App) guardView(req guard.Requirement, from string) bool {
	res := guard.Check(a.session, req, from)
	switch res.Decision {
	case guard.Wait:
		fmt.Fprintln(a.out, "Loading session...")
		return false
	case guard.Redirect:
		fmt.Fprintf(a.out, "You are not logged in. Run 'catalog-console login --return-to %s' to continue.\n", res.From)
		return false
	case guard.Deny:
		renderAccessDenied(a.out, res)
		return false
	}
	return true
}

// ensureFresh refreshes an expired token on demand. A failed refresh has
// already torn the session down; the user has to log in again.
func (a *App) ensureFresh(cmd *cobra.Command) bool {
	if a.session.EnsureFresh(cmd.Context()) {
		return true
	}
	fmt.Fprintln(a.out, "Session expired. Please log in again.")
	return false
}

// navigate reports where the user lands after a successful flow.
func (a *App) navigate(route string) {
	fmt.Fprintf(a.out, "-> %s\n", route)
}
