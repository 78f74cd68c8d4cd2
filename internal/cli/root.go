package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/tinytrail/internal/analytics"
	"github.com/alexanderramin/tinytrail/internal/api"
	"github.com/alexanderramin/tinytrail/internal/session"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// LinkAPI is the backend surface used by the commands. *api.Client
// satisfies it.
type LinkAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	Shorten(ctx context.Context, originalURL string) (*api.URLMapping, error)
	MyURLs(ctx context.Context) ([]api.URLMapping, error)
	LinkAnalytics(ctx context.Context, shortURL string, start, end time.Time) ([]api.ClickEvent, error)
	PublicURL(short string) string
}

// CredentialMaintainer rewrites stored credentials in canonical form.
type CredentialMaintainer interface {
	Normalize(ctx context.Context) (bool, error)
}

// App holds everything the commands need.
type App struct {
	Session     *session.Session
	API         LinkAPI
	Analytics   *analytics.Aggregator
	Credentials CredentialMaintainer
	Logger      zerolog.Logger

	// Now is the clock used for default date ranges.
	Now func() time.Time
	// Interactive reports whether prompts and the dashboard may take
	// over the terminal.
	Interactive func() bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.Interactive != nil && a.Interactive()
}

// NewRootCmd creates the top-level "tinytrail" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "tinytrail",
		Short:         "Shorten links and track their clicks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(session.WithSession(cmd.Context(), app.Session))
		},
	}

	root.AddCommand(
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(),
		newWhoamiCmd(),
		newShortenCmd(app),
		newLinksCmd(app),
		newClicksCmd(app),
		newDashboardCmd(app),
		newSessionCmd(app),
	)

	return root
}
