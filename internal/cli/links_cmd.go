package cli

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/alexanderramin/tinytrail/internal/analytics"
	"github.com/alexanderramin/tinytrail/internal/api"
	"github.com/alexanderramin/tinytrail/internal/cli/formatter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newShortenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shorten URL",
		Short: "Create a short link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSignedIn(cmd); err != nil {
				return errors.New("you must be logged in to shorten a URL; run: tinytrail login")
			}
			original := strings.TrimSpace(args[0])
			if err := validateLongURL(original); err != nil {
				return err
			}

			stop := app.startSpinner(cmd, "Shortening…")
			m, err := app.API.Shorten(cmd.Context(), original)
			stop()
			if err != nil {
				return wrapAPI("shorten failed", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatShortened(m, app.API.PublicURL(m.ShortURL)))
			return nil
		},
	}
}

func newLinksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "List your short links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSignedIn(cmd); err != nil {
				return err
			}

			stop := app.startSpinner(cmd, "Loading links…")
			links, err := app.API.MyURLs(cmd.Context())
			stop()
			if err != nil {
				return wrapAPI("listing links failed", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLinks(links, app.API.PublicURL))
			return nil
		},
	}

	cmd.AddCommand(newLinkStatsCmd(app))

	return cmd
}

// statsConcurrency caps parallel analytics requests for one invocation.
const statsConcurrency = 4

func newLinkStatsCmd(app *App) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "stats SHORT...",
		Short: "Show daily clicks for one or more links",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSignedIn(cmd); err != nil {
				return err
			}
			if err := analytics.ValidateRange(start, end); err != nil {
				return err
			}
			from, to := dayBounds(start, end)

			shorts := make([]string, len(args))
			for i, arg := range args {
				shorts[i] = shortCode(arg)
			}
			results := make([][]api.ClickEvent, len(shorts))

			stop := app.startSpinner(cmd, "Loading clicks…")
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(statsConcurrency)
			for i, short := range shorts {
				g.Go(func() error {
					events, err := app.API.LinkAnalytics(ctx, short, from, to)
					if err != nil {
						return wrapAPI(fmt.Sprintf("loading clicks for %s failed", short), err)
					}
					results[i] = events
					return nil
				})
			}
			err := g.Wait()
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, short := range shorts {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprint(out, formatter.FormatLinkStats(short, start, end, results[i]))
			}
			return nil
		},
	}

	dateRangeFlags(cmd, app, &start, &end)

	return cmd
}

// validateLongURL accepts absolute http and https addresses.
func validateLongURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%q is not a valid http(s) URL", raw)
	}
	return nil
}

// shortCode accepts either a bare code or a full public short URL.
func shortCode(arg string) string {
	arg = strings.TrimRight(strings.TrimSpace(arg), "/")
	if u, err := url.Parse(arg); err == nil && u.Host != "" && u.Path != "" {
		return path.Base(u.Path)
	}
	return arg
}

// dayBounds expands a validated day range to local start and end instants.
func dayBounds(start, end string) (time.Time, time.Time) {
	from, _ := time.ParseInLocation(analytics.DateLayout, start, time.Local)
	last, _ := time.ParseInLocation(analytics.DateLayout, end, time.Local)
	to := time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, time.Local)
	return from, to
}
