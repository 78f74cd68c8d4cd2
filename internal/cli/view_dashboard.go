package cli

import (
	"context"
	"strings"

	"github.com/alexanderramin/tinytrail/internal/analytics"
	"github.com/alexanderramin/tinytrail/internal/cli/formatter"
	"github.com/alexanderramin/tinytrail/internal/session"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ── messages ─────────────────────────────────────────────────────────────────

// clicksLoadedMsg carries the aggregator snapshot after a fetch returns.
type clicksLoadedMsg struct {
	result analytics.Result
}

// sessionChangedMsg carries the session state after a login or logout.
type sessionChangedMsg struct {
	state session.State
}

// ── keys ─────────────────────────────────────────────────────────────────────

type dashboardKeys struct {
	Refresh key.Binding
	Prev    key.Binding
	Next    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newDashboardKeys() dashboardKeys {
	return dashboardKeys{
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Prev:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "back a day")),
		Next:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "forward a day")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k dashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Prev, k.Next, k.Quit}
}

func (k dashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Refresh, k.Quit}, {k.Prev, k.Next}, {k.Help}}
}

// ── model ────────────────────────────────────────────────────────────────────

// dashboardModel shows total clicks for a date range and refetches on
// demand. Range changes go through the aggregator, which drops replies
// from superseded requests. Once the session signs out, the model stops
// fetching and asks for a new login.
type dashboardModel struct {
	ctx  context.Context
	agg  *analytics.Aggregator
	sess *session.Session

	username  string
	signedOut bool

	start, end string
	result     analytics.Result

	keys     dashboardKeys
	help     help.Model
	quitting bool
}

func newDashboardModel(ctx context.Context, sess *session.Session, agg *analytics.Aggregator, start, end string) dashboardModel {
	st := sess.State()
	r := agg.Snapshot()
	r.IsLoading = st.SignedIn()
	return dashboardModel{
		ctx:       ctx,
		agg:       agg,
		sess:      sess,
		username:  st.Username,
		signedOut: !st.SignedIn(),
		start:     start,
		end:       end,
		result:    r,
		keys:      newDashboardKeys(),
		help:      help.New(),
	}
}

// subscribeDashboard forwards session and aggregator changes to send,
// normally tea.Program.Send. Call the returned function to stop.
func subscribeDashboard(sess *session.Session, agg *analytics.Aggregator, send func(tea.Msg)) func() {
	stopSession := sess.Subscribe(func(st session.State) {
		send(sessionChangedMsg{state: st})
	})
	stopClicks := agg.Subscribe(func(r analytics.Result) {
		send(clicksLoadedMsg{result: r})
	})
	return func() {
		stopSession()
		stopClicks()
	}
}

func (m dashboardModel) Init() tea.Cmd {
	if m.signedOut {
		return nil
	}
	return m.load()
}

// load applies the current range; the aggregator skips the request when
// the range has not changed since its last fetch.
func (m dashboardModel) load() tea.Cmd {
	ctx, agg, start, end := m.ctx, m.agg, m.start, m.end
	return func() tea.Msg {
		return clicksLoadedMsg{result: agg.SetRange(ctx, start, end)}
	}
}

func (m dashboardModel) refetch() tea.Cmd {
	ctx, agg := m.ctx, m.agg
	return func() tea.Msg {
		return clicksLoadedMsg{result: agg.Refetch(ctx)}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case clicksLoadedMsg:
		// A superseded fetch returns the newer request's snapshot; never
		// step back to an older one.
		if msg.result.Seq >= m.result.Seq {
			m.result = msg.result
		}
		// A rejected credential signs the session out during the fetch.
		m.syncSession(m.sess.State())

	case sessionChangedMsg:
		m.syncSession(msg.state)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case m.signedOut:
			// Nothing to fetch without a credential.
		case key.Matches(msg, m.keys.Refresh):
			m.result.IsLoading = true
			return m, m.refetch()
		case key.Matches(msg, m.keys.Prev):
			return m.shift(-1)
		case key.Matches(msg, m.keys.Next):
			return m.shift(1)
		}
	}
	return m, nil
}

func (m *dashboardModel) syncSession(st session.State) {
	if st.SignedIn() {
		m.signedOut = false
		m.username = st.Username
		return
	}
	m.signedOut = true
	m.username = ""
	m.result.IsLoading = false
}

func (m dashboardModel) shift(days int) (tea.Model, tea.Cmd) {
	start, end, err := analytics.ShiftRange(m.start, m.end, days)
	if err != nil {
		return m, nil
	}
	m.start, m.end = start, end
	m.result.IsLoading = true
	return m, m.load()
}

func (m dashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := formatter.StyleHeader.Render("TinyTrail")
	if m.username != "" {
		title += formatter.Dim(" · " + m.username)
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	if m.signedOut {
		b.WriteString(formatter.Failure("Signed out. Run: tinytrail login"))
		b.WriteString("\n\n")
	}

	r := m.result
	r.StartDate, r.EndDate = m.start, m.end
	b.WriteString(formatter.FormatClicks(r))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
