package cli

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/tinytrail/internal/analytics"
	"github.com/alexanderramin/tinytrail/internal/api"
	"github.com/alexanderramin/tinytrail/internal/credential"
	"github.com/alexanderramin/tinytrail/internal/repository"
	"github.com/alexanderramin/tinytrail/internal/session"
	"github.com/alexanderramin/tinytrail/internal/testutil"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// testEnv wires a full App against a fake backend and an in-memory DB.
type testEnv struct {
	app     *App
	backend *testutil.FakeBackend
	storage *repository.SQLiteStorageRepo
	db      *sql.DB
}

var fixedNow = time.Date(2025, 10, 20, 12, 0, 0, 0, time.Local)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	backend := testutil.NewFakeBackend(t)
	database := testutil.NewTestDB(t)
	storage := repository.NewSQLiteStorageRepo(database)
	store := credential.NewStore(storage, credential.WithUnitOfWork(testutil.NewTestUoW(database)))
	sess := session.New(ctx, store)

	cfg := api.DefaultConfig()
	cfg.BaseURL = backend.URL()
	cfg.PublicBaseURL = "https://tt.example/"
	client := api.NewClient(cfg, store, api.NoopObserver{},
		api.WithOnUnauthorized(func(ctx context.Context) { _ = sess.Logout(ctx) }))

	return &testEnv{
		app: &App{
			Session:     sess,
			API:         client,
			Analytics:   analytics.NewAggregator(client),
			Credentials: store,
			Logger:      zerolog.Nop(),
			Now:         func() time.Time { return fixedNow },
		},
		backend: backend,
		storage: storage,
		db:      database,
	}
}

// signIn registers alice with the backend and logs her in directly.
func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	e.backend.AddUser("alice", "alice@example.com", "s3cret")
	require.NoError(t, e.app.Session.Login(context.Background(), testutil.TokenFor("alice"), "alice"))
}

// executeCmd runs the root command with args and returns the captured output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

// --- auth ---

func TestLoginCmd_Success(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("alice", "alice@example.com", "s3cret")

	out, err := executeCmd(t, env.app, "login", "-u", "alice", "-p", "s3cret")

	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as alice")
	assert.True(t, env.app.Session.SignedIn())
	assert.Equal(t, "alice", env.app.Session.State().Username)

	stored, err := env.storage.GetItem(context.Background(), credential.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, `"tok-alice"`, stored)
}

func TestLoginCmd_BadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("alice", "", "s3cret")

	_, err := executeCmd(t, env.app, "login", "-u", "alice", "-p", "wrong")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Server Error (401): Bad credentials")
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, env.app.Session.SignedIn())
}

func TestLoginCmd_MissingFlagsWithoutTerminal(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCmd(t, env.app, "login", "-u", "alice")

	assert.ErrorIs(t, err, ErrNotInteractive)
	assert.Zero(t, len(env.backend.Requests()))
}

func TestRegisterCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCmd(t, env.app, "register", "-u", "carol", "--email", "carol@example.com", "-p", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered carol")
	assert.False(t, env.app.Session.SignedIn(), "registering does not sign in")

	_, err = executeCmd(t, env.app, "register", "-u", "carol", "--email", "carol@example.com", "-p", "secret1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username is already taken")
}

func TestRegisterCmd_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCmd(t, env.app, "register", "-u", "carol", "--email", "not-an-email", "-p", "secret1")
	assert.ErrorContains(t, err, "email address is not valid")

	_, err = executeCmd(t, env.app, "register", "-u", "carol", "--email", "carol@example.com", "-p", "123")
	assert.ErrorContains(t, err, "at least 6 characters")

	_, err = executeCmd(t, env.app, "register", "-u", "carol", "--email", "carol@example.com")
	assert.ErrorIs(t, err, ErrNotInteractive)

	_, err = executeCmd(t, env.app, "register", "--email", "carol@example.com", "-p", "secret1")
	assert.Error(t, err)

	assert.Zero(t, env.backend.Hits("/api/auth/public/register"))
}

func TestLogoutCmd(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	out, err := executeCmd(t, env.app, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")
	assert.False(t, env.app.Session.SignedIn())

	_, err = env.storage.GetItem(context.Background(), credential.TokenKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	out, err = executeCmd(t, env.app, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Already signed out.")
}

func TestWhoamiCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := executeCmd(t, env.app, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	env.signIn(t)
	out, err = executeCmd(t, env.app, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as alice")
	assert.Empty(t, env.backend.Requests(), "whoami never calls the backend")
}

// --- links ---

func TestShortenCmd_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCmd(t, env.app, "shorten", "https://example.com/a")

	assert.ErrorContains(t, err, "must be logged in to shorten a URL")
	assert.Empty(t, env.backend.Requests())
}

func TestShortenCmd_InvalidURL(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	for _, bad := range []string{"example.com", "ftp://example.com/x", "https://"} {
		_, err := executeCmd(t, env.app, "shorten", bad)
		assert.ErrorContains(t, err, "not a valid http(s) URL", bad)
	}
	assert.Empty(t, env.backend.Requests())
}

func TestShortenCmd_Success(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	out, err := executeCmd(t, env.app, "shorten", "https://example.com/a/very/long/path")

	require.NoError(t, err)
	assert.Contains(t, out, "LINK CREATED")
	assert.Contains(t, out, "https://tt.example/s0000001")
	assert.Contains(t, out, "https://example.com/a/very/long/path")
	assert.Equal(t, "Bearer tok-alice", env.backend.Requests()[0].Authorization)
}

func TestLinksCmd(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	out, err := executeCmd(t, env.app, "links")
	require.NoError(t, err)
	assert.Contains(t, out, "No links yet")

	_, err = executeCmd(t, env.app, "shorten", "https://example.com/a")
	require.NoError(t, err)
	_, err = executeCmd(t, env.app, "shorten", "https://example.com/b")
	require.NoError(t, err)

	out, err = executeCmd(t, env.app, "links")
	require.NoError(t, err)
	assert.Contains(t, out, "https://tt.example/s0000001")
	assert.Contains(t, out, "https://example.com/b")
	assert.Contains(t, out, "Oct 20, 2025")
	assert.Contains(t, out, "2 links")
}

func TestLinksCmd_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	_, err := executeCmd(t, env.app, "links")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestLinkStatsCmd(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	env.backend.SetLinkClicks("abc", `[{"clickDate":"2025-10-02","count":3},{"clickDate":"2025-10-03","count":2}]`)

	out, err := executeCmd(t, env.app, "links", "stats", "https://tt.example/abc", "--start", "2025-10-01", "--end", "2025-10-05")

	require.NoError(t, err)
	assert.Contains(t, out, "2025-10-02")
	assert.Contains(t, out, "Total: 5")

	req := env.backend.Requests()[0]
	assert.Equal(t, "/api/urls/analytics/abc", req.Path)
	assert.Equal(t, "2025-10-01T00:00:00", req.Query["startDate"])
	assert.Equal(t, "2025-10-05T23:59:59", req.Query["endDate"])
}

func TestLinkStatsCmd_SeveralLinksKeepArgumentOrder(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	env.backend.SetLinkClicks("abc", `[{"clickDate":"2025-10-02","count":3}]`)
	env.backend.SetLinkClicks("xyz", `[{"clickDate":"2025-10-04","count":9}]`)

	out, err := executeCmd(t, env.app, "links", "stats", "xyz", "abc", "--start", "2025-10-01", "--end", "2025-10-05")

	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "2025-10-04"), strings.Index(out, "2025-10-02"))
	assert.Contains(t, out, "Total: 9")
	assert.Contains(t, out, "Total: 3")
	assert.Equal(t, 1, env.backend.Hits("/api/urls/analytics/abc"))
	assert.Equal(t, 1, env.backend.Hits("/api/urls/analytics/xyz"))
}

func TestLinkStatsCmd_OneFailureFailsTheCommand(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	env.backend.Override("/api/urls/analytics/bad", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})

	_, err := executeCmd(t, env.app, "links", "stats", "abc", "bad", "--start", "2025-10-01", "--end", "2025-10-05")

	require.Error(t, err)
	assert.ErrorContains(t, err, "loading clicks for bad failed: Server Error (500): boom")
}

func TestLinkStatsCmd_DateValidation(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	_, err := executeCmd(t, env.app, "links", "stats", "abc", "--start", "2025-13-01")
	assert.ErrorContains(t, err, "not a valid date")

	_, err = executeCmd(t, env.app, "links", "stats", "abc", "--start", "2025-10-05", "--end", "2025-10-01")
	assert.ErrorIs(t, err, analytics.ErrInvalidRange)
	assert.ErrorContains(t, err, "Start date must not be after end date.")

	assert.Empty(t, env.backend.Requests())
}

// --- clicks ---

func TestClicksCmd_DefaultRange(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	env.backend.SetTotalClicks(`{"2025-10-20":156,"2025-10-22":"44","2025-10-21":201}`)

	out, err := executeCmd(t, env.app, "clicks")

	require.NoError(t, err)
	assert.Contains(t, out, "Total: 401")
	assert.Contains(t, out, "2025-10-01 → 2025-10-20")
	assert.Less(t, bytes.Index([]byte(out), []byte("2025-10-21")), bytes.Index([]byte(out), []byte("2025-10-22")))

	req := env.backend.Requests()[0]
	assert.Equal(t, "2025-10-01", req.Query["startDate"])
	assert.Equal(t, "2025-10-20", req.Query["endDate"])
}

func TestClicksCmd_InvalidRangeSkipsBackend(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)

	_, err := executeCmd(t, env.app, "clicks", "--start", "2025-10-20", "--end", "2025-10-01")

	assert.EqualError(t, err, "Start date must not be after end date.")
	assert.Zero(t, env.backend.Hits("/api/urls/totalclicks"))
}

func TestClicksCmd_Forbidden(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t)
	env.backend.Override("/api/urls/totalclicks", func(w http.ResponseWriter, _ *http.Request) {
		testutil.WriteJSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
	})

	_, err := executeCmd(t, env.app, "clicks")

	assert.EqualError(t, err, "Server Error (403): Forbidden")
	assert.True(t, env.app.Session.SignedIn(), "403 keeps the session")
}

func TestClicksCmd_UnauthorizedSignsOut(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.app.Session.Login(context.Background(), "tok-expired", "alice"))

	_, err := executeCmd(t, env.app, "clicks")

	assert.EqualError(t, err, "Server Error (401): Unauthorized")
	assert.False(t, env.app.Session.SignedIn())
	_, getErr := env.storage.GetItem(context.Background(), credential.TokenKey)
	assert.ErrorIs(t, getErr, repository.ErrNotFound)
}

func TestClicksCmd_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	_, err := executeCmd(t, env.app, "clicks")
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Empty(t, env.backend.Requests())
}

// --- dashboard / session ---

func TestDashboardCmd_NeedsTerminal(t *testing.T) {
	env := newTestEnv(t)

	_, err := executeCmd(t, env.app, "dashboard")
	assert.ErrorIs(t, err, ErrNotSignedIn)

	env.signIn(t)
	_, err = executeCmd(t, env.app, "dashboard")
	assert.ErrorIs(t, err, ErrNotInteractive)
}

func TestSessionNormalizeCmd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.storage.SetItem(ctx, credential.TokenKey, "tok-alice"))

	out, err := executeCmd(t, env.app, "session", "normalize")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored session rewritten")

	stored, err := env.storage.GetItem(ctx, credential.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, `"tok-alice"`, stored)

	out, err = executeCmd(t, env.app, "session", "normalize")
	require.NoError(t, err)
	assert.Contains(t, out, "already up to date")
}

func TestSessionNormalizeCmd_DropsUndefined(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.storage.SetItem(ctx, credential.TokenKey, "undefined"))

	out, err := executeCmd(t, env.app, "session", "normalize")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored session rewritten")

	_, err = env.storage.GetItem(ctx, credential.TokenKey)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
