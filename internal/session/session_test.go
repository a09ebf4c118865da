package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fc-roster-parser/internal/browser"
	"fc-roster-parser/internal/observability"
	"fc-roster-parser/internal/scraper"
)

const (
	loginPage = `<html><body><form action="/login">
		<input type="email" id="email"><input type="password" id="password">
		<button type="submit">Sign In</button></form></body></html>`
	hubPage    = `<html><body><nav><button class="ut-tab-bar-item icon-club">Club</button></nav></body></html>`
	clubPage   = `<html><body><div class="players-tile">Players</div></body></html>`
	rosterPage = `<html><body><div class="players-list"><ul><li class="listFUTItem"><div class="name">Rodri</div></li></ul></div></body></html>`
	deadEnd    = `<html><body><p>Something else</p></body></html>`
)

// typingDriver запоминает введённый текст
type typingDriver struct {
	*browser.SnapshotDriver
	typed []string
}

func (d *typingDriver) InputText(ctx context.Context, n browser.Node, text string) error {
	d.typed = append(d.typed, text)
	return d.SnapshotDriver.InputText(ctx, n, text)
}

func noSleep(context.Context, time.Duration) error { return nil }

func newSession(t *testing.T, d browser.Driver, opts Options) (*Session, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	opts.URL = "page-001.html"
	opts.Sleep = noSleep
	opts.Out = out
	return New(d, scraper.DefaultSelectors(), opts, observability.NewNop()), out
}

func snapshots(t *testing.T, pages ...string) *browser.SnapshotDriver {
	t.Helper()
	d, err := browser.NewSnapshotDriverFromHTML(pages...)
	require.NoError(t, err)
	return d
}

func TestPrepareAutoLoginAndNavigate(t *testing.T) {
	d := &typingDriver{SnapshotDriver: snapshots(t, loginPage, hubPage, clubPage, rosterPage)}
	s, out := newSession(t, d, Options{
		AutoLogin:   true,
		Credentials: Credentials{Email: "user@example.com", Password: "secret"},
	})

	require.NoError(t, s.Prepare(context.Background()))
	assert.Equal(t, "page-004.html", d.Page())
	assert.Equal(t, []string{"user@example.com", "secret"}, d.typed)
	assert.Empty(t, out.String(), "no manual prompt expected")
}

func TestPrepareAutoLoginWithoutCredentialsFallsBackToManual(t *testing.T) {
	d := snapshots(t, hubPage, clubPage, rosterPage)
	s, out := newSession(t, d, Options{AutoLogin: true, In: strings.NewReader("\n")})

	require.NoError(t, s.Prepare(context.Background()))
	assert.Contains(t, out.String(), "MANUAL LOGIN REQUIRED")
	assert.Equal(t, "page-003.html", d.Page())
}

func TestPrepareAlreadyOnRoster(t *testing.T) {
	d := snapshots(t, rosterPage, deadEnd)
	s, _ := newSession(t, d, Options{In: strings.NewReader("\n")})

	require.NoError(t, s.Prepare(context.Background()))
	assert.Equal(t, "page-001.html", d.Page())
}

func TestPrepareManualNavigationFails(t *testing.T) {
	d := snapshots(t, deadEnd)
	s, out := newSession(t, d, Options{In: strings.NewReader("\n\n")})

	err := s.Prepare(context.Background())
	require.ErrorIs(t, err, ErrRosterNotReached)
	assert.Contains(t, out.String(), "MANUAL NAVIGATION REQUIRED")
}

func TestPrepareHiddenMarkerIgnored(t *testing.T) {
	hidden := `<html><body><div class="players-list" style="display: none"></div></body></html>`
	d := snapshots(t, hidden)
	s, _ := newSession(t, d, Options{In: strings.NewReader("\n\n")})

	assert.ErrorIs(t, s.Prepare(context.Background()), ErrRosterNotReached)
}

func TestPrepareInputClosed(t *testing.T) {
	d := snapshots(t, hubPage)
	s, _ := newSession(t, d, Options{})

	err := s.Prepare(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manual step aborted")
}

func TestPrepareNavigateFault(t *testing.T) {
	d := snapshots(t, hubPage)
	s, _ := newSession(t, d, Options{})
	s.opts.URL = "missing.html"

	err := s.Prepare(context.Background())
	require.Error(t, err)
	assert.True(t, browser.IsFault(err))
}

func TestLoadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FCR_TEST_EMAIL=a@b.c\nFCR_TEST_PASSWORD=pw\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("FCR_TEST_EMAIL")
		os.Unsetenv("FCR_TEST_PASSWORD")
	})

	creds, err := LoadCredentials(path, "FCR_TEST_EMAIL", "FCR_TEST_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Email: "a@b.c", Password: "pw"}, creds)
	assert.False(t, creds.Empty())
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	creds, err := LoadCredentials(filepath.Join(t.TempDir(), "absent.env"), "FCR_TEST_NONE_EMAIL", "FCR_TEST_NONE_PASSWORD")
	require.NoError(t, err)
	assert.True(t, creds.Empty())
}
