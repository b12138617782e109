package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/jadwal/internal/config"
	"github.com/verte-zerg/jadwal/internal/model"
)

func testConfig(t *testing.T, apiURL string) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		APIURL:    apiURL,
		Timeout:   5 * time.Second,
		LogLevel:  "debug",
		LogFormat: "json",
		LogPath:   filepath.Join(dir, "jadwal.log"),
		DBPath:    filepath.Join(dir, "jadwal.db"),
		Tick:      time.Second,
	}
}

func TestOpenWithoutSession(t *testing.T) {
	a, err := Open(context.Background(), testConfig(t, "http://localhost:1"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	if _, err := a.RequireUser(); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestSessionSurvivesReopen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token":"abc","user":{"id":3,"name":"Dosen","username":"dosen","role":"dosen"}}`)
	}))
	t.Cleanup(srv.Close)
	cfg := testConfig(t, srv.URL)

	a, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := a.SignIn(context.Background(), "dosen", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	user, err := b.RequireUser()
	if err != nil {
		t.Fatalf("require user: %v", err)
	}
	if user.Username != "dosen" || b.Client.Token() != "abc" {
		t.Fatalf("unexpected restored session %+v", user)
	}
	if _, err := b.RequireSuperAdmin(); !errors.Is(err, ErrForbidden) {
		t.Fatalf("dosen must not pass super admin check, got %v", err)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	a := &App{User: &model.User{Role: "super_admin"}}
	if _, err := a.RequireSuperAdmin(); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("no client token means not signed in, got %v", err)
	}
}
