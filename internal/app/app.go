// Package app wires the configured dependencies into one context that is
// passed to commands and screens.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/jadwal/internal/api"
	"github.com/verte-zerg/jadwal/internal/config"
	"github.com/verte-zerg/jadwal/internal/logging"
	"github.com/verte-zerg/jadwal/internal/model"
	"github.com/verte-zerg/jadwal/internal/store"
)

var (
	// ErrNotSignedIn is returned when a command needs a session and none is stored.
	ErrNotSignedIn = errors.New("not signed in (run `jadwal login`)")
	// ErrForbidden is returned when the signed-in user lacks the super-admin role.
	ErrForbidden = errors.New("this command requires a super_admin account")
)

// App carries the process-wide dependencies. There is no global identity:
// User is set from the stored session and refreshed on login/logout.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Store  *store.Store
	Client *api.Client
	User   *model.User
}

// Open builds the logger, opens the store, restores any session and creates
// the API client.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	a := &App{Config: cfg, Logger: logger, Store: st}
	var opts []api.Option
	session, err := st.LoadSession(ctx)
	switch {
	case err == nil:
		user := session.User
		a.User = &user
		opts = append(opts, api.WithToken(session.Token))
	case errors.Is(err, store.ErrNoSession):
	default:
		_ = st.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	a.Client = api.New(cfg.APIURL, cfg.Timeout, st, logger.Named("api"), opts...)
	logger.Debug("app opened", zap.String("api", cfg.APIURL), zap.Bool("signed_in", a.User != nil))
	return a, nil
}

// Close releases the store and flushes logs.
func (a *App) Close() error {
	var err error
	if a.Store != nil {
		err = a.Store.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return err
}

// RequireUser returns the signed-in user or ErrNotSignedIn.
func (a *App) RequireUser() (model.User, error) {
	if a.User == nil || a.Client == nil || a.Client.Token() == "" {
		return model.User{}, ErrNotSignedIn
	}
	return *a.User, nil
}

// RequireSuperAdmin returns the signed-in user if it may use the operations console.
func (a *App) RequireSuperAdmin() (model.User, error) {
	user, err := a.RequireUser()
	if err != nil {
		return model.User{}, err
	}
	if !user.IsSuperAdmin() {
		return model.User{}, ErrForbidden
	}
	return user, nil
}

// SignIn authenticates and records the new identity.
func (a *App) SignIn(ctx context.Context, login, password string) (model.User, error) {
	session, err := a.Client.Login(ctx, login, password)
	if err != nil {
		return model.User{}, err
	}
	user := session.User
	a.User = &user
	a.Logger.Info("signed in", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

// SignOut revokes the token and forgets the identity.
func (a *App) SignOut(ctx context.Context) error {
	err := a.Client.Logout(ctx)
	a.User = nil
	return err
}

// Expire forgets the identity after the backend rejected the session.
func (a *App) Expire(err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		a.User = nil
	}
}
