package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nextspace/sessionkit/pkg/identity"
	"github.com/nextspace/sessionkit/pkg/randomname"
	"github.com/nextspace/sessionkit/pkg/refresh"
	"github.com/nextspace/sessionkit/pkg/sessioncookie"
)

// RestoreOptions tunes a Restore call.
type RestoreOptions struct {
	// SkipCreation suppresses guest-session creation when no cookie
	// exists; used on flows that must never silently mint an identity.
	SkipCreation bool
}

// Manager is the session state machine. Construct exactly one per process
// via the composition root and share it; it is safe for concurrent use.
type Manager struct {
	cookies CookieGateway
	ids     identity.Client
	log     *slog.Logger

	cookieTTL        time.Duration
	refreshThreshold time.Duration

	coord *refresh.Coordinator

	restoreGroup singleflight.Group

	mu          sync.Mutex
	state       State
	tier        sessioncookie.AuthType
	info        *Info
	expiresAt   time.Time
	tokens      identity.TokenPair
	adminTokens identity.TokenPair
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookieTTL sets the lifetime stamped into cookies the manager writes.
func WithCookieTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.cookieTTL = ttl
		}
	}
}

// WithRefreshThreshold sets how long before expiry the proactive refresh fires.
func WithRefreshThreshold(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.refreshThreshold = d
		}
	}
}

func NewManager(cookies CookieGateway, ids identity.Client, log *slog.Logger, opts ...Option) *Manager {
	if log == nil {
		log = slog.Default()
	}

	m := &Manager{
		cookies:          cookies,
		ids:              ids,
		log:              log,
		cookieTTL:        sessioncookie.DefaultConfig().TTL,
		refreshThreshold: refresh.DefaultThreshold,
		state:            StateUninitialized,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.coord = refresh.NewCoordinator(
		m.refreshCall,
		refresh.Hooks{
			OnSuccess:      m.applyRefreshed,
			OnUnauthorized: m.Clear,
		},
		log,
		refresh.WithThreshold(m.refreshThreshold),
	)

	return m
}

// Restore brings the session up from the cookie, creating a guest session
// when none exists (unless opts.SkipCreation). Concurrent callers share a
// single underlying restore; once past the initial state the cached
// session is returned without I/O.
func (m *Manager) Restore(ctx context.Context, opts RestoreOptions) (*Info, error) {
	m.mu.Lock()
	state := m.state
	info := m.info
	m.mu.Unlock()

	// Past the initial states the outcome is already settled.
	if state != StateUninitialized && state != StateInitializing && state != StateReady {
		return copyInfo(info), nil
	}

	v, err, _ := m.restoreGroup.Do("restore", func() (any, error) {
		return m.restore(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return copyInfo(v.(*Info)), nil
}

func (m *Manager) restore(ctx context.Context, opts RestoreOptions) (*Info, error) {
	m.mu.Lock()
	// A caller that queued behind the winning restore sees the settled
	// state here and returns it without re-reading the cookie.
	if m.state != StateUninitialized && m.state != StateInitializing && m.state != StateReady {
		info := m.info
		m.mu.Unlock()
		return info, nil
	}
	m.state = StateInitializing
	m.mu.Unlock()

	payload, err := m.cookies.Current(ctx)
	absent, err := gatewayAbsent(payload, err)
	if err != nil {
		m.setState(StateReady)
		return nil, err
	}

	if !absent {
		return m.hydrate(payload), nil
	}

	if opts.SkipCreation {
		m.setState(StateCleared)
		return nil, nil
	}

	return m.createGuestSession(ctx)
}

// hydrate adopts an existing cookie payload into memory. The trust tier in
// the payload is the sole source of truth for guest-vs-authenticated
// classification; the old display-name convention is only consulted when a
// legacy cookie carries no tier at all.
func (m *Manager) hydrate(p *sessioncookie.Payload) *Info {
	info := &Info{UserID: p.UserID, Username: p.Subject}

	authType := p.AuthType
	if authType == "" && randomname.IsGenerated(p.Subject) {
		authType = sessioncookie.AuthTypeGuest
	}

	state := StateAuthenticated
	if authType == sessioncookie.AuthTypeGuest {
		state = StateGuest
	}

	expiresAt := time.Time{}
	if p.ExpiresAt != 0 {
		expiresAt = time.Unix(p.ExpiresAt, 0)
	}

	if authType == "" {
		authType = sessioncookie.AuthTypeUser
	}

	m.mu.Lock()
	m.state = state
	m.tier = authType
	m.info = info
	m.tokens = identity.TokenPair{Access: p.Access, Refresh: p.Refresh}
	m.expiresAt = expiresAt
	m.mu.Unlock()

	if !expiresAt.IsZero() {
		m.coord.Schedule(expiresAt)
	}

	return info
}

func (m *Manager) createGuestSession(ctx context.Context) (*Info, error) {
	id, err := m.ids.IssueIdentity(ctx)
	if err != nil {
		m.setState(StateReady)
		return nil, errors.Join(ErrRegistrationFailed, err)
	}

	creds, err := m.ids.Register(ctx, id)
	if err != nil {
		m.setState(StateReady)
		return nil, errors.Join(ErrRegistrationFailed, err)
	}

	info := &Info{UserID: id.UserID, Username: id.Username}

	m.mu.Lock()
	m.state = StateGuest
	m.tier = sessioncookie.AuthTypeGuest
	m.info = info
	m.tokens = creds.TokenPair
	m.expiresAt = creds.ExpiresAt
	m.mu.Unlock()

	if err := m.cookies.Save(ctx, sessioncookie.Payload{
		Access:   creds.Access,
		Refresh:  creds.Refresh,
		UserID:   id.UserID,
		AuthType: sessioncookie.AuthTypeGuest,
		Subject:  id.Username,
	}); err != nil {
		// The in-memory session is live; the cookie write gets another
		// chance on the next refresh rotation.
		m.log.Error("failed to persist guest session cookie", slog.Any("error", err))
	}

	m.coord.Schedule(creds.ExpiresAt)

	return info, nil
}

// MarkAuthenticated transitions to the authenticated state. Non-empty
// identity arguments replace the stored info; empty ones preserve it,
// supporting upgrade-in-place flows where the cookie was already rotated
// by a separate login call.
func (m *Manager) MarkAuthenticated(username, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if username != "" || userID != "" {
		info := &Info{}
		if m.info != nil {
			*info = *m.info
		}
		if username != "" {
			info.Username = username
		}
		if userID != "" {
			info.UserID = userID
		}
		m.info = info
	}
	m.state = StateAuthenticated
	if m.tier != sessioncookie.AuthTypeAdmin {
		m.tier = sessioncookie.AuthTypeUser
	}
}

// MarkGuest transitions to the guest state without touching stored info.
func (m *Manager) MarkGuest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateGuest
	m.tier = sessioncookie.AuthTypeGuest
}

// Clear tears the session down: state, identity, expiry, the refresh
// timer, and both token pairs. Logout must not leave admin credentials
// resident.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.state = StateCleared
	m.tier = ""
	m.info = nil
	m.expiresAt = time.Time{}
	m.tokens = identity.TokenPair{}
	m.adminTokens = identity.TokenPair{}
	m.mu.Unlock()

	m.coord.Stop()
}

// HasSession reports whether a live session exists.
func (m *Manager) HasSession() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateGuest || m.state == StateAuthenticated
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Tier returns the current trust tier, or empty when no session is live.
func (m *Manager) Tier() sessioncookie.AuthType {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tier
}

// Info returns a copy of the current session identity, or nil.
func (m *Manager) Info() *Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyInfo(m.info)
}

// Tokens returns the ordinary session token pair as of now. Callers that
// embed the token in long-lived arguments must re-read it at use time.
func (m *Manager) Tokens() identity.TokenPair {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens
}

// AdminTokens returns the admin escalation token pair.
func (m *Manager) AdminTokens() identity.TokenPair {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.adminTokens
}

// SetAdminTokens layers an admin credential pair on top of the session
// without touching the ordinary pair.
func (m *Manager) SetAdminTokens(pair identity.TokenPair) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adminTokens = pair
}

// ExpiresAt returns the tracked access-token expiry.
func (m *Manager) ExpiresAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiresAt
}

// RefreshNow forces a refresh round-trip, deduplicated with any refresh
// already in flight. Used by the request boundary on a 401.
func (m *Manager) RefreshNow(ctx context.Context) (identity.Credentials, error) {
	return m.coord.Trigger(ctx)
}

func (m *Manager) refreshCall(ctx context.Context) (identity.Credentials, error) {
	m.mu.Lock()
	token := m.tokens.Refresh
	m.mu.Unlock()

	if token == "" {
		return identity.Credentials{}, refresh.ErrNoRefreshToken
	}
	return m.ids.Refresh(ctx, token)
}

// applyRefreshed installs rotated credentials in memory and writes them
// back to the cookie. A result landing after Clear is discarded.
func (m *Manager) applyRefreshed(creds identity.Credentials) {
	m.mu.Lock()
	if m.state == StateCleared {
		m.mu.Unlock()
		return
	}

	m.tokens = creds.TokenPair
	m.expiresAt = creds.ExpiresAt

	var payload *sessioncookie.Payload
	if m.info != nil {
		authType := m.tier
		if authType == "" {
			authType = sessioncookie.AuthTypeUser
		}
		payload = &sessioncookie.Payload{
			Access:   creds.Access,
			Refresh:  creds.Refresh,
			UserID:   m.info.UserID,
			AuthType: authType,
			Subject:  m.info.Username,
		}
	}
	m.mu.Unlock()

	if payload != nil {
		if err := m.cookies.Save(context.Background(), *payload); err != nil {
			m.log.Error("failed to persist rotated tokens to cookie", slog.Any("error", err))
		}
	}
}

// Stop cancels the proactive refresh timer without clearing session state;
// used on tab teardown.
func (m *Manager) Stop() {
	m.coord.Stop()
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func copyInfo(info *Info) *Info {
	if info == nil {
		return nil
	}
	c := *info
	return &c
}
