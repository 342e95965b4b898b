package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/user"
)

var (
	// errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrAccountNotVerified = errors.New("account pending verification")

	// NowFunc is mockable for tests.
	NowFunc = time.Now
)

// EventType enumerates auth-state change notifications.
type EventType string

const (
	EventInitialSession EventType = "initial_session"
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventTokenRefreshed EventType = "token_refreshed"
)

// Event is an auth-state change notification. Session and User are nil
// when no identity is present (sign-out, failed initial load).
type Event struct {
	Type    EventType
	Session *Session
	User    *user.User
}

// subscriber channels are buffered; emit never blocks the caller.
const eventBuffer = 8

// Manager owns the session lifecycle: sign-in, validation with transparent
// refresh, sign-out, and the auth-state event stream. Every validation
// re-reads the user (and thus the role) from the user store; a role is never
// trusted from a client-supplied value.
type Manager struct {
	registry     Registry
	users        *user.Service
	ttl          time.Duration
	refreshAfter time.Duration

	mu      sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

func NewManager(registry Registry, users *user.Service) *Manager {
	return &Manager{
		registry:     registry,
		users:        users,
		ttl:          core.Conf.Server.SessionTTL,
		refreshAfter: core.Conf.Server.SessionRefreshAfter,
		subs:         make(map[int]chan Event),
	}
}

// SignIn authenticates the credentials and creates a new session.
// Failures are indistinguishable between unknown email and wrong password.
func (m *Manager) SignIn(ctx context.Context, email, pwd string) (Session, user.User, error) {
	usr, err := m.users.GetByEmail(email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Session{}, user.User{}, ErrInvalidCredentials
		}
		return Session{}, user.User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return Session{}, user.User{}, ErrInvalidCredentials
	}
	if !usr.IsActive {
		return Session{}, user.User{}, ErrAccountDeactivated
	}
	if !usr.IsVerified {
		return Session{}, user.User{}, ErrAccountNotVerified
	}

	usr, err = m.users.SetLastLogin(usr)
	if err != nil {
		return Session{}, user.User{}, errors.Wrap(err, "setting lastLogin")
	}

	now := NowFunc().UTC()
	sess := Session{
		ID:        uuid.New().String(),
		UserID:    usr.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err = m.registry.SaveSession(ctx, sess); err != nil {
		return Session{}, user.User{}, errors.Wrap(err, "saving session")
	}

	m.emit(Event{Type: EventSignedIn, Session: &sess, User: &usr})
	return sess, usr, nil
}

// SignOut invalidates the session in the registry. It does not navigate;
// the resulting signed_out event drives the policy's redirect.
func (m *Manager) SignOut(ctx context.Context, sessionID string) error {
	if err := m.registry.DeleteSession(ctx, sessionID); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	m.emit(Event{Type: EventSignedOut})
	return nil
}

// Validate re-validates a session against the registry and re-reads its user
// fresh from the user store. The session is transparently extended once it
// has aged past the refresh threshold; refreshed reports whether that
// happened so the transport can re-issue its cookie.
func (m *Manager) Validate(ctx context.Context, sessionID string) (Session, user.User, bool, error) {
	sess, err := m.registry.GetSession(ctx, sessionID)
	if err != nil {
		return Session{}, user.User{}, false, err
	}

	now := NowFunc().UTC()
	if sess.Expired(now) {
		_ = m.registry.DeleteSession(ctx, sessionID)
		return Session{}, user.User{}, false, ErrNotFound
	}

	usr, err := m.users.GetByID(sess.UserID)
	if err != nil {
		return Session{}, user.User{}, false, errors.Wrap(err, "finding session user")
	}
	if !usr.IsActive {
		_ = m.registry.DeleteSession(ctx, sessionID)
		return Session{}, user.User{}, false, ErrAccountDeactivated
	}

	var refreshed bool
	if now.Sub(sess.ExpiresAt.Add(-m.ttl)) >= m.refreshAfter {
		sess.ExpiresAt = now.Add(m.ttl)
		if err = m.registry.SaveSession(ctx, sess); err != nil {
			return Session{}, user.User{}, false, errors.Wrap(err, "refreshing session")
		}
		refreshed = true
		m.emit(Event{Type: EventTokenRefreshed, Session: &sess, User: &usr})
	}

	return sess, usr, refreshed, nil
}

// Current resolves the session for an initial load. Any backend failure is
// treated as "no identity" (fail closed), never surfaced as an error.
func (m *Manager) Current(ctx context.Context, sessionID string) (*Session, *user.User) {
	if sessionID == "" {
		return nil, nil
	}
	sess, usr, _, err := m.Validate(ctx, sessionID)
	if err != nil {
		return nil, nil
	}
	return &sess, &usr
}

// Subscribe registers an auth-state change listener. The returned cancel
// func must be called to release the subscription.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Event, eventBuffer)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// emit fans the event out to all subscribers without blocking; a slow
// subscriber's event is dropped rather than stalling sign-in/out.
func (m *Manager) emit(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subs {
		select {
		case sub <- ev:
		default:
		}
	}
}
