package session

import (
	"context"
	"sync/atomic"

	"github.com/trezcool/eduportal/core/access"
	"github.com/trezcool/eduportal/core/user"
)

// State mirrors the client auth context: the current identity, its session,
// and whether the initial session resolution is still pending. Consumers must
// not render protected content while Loading is true.
type State struct {
	User    *user.User
	Session *Session
	Loading bool
}

// Navigator performs a client-side navigation, replacing the current history
// entry (not pushing, to avoid back-button loops).
type Navigator func(target string)

// Watcher is the client-side session store: a state cell with exactly one
// writer (the run goroutine consuming the manager's event stream) and any
// number of readers. On every auth-state change it re-evaluates the redirect
// policy against the current path and fires the Navigator when a redirect is
// decided. Navigation is fire-and-forget; when two events race, the last
// committed navigation wins.
type Watcher struct {
	mgr         *Manager
	currentPath func() string
	navigate    Navigator

	state  atomic.Value // State
	events <-chan Event
	cancel func()
	done   chan struct{}
}

func NewWatcher(mgr *Manager, currentPath func() string, navigate Navigator) *Watcher {
	w := &Watcher{
		mgr:         mgr,
		currentPath: currentPath,
		navigate:    navigate,
		done:        make(chan struct{}),
	}
	w.state.Store(State{Loading: true})
	return w
}

// Start resolves the initial session once, then consumes auth-state change
// events until Stop is called. sessionID may be empty (no stored credential).
func (w *Watcher) Start(ctx context.Context, sessionID string) {
	w.events, w.cancel = w.mgr.Subscribe()
	go w.run(ctx, sessionID)
}

// Stop is a no-op when Start was never called.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

// State returns the current snapshot. Loading starts true and becomes false
// exactly once, after the first session resolution.
func (w *Watcher) State() State {
	return w.state.Load().(State)
}

// SignOut requests backend invalidation of the current session. It does not
// navigate; the subsequent signed_out event triggers the policy's redirect.
func (w *Watcher) SignOut(ctx context.Context) error {
	st := w.State()
	if st.Session == nil {
		return nil
	}
	return w.mgr.SignOut(ctx, st.Session.ID)
}

func (w *Watcher) run(ctx context.Context, sessionID string) {
	defer close(w.done)

	// initial resolution; backend failure means no identity (fail closed)
	sess, usr := w.mgr.Current(ctx, sessionID)
	w.apply(Event{Type: EventInitialSession, Session: sess, User: usr})

	for ev := range w.events {
		w.apply(ev)
	}
}

// apply is only ever called from the run goroutine: one writer, many readers.
func (w *Watcher) apply(ev Event) {
	w.state.Store(State{User: ev.User, Session: ev.Session})

	var role user.Role
	if ev.User != nil {
		role = ev.User.Role
	}
	if d := access.Decide(ev.User != nil, role, w.currentPath()); d.IsRedirect() {
		w.navigate(d.Target)
	}
}
