package web

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/tableview/internal/dataset"
	"github.com/JonMunkholm/tableview/internal/view"
)

// Session is one open view over a dataset. The engine is single-threaded,
// so every access goes through Do.
type Session struct {
	ID         string
	DatasetKey string
	Label      string
	Created    time.Time

	mu       sync.Mutex
	engine   *view.Engine
	renderer *HTMLRenderer
	lastUsed atomic.Int64
}

// Do runs fn with exclusive access to the session's engine and renderer.
func (s *Session) Do(fn func(e *view.Engine, r *HTMLRenderer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine, s.renderer)
}

// SessionStore holds the open views, capped at max and expired after ttl
// without use.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	max      int
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore(max int, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		max:      max,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create opens a view over ds and draws it once. opts.Renderer and
// opts.ContainerID are set by the store.
func (st *SessionStore) Create(ds dataset.Dataset, opts view.Options) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.sessions) >= st.max {
		return nil, ErrTooManyViews
	}

	id := uuid.NewString()
	renderer := NewHTMLRenderer(id)
	opts.ContainerID = "view-" + id
	opts.Renderer = renderer
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	opts.Logger = opts.Logger.With("view_id", id, "dataset", ds.Key)

	engine := view.New(ds.Records, ds.Columns, opts)
	engine.Render()

	now := st.now()
	sess := &Session{
		ID:         id,
		DatasetKey: ds.Key,
		Label:      ds.Label,
		Created:    now,
		engine:     engine,
		renderer:   renderer,
	}
	sess.lastUsed.Store(now.UnixNano())
	st.sessions[id] = sess
	return sess, nil
}

// Get returns the session and marks it used.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	sess.lastUsed.Store(st.now().UnixNano())
	return sess, nil
}

// Delete closes a session. Unknown ids are ignored.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of open sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the ttl and returns how many
// were dropped.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.now().Add(-st.ttl).UnixNano()
	dropped := 0
	for id, sess := range st.sessions {
		if sess.lastUsed.Load() < cutoff {
			delete(st.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps every interval until ctx is done.
func (st *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Info("idle views dropped", "count", n, "open", st.Len())
			}
		}
	}
}
