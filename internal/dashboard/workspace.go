package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"catalog-admin/internal/pages"
)

// ScreenFactory builds an unmounted resource page.
type ScreenFactory interface {
	New(resource string) (pages.Screen, error)
}

// Workspace holds the page a session currently has open. Only one page is
// mounted at a time; opening another drops the previous one with its state.
type Workspace struct {
	factory ScreenFactory

	mu      sync.Mutex
	current pages.Screen
	user    *User
}

func NewWorkspace(factory ScreenFactory, user *User) *Workspace {
	return &Workspace{factory: factory, user: user}
}

func (w *Workspace) User() *User {
	return w.user
}

// Open returns the mounted page for resource, mounting it first if another
// page (or none) was open. Mount errors land in the page banner and are
// returned alongside the page.
func (w *Workspace) Open(ctx context.Context, resource string) (pages.Screen, error) {
	w.mu.Lock()
	if w.current != nil && w.current.Name() == resource {
		s := w.current
		w.mu.Unlock()
		return s, nil
	}
	w.mu.Unlock()

	screen, err := w.factory.New(resource)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.current = screen
	w.mu.Unlock()

	return screen, screen.Mount(ctx)
}

// Current returns the mounted page if it is resource.
func (w *Workspace) Current(resource string) (pages.Screen, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil || w.current.Name() != resource {
		return nil, false
	}
	return w.current, true
}

func (w *Workspace) Unmount() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = nil
}

type workspaceEntry struct {
	ws       *Workspace
	lastSeen time.Time
}

// Workspaces maps session ids to their workspace and drops idle ones.
type Workspaces struct {
	ttl    time.Duration
	build  func(sessionID string) ScreenFactory
	logger *logrus.Logger
	now    func() time.Time

	mu    sync.Mutex
	items map[string]*workspaceEntry
}

// NewWorkspaces creates the per-session registry. build is called once per session.
func NewWorkspaces(ttl time.Duration, build func(sessionID string) ScreenFactory, logger *logrus.Logger) *Workspaces {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Workspaces{
		ttl:    ttl,
		build:  build,
		logger: logger,
		now:    time.Now,
		items:  make(map[string]*workspaceEntry),
	}
}

// Get returns the workspace of a session, creating it for user on first use.
func (s *Workspaces) Get(sessionID string, user *User) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.items[sessionID]; ok {
		e.lastSeen = s.now()
		return e.ws
	}
	ws := NewWorkspace(s.build(sessionID), user)
	s.items[sessionID] = &workspaceEntry{ws: ws, lastSeen: s.now()}
	return ws
}

// Drop unmounts and forgets a session's workspace.
func (s *Workspaces) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
}

func (s *Workspaces) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep drops workspaces idle for longer than the TTL.
func (s *Workspaces) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	dropped := 0
	for id, e := range s.items {
		if e.lastSeen.Before(cutoff) {
			delete(s.items, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps every interval until ctx is done.
func (s *Workspaces) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.WithField("dropped", n).Debug("Swept idle workspaces")
			}
		}
	}
}
