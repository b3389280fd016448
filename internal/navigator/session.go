package navigator

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrUnknownWindow is returned when a window identifier is not open.
var ErrUnknownWindow = errors.New("unknown window")

// SessionManager keeps the open windows of an application.
// Windows are independent: each has its own page, fragment and pending
// confirmation.
type SessionManager struct {
	app *Application

	mu      sync.RWMutex
	windows map[string]*Navigator
}

// NewSessionManager creates a SessionManager with no open window.
func NewSessionManager(app *Application) *SessionManager {
	return &SessionManager{
		app:     app,
		windows: make(map[string]*Navigator),
	}
}

// Open creates a window. Opening an identifier that is already open fails.
func (s *SessionManager) Open(opts ...Option) (*Navigator, error) {
	n := s.app.NewNavigator(opts...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.windows[n.ID()]; ok {
		return nil, fmt.Errorf("window %s is already open", n.ID())
	}
	s.windows[n.ID()] = n
	s.app.logger.Debug("window opened", "window", n.ID())
	return n, nil
}

// Get returns an open window.
func (s *SessionManager) Get(id string) (*Navigator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.windows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWindow, id)
	}
	return n, nil
}

// Close forgets a window.
func (s *SessionManager) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.windows[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWindow, id)
	}
	delete(s.windows, id)
	s.app.logger.Debug("window closed", "window", id)
	return nil
}

// Count returns the number of open windows.
func (s *SessionManager) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.windows)
}

// IDs returns the identifiers of the open windows, sorted.
func (s *SessionManager) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.windows))
}

// Placements returns the number of pages placed across the open windows.
func (s *SessionManager) Placements() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, n := range s.windows {
		total += n.Placements()
	}
	return total
}
