package actor

import (
	"sync"

	"github.com/xytext/xytext/internal/document/repository"
)

// Manager owns the per-namespace actor table. It hands out at most one running
// actor per namespace; different namespaces proceed independently.
type Manager struct {
	mu       sync.Mutex
	actors   map[string]*Actor
	repo     repository.Repository
	archiver Archiver
}

func NewManager(repo repository.Repository, archiver Archiver) *Manager {
	return &Manager{
		actors:   make(map[string]*Actor),
		repo:     repo,
		archiver: archiver,
	}
}

// Actor returns the running actor for namespace, starting one on first use.
func (m *Manager) Actor(namespace string) *Actor {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.actors[namespace]; ok {
		return a
	}
	a := New(namespace, m.repo, m.archiver)
	m.actors[namespace] = a
	go a.Run()
	return a
}

// Close stops every running actor. Used on shutdown and in tests.
func (m *Manager) Close() {
	m.mu.Lock()
	actors := make([]*Actor, 0, len(m.actors))
	for _, a := range m.actors {
		actors = append(actors, a)
	}
	m.actors = make(map[string]*Actor)
	m.mu.Unlock()
	for _, a := range actors {
		a.Close()
	}
}
