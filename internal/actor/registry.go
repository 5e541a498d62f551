package actor

import "strings"

// Registry is the in-memory live session set for one namespace. It is owned
// by the actor goroutine and accessed only from there, so it carries no lock.
// Nothing is persisted; a restarted actor starts with an empty registry.
type Registry struct {
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Register(s *Session) {
	r.sessions[s.ID] = s
}

// Unregister removes a session and reports whether it was present. Safe to
// call twice.
func (r *Registry) Unregister(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

func (r *Registry) Get(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int {
	return len(r.sessions)
}

// ByPath returns every session viewing exactly path, except excludeID.
func (r *Registry) ByPath(path, excludeID string) []*Session {
	out := make([]*Session, 0)
	for id, s := range r.sessions {
		if id != excludeID && s.Path == path {
			out = append(out, s)
		}
	}
	return out
}

// ByNamespace returns every session inside a namespace: paths under the
// prefix plus viewers of the bare root path itself.
func (r *Registry) ByNamespace(root, prefix string) []*Session {
	out := make([]*Session, 0)
	for _, s := range r.sessions {
		if s.Path == root || strings.HasPrefix(s.Path, prefix) {
			out = append(out, s)
		}
	}
	return out
}

// All returns every registered session.
func (r *Registry) All() []*Session {
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
