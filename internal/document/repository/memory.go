package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xytext/xytext/internal/document"
)

// MemoryRepo is an in-memory repository used for unit tests and for running
// without MongoDB configured. Contents do not survive a restart.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*document.Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*document.Document)}
}

func (m *MemoryRepo) Get(ctx context.Context, path string) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[path]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Upsert(ctx context.Context, path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UnixMilli()
	if d, ok := m.store[path]; ok {
		d.Content = content
		d.UpdatedAt = now
		return nil
	}
	m.store[path] = &document.Document{Path: path, Content: content, CreatedAt: now, UpdatedAt: now}
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[path]; !ok {
		return false, nil
	}
	delete(m.store, path)
	return true, nil
}

func (m *MemoryRepo) ListByPrefix(ctx context.Context, prefix string) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*document.Document, 0)
	for p, d := range m.store {
		if strings.HasPrefix(p, prefix) {
			cp := *d
			out = append(out, &cp)
		}
	}
	// stable order for listings
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
