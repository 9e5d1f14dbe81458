// Package memory implements an in-process problem store. It backs CLI tests
// and any caller that already holds a problem snapshot.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/abrt/abrt-cli/internal/storage"
	"github.com/abrt/abrt-cli/internal/types"
)

// MemoryStorage keeps problems in insertion order. Problems with UID -1 or
// a UID equal to the configured owner are visible without auth.
type MemoryStorage struct {
	mu       sync.RWMutex
	problems []*types.Problem
	owner    int
	closed   bool
}

var _ storage.Storage = (*MemoryStorage)(nil)

// New returns a store holding problems, visible without auth to owner.
func New(owner int, problems ...*types.Problem) *MemoryStorage {
	m := &MemoryStorage{owner: owner}
	m.problems = append(m.problems, problems...)
	return m
}

// Add appends problems to the store.
func (m *MemoryStorage) Add(problems ...*types.Problem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.problems = append(m.problems, problems...)
}

// ListProblems returns a copy of the stored problems in insertion order.
func (m *MemoryStorage) ListProblems(ctx context.Context, auth bool) ([]*types.Problem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, fmt.Errorf("memory store is closed")
	}

	out := make([]*types.Problem, 0, len(m.problems))
	for _, p := range m.problems {
		if !auth && p.UID != -1 && p.UID != m.owner {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// DeleteProblem removes the problem with p's ID.
func (m *MemoryStorage) DeleteProblem(ctx context.Context, p *types.Problem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.problems {
		if existing.ID == p.ID {
			m.problems = append(m.problems[:i:i], m.problems[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %s: %w", p.ID, storage.ErrNotFound)
}

// Close marks the store closed. Further listings fail.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
