// Package storage defines the problem store interface.
//
// The concrete implementation that reads problem directories lives in the
// dumpdir sub-package; memory holds an in-process store for tests. Consumers
// (cmd/abrt, telemetry) depend on this interface only.
package storage

import (
	"context"
	"errors"

	"github.com/abrt/abrt-cli/internal/types"
)

// ErrNotFound is returned when a problem no longer exists in the store.
var ErrNotFound = errors.New("problem not found")

// ErrLocked is returned when a problem is held by another live process for
// longer than the configured lock timeout.
var ErrLocked = errors.New("problem is locked")

// ErrPermission is returned when the caller may not read or remove a problem.
var ErrPermission = errors.New("permission denied")

// Storage is the problem store seen by the CLI.
//
// ListProblems returns a fresh snapshot on every call; callers must not cache
// it across commands. With auth set, problems owned by other users are
// included as far as the process can read them.
type Storage interface {
	ListProblems(ctx context.Context, auth bool) ([]*types.Problem, error)
	DeleteProblem(ctx context.Context, p *types.Problem) error

	// Close releases any resources held by the store.
	Close() error
}

// Watcher is implemented by stores whose contents live under a directory
// that can be watched for changes.
type Watcher interface {
	WatchPath() string
}
