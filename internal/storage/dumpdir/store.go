// Package dumpdir implements storage.Storage over the problem directories
// written by the abrt daemon. Each problem is a directory; each element of
// the problem is a file inside it.
package dumpdir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abrt/abrt-cli/internal/debug"
	"github.com/abrt/abrt-cli/internal/idgen"
	"github.com/abrt/abrt-cli/internal/storage"
	"github.com/abrt/abrt-cli/internal/types"
)

const (
	// DefaultPath is where the daemon keeps problem directories.
	DefaultPath = "/var/spool/abrt"

	defaultConcurrency = 8
	defaultLockTimeout = 5 * time.Second
)

// Options configures a Store. Zero values select the defaults.
type Options struct {
	Path        string
	Concurrency int
	LockTimeout time.Duration

	// Geteuid reports the caller's effective uid. Defaults to os.Geteuid.
	Geteuid func() int

	// Warnings receives problems skipped while listing. Defaults to os.Stderr.
	Warnings io.Writer
}

// Store reads problems from a dump location.
type Store struct {
	path        string
	concurrency int
	lockTimeout time.Duration
	euid        int
	warnings    io.Writer
}

var (
	_ storage.Storage = (*Store)(nil)
	_ storage.Watcher = (*Store)(nil)
)

// New returns a store over opts.Path. A missing dump location is not an
// error: it simply holds no problems.
func New(opts Options) (*Store, error) {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.LockTimeout < 0 {
		return nil, fmt.Errorf("dumpdir: negative lock timeout %s", opts.LockTimeout)
	}
	if opts.LockTimeout == 0 {
		opts.LockTimeout = defaultLockTimeout
	}
	if opts.Geteuid == nil {
		opts.Geteuid = os.Geteuid
	}
	if opts.Warnings == nil {
		opts.Warnings = os.Stderr
	}
	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("dumpdir: resolve %s: %w", opts.Path, err)
	}
	return &Store{
		path:        abs,
		concurrency: opts.Concurrency,
		lockTimeout: opts.LockTimeout,
		euid:        opts.Geteuid(),
		warnings:    opts.Warnings,
	}, nil
}

// WatchPath returns the dump location.
func (s *Store) WatchPath() string {
	return s.path
}

// Close is a no-op; the store holds no open handles between calls.
func (s *Store) Close() error {
	return nil
}

// ListProblems loads every problem directory under the dump location. The
// result is in directory-name order regardless of load concurrency.
func (s *Store) ListProblems(ctx context.Context, auth bool) ([]*types.Problem, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			debug.Logf("dump location %s does not exist\n", s.path)
			return nil, nil
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("read dump location %s: %w", s.path, storage.ErrPermission)
		}
		return nil, fmt.Errorf("read dump location %s: %w", s.path, err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(s.path, e.Name()))
		}
	}
	sort.Strings(dirs)

	loaded := make([]*types.Problem, len(dirs))
	var unreadable atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := s.load(gctx, dir, auth)
			switch {
			case err == nil:
				loaded[i] = p
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			case errors.Is(err, storage.ErrLocked):
				debug.Warnf(s.warnings, "skipping %s: %v", dir, err)
			case errors.Is(err, storage.ErrPermission):
				unreadable.Add(1)
				debug.Logf("skipping %s: %v\n", dir, err)
			default:
				debug.Logf("skipping %s: %v\n", dir, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if n := unreadable.Load(); n > 0 {
		debug.Logf("%d problem(s) could not be read\n", n)
	}

	problems := make([]*types.Problem, 0, len(loaded))
	for _, p := range loaded {
		if p != nil {
			problems = append(problems, p)
		}
	}
	return problems, nil
}

// load reads one directory. It returns (nil, nil) for directories that are
// not problems or that the caller may not see.
func (s *Store) load(ctx context.Context, dir string, auth bool) (*types.Problem, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, classify(err)
	}

	d := &dumpDir{path: dir}
	uid, hasUID, err := d.uid()
	if err != nil {
		return nil, err
	}
	if !auth && !s.visible(info, uid, hasUID) {
		return nil, nil
	}

	if err := waitUnlocked(ctx, dir, s.lockTimeout); err != nil {
		return nil, err
	}

	return d.problem()
}

// visible applies the non-auth rule: the caller's own problems, plus
// world-readable problems that belong to nobody in particular.
func (s *Store) visible(info fs.FileInfo, uid int, hasUID bool) bool {
	if hasUID {
		return uid == s.euid
	}
	return info.Mode().Perm()&0o004 != 0
}

// DeleteProblem locks the problem directory and removes it.
func (s *Store) DeleteProblem(ctx context.Context, p *types.Problem) error {
	dir := p.Path
	if dir == "" {
		dir = p.ID
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("delete %s: %w", dir, classify(err))
	}

	unlock, err := acquireLock(ctx, dir, s.lockTimeout)
	if err != nil {
		return fmt.Errorf("delete %s: %w", dir, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		unlock()
		return fmt.Errorf("delete %s: %w", dir, classify(err))
	}
	return nil
}

// NewProblem builds the identity fields of a problem stored at dir.
func NewProblem(dir string) *types.Problem {
	return &types.Problem{
		ID:      dir,
		ShortID: idgen.ShortID(dir),
		Path:    dir,
		UID:     -1,
		Count:   1,
	}
}

func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return storage.ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", storage.ErrPermission, err)
	default:
		return err
	}
}
