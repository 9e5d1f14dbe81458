package dumpdir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/abrt/abrt-cli/internal/debug"
	"github.com/abrt/abrt-cli/internal/storage"
)

// lockName is the symlink the daemon and its tools use to lock a problem
// directory. Its target is the owner's pid.
const lockName = ".lock"

var errHeld = errors.New("lock held")

func newLockBackoff(timeout time.Duration) backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 20 * time.Millisecond
	bo.MaxInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = timeout
	return bo
}

// lockOwner returns the pid recorded in dir's lock, or 0 when the directory
// is not locked.
func lockOwner(dir string) (int, error) {
	target, err := os.Readlink(filepath.Join(dir, lockName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, classify(err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(target))
	if err != nil {
		// Garbage in the lock cannot name a live owner.
		return 0, nil
	}
	return pid, nil
}

// checkLock returns errHeld while a live process other than us owns the lock.
func checkLock(dir string) error {
	pid, err := lockOwner(dir)
	if err != nil {
		return err
	}
	if pid == 0 || pid == os.Getpid() {
		return nil
	}
	if !processAlive(pid) {
		debug.Logf("%s: ignoring stale lock of pid %d\n", dir, pid)
		return nil
	}
	return errHeld
}

// retryWhileHeld runs op until it stops returning errHeld or the timeout
// expires. Any other error stops the retry immediately.
func retryWhileHeld(ctx context.Context, timeout time.Duration, op func() error) error {
	err := backoff.Retry(func() error {
		err := op()
		if err != nil && !errors.Is(err, errHeld) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(newLockBackoff(timeout), ctx))
	if errors.Is(err, errHeld) {
		return storage.ErrLocked
	}
	return err
}

// waitUnlocked blocks until dir is not locked by another live process.
func waitUnlocked(ctx context.Context, dir string, timeout time.Duration) error {
	return retryWhileHeld(ctx, timeout, func() error {
		return checkLock(dir)
	})
}

// acquireLock takes dir's lock, replacing a stale one. The returned function
// releases it.
func acquireLock(ctx context.Context, dir string, timeout time.Duration) (func(), error) {
	path := filepath.Join(dir, lockName)
	self := strconv.Itoa(os.Getpid())

	err := retryWhileHeld(ctx, timeout, func() error {
		err := os.Symlink(self, path)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return classify(err)
		}
		if err := checkLock(dir); err != nil {
			return err
		}
		// Stale or ours: clear it and take it over.
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return classify(err)
		}
		if err := os.Symlink(self, path); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return errHeld
			}
			return classify(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lock: %w", err)
	}
	return func() { _ = os.Remove(path) }, nil
}
