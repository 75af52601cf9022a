package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by TryLock when another process holds the lock.
var ErrLocked = errors.New("database is locked by another process")

// Lock guards the database file against concurrent keepers processes.
type Lock struct {
	fl *flock.Flock
}

// LockPath is the lock file that accompanies the database at dbPath.
func LockPath(dbPath string) string {
	return dbPath + ".lock"
}

// TryLock acquires the lock without waiting.
func TryLock(dbPath string) (*Lock, error) {
	fl := flock.New(LockPath(dbPath))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		_ = fl.Close()
		return nil, ErrLocked
	}
	return &Lock{fl: fl}, nil
}

// AcquireLock tries the lock once and then waits for it, polling every
// retry until ctx is done.
func AcquireLock(ctx context.Context, dbPath string, retry time.Duration) (*Lock, error) {
	fl := flock.New(LockPath(dbPath))
	ok, err := fl.TryLock()
	if err == nil && !ok {
		ok, err = fl.TryLockContext(ctx, retry)
	}
	if err != nil {
		_ = fl.Close()
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !ok {
		_ = fl.Close()
		return nil, ErrLocked
	}
	return &Lock{fl: fl}, nil
}

// Unlock releases the lock. It is safe to call on a nil Lock.
func (l *Lock) Unlock() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
