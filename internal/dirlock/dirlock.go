// Package dirlock serializes work on a destination directory.
//
// Within a process each cleaned absolute directory path maps to a single
// semaphore. When a lock directory is configured, a flock on a file named by
// the BLAKE3 digest of the directory path extends the critical section to
// other darkroom processes without writing anything into the destination.
package dirlock

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/zeebo/blake3"
)

const retryDelay = 25 * time.Millisecond

// Locker hands out per-directory critical sections. The zero value is not
// usable; construct with New.
type Locker struct {
	lockDir string

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sem  chan struct{}
	refs int
}

// New returns a Locker. lockDir may be empty, in which case only goroutines
// of the current process are serialized.
func New(lockDir string) *Locker {
	return &Locker{lockDir: lockDir, entries: make(map[string]*entry)}
}

// LockDir reports the directory holding cross-process lock files.
func (l *Locker) LockDir() string {
	return l.lockDir
}

// Lock blocks until the critical section for dir is held or ctx is done. The
// returned release function must be called exactly once.
func (l *Locker) Lock(ctx context.Context, dir string) (func(), error) {
	key, err := canonical(dir)
	if err != nil {
		return nil, err
	}

	e := l.acquireEntry(key)
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.releaseEntry(key, e)
		return nil, ctx.Err()
	}

	var fileLock *flock.Flock
	if l.lockDir != "" {
		fileLock, err = l.lockFile(ctx, key)
		if err != nil {
			<-e.sem
			l.releaseEntry(key, e)
			return nil, err
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if fileLock != nil {
				_ = fileLock.Unlock()
			}
			<-e.sem
			l.releaseEntry(key, e)
		})
	}, nil
}

// Do runs fn while holding the critical section for dir.
func (l *Locker) Do(ctx context.Context, dir string, fn func() error) error {
	release, err := l.Lock(ctx, dir)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// LockPath returns the lock file used for dir, or "" when no lock directory
// is configured.
func (l *Locker) LockPath(dir string) (string, error) {
	if l.lockDir == "" {
		return "", nil
	}
	key, err := canonical(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.lockDir, lockName(key)), nil
}

func (l *Locker) lockFile(ctx context.Context, key string) (*flock.Flock, error) {
	if err := os.MkdirAll(l.lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	fileLock := flock.New(filepath.Join(l.lockDir, lockName(key)))
	ok, err := fileLock.TryLockContext(ctx, retryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire directory lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire directory lock: %s busy", key)
	}
	return fileLock, nil
}

func (l *Locker) acquireEntry(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) releaseEntry(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

func canonical(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve lock directory %q: %w", dir, err)
	}
	return filepath.Clean(abs), nil
}

func lockName(key string) string {
	sum := blake3.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16]) + ".lock"
}
