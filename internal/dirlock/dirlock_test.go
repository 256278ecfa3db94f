package dirlock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLockSerializesSameDirectory(t *testing.T) {
	locker := New("")
	dir := t.TempDir()

	var active, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.Do(context.Background(), dir, func() error {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			if err != nil {
				t.Errorf("Do: %v", err)
			}
		}()
	}
	wg.Wait()

	if peak != 1 {
		t.Fatalf("expected at most one holder, saw %d", peak)
	}
	if len(locker.entries) != 0 {
		t.Fatalf("expected entries to be released, got %d", len(locker.entries))
	}
}

func TestLockEquivalentPathsShareSection(t *testing.T) {
	locker := New("")
	dir := t.TempDir()

	release, err := locker.Lock(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, filepath.Join(dir, "sub", ".."))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline while held, got %v", err)
	}
}

func TestLockDifferentDirectoriesIndependent(t *testing.T) {
	locker := New("")
	a, b := t.TempDir(), t.TempDir()

	releaseA, err := locker.Lock(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	releaseB, err := locker.Lock(ctx, b)
	if err != nil {
		t.Fatalf("expected independent lock, got %v", err)
	}
	releaseB()
}

func TestLockFileLivesInLockDir(t *testing.T) {
	lockDir := filepath.Join(t.TempDir(), "locks")
	dest := t.TempDir()
	locker := New(lockDir)

	release, err := locker.Lock(context.Background(), dest)
	if err != nil {
		t.Fatal(err)
	}
	release()
	release()

	path, err := locker.LockPath(dest)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != lockDir || !strings.HasSuffix(path, ".lock") {
		t.Fatalf("unexpected lock path %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected lock file: %v", err)
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("destination should stay untouched, found %d entries", len(entries))
	}
}

func TestDoPropagatesError(t *testing.T) {
	locker := New("")
	want := errors.New("boom")
	if err := locker.Do(context.Background(), t.TempDir(), func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected fn error, got %v", err)
	}
}
