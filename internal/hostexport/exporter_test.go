package hostexport_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"darkroom/internal/hostexport"
	"darkroom/internal/photos"
	"darkroom/internal/services"
)

// fakePhotos mimics osascript by writing files into the scratch directory
// passed as the second script argument.
type fakePhotos struct {
	files map[string]string
	err   error
	block bool
	args  []string
}

func (f *fakePhotos) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	f.args = append([]string(nil), args...)
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	scratch := args[len(args)-2]
	for name, content := range f.files {
		if err := os.WriteFile(filepath.Join(scratch, name), []byte(content), 0o644); err != nil {
			return err
		}
	}
	onOutput("exported")
	return f.err
}

func TestExportCopiesProducedFile(t *testing.T) {
	fake := &fakePhotos{files: map[string]string{"IMG_0001.JPG": "still", "IMG_0001.mov": "motion"}}
	client := hostexport.New(hostexport.WithExecutor(fake))
	dest := filepath.Join(t.TempDir(), "IMG_0001.jpg")

	got, err := client.Export(context.Background(), "A1", dest, photos.VariantOriginal, time.Second)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got != dest {
		t.Fatalf("expected %q, got %q", dest, got)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "still" {
		t.Fatalf("expected still image to be chosen, got %q", data)
	}
	if fake.args[0] != "-e" || !strings.Contains(fake.args[1], "with using originals") {
		t.Fatalf("unexpected script args %v", fake.args[:2])
	}
	if fake.args[2] != "A1" || fake.args[len(fake.args)-1] != "original" {
		t.Fatalf("unexpected argv %v", fake.args[2:])
	}
}

func TestExportEditedSelector(t *testing.T) {
	fake := &fakePhotos{files: map[string]string{"render.jpeg": "edited"}}
	client := hostexport.New(hostexport.WithExecutor(fake))
	dest := filepath.Join(t.TempDir(), "IMG_0001_edited.jpeg")

	if _, err := client.Export(context.Background(), "A1", dest, photos.VariantEdited, 0); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if fake.args[len(fake.args)-1] != "edited" {
		t.Fatalf("expected edited selector, got %v", fake.args)
	}
}

func TestExportTimeout(t *testing.T) {
	client := hostexport.New(hostexport.WithExecutor(&fakePhotos{block: true}))
	dest := filepath.Join(t.TempDir(), "x.jpg")

	start := time.Now()
	_, err := client.Export(context.Background(), "A1", dest, photos.VariantOriginal, 30*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, services.ErrCopyFailed) || !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected copy failed + timeout, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatal("export did not honour timeout")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("expected no destination file, stat err %v", statErr)
	}
}

func TestExportFailures(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "x.jpg")

	client := hostexport.New(hostexport.WithExecutor(&fakePhotos{err: errors.New("photos says no")}))
	if _, err := client.Export(context.Background(), "A1", dest, photos.VariantOriginal, time.Second); !errors.Is(err, services.ErrCopyFailed) {
		t.Fatalf("expected ErrCopyFailed, got %v", err)
	}

	client = hostexport.New(hostexport.WithExecutor(&fakePhotos{}))
	if _, err := client.Export(context.Background(), "A1", dest, photos.VariantOriginal, time.Second); !errors.Is(err, services.ErrCopyFailed) {
		t.Fatalf("expected ErrCopyFailed when nothing produced, got %v", err)
	}

	if _, err := client.Export(context.Background(), "A1", dest, photos.VariantLiveCompanion, time.Second); !errors.Is(err, services.ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions for live variant, got %v", err)
	}
}

func TestExportTimeoutWithLingeringChild(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	script := filepath.Join(t.TempDir(), "fake-osascript")
	body := "#!/bin/sh\nsleep 8 &\nsleep 8\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	client := hostexport.New(hostexport.WithBinary(script))
	dest := filepath.Join(t.TempDir(), "x.jpg")

	start := time.Now()
	_, err := client.Export(context.Background(), "A1", dest, photos.VariantOriginal, 300*time.Millisecond)
	elapsed := time.Since(start)
	if !errors.Is(err, services.ErrCopyFailed) || !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected copy failed + timeout, got %v", err)
	}
	if elapsed > 5*time.Second {
		t.Fatalf("export returned after %s, background child held it open", elapsed)
	}
}
