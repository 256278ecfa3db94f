package hostexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"darkroom/internal/fileutil"
	"darkroom/internal/logging"
	"darkroom/internal/photos"
	"darkroom/internal/services"
)

// DefaultBinary is the automation runner used unless WithBinary overrides it.
const DefaultBinary = "osascript"

// exportScript runs with argv = {uuid, directory, "original"|"edited"}.
const exportScript = `on run argv
	set assetID to item 1 of argv
	set exportDir to POSIX file (item 2 of argv) as alias
	tell application "Photos"
		set theItem to media item id assetID
		if item 3 of argv is "original" then
			export {theItem} to exportDir with using originals
		else
			export {theItem} to exportDir without using originals
		end if
	end tell
end run`

// Exporter produces the file for one asset variant at dest.
type Exporter interface {
	Export(ctx context.Context, uuid, dest string, variant photos.Variant, timeout time.Duration) (string, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger attaches a logger for automation output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBinary overrides the osascript executable.
func WithBinary(binary string) Option {
	return func(c *Client) {
		if strings.TrimSpace(binary) != "" {
			c.binary = strings.TrimSpace(binary)
		}
	}
}

// Client drives Photos through osascript.
type Client struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

// New constructs an osascript-backed exporter.
func New(opts ...Option) *Client {
	client := &Client{
		binary: DefaultBinary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "hostexport")
	return client
}

// Export asks Photos to export the asset into a scratch directory, then copies
// the produced file to dest. Only the original and edited variants can be
// delegated.
func (c *Client) Export(ctx context.Context, uuid, dest string, variant photos.Variant, timeout time.Duration) (string, error) {
	if strings.TrimSpace(uuid) == "" {
		return "", services.Wrap(services.ErrInvalidOptions, "hostexport", "validate", "asset uuid required", nil)
	}
	var selector string
	switch variant {
	case photos.VariantOriginal:
		selector = "original"
	case photos.VariantEdited:
		selector = "edited"
	default:
		return "", services.Wrap(services.ErrInvalidOptions, "hostexport", "validate",
			fmt.Sprintf("variant %s cannot be exported by the host", variant), nil)
	}

	scratch, err := os.MkdirTemp("", "darkroom-hostexport-")
	if err != nil {
		return "", services.Wrap(services.ErrCopyFailed, "hostexport", "scratch dir", "", err)
	}
	defer os.RemoveAll(scratch)

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger := logging.WithContext(ctx, c.logger)
	args := []string{"-e", exportScript, uuid, scratch, selector}
	runErr := c.exec.Run(runCtx, c.binary, args, func(line string) {
		logger.Debug("osascript output", logging.String("line", line))
	})
	if runErr != nil || runCtx.Err() != nil {
		return "", classifyRunError(ctx, runCtx, timeout, runErr)
	}

	produced, err := pickProduced(scratch, dest)
	if err != nil {
		return "", services.Wrap(services.ErrCopyFailed, "hostexport", "collect", "", err)
	}
	if err := fileutil.CopyFile(produced, dest); err != nil {
		return "", services.Wrap(services.ErrCopyFailed, "hostexport", "copy", produced, err)
	}
	logger.Debug("host export complete",
		logging.String("produced", filepath.Base(produced)),
		logging.Destination(dest),
	)
	return dest, nil
}

func classifyRunError(parent, runCtx context.Context, timeout time.Duration, runErr error) error {
	switch {
	case parent.Err() != nil:
		return services.Wrap(services.ErrCopyFailed, "hostexport", "osascript", "cancelled", parent.Err())
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return services.Wrap(services.ErrCopyFailed, "hostexport", "osascript",
			fmt.Sprintf("no result after %s", timeout), services.ErrTimeout)
	default:
		return services.Wrap(services.ErrCopyFailed, "hostexport", "osascript", "", runErr)
	}
}

// pickProduced selects the exported file. Photos may write a live photo's
// video next to the still; the file sharing dest's extension wins, then the
// first non-video file by name.
func pickProduced(dir, dest string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var files []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			files = append(files, entry.Name())
		}
	}
	if len(files) == 0 {
		return "", errors.New("photos produced no file")
	}
	sort.Strings(files)

	wantExt := strings.ToLower(filepath.Ext(dest))
	for _, name := range files {
		if strings.ToLower(filepath.Ext(name)) == wantExt {
			return filepath.Join(dir, name), nil
		}
	}
	for _, name := range files {
		if strings.ToLower(filepath.Ext(name)) != ".mov" {
			return filepath.Join(dir, name), nil
		}
	}
	return filepath.Join(dir, files[0]), nil
}

type commandExecutor struct{}

// Run hands the child plain writers instead of pipes so cmd.Wait owns the
// copying goroutines and WaitDelay can cut them off when a grandchild keeps
// stdout open after a timeout.
func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.WaitDelay = 2 * time.Second
	var mu sync.Mutex
	stdout := &lineWriter{mu: &mu, emit: onOutput}
	stderr := &lineWriter{mu: &mu, emit: onOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	err := cmd.Wait()
	stdout.Flush()
	stderr.Flush()
	if err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

// lineWriter splits written bytes on newlines and reports each complete line.
// Writers sharing mu never interleave their callbacks.
type lineWriter struct {
	mu   *sync.Mutex
	emit func(string)
	buf  []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.send(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush reports a trailing line that was not newline terminated.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.send(string(w.buf))
		w.buf = nil
	}
}

func (w *lineWriter) send(line string) {
	if w.emit != nil {
		w.emit(strings.TrimSuffix(line, "\r"))
	}
}
