package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDestination = errors.New("invalid destination")
	ErrSourceNotFound     = errors.New("source not found")
	ErrCollisionRejected  = errors.New("collision rejected")
	ErrCopyFailed         = errors.New("copy failed")
	ErrSidecarWriteFailed = errors.New("sidecar write failed")

	ErrInvalidOptions = errors.New("invalid options")
	ErrConfiguration  = errors.New("configuration error")
	ErrNotFound       = errors.New("not found")
	ErrTimeout        = errors.New("timeout")
)

// markers lists the classification sentinels in the order Kind checks them.
var markers = []error{
	ErrInvalidDestination,
	ErrSourceNotFound,
	ErrCollisionRejected,
	ErrCopyFailed,
	ErrSidecarWriteFailed,
	ErrInvalidOptions,
	ErrConfiguration,
	ErrNotFound,
	ErrTimeout,
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrCopyFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns the text of the first classification marker carried by err, or
// "error" when err carries none. Nil errors report "ok".
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, marker := range markers {
		if errors.Is(err, marker) {
			return marker.Error()
		}
	}
	return "error"
}

// PartialExportError reports a failure that happened after the media file was
// already written. Path names the file that remains on disk.
type PartialExportError struct {
	Path string
	Err  error
}

func (e *PartialExportError) Error() string {
	return fmt.Sprintf("exported %s but: %v", e.Path, e.Err)
}

func (e *PartialExportError) Unwrap() error { return e.Err }

// ProducedPath returns the path recorded on a PartialExportError in err's chain.
func ProducedPath(err error) (string, bool) {
	var partial *PartialExportError
	if errors.As(err, &partial) && partial.Path != "" {
		return partial.Path, true
	}
	return "", false
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
