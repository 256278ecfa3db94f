package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"darkroom/internal/dirlock"
	"darkroom/internal/services"
)

// Policy decides what happens when the target name is taken.
type Policy int

const (
	// PolicyFail rejects an export whose exact target path exists.
	PolicyFail Policy = iota
	// PolicyOverwrite replaces an existing file at the exact path.
	PolicyOverwrite
	// PolicyIncrement appends " (N)" to the stem until it is unused.
	PolicyIncrement
)

func (p Policy) String() string {
	switch p {
	case PolicyOverwrite:
		return "overwrite"
	case PolicyIncrement:
		return "increment"
	default:
		return "fail"
	}
}

// PolicyFromFlags maps the caller's overwrite/increment flags onto a Policy.
// Requesting both is ambiguous and rejected.
func PolicyFromFlags(overwrite, increment bool) (Policy, error) {
	switch {
	case overwrite && increment:
		return PolicyFail, services.Wrap(services.ErrInvalidOptions, "export", "collision policy",
			"overwrite and increment are mutually exclusive", nil)
	case overwrite:
		return PolicyOverwrite, nil
	case increment:
		return PolicyIncrement, nil
	default:
		return PolicyFail, nil
	}
}

// Reservation is a destination path handed out by Namer.Reserve. For the
// increment and fail policies an empty placeholder file holds the name until
// the copy replaces it.
type Reservation struct {
	Path        string
	placeholder bool
}

// Discard removes the placeholder if the reservation created one.
func (r Reservation) Discard() {
	if r.placeholder {
		_ = os.Remove(r.Path)
	}
}

// Namer reserves collision-free destination names.
type Namer struct {
	locks *dirlock.Locker
}

// NewNamer returns a Namer serialized by locks. A nil locker gets a
// process-local one.
func NewNamer(locks *dirlock.Locker) *Namer {
	if locks == nil {
		locks = dirlock.New("")
	}
	return &Namer{locks: locks}
}

// Reserve picks the final path for stem+suffix inside dir according to policy.
// The directory scan, the choice, and the placeholder creation happen inside
// dir's critical section.
func (n *Namer) Reserve(ctx context.Context, dir, stem, suffix string, policy Policy) (Reservation, error) {
	var res Reservation
	ran := false
	err := n.locks.Do(ctx, dir, func() error {
		ran = true
		var err error
		res, err = reserveLocked(dir, stem, suffix, policy)
		return err
	})
	if err != nil && !ran {
		return Reservation{}, services.Wrap(services.ErrCopyFailed, "export", "reserve", "lock "+dir, err)
	}
	return res, err
}

func reserveLocked(dir, stem, suffix string, policy Policy) (Reservation, error) {
	exact := filepath.Join(dir, stem+suffix)

	switch policy {
	case PolicyOverwrite:
		return Reservation{Path: exact}, nil

	case PolicyFail:
		if err := createPlaceholder(exact); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return Reservation{}, services.Wrap(services.ErrCollisionRejected, "export", "reserve",
					fmt.Sprintf("%s already exists", exact), nil)
			}
			return Reservation{}, services.Wrap(services.ErrCopyFailed, "export", "reserve", exact, err)
		}
		return Reservation{Path: exact, placeholder: true}, nil

	case PolicyIncrement:
		stems, err := existingStems(dir)
		if err != nil {
			return Reservation{}, services.Wrap(services.ErrInvalidDestination, "export", "scan destination", dir, err)
		}
		path := filepath.Join(dir, NextName(stems, stem, suffix))
		if err := createPlaceholder(path); err != nil {
			return Reservation{}, services.Wrap(services.ErrCopyFailed, "export", "reserve", path, err)
		}
		return Reservation{Path: path, placeholder: true}, nil

	default:
		return Reservation{}, services.Wrap(services.ErrInvalidOptions, "export", "reserve",
			fmt.Sprintf("unknown policy %d", policy), nil)
	}
}

// NextName returns stem+suffix when stem is not in taken, else the first
// "stem (N)"+suffix with N >= 1 that is not taken. taken holds NFC-normalized
// stems.
func NextName(taken map[string]struct{}, stem, suffix string) string {
	key := norm.NFC.String(stem)
	if _, used := taken[key]; !used {
		return stem + suffix
	}
	for n := 1; ; n++ {
		candidate := stem + " (" + strconv.Itoa(n) + ")"
		if _, used := taken[norm.NFC.String(candidate)]; !used {
			return candidate + suffix
		}
	}
}

// existingStems lists every entry name in dir with its final extension
// removed. Names are NFC-normalized so decomposed names written by other
// systems compare equal to the composed form.
func existingStems(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	stems := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		stem, _ := splitName(entry.Name())
		stems[norm.NFC.String(stem)] = struct{}{}
	}
	return stems, nil
}

func createPlaceholder(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// splitName separates a file name into stem and final extension. A leading
// dot does not start an extension, so ".DS_Store" is all stem.
func splitName(name string) (stem, suffix string) {
	suffix = filepath.Ext(name)
	if suffix == name {
		return name, ""
	}
	return strings.TrimSuffix(name, suffix), suffix
}

// stemPath strips the extension from the base name of path.
func stemPath(path string) string {
	_, suffix := splitName(filepath.Base(path))
	return strings.TrimSuffix(path, suffix)
}
