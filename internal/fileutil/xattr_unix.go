//go:build linux || darwin

package fileutil

import (
	"bytes"
	"errors"

	"golang.org/x/sys/unix"
)

// copyXattrs copies every readable extended attribute from src to dst.
// Filesystems without xattr support and attributes the process may not set
// (trusted.*, security.* on Linux) are skipped.
func copyXattrs(src, dst string) error {
	names, err := listXattrs(src)
	if err != nil {
		if skippable(err) {
			return nil
		}
		return err
	}
	for _, name := range names {
		value, err := getXattr(src, name)
		if err != nil {
			if skippable(err) || errors.Is(err, unix.ENODATA) {
				continue
			}
			return err
		}
		if err := unix.Setxattr(dst, name, value, 0); err != nil {
			if skippable(err) {
				continue
			}
			return err
		}
	}
	return nil
}

// ListXattrs returns the extended attribute names set on path.
func ListXattrs(path string) ([]string, error) {
	return listXattrs(path)
}

func listXattrs(path string) ([]string, error) {
	size, err := unix.Listxattr(path, nil)
	if err != nil || size == 0 {
		return nil, err
	}
	buf := make([]byte, size)
	size, err = unix.Listxattr(path, buf)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, raw := range bytes.Split(buf[:size], []byte{0}) {
		if len(raw) > 0 {
			names = append(names, string(raw))
		}
	}
	return names, nil
}

func getXattr(path, name string) ([]byte, error) {
	size, err := unix.Getxattr(path, name, nil)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, size)
	size, err = unix.Getxattr(path, name, buf)
	if err != nil {
		return nil, err
	}
	return buf[:size], nil
}

func skippable(err error) bool {
	return errors.Is(err, unix.ENOTSUP) ||
		errors.Is(err, unix.EOPNOTSUPP) ||
		errors.Is(err, unix.EPERM) ||
		errors.Is(err, unix.EACCES)
}
