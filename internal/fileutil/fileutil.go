// Package fileutil copies media files between volumes while keeping the
// metadata a photo library relies on: permissions, modification time, and
// extended attributes.
package fileutil

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// CopyFile streams src to dst, replacing dst if it exists, and carries over
// the source permissions, modification time, and extended attributes. The
// bytes land in a temporary file next to dst that is renamed over it, so a
// read-only dst left by an earlier copy is replaced rather than reopened.
func CopyFile(src, dst string) error {
	return copyAtomic(src, dst, false)
}

// CopyFileVerified copies like CopyFile, then re-reads the copy and compares
// its BLAKE3 digest and size against the source before it replaces dst. dst
// is left untouched on mismatch.
func CopyFileVerified(src, dst string) error {
	return copyAtomic(src, dst, true)
}

func copyAtomic(src, dst string, verify bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := out.Name()
	committed := false
	defer func() {
		_ = out.Close()
		if !committed {
			_ = os.Remove(tmp)
		}
	}()

	srcHasher := blake3.New()
	written, err := io.Copy(out, io.TeeReader(in, srcHasher))
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if verify {
		if written != info.Size() {
			return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), written)
		}
		dstSum, err := hashFile(tmp)
		if err != nil {
			return fmt.Errorf("verify copy: %w", err)
		}
		if !bytes.Equal(srcHasher.Sum(nil), dstSum) {
			return fmt.Errorf("copy hash mismatch: file corrupted during copy")
		}
	}

	if err := preserveMetadata(src, tmp, info); err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	committed = true
	return nil
}

// HashFile returns the hex BLAKE3 digest of the file at path.
func HashFile(path string) (string, error) {
	sum, err := hashFile(path)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

func hashFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return nil, err
	}
	return hasher.Sum(nil), nil
}

// preserveMetadata copies extended attributes before the mode so a read-only
// source mode does not block setxattr on the copy.
func preserveMetadata(src, dst string, info os.FileInfo) error {
	if err := copyXattrs(src, dst); err != nil {
		return fmt.Errorf("preserve extended attributes: %w", err)
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("preserve mode: %w", err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserve times: %w", err)
	}
	return nil
}
