//go:build !linux && !darwin

package fileutil

func copyXattrs(string, string) error { return nil }

// ListXattrs reports no attributes on platforms without xattr support.
func ListXattrs(string) ([]string, error) { return nil, nil }
