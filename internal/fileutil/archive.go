package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ArchiveFiles moves each path into dir, keeping its location relative to
// root so files with the same name in different subdirectories stay apart.
// Paths outside root keep only their base name. A destination that already
// exists is never replaced; a numeric suffix is added instead. It returns the
// new locations of the files that were moved; failures are joined into the
// error.
func ArchiveFiles(paths []string, root, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory %q: %w", dir, err)
	}

	var moved []string
	var errs []error
	for _, src := range paths {
		dst, err := archivePath(src, root, dir)
		if err == nil {
			err = MoveFile(src, dst)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("archive %q: %w", src, err))
			continue
		}
		moved = append(moved, dst)
	}
	return moved, errors.Join(errs...)
}

// archivePath returns a free destination for src under dir.
func archivePath(src, root, dir string) (string, error) {
	rel := filepath.Base(src)
	if root != "" {
		if r, err := filepath.Rel(root, src); err == nil && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			rel = r
		}
	}

	dst := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	ext := filepath.Ext(dst)
	stem := strings.TrimSuffix(dst, ext)
	for n := 1; ; n++ {
		if _, err := os.Lstat(dst); errors.Is(err, fs.ErrNotExist) {
			return dst, nil
		} else if err != nil {
			return "", err
		}
		dst = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
}

// MoveFile renames src to dst, falling back to copy and remove when the
// rename crosses filesystems.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
