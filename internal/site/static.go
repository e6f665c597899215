package site

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// StaticDirName is the directory static assets are copied into.
const StaticDirName = "static"

// CopyStatic copies src into <outDir>/static. It reports false without error
// when src does not exist.
func CopyStatic(src, outDir string) (bool, error) {
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, &fs.PathError{Op: "copy", Path: src, Err: errors.New("not a directory")}
	}
	return true, CopyDir(src, filepath.Join(outDir, StaticDirName))
}

// CopyDir recursively copies a directory tree, merging into dst.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.IsDir():
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	// #nosec G304 - src is inside the configured static directory
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	// #nosec G304 - dst is inside the output directory
	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	return dstFile.Close()
}
