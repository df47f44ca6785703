package sync

import (
	"io"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

// Variables mocked for unit testing.
var (
	copyFile   = copyFileImpl
	removeFile = removeFileImpl
)

// copyFileImpl copies the contents of `src` to `dst`, and then copies the
// file mode and modification time so that the replica carries the source's
// metadata.
func copyFileImpl(fs afero.Fs, src, dst string) error {
	srcFile, err := fs.Open(src)
	if err != nil {
		// The file was removed from the source after the snapshot.
		if os.IsNotExist(err) {
			return errors.FileNotFound{Path: src}
		}
		return errors.WithContext(err, "open source")
	}
	defer srcFile.Close()

	fileInfo, err := srcFile.Stat()
	if err != nil {
		return errors.WithContext(err, "stat")
	}

	if !fileInfo.Mode().IsRegular() {
		return errors.New("%s is not a regular file", src)
	}

	if err := clearDestination(fs, dst); err != nil {
		return errors.WithContext(err, "replace destination")
	}

	dstFile, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.WithContext(err, "open destination")
	}

	// The destination is closed explicitly rather than deferred, since
	// closing a written file can bump its modification time.
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.WithContext(err, "copy")
	}

	if err := dstFile.Close(); err != nil {
		return errors.WithContext(err, "close destination")
	}

	if err := fs.Chmod(dst, fileInfo.Mode().Perm()); err != nil {
		return errors.WithContext(err, "set file mode")
	}

	// Change the modification time as the last step so that it doesn't get
	// reset by other file operations.
	if err := fs.Chtimes(dst, time.Now(), fileInfo.ModTime()); err != nil {
		return errors.WithContext(err, "set file modtime")
	}
	return nil
}

// clearDestination removes `dst` if it can't be overwritten in place: a
// read-only file copied from a read-only source, or a symlink, which would
// otherwise be written through.
func clearDestination(fs afero.Fs, dst string) error {
	info, err := lstat(fs, dst)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	mode := info.Mode()
	if mode&os.ModeSymlink != 0 || (mode.IsRegular() && mode.Perm()&0200 == 0) {
		return fs.Remove(dst)
	}
	return nil
}

func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if lstater, ok := fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}

func removeFileImpl(fs afero.Fs, path string) error {
	err := fs.Remove(path)
	if os.IsNotExist(err) {
		return errors.FileNotFound{Path: path}
	}
	return err
}
