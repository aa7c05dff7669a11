package prerender

import (
	"io/fs"
	"os"
	"path/filepath"
)

const PermOutput fs.FileMode = 0o644

// WriteFileAtomic writes data to a temporary file next to target
// and renames it over target, so a crash never leaves a half-written file.
// Parent directories are created as needed.
func WriteFileAtomic(target string, data []byte, perm fs.FileMode) error {
	if perm == 0 {
		perm = PermOutput
	}

	dir := filepath.Dir(target)
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return writeError{err: err, target: target}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return writeError{err: err, target: target}
	}

	// No-op after a successful rename
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if errClose := tmp.Close(); err == nil {
		err = errClose
	}
	if err != nil {
		return writeError{err: err, target: target}
	}

	err = os.Chmod(tmp.Name(), perm)
	if err != nil {
		return writeError{err: err, target: target}
	}

	err = os.Rename(tmp.Name(), target)
	if err != nil {
		return writeError{err: err, target: target}
	}

	return nil
}
