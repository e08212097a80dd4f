package kdb1

import "os"

func lockPath(path string) string {
	return path + ".lock"
}

// acquireLock creates the advisory sidecar lock file for path if it does
// not already exist. It is best-effort: a stale lock left by a crashed
// process is not detected or cleared, matching the original's behavior.
func acquireLock(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(lockPath(path)); err == nil {
		return nil
	}
	f, err := os.OpenFile(lockPath(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return newError(KindFileIO, "acquireLock", err)
	}
	return f.Close()
}

// releaseLock removes the sidecar lock file for path, if present.
func releaseLock(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(lockPath(path))
	if err != nil && !os.IsNotExist(err) {
		return newError(KindFileIO, "releaseLock", err)
	}
	return nil
}
