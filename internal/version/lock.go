package version

import (
	"os"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/crayontools/internal/errors"
)

const lockSuffix = ".lock"

// acquireLock creates path+".lock" holding the current PID. A lock left by a
// process that no longer runs is taken over.
func acquireLock(path string) (func() error, error) {
	errFactory := errors.New()
	lockPath := path + lockSuffix

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(lockPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				os.Remove(lockPath)
				return nil, errFactory.Wrap(ErrWriteFile, werr)
			}

			return func() error { return releaseLock(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, errFactory.Wrap(ErrWriteFile, err)
		}

		if lockHolderAlive(lockPath) {
			return nil, errFactory.WithData(ErrLocked, lockPath)
		}

		if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(ErrWriteFile, err)
		}
	}

	return nil, errFactory.WithData(ErrLocked, lockPath)
}

func lockHolderAlive(lockPath string) bool {
	bytes, err := os.ReadFile(lockPath)
	if err != nil {
		return false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
	if err != nil || pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return signalReachedProcess(process.Signal(syscall.Signal(0)))
}

// signalReachedProcess interprets the result of signalling a PID with 0. EPERM
// means the process exists but belongs to another user.
func signalReachedProcess(err error) bool {
	return err == nil || errors.Is(err, syscall.EPERM)
}

func releaseLock(lockPath string) error {
	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(ErrWriteFile, err)
	}

	return nil
}
