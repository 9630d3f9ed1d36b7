// internal/dirlock/dirlock.go
// Directory-scoped lock around external process calls and their file I/O.
// Two layers: an in-process mutex per absolute path, then an advisory
// flock on <dir>/.irfold.lock so separate processes sharing the directory
// serialise too.
package dirlock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// LockFile is the advisory lock file created in each locked directory.
const LockFile = ".irfold.lock"

// entry is a path mutex with the number of callers holding or waiting on it.
type entry struct {
	sync.Mutex
	refs int
}

var (
	mu    sync.Mutex
	paths = map[string]*entry{}
)

func acquire(abs string) *entry {
	mu.Lock()
	e, ok := paths[abs]
	if !ok {
		e = &entry{}
		paths[abs] = e
	}
	e.refs++
	mu.Unlock()
	e.Lock()
	return e
}

// release unlocks e and forgets it once nobody else holds or waits on it.
func release(abs string, e *entry) {
	e.Unlock()
	mu.Lock()
	defer mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(paths, abs)
	}
}

// tracked reports how many directories currently have a mutex.
func tracked() int {
	mu.Lock()
	defer mu.Unlock()
	return len(paths)
}

// Lock blocks until dir is held by the caller and returns the release func.
func Lock(dir string) (func(), error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("dirlock: %w", err)
	}
	e := acquire(abs)

	f, err := os.OpenFile(filepath.Join(abs, LockFile), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		release(abs, e)
		return nil, fmt.Errorf("dirlock: %w", err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		release(abs, e)
		return nil, fmt.Errorf("dirlock %s: %w", abs, err)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			_ = unlockFile(f)
			f.Close()
			release(abs, e)
		})
	}, nil
}

// With runs fn while holding dir.
func With(dir string, fn func() error) error {
	release, err := Lock(dir)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}
