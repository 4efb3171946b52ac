package runlock

import (
	"fmt"

	"github.com/gofrs/flock"
)

// Lock guards a data directory against concurrent engine runs. Two engines
// appending to the same store would race each other on the duplicate check.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes a non-blocking exclusive lock on path. It fails immediately
// when another process already holds it.
func Acquire(path string) (*Lock, error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("another engine instance holds %s", path)
	}
	return &Lock{fl: fl}, nil
}

func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
