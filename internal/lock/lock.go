// Package lock guards an output file against concurrent writers.
package lock

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// Suffix is appended to an output path to name its lock file.
const Suffix = ".lock"

// ErrAlreadyLocked is returned when another process is writing the same
// output file.
var ErrAlreadyLocked = errors.New("another editrainer process is writing this output file")

// Flocker abstracts the subset of flock.Flock used for advisory locking.
type Flocker interface {
	TryLock() (bool, error)
	Unlock() error
}

// Lock is a fail-fast advisory lock.
type Lock struct {
	flocker Flocker
	path    string
}

// New creates a Lock from the given Flocker.
func New(f Flocker) *Lock {
	return &Lock{flocker: f}
}

// ForOutput creates a Lock on the sibling lock file of an output path.
func ForOutput(output string) *Lock {
	path := output + Suffix
	return &Lock{flocker: flock.New(path), path: path}
}

// Path returns the lock file path, or "" for a Lock built from a Flocker.
func (l *Lock) Path() string { return l.path }

// TryLock acquires the lock without blocking.
func (l *Lock) TryLock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := l.flocker.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	if !ok {
		return ErrAlreadyLocked
	}
	return nil
}

// Unlock releases the lock.
func (l *Lock) Unlock() error {
	if err := l.flocker.Unlock(); err != nil {
		return fmt.Errorf("releasing lock: %w", err)
	}
	return nil
}
