package lock_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/eykd/edi-trainer-go/internal/lock"
)

// mockFlocker is a test double for the Flocker interface.
type mockFlocker struct {
	tryLockResult bool
	tryLockErr    error
	unlockErr     error
	tryLockCalled bool
	unlockCalled  bool
}

func (m *mockFlocker) TryLock() (bool, error) {
	m.tryLockCalled = true
	return m.tryLockResult, m.tryLockErr
}

func (m *mockFlocker) Unlock() error {
	m.unlockCalled = true
	return m.unlockErr
}

func TestLock_TryLock(t *testing.T) {
	errPermDenied := errors.New("permission denied")

	tests := []struct {
		name          string
		tryLockResult bool
		tryLockErr    error
		wantErr       error
	}{
		{
			name:          "succeeds when lock is available",
			tryLockResult: true,
			wantErr:       nil,
		},
		{
			name:          "returns ErrAlreadyLocked when lock is held",
			tryLockResult: false,
			wantErr:       lock.ErrAlreadyLocked,
		},
		{
			name:          "wraps underlying flock error",
			tryLockResult: false,
			tryLockErr:    errPermDenied,
			wantErr:       errPermDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockFlocker{
				tryLockResult: tt.tryLockResult,
				tryLockErr:    tt.tryLockErr,
			}
			l := lock.New(m)

			err := l.TryLock(context.Background())

			if !m.tryLockCalled {
				t.Error("expected TryLock to be called on flocker")
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLock_TryLock_AlreadyLocked_HasClearMessage(t *testing.T) {
	m := &mockFlocker{
		tryLockResult: false,
		tryLockErr:    nil,
	}
	l := lock.New(m)

	err := l.TryLock(context.Background())

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	want := "another editrainer process is writing this output file"
	if err.Error() != want {
		t.Errorf("error message = %q, want %q", err.Error(), want)
	}
}

func TestLock_Unlock(t *testing.T) {
	tests := []struct {
		name      string
		unlockErr error
		wantErr   bool
	}{
		{
			name:      "succeeds when unlock works",
			unlockErr: nil,
			wantErr:   false,
		},
		{
			name:      "propagates unlock error",
			unlockErr: errors.New("unlock failed"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockFlocker{
				unlockErr: tt.unlockErr,
			}
			l := lock.New(m)

			err := l.Unlock()

			if !m.unlockCalled {
				t.Error("expected Unlock to be called on flocker")
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.unlockErr != nil && err != nil {
				if !errors.Is(err, tt.unlockErr) {
					t.Errorf("error should wrap %v, got: %v", tt.unlockErr, err)
				}
			}
		})
	}
}

func TestLock_ReleasesAfterWrite(t *testing.T) {
	m := &mockFlocker{tryLockResult: true}
	l := lock.New(m)

	write := func() error {
		if err := l.TryLock(context.Background()); err != nil {
			return err
		}
		defer l.Unlock()
		return errors.New("write failed")
	}

	if err := write(); err == nil {
		t.Fatal("expected write error")
	}
	if !m.unlockCalled {
		t.Error("Unlock was not called after a failed write")
	}
}

func TestLock_TryLock_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel before TryLock

	m := &mockFlocker{
		tryLockResult: true,
	}
	l := lock.New(m)

	err := l.TryLock(ctx)

	if err == nil {
		t.Fatal("expected error for cancelled context, got nil")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should be context.Canceled, got: %v", err)
	}
}

func TestForOutput_UsesSiblingLockFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "batch.edi")

	l := lock.ForOutput(out)

	if got, want := l.Path(), out+lock.Suffix; got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestForOutput_SecondWriterIsRejected(t *testing.T) {
	out := filepath.Join(t.TempDir(), "batch.edi")
	first := lock.ForOutput(out)
	second := lock.ForOutput(out)

	if err := first.TryLock(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := second.TryLock(context.Background()); !errors.Is(err, lock.ErrAlreadyLocked) {
		t.Errorf("second TryLock error = %v, want ErrAlreadyLocked", err)
	}
	if err := first.Unlock(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := second.TryLock(context.Background()); err != nil {
		t.Errorf("TryLock after release: %v", err)
	}
	_ = second.Unlock()
}
