package db

import (
	"context"
	"fmt"
	"time"
)

// Unavailable is a Store standing in for a backend that could not be opened.
// Every operation fails with ErrUnavailable, so callers degrade instead of the
// process refusing to start.
type Unavailable struct {
	cause error
}

// NewUnavailable returns a Store whose operations all fail, wrapping cause.
func NewUnavailable(cause error) *Unavailable {
	return &Unavailable{cause: cause}
}

func (u *Unavailable) fail(op string) error {
	if u.cause == nil {
		return &Error{Op: op, Err: ErrUnavailable}
	}
	return &Error{Op: op, Err: fmt.Errorf("%w: %w", ErrUnavailable, u.cause)}
}

// Ping always fails.
func (u *Unavailable) Ping(_ context.Context) error { return u.fail(OpPing) }

// Close is a no-op.
func (u *Unavailable) Close() {}

// WaitForReady always fails.
func (u *Unavailable) WaitForReady(_ context.Context, _ time.Duration) error {
	return u.fail(OpPing)
}

func (u *Unavailable) HSet(_ context.Context, _ string, _ map[string]string) error {
	return u.fail(OpHSet)
}

func (u *Unavailable) HGet(_ context.Context, _, _ string) (string, error) {
	return "", u.fail(OpHGet)
}

func (u *Unavailable) HGetAll(_ context.Context, _ string) (map[string]string, error) {
	return nil, u.fail(OpHGetAll)
}

func (u *Unavailable) HDel(_ context.Context, _ string, _ ...string) error {
	return u.fail(OpHDel)
}

func (u *Unavailable) Del(_ context.Context, _ string) error { return u.fail(OpDel) }

func (u *Unavailable) Exists(_ context.Context, _ string) (bool, error) {
	return false, u.fail(OpExists)
}

func (u *Unavailable) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, u.fail(OpGet)
}

func (u *Unavailable) Set(_ context.Context, _ string, _ []byte) error { return u.fail(OpSet) }

func (u *Unavailable) SetWithTTL(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return u.fail(OpSet)
}

var _ Store = (*Unavailable)(nil)
