package db

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUnavailable(t *testing.T) {
	cause := errors.New("open /missing/dir/recipedex.db: no such file or directory")
	s := NewUnavailable(cause)
	ctx := context.Background()

	_, getErr := s.Get(ctx, "k")
	_, hgetErr := s.HGet(ctx, "k", "f")
	_, hgetAllErr := s.HGetAll(ctx, "k")
	_, existsErr := s.Exists(ctx, "k")

	tests := []struct {
		op   string
		err  error
		want string
	}{
		{"ping", s.Ping(ctx), OpPing},
		{"wait", s.WaitForReady(ctx, time.Second), OpPing},
		{"hset", s.HSet(ctx, "k", map[string]string{"f": "v"}), OpHSet},
		{"hget", hgetErr, OpHGet},
		{"hgetall", hgetAllErr, OpHGetAll},
		{"hdel", s.HDel(ctx, "k", "f"), OpHDel},
		{"del", s.Del(ctx, "k"), OpDel},
		{"exists", existsErr, OpExists},
		{"get", getErr, OpGet},
		{"set", s.Set(ctx, "k", []byte("v")), OpSet},
		{"setttl", s.SetWithTTL(ctx, "k", []byte("v"), time.Minute), OpSet},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			var dbErr *Error
			if !errors.As(tt.err, &dbErr) {
				t.Fatalf("expected *Error, got %v", tt.err)
			}
			if dbErr.Op != tt.want {
				t.Errorf("Op = %q, want %q", dbErr.Op, tt.want)
			}
			if !errors.Is(tt.err, ErrUnavailable) {
				t.Errorf("expected ErrUnavailable, got %v", tt.err)
			}
			if !errors.Is(tt.err, cause) {
				t.Errorf("cause lost: %v", tt.err)
			}
		})
	}

	s.Close()
}

func TestUnavailable_NilCause(t *testing.T) {
	err := NewUnavailable(nil).Ping(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
