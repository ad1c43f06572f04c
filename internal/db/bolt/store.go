// Package bolt implements db.Store on a local bbolt file for single-node deployments.
package bolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/kailas-cloud/recipedex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

var (
	bucketKV   = []byte("kv")
	bucketHash = []byte("hash")
)

// expiry header: 8 bytes big-endian unix nanos, 0 means no expiry.
const headerSize = 8

// Config holds parameters for a bbolt store.
type Config struct {
	Path        string
	OpenTimeout time.Duration
}

// Store implements db.Store via bbolt.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

// NewStore opens (or creates) the bbolt file and its buckets.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	bdb, err := bbolt.Open(cfg.Path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Path, err)
	}

	err = bdb.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketKV, bucketHash} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &Store{db: bdb, now: time.Now}, nil
}

// Ping checks that the file is open.
func (s *Store) Ping(_ context.Context) error {
	if err := s.db.View(func(*bbolt.Tx) error { return nil }); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close closes the file.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady returns once Ping succeeds; a local file is either open or not.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Get retrieves a value by key. Expired keys read as missing.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketKV).Get([]byte(key))
		if raw == nil || s.expired(raw) {
			return db.ErrKeyNotFound
		}
		out = append([]byte(nil), raw[headerSize:]...)
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, err
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return out, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores a value with an expiration. A non-positive ttl stores without one.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	raw := make([]byte, headerSize+len(value))
	if ttl > 0 {
		binary.BigEndian.PutUint64(raw, uint64(s.now().Add(ttl).UnixNano()))
	}
	copy(raw[headerSize:], value)

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKV).Put([]byte(key), raw)
	})
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// HSet sets hash fields.
func (s *Store) HSet(_ context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(bucketHash).CreateBucketIfNotExists([]byte(key))
		if err != nil {
			return err
		}
		for f, v := range fields {
			if err := b.Put([]byte(f), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HGet returns a single hash field.
func (s *Store) HGet(_ context.Context, key, field string) (string, error) {
	var out string
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketHash).Bucket([]byte(key))
		if b == nil {
			return db.ErrKeyNotFound
		}
		v := b.Get([]byte(field))
		if v == nil {
			return db.ErrKeyNotFound
		}
		out = string(v)
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", err
		}
		return "", &db.Error{Op: db.OpHGet, Err: err}
	}
	return out, nil
}

// HGetAll returns all fields of a hash. A missing key yields an empty map.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := make(map[string]string)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketHash).Bucket([]byte(key))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			out[string(k)] = string(v)
			return nil
		})
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return out, nil
}

// HDel removes specific fields from a hash. The hash is dropped once empty.
func (s *Store) HDel(_ context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		parent := tx.Bucket(bucketHash)
		b := parent.Bucket([]byte(key))
		if b == nil {
			return nil
		}
		for _, f := range fields {
			if err := b.Delete([]byte(f)); err != nil {
				return err
			}
		}
		if k, _ := b.Cursor().First(); k == nil {
			return parent.DeleteBucket([]byte(key))
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpHDel, Err: err}
	}
	return nil
}

// Del deletes a key of either kind.
func (s *Store) Del(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketKV).Delete([]byte(key)); err != nil {
			return err
		}
		hashes := tx.Bucket(bucketHash)
		if hashes.Bucket([]byte(key)) != nil {
			return hashes.DeleteBucket([]byte(key))
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists checks if a key of either kind exists.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		if raw := tx.Bucket(bucketKV).Get([]byte(key)); raw != nil && !s.expired(raw) {
			found = true
			return nil
		}
		found = tx.Bucket(bucketHash).Bucket([]byte(key)) != nil
		return nil
	})
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return found, nil
}

func (s *Store) expired(raw []byte) bool {
	if len(raw) < headerSize {
		return true
	}
	at := int64(binary.BigEndian.Uint64(raw[:headerSize]))
	return at != 0 && s.now().UnixNano() >= at
}
