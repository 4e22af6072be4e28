// Package session keeps the logout denylist for signed session tokens.
package session

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var revokedBucket = []byte("Revoked")

// Store records revoked session ids until their token would have expired anyway.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(revokedBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Revoke marks the session id as logged out until exp.
func (s *Store) Revoke(id string, exp time.Time) error {
	if id == "" {
		return nil
	}
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, uint64(exp.Unix()))
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(revokedBucket).Put([]byte(id), v)
	})
}

func (s *Store) IsRevoked(id string) (bool, error) {
	var revoked bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		revoked = tx.Bucket(revokedBucket).Get([]byte(id)) != nil
		return nil
	})
	return revoked, err
}

// Prune drops entries whose tokens have expired and returns how many were removed.
func (s *Store) Prune() (int, error) {
	cutoff := s.now().Unix()
	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(revokedBucket)
		var expired [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if len(v) != 8 || int64(binary.BigEndian.Uint64(v)) <= cutoff {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(expired)
		return nil
	})
	if err == nil && removed > 0 {
		slog.Debug("session denylist pruned", "removed", removed)
	}
	return removed, err
}
