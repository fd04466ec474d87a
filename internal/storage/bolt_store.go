package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	sightingsBucket = "sightings"
	// first seen (unix) followed by expiry (unix), both big endian.
	sightingValueBytes = 16
)

var errBucketMissing = errors.New("sightings bucket missing")

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	photoTTL        time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

type sighting struct {
	firstSeen time.Time
	expiresAt time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sightingsBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		photoTTL:        opts.PhotoTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenPhoto reports whether id was marked and has not expired yet.
func (b *boltStore) SeenPhoto(id string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	var seen bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sightingsBucket))
		if bucket == nil {
			return errBucketMissing
		}
		s, ok := decodeSighting(bucket.Get([]byte(id)))
		seen = ok && s.expiresAt.After(now)
		return nil
	})
	return seen, err
}

// MarkPhoto records id with a fresh expiry. The first-seen time of an
// unexpired sighting is kept.
func (b *boltStore) MarkPhoto(id string) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sightingsBucket))
		if bucket == nil {
			return errBucketMissing
		}
		key := []byte(id)
		s := sighting{firstSeen: now, expiresAt: now.Add(b.photoTTL)}
		if prev, ok := decodeSighting(bucket.Get(key)); ok && prev.expiresAt.After(now) {
			s.firstSeen = prev.firstSeen
		}
		return bucket.Put(key, encodeSighting(s))
	})
}

// maybeCleanupExpired drops expired sightings at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	if now.Sub(time.Unix(b.lastCleanup.Load(), 0)) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(sightingsBucket))
		if bucket == nil {
			return errBucketMissing
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			s, ok := decodeSighting(v)
			if !ok || !s.expiresAt.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func encodeSighting(s sighting) []byte {
	buf := make([]byte, sightingValueBytes)
	binary.BigEndian.PutUint64(buf[:8], uint64(s.firstSeen.Unix()))
	binary.BigEndian.PutUint64(buf[8:], uint64(s.expiresAt.Unix()))
	return buf
}

func decodeSighting(value []byte) (sighting, bool) {
	if len(value) != sightingValueBytes {
		return sighting{}, false
	}
	first := int64(binary.BigEndian.Uint64(value[:8]))
	expiry := int64(binary.BigEndian.Uint64(value[8:]))
	if first <= 0 || expiry <= 0 {
		return sighting{}, false
	}
	return sighting{firstSeen: time.Unix(first, 0), expiresAt: time.Unix(expiry, 0)}, true
}
