// Package storage keeps a local record of photo sightings across runs.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store remembers photo IDs reported by earlier runs. It never decides what
// gets reported; it only tells sinks whether a photo is new.
type Store interface {
	Close() error
	SeenPhoto(id string) (bool, error)
	MarkPhoto(id string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	PhotoTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultPhotoTTL        = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.PhotoTTL <= 0 {
		opts.PhotoTTL = defaultPhotoTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                   { return nil }
func (noopStore) SeenPhoto(string) (bool, error) { return false, nil }
func (noopStore) MarkPhoto(string) error         { return nil }
