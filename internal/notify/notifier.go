package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/photo-scout/internal/domain"
	"github.com/Adda-Baaj/photo-scout/internal/logger"
	"github.com/Adda-Baaj/photo-scout/pkg/publishers"
)

// Notifier turns reported photos into events for the configured publishers
// and records each sighting.
type Notifier struct {
	query     string
	publisher EventPublisher
	sightings Sightings
	log       logger.Logger
}

// NewNotifier wires a notifier. publisher and sightings may be nil.
func NewNotifier(query string, publisher EventPublisher, sightings Sightings, log logger.Logger) *Notifier {
	return &Notifier{
		query:     query,
		publisher: publisher,
		sightings: sightings,
		log:       logger.Ensure(log),
	}
}

// HandlePhotos publishes one event per photo in order. A photo is marked as
// seen only when at least one publisher accepted it (or no publisher is set).
// It stops early when ctx is cancelled.
func (n *Notifier) HandlePhotos(ctx context.Context, photos []domain.Photo) error {
	if n == nil {
		return nil
	}

	var errs []error
	published, fresh := 0, 0
	for i, p := range photos {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		firstSeen := n.isFirstSighting(p)
		if firstSeen {
			fresh++
		}

		if n.publisher != nil {
			d, err := n.publisher.Publish(ctx, publishers.NewEvent(n.query, p, i, firstSeen))
			if err != nil {
				errs = append(errs, fmt.Errorf("publish photo %s: %w", p.ID, err))
				if !d.Delivered() {
					continue
				}
			}
			published++
		}

		if n.sightings != nil {
			if err := n.sightings.MarkPhoto(p.ID); err != nil {
				errs = append(errs, fmt.Errorf("mark photo %s: %w", p.ID, err))
			}
		}
	}

	n.log.InfoObj("photo notifications completed", "notify_result", map[string]any{
		"query":      n.query,
		"photos":     len(photos),
		"published":  published,
		"first_seen": fresh,
		"errors":     len(errs),
	})
	return errors.Join(errs...)
}

// isFirstSighting treats lookup failures as new photos so they still flow downstream.
func (n *Notifier) isFirstSighting(p domain.Photo) bool {
	if n.sightings == nil {
		return true
	}
	seen, err := n.sightings.SeenPhoto(p.ID)
	if err != nil {
		n.log.WarnObj("sighting lookup failed", "sighting_error", map[string]any{
			"photo_id": p.ID,
			"error":    err.Error(),
		})
		return true
	}
	return !seen
}
