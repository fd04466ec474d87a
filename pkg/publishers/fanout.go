package publishers

import (
	"context"
	"errors"
	"fmt"
)

// Delivery records which publishers accepted one photo event. Skipped lists
// publishers that do not take this event (first_seen_only on a known photo).
type Delivery struct {
	PhotoID  string
	Accepted []string
	Rejected []string
	Skipped  []string
}

// Delivered reports whether at least one publisher accepted the event.
func (d Delivery) Delivered() bool { return len(d.Accepted) > 0 }

// Fanout dispatches photo events to all configured publishers, in config order.
type Fanout struct {
	publishers []Publisher
	log        Logger
}

// NewFanout builds a dispatcher over pubs; nil entries are dropped.
func NewFanout(pubs []Publisher, log Logger) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			cp = append(cp, p)
		}
	}
	return &Fanout{publishers: cp, log: ensureLogger(log)}
}

// Publish hands evt to every publisher. Failures of one publisher do not stop
// the others; they are joined into the returned error.
func (f *Fanout) Publish(ctx context.Context, evt Event) (Delivery, error) {
	d := Delivery{PhotoID: evt.Photo.ID}
	if f == nil || len(f.publishers) == 0 {
		return d, nil
	}

	var errs []error
	for _, p := range f.publishers {
		if ef, ok := p.(eventFilter); ok && !ef.Accepts(evt) {
			d.Skipped = append(d.Skipped, p.ID())
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			d.Rejected = append(d.Rejected, p.ID())
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
			continue
		}
		d.Accepted = append(d.Accepted, p.ID())
	}

	f.log.DebugObj("photo event fanned out", "photo_delivery", map[string]any{
		"photo_id":   evt.Photo.ID,
		"position":   evt.Position,
		"first_seen": evt.FirstSeen,
		"accepted":   d.Accepted,
		"rejected":   d.Rejected,
		"skipped":    d.Skipped,
	})
	return d, errors.Join(errs...)
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases publishers holding network clients.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeAll(f.publishers)
}
