package notify

import (
	"context"

	"github.com/Adda-Baaj/photo-scout/pkg/publishers"
)

// EventPublisher publishes photo events downstream and reports which sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (publishers.Delivery, error)
}

// Sightings answers whether a photo was reported by an earlier run.
type Sightings interface {
	SeenPhoto(id string) (bool, error)
	MarkPhoto(id string) error
}
