package publishers

import "context"

// Publisher sends events to a downstream sink (HTTP, SQS, SNS, Pub/Sub).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// closer is implemented by publishers that hold network clients.
type closer interface {
	Close() error
}

// eventFilter is implemented by publishers that only take some events.
type eventFilter interface {
	Accepts(evt Event) bool
}

// firstSeenOnly forwards only events for photos not sighted before.
type firstSeenOnly struct {
	Publisher
}

func (f firstSeenOnly) Accepts(evt Event) bool { return evt.FirstSeen }

func (f firstSeenOnly) Close() error {
	if c, ok := f.Publisher.(closer); ok {
		return c.Close()
	}
	return nil
}
