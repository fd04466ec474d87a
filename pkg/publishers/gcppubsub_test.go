package publishers

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/Adda-Baaj/photo-scout/internal/domain"
)

func TestPubSubPublisherPublishes(t *testing.T) {
	// In-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	admin, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer admin.Close()
	if _, err := admin.CreateTopic(ctx, "photos"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	pub, err := newPubSubPublisher(ctx, PublisherConfig{
		ID:     "gcp",
		Type:   TypePubSub,
		PubSub: &PubSubPublisherConfig{ProjectID: "test-project", Topic: "photos"},
	}, nil)
	if err != nil {
		t.Fatalf("newPubSubPublisher: %v", err)
	}
	defer pub.(closer).Close()

	if err := pub.Publish(ctx, NewEvent("ice cream", domain.Photo{ID: "a1", Slug: "ice-cream"}, 0, true)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Attributes[attrPhotoID] != "a1" {
		t.Fatalf("unexpected attributes %#v", msgs[0].Attributes)
	}
	var evt Event
	if err := json.Unmarshal(msgs[0].Data, &evt); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if evt.Photo.Slug != "ice-cream" {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestPubSubOrderingKey(t *testing.T) {
	evt := NewEvent("ice cream", domain.Photo{ID: "a1"}, 0, false)
	if got := (&pubsubPublisher{}).orderingKey(evt); got != "" {
		t.Fatalf("unordered publisher set ordering key %q", got)
	}
	if got := (&pubsubPublisher{ordered: true}).orderingKey(evt); got != "ice cream" {
		t.Fatalf("ordering key = %q, want query", got)
	}
}
