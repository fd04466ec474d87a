package publishers

import (
	"strconv"
	"time"

	"github.com/Adda-Baaj/photo-scout/internal/domain"
)

// Event represents one reported photo published downstream.
type Event struct {
	Query      string       `json:"query"`
	Photo      domain.Photo `json:"photo"`
	Position   int          `json:"position"`
	FirstSeen  bool         `json:"first_seen"`
	ReportedAt time.Time    `json:"reported_at"`
}

// NewEvent constructs an Event for the photo at position (0-based) in the results.
func NewEvent(query string, photo domain.Photo, position int, firstSeen bool) Event {
	return Event{
		Query:      query,
		Photo:      photo,
		Position:   position,
		FirstSeen:  firstSeen,
		ReportedAt: time.Now().UTC(),
	}
}

// Message attribute names shared by the queue and topic publishers, so
// subscribers can filter without decoding the body.
const (
	attrPhotoID   = "photo_id"
	attrQuery     = "query"
	attrPosition  = "position"
	attrFirstSeen = "first_seen"
)

// Attributes flattens the routing fields of the event into string values.
func (e Event) Attributes() map[string]string {
	return map[string]string{
		attrPhotoID:   e.Photo.ID,
		attrQuery:     e.Query,
		attrPosition:  strconv.Itoa(e.Position),
		attrFirstSeen: strconv.FormatBool(e.FirstSeen),
	}
}

// attributeDataType maps an attribute to its AWS message attribute type.
func attributeDataType(name string) string {
	if name == attrPosition {
		return "Number"
	}
	return "String"
}
