package domain

// Domain contains core models shared between the search client and sinks.

// Photo is a single search result. Only ID and Slug are consumed.
type Photo struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}
