package search

import (
	"encoding/json"
	"errors"

	"github.com/Adda-Baaj/photo-scout/internal/domain"
)

// Response is the validated subset of a photo search response. Total and
// TotalPages are informational; they are zero when absent or not numbers.
type Response struct {
	Results    []domain.Photo
	Total      int
	TotalPages int
}

// Decode parses a fully drained response body. It returns *ParseError when
// body is not JSON and *SchemaError when the results array or one of its
// id/slug fields is missing or has the wrong type. Nothing is returned
// partially: either every result validates or none are reported.
func Decode(body []byte) (*Response, error) {
	if !json.Valid(body) {
		var v any
		err := json.Unmarshal(body, &v)
		if err == nil {
			err = errors.New("invalid JSON")
		}
		return nil, &ParseError{Err: err}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, schemaErrorf("response is not a JSON object")
	}

	rawResults, ok := top["results"]
	if !ok {
		return nil, schemaErrorf("response has no results field")
	}
	if isNull(rawResults) {
		return nil, schemaErrorf("results is null")
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(rawResults, &items); err != nil {
		return nil, schemaErrorf("results is not an array of objects")
	}

	photos := make([]domain.Photo, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, schemaErrorf("results[%d] is not an object", i)
		}
		id, err := stringField(item, i, "id")
		if err != nil {
			return nil, err
		}
		slug, err := stringField(item, i, "slug")
		if err != nil {
			return nil, err
		}
		photos = append(photos, domain.Photo{ID: id, Slug: slug})
	}

	return &Response{
		Results:    photos,
		Total:      optionalInt(top["total"]),
		TotalPages: optionalInt(top["total_pages"]),
	}, nil
}

func optionalInt(raw json.RawMessage) int {
	var n int
	if len(raw) == 0 || json.Unmarshal(raw, &n) != nil {
		return 0
	}
	return n
}

func stringField(item map[string]json.RawMessage, idx int, name string) (string, error) {
	raw, ok := item[name]
	if !ok || isNull(raw) {
		return "", schemaErrorf("results[%d].%s is missing", idx, name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", schemaErrorf("results[%d].%s must be a string", idx, name)
	}
	return s, nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
