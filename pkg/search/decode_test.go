package search

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodePreservesOrder(t *testing.T) {
	body := []byte(`{"total": 2, "results": [
		{"id": "a1", "slug": "ice-cream", "width": 4000},
		{"id": "a2", "slug": "cone", "urls": {"raw": "https://example.com/raw"}}
	]}`)

	resp, err := Decode(body)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].ID != "a1" || resp.Results[0].Slug != "ice-cream" {
		t.Fatalf("unexpected first result %+v", resp.Results[0])
	}
	if resp.Results[1].ID != "a2" || resp.Results[1].Slug != "cone" {
		t.Fatalf("unexpected second result %+v", resp.Results[1])
	}
	if resp.Total != 2 || resp.TotalPages != 0 {
		t.Fatalf("unexpected totals %d/%d", resp.Total, resp.TotalPages)
	}
}

func TestDecodeIgnoresMalformedTotals(t *testing.T) {
	resp, err := Decode([]byte(`{"total": "many", "total_pages": 4, "results": []}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if resp.Total != 0 || resp.TotalPages != 4 {
		t.Fatalf("unexpected totals %d/%d", resp.Total, resp.TotalPages)
	}
}

func TestDecodeEmptyResults(t *testing.T) {
	resp, err := Decode([]byte(`{"results": []}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("expected no results, got %d", len(resp.Results))
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	for _, body := range []string{"not json", "", `{"results": [`} {
		_, err := Decode([]byte(body))
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("Decode(%q): expected ParseError, got %v", body, err)
		}
		if parseErr.Error() == "" {
			t.Fatalf("Decode(%q): empty parser message", body)
		}
	}
}

func TestDecodeSchemaErrors(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{body: `{}`, want: "no results field"},
		{body: `{"results": null}`, want: "results is null"},
		{body: `{"results": {"id": "a"}}`, want: "not an array"},
		{body: `[1, 2]`, want: "not a JSON object"},
		{body: `null`, want: "no results field"},
		{body: `{"results": [1]}`, want: "not an array of objects"},
		{body: `{"results": [null]}`, want: "results[0] is not an object"},
		{body: `{"results": [{"slug": "x"}]}`, want: "results[0].id is missing"},
		{body: `{"results": [{"id": 7, "slug": "x"}]}`, want: "results[0].id must be a string"},
		{body: `{"results": [{"id": "a"}]}`, want: "results[0].slug is missing"},
		{body: `{"results": [{"id": "a", "slug": "b"}, {"id": "c", "slug": false}]}`, want: "results[1].slug must be a string"},
	}
	for _, tc := range cases {
		_, err := Decode([]byte(tc.body))
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("Decode(%s): expected SchemaError, got %v", tc.body, err)
		}
		if !strings.Contains(schemaErr.Error(), tc.want) {
			t.Fatalf("Decode(%s): error %q does not mention %q", tc.body, schemaErr.Error(), tc.want)
		}
	}
}

func TestDecodeAllowsEmptySlug(t *testing.T) {
	resp, err := Decode([]byte(`{"results": [{"id": "a1", "slug": ""}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if resp.Results[0].Slug != "" {
		t.Fatalf("expected empty slug, got %q", resp.Results[0].Slug)
	}
}
