package report

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Adda-Baaj/photo-scout/internal/domain"
	"github.com/Adda-Baaj/photo-scout/pkg/httpclient"
	"github.com/Adda-Baaj/photo-scout/pkg/search"
)

// fakeSearcher returns a preset response or error.
type fakeSearcher struct {
	resp  *search.Response
	err   error
	calls int
}

func (f *fakeSearcher) Search(context.Context, string) (*search.Response, error) {
	f.calls++
	return f.resp, f.err
}

// recordingSink keeps the photos it was handed.
type recordingSink struct {
	photos []domain.Photo
	err    error
}

func (r *recordingSink) HandlePhotos(_ context.Context, photos []domain.Photo) error {
	r.photos = append(r.photos, photos...)
	return r.err
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("stdout closed") }

func newServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func reportAgainst(t *testing.T, endpoint string, sink PhotoSink) []string {
	t.Helper()
	var out bytes.Buffer
	client := search.NewClient(httpclient.NewRestyClient(0, ""), nil)
	if err := NewReporter(client, &out, sink, nil).Report(context.Background(), endpoint); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if out.Len() == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
}

func TestReportPrintsResultsInOrder(t *testing.T) {
	srv := newServer(t, `{"results": [{"id": "a1", "slug": "ice-cream"}, {"id": "a2", "slug": "cone"}]}`)
	sink := &recordingSink{}

	lines := reportAgainst(t, srv.URL, sink)
	if len(lines) != 2 || lines[0] != "a1 ice-cream" || lines[1] != "a2 cone" {
		t.Fatalf("unexpected lines %q", lines)
	}
	if len(sink.photos) != 2 || sink.photos[0].ID != "a1" || sink.photos[1].ID != "a2" {
		t.Fatalf("sink received %+v", sink.photos)
	}
}

func TestReportInvalidJSON(t *testing.T) {
	srv := newServer(t, "not json")
	sink := &recordingSink{}

	lines := reportAgainst(t, srv.URL, sink)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "Failed to parse ") {
		t.Fatalf("expected one parse diagnostic, got %q", lines)
	}
	if len(sink.photos) != 0 {
		t.Fatalf("sink should not be called on parse failure")
	}
}

func TestReportTransportFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	lines := reportAgainst(t, "http://"+addr+"/search?query=ice%20cream", nil)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "Error: ") {
		t.Fatalf("expected one transport diagnostic, got %q", lines)
	}
}

func TestReportDoesNotFollowRedirects(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		http.Redirect(w, r, "/moved", http.StatusFound)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		_, _ = w.Write([]byte(`{"results":[{"id":"z","slug":"redirected"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	lines := reportAgainst(t, srv.URL+"/search", nil)
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "Failed to parse ") {
		t.Fatalf("expected one parse diagnostic, got %q", lines)
	}
	mu.Lock()
	defer mu.Unlock()
	if requests != 1 {
		t.Fatalf("expected exactly one request, got %d", requests)
	}
}

func TestReportEmptyResults(t *testing.T) {
	srv := newServer(t, `{"results": []}`)
	sink := &recordingSink{}

	if lines := reportAgainst(t, srv.URL, sink); len(lines) != 0 {
		t.Fatalf("expected no output, got %q", lines)
	}
	if len(sink.photos) != 0 {
		t.Fatalf("sink should not be called for empty results")
	}
}

func TestReportMissingResultsUsesParseLabel(t *testing.T) {
	srv := newServer(t, `{"errors": ["OAuth error: The access token is invalid"]}`)

	lines := reportAgainst(t, srv.URL, nil)
	if len(lines) != 1 || lines[0] != "Failed to parse response has no results field" {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestReportIsIndependentAcrossCalls(t *testing.T) {
	srv := newServer(t, `{"results": [{"id": "a1", "slug": "ice-cream"}]}`)

	first := reportAgainst(t, srv.URL, nil)
	second := reportAgainst(t, srv.URL, nil)
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Fatalf("runs interfered: %q vs %q", first, second)
	}
}

func TestReportReusedReporterDoesNotAccumulate(t *testing.T) {
	var out bytes.Buffer
	searcher := &fakeSearcher{resp: &search.Response{Results: []domain.Photo{{ID: "a1", Slug: "s"}}}}
	r := NewReporter(searcher, &out, nil, nil)

	for i := 0; i < 2; i++ {
		out.Reset()
		if err := r.Report(context.Background(), "https://example.com"); err != nil {
			t.Fatalf("Report: %v", err)
		}
		if out.String() != "a1 s\n" {
			t.Fatalf("run %d output %q", i, out.String())
		}
	}
}

func TestReportSinkErrorDoesNotChangeOutput(t *testing.T) {
	var out bytes.Buffer
	searcher := &fakeSearcher{resp: &search.Response{Results: []domain.Photo{{ID: "a1", Slug: "s"}}}}
	sink := &recordingSink{err: errors.New("queue down")}

	if err := NewReporter(searcher, &out, sink, nil).Report(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if out.String() != "a1 s\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestReportDiagnosticLines(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{err: &search.TransportError{Err: errors.New("connection refused")}, want: "Error: connection refused\n"},
		{err: &search.ParseError{Err: errors.New("unexpected end of JSON input")}, want: "Failed to parse unexpected end of JSON input\n"},
		{err: &search.SchemaError{Reason: "results is null"}, want: "Failed to parse results is null\n"},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		if err := NewReporter(&fakeSearcher{err: tc.err}, &out, nil, nil).Report(context.Background(), "u"); err != nil {
			t.Fatalf("Report returned %v", err)
		}
		if out.String() != tc.want {
			t.Fatalf("got %q, want %q", out.String(), tc.want)
		}
	}
}

func TestReportReturnsWriteFailure(t *testing.T) {
	searcher := &fakeSearcher{resp: &search.Response{Results: []domain.Photo{{ID: "a1", Slug: "s"}}}}
	if err := NewReporter(searcher, failingWriter{}, nil, nil).Report(context.Background(), "u"); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestReportUninitialized(t *testing.T) {
	var r *Reporter
	if err := r.Report(context.Background(), "u"); err == nil {
		t.Fatalf("expected error for nil reporter")
	}
}
