package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Adda-Baaj/photo-scout/internal/domain"
	"github.com/Adda-Baaj/photo-scout/internal/logger"
	"github.com/Adda-Baaj/photo-scout/pkg/search"
)

// Diagnostic labels written in place of result lines.
const (
	ParseFailureLabel     = "Failed to parse"
	TransportFailureLabel = "Error:"
)

// PhotoSink receives the photos of a successful report, in result order.
type PhotoSink interface {
	HandlePhotos(ctx context.Context, photos []domain.Photo) error
}

// Reporter fetches search results and writes one line per photo to out.
// It holds no state between Report calls.
type Reporter struct {
	searcher search.Searcher
	out      io.Writer
	sink     PhotoSink
	log      logger.Logger
}

// NewReporter builds a reporter. sink may be nil.
func NewReporter(searcher search.Searcher, out io.Writer, sink PhotoSink, log logger.Logger) *Reporter {
	return &Reporter{
		searcher: searcher,
		out:      out,
		sink:     sink,
		log:      logger.Ensure(log),
	}
}

// Report runs one search against endpointURL. Transport, parse and schema
// failures become a single diagnostic line and are not returned; only a
// failure to write to out is.
func (r *Reporter) Report(ctx context.Context, endpointURL string) error {
	if r == nil || r.searcher == nil || r.out == nil {
		return errors.New("reporter is not initialized")
	}

	resp, err := r.searcher.Search(ctx, endpointURL)
	if err != nil {
		return r.diagnose(endpointURL, err)
	}

	for _, p := range resp.Results {
		if _, err := fmt.Fprintln(r.out, p.ID, p.Slug); err != nil {
			return fmt.Errorf("write result line: %w", err)
		}
	}
	r.log.InfoObj("search reported", "report_meta", map[string]any{
		"url":         endpointURL,
		"results":     len(resp.Results),
		"total":       resp.Total,
		"total_pages": resp.TotalPages,
	})

	if r.sink != nil && len(resp.Results) > 0 {
		if err := r.sink.HandlePhotos(ctx, resp.Results); err != nil {
			r.log.WarnObj("photo sink failed", "sink_error", map[string]any{
				"url":   endpointURL,
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (r *Reporter) diagnose(endpointURL string, err error) error {
	var (
		transportErr *search.TransportError
		parseErr     *search.ParseError
		schemaErr    *search.SchemaError
		line         string
		kind         string
	)
	switch {
	case errors.As(err, &transportErr):
		kind = "transport"
		line = TransportFailureLabel + " " + transportErr.Error()
	case errors.As(err, &parseErr):
		kind = "parse"
		line = ParseFailureLabel + " " + parseErr.Error()
	case errors.As(err, &schemaErr):
		kind = "schema"
		line = ParseFailureLabel + " " + schemaErr.Error()
	default:
		return fmt.Errorf("search: %w", err)
	}

	r.log.WarnObj("search failed", "report_error", map[string]any{
		"url":   endpointURL,
		"kind":  kind,
		"error": err.Error(),
	})
	if _, werr := fmt.Fprintln(r.out, line); werr != nil {
		return fmt.Errorf("write diagnostic line: %w", werr)
	}
	return nil
}
