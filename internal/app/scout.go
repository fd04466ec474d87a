package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Adda-Baaj/photo-scout/internal/config"
	"github.com/Adda-Baaj/photo-scout/internal/logger"
	"github.com/Adda-Baaj/photo-scout/internal/notify"
	"github.com/Adda-Baaj/photo-scout/internal/report"
	"github.com/Adda-Baaj/photo-scout/internal/storage"
	"github.com/Adda-Baaj/photo-scout/pkg/httpclient"
	"github.com/Adda-Baaj/photo-scout/pkg/publishers"
	"github.com/Adda-Baaj/photo-scout/pkg/search"
)

// Scout runs a single photo search and reports it to out. Publishers and the
// sightings store are optional extras wired from config.
type Scout struct {
	cfg      *config.Config
	endpoint string
	reporter *report.Reporter
	fanout   *publishers.Fanout
	store    storage.Store
	log      logger.Logger
}

// Option customizes a Scout.
type Option func(*scoutOptions)

type scoutOptions struct {
	httpClient httpclient.Client
	pubReg     publishers.Registry
}

// WithHTTPClient overrides the resty client used for the search request.
func WithHTTPClient(c httpclient.Client) Option {
	return func(o *scoutOptions) { o.httpClient = c }
}

// WithPublisherRegistry overrides the publisher builders.
func WithPublisherRegistry(r publishers.Registry) Option {
	return func(o *scoutOptions) { o.pubReg = r }
}

// NewScout builds a scout runtime from config.
func NewScout(ctx context.Context, cfg *config.Config, out io.Writer, log logger.Logger, opts ...Option) (*Scout, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if out == nil {
		return nil, fmt.Errorf("output writer must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	o := scoutOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = httpclient.NewRestyClient(cfg.RequestTimeout, cfg.UserAgent)
	}
	if o.pubReg == nil {
		o.pubReg = publishers.DefaultRegistry()
	}

	endpoint, err := search.BuildURL(cfg.SearchBaseURL, cfg.SearchQuery, cfg.SearchPerPage)
	if err != nil {
		return nil, fmt.Errorf("build search endpoint: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg, o.pubReg, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		PhotoTTL:        cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"photo_ttl_seconds":        int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	var sink report.PhotoSink
	if fanout.Size() > 0 || !isStorageDisabled(cfg.StorageType) {
		sink = notify.NewNotifier(cfg.SearchQuery, fanout, store, log)
	}

	client := search.NewClient(o.httpClient, log)

	return &Scout{
		cfg:      cfg,
		endpoint: endpoint,
		reporter: report.NewReporter(client, out, sink, log),
		fanout:   fanout,
		store:    store,
		log:      log,
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, reg publishers.Registry, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(cfg.PublishersFile) == "" {
		return publishers.NewFanout(nil, log), nil
	}

	pubCfgs, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := pubCfgs.Enabled()
	pubs, err := publishers.BuildAll(ctx, reg, enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pc := range enabled {
		summaries = append(summaries, map[string]string{"id": pc.ID, "type": pc.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs, log), nil
}

func isStorageDisabled(typ string) bool {
	switch strings.TrimSpace(strings.ToLower(typ)) {
	case "", "none", "disabled":
		return true
	}
	return false
}

// Run performs one search and report pass, then releases resources.
func (s *Scout) Run(ctx context.Context) error {
	if s == nil || s.reporter == nil {
		return fmt.Errorf("scout is not initialized")
	}
	defer s.close()

	start := time.Now()
	s.log.InfoObj("search started", "search_meta", map[string]any{
		"url":              s.endpoint,
		"publishers_count": s.fanout.Size(),
	})
	if err := s.reporter.Report(ctx, s.endpoint); err != nil {
		return err
	}
	s.log.InfoObj("search finished", "search_meta", map[string]any{
		"url":        s.endpoint,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func (s *Scout) close() {
	if err := s.fanout.Close(); err != nil {
		s.log.ErrorObj("publisher close failed", "error", err)
	}
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log.ErrorObj("storage close failed", "error", err)
	}
}
