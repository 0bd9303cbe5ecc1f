// Package service composes the RFP workflow from configuration: catalog,
// commodity rates, the four analysis components, the orchestrator and the
// bid sinks (SQL store, JSON archive, NATS).
//
// The service initializes from configuration via New, creating all
// subsystems internally. Functional options allow test overrides of any
// subsystem.
//
//	svc, err := service.New(cfg)
//	defer svc.Close()
//	st, err := svc.Orchestrator().Run(ctx, req)
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tailored-agentic-units/rfp/advisory"
	"github.com/tailored-agentic-units/rfp/archive"
	"github.com/tailored-agentic-units/rfp/catalog"
	"github.com/tailored-agentic-units/rfp/commodity"
	"github.com/tailored-agentic-units/rfp/config"
	"github.com/tailored-agentic-units/rfp/match"
	"github.com/tailored-agentic-units/rfp/observability"
	"github.com/tailored-agentic-units/rfp/orchestrate/state"
	"github.com/tailored-agentic-units/rfp/pricing"
	"github.com/tailored-agentic-units/rfp/publish"
	"github.com/tailored-agentic-units/rfp/risk"
	"github.com/tailored-agentic-units/rfp/store"
	"github.com/tailored-agentic-units/rfp/transport"
	"github.com/tailored-agentic-units/rfp/workflow"
)

// Option configures a Service after config-driven initialization.
type Option func(*Service)

// WithObserver overrides the observer named in the workflow graph config.
func WithObserver(o observability.Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithLogger sets the logger used for rate reload messages.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now for risk scoring and run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRates overrides the config-selected commodity rate source.
func WithRates(src commodity.Source) Option {
	return func(s *Service) { s.rates = src }
}

// WithPublisherConn publishes bids over conn instead of dialing the
// configured NATS URL.
func WithPublisherConn(conn publish.Conn) Option {
	return func(s *Service) { s.conn = conn }
}

// WithSink adds a sink after the configured ones.
func WithSink(sink workflow.Sink) Option {
	return func(s *Service) { s.extra = append(s.extra, sink) }
}

// Service holds the wired workflow and the resources it owns.
type Service struct {
	cfg      *config.Config
	logger   *slog.Logger
	observer observability.Observer
	now      func() time.Time
	conn     publish.Conn
	extra    []workflow.Sink

	catalog   *catalog.Catalog
	testCosts *catalog.TestCosts
	rates     commodity.Source

	store     *store.SQLStore
	archive   *archive.Archive
	publisher *publish.Publisher

	orchestrator *workflow.Orchestrator
}

// New creates a Service from configuration. Resources opened before a
// failure are released before New returns.
func New(cfg *config.Config, opts ...Option) (svc *Service, err error) {
	s := &Service{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	if cfg.Catalog != "" {
		s.catalog, s.testCosts, err = catalog.Load(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
	} else {
		s.catalog = catalog.New(catalog.SampleProducts())
		s.testCosts = catalog.DefaultTestCosts()
	}

	if s.rates == nil {
		if cfg.Rates.File != "" {
			src, err := commodity.LoadFile(cfg.Rates.File)
			if err != nil {
				return nil, fmt.Errorf("failed to load rates: %w", err)
			}
			s.rates = src
		} else {
			s.rates = commodity.DefaultTable()
		}
	}

	if cfg.Store.DSN != "" {
		s.store, err = store.Open(cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
	}

	s.archive = archive.New(archive.Config{Path: cfg.Archive.Path})

	switch {
	case s.conn != nil:
		s.publisher = publish.New(s.conn, cfg.NATS.Prefix)
	case cfg.NATS.URL != "":
		s.publisher, err = publish.Connect(cfg.NATS.URL, cfg.NATS.Prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to create publisher: %w", err)
		}
	}

	wopts := []workflow.Option{
		workflow.WithClock(s.now),
		workflow.WithSink(workflow.MultiSink(s.sinks()...)),
	}
	if s.observer != nil {
		wopts = append(wopts, workflow.WithObserver(s.observer))
	}
	if cps := s.Checkpoints(); cps != nil {
		wopts = append(wopts, workflow.WithCheckpointStore(cps))
	}

	s.orchestrator, err = workflow.NewOrchestrator(
		cfg.Workflow,
		risk.NewScorer(cfg.Risk, risk.WithClock(s.now)),
		match.NewMatcher(s.catalog, cfg.Match),
		pricing.NewEngine(cfg.Pricing, s.testCosts),
		advisory.NewAnalyzer(cfg.Advisory),
		s.rates,
		wopts...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	return s, nil
}

func (s *Service) sinks() []workflow.Sink {
	var sinks []workflow.Sink
	if s.store != nil {
		sinks = append(sinks, s.store)
	}
	if s.archive != nil {
		sinks = append(sinks, s.archive)
	}
	if s.publisher != nil {
		sinks = append(sinks, s.publisher)
	}
	return append(sinks, s.extra...)
}

func (s *Service) Orchestrator() *workflow.Orchestrator { return s.orchestrator }

func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

func (s *Service) TestCosts() *catalog.TestCosts { return s.testCosts }

func (s *Service) Rates() commodity.Source { return s.rates }

// Store returns the SQL store, or nil when none is configured.
func (s *Service) Store() *store.SQLStore { return s.store }

// Checkpoints returns the persistent checkpoint store: the SQL store when
// configured, otherwise the archive. Nil when neither is configured.
func (s *Service) Checkpoints() state.CheckpointStore {
	switch {
	case s.store != nil:
		return s.store
	case s.archive != nil:
		return s.archive.Checkpoints()
	default:
		return nil
	}
}

// Lookup returns where stored bids can be read back from, preferring the
// SQL store over the archive. Nil when neither is configured.
func (s *Service) Lookup() transport.BidLookup {
	switch {
	case s.store != nil:
		return s.store
	case s.archive != nil:
		return s.archive
	default:
		return nil
	}
}

// WatchRates reloads a file-backed rate source on change until ctx is done.
// It returns immediately when watching is disabled or the source is static.
func (s *Service) WatchRates(ctx context.Context) error {
	src, ok := s.rates.(*commodity.FileSource)
	if !ok || !s.cfg.Rates.Watch {
		return nil
	}
	return src.Watch(ctx, s.logger)
}

// Close releases the publisher connection and the database.
func (s *Service) Close() error {
	var errs []error
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	return errors.Join(errs...)
}
