// Package service composes the benchmark aggregation engine over a document
// store and exposes the operations the HTTP API serves.
package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/adapters/repository"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/comparison"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/filter"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/format"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/hierarchy"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/normalize"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/scoring"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/window"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/logger"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/metrics"
)

const (
	defaultTopK   = 10
	defaultMaxTop = 100
	statsTimeout  = 5 * time.Second
	stopTimeout   = 10 * time.Second
)

// Service runs the normalize -> build -> filter -> format pipeline on every
// call. It holds no cached state besides the store handle.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	windowSizeDays int
	defaultTopK    int
	maxTopK        int

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the document store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWindowSize sets the highlight window width in days.
func WithWindowSize(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.windowSizeDays = days
		}
	}
}

// WithDefaultTopK sets the topK used when a request does not name one.
// Zero keeps every model.
func WithDefaultTopK(k int) Option {
	return func(s *Service) {
		if k >= 0 {
			s.defaultTopK = k
		}
	}
}

// WithMaxTopK caps explicit topK requests.
func WithMaxTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.maxTopK = k
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		windowSizeDays: window.DefaultSizeDays,
		defaultTopK:    defaultTopK,
		maxTopK:        defaultMaxTop,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.defaultTopK > s.maxTopK {
		s.defaultTopK = s.maxTopK
	}
	return s
}

// Start checks the store is reachable.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("service.start: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "benchmark service started",
		logger.Int("windowSizeDays", s.windowSizeDays),
		logger.Int("defaultTopK", s.defaultTopK),
		logger.Int("maxTopK", s.maxTopK),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if err := s.store.Close(ctx); err != nil {
		s.logger.Error(ctx, "closing store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "benchmark service stopped")
}

// ResolveTopK turns a topK query value into a TopK. An empty value selects
// the configured default; explicit values above the maximum are rejected.
func (s *Service) ResolveTopK(raw string) (filter.TopK, error) {
	if strings.TrimSpace(raw) == "" {
		return filter.TopK(s.defaultTopK), nil
	}
	k, err := filter.ParseTopK(raw)
	if err != nil {
		return 0, err
	}
	if int(k) > s.maxTopK {
		return 0, fmt.Errorf("%w: %d > %d", ErrTopKTooLarge, k, s.maxTopK)
	}
	return k, nil
}

// FilteredHierarchy builds, filters and formats the benchmark hierarchy.
func (s *Service) FilteredHierarchy(ctx context.Context, spec filter.Spec) (format.Tree, error) {
	res, err := s.core(ctx)
	if err != nil {
		return format.Tree{}, err
	}

	start := time.Now()
	tree, stats := hierarchy.BuildWithStats(res.Benchmarks, res.Performances, res.Models)
	stage("build", start)
	if stats.Dangling > 0 {
		s.logger.Debug(ctx, "skipped dangling performance references", logger.Int("count", stats.Dangling))
		metrics.RecordDanglingReferences(stats.Dangling)
	}

	start = time.Now()
	filtered := filter.Apply(tree, spec)
	stage("filter", start)
	metrics.UpdateHierarchyLeaves(hierarchy.CountLeaves(filtered))

	start = time.Now()
	out := format.Format(filtered)
	stage("format", start)
	return out, nil
}

// BestInWindow returns the best-scoring model released in the reference
// date's month, or nil when there is none. Models without a stored score
// are not candidates.
func (s *Service) BestInWindow(ctx context.Context, ref time.Time) (*model.ModelRecord, error) {
	models, err := s.storedModels(ctx)
	if err != nil {
		return nil, err
	}
	best, ok := window.SelectBest(models, window.Query{ReferenceDate: ref, WindowSizeDays: s.windowSizeDays})
	metrics.RecordWindowSelection(ok)
	if !ok {
		return nil, nil
	}
	return &best, nil
}

// Highlighted returns the models released within the configured window of ref.
func (s *Service) Highlighted(ctx context.Context, ref time.Time) ([]model.ModelRecord, error) {
	models, err := s.storedModels(ctx)
	if err != nil {
		return nil, err
	}
	return window.Highlighted(models, window.Query{ReferenceDate: ref, WindowSizeDays: s.windowSizeDays}), nil
}

// FilterValues enumerates the organizations, providers and years present in
// the normalized models.
func (s *Service) FilterValues(ctx context.Context) (filter.Values, error) {
	res, err := s.core(ctx)
	if err != nil {
		return filter.Values{}, err
	}
	return filter.ValuesOf(res.Models), nil
}

// Models returns the normalized models, release date ascending with undated
// models last. Missing scores are filled with the model's benchmark average.
func (s *Service) Models(ctx context.Context) ([]model.ModelRecord, error) {
	models, err := s.scoredModels(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(models, func(a, b model.ModelRecord) int {
		switch {
		case a.ReleaseDate == nil && b.ReleaseDate == nil:
			return 0
		case a.ReleaseDate == nil:
			return 1
		case b.ReleaseDate == nil:
			return -1
		default:
			return a.ReleaseDate.Compare(*b.ReleaseDate)
		}
	})
	return models, nil
}

// Trend returns the state-of-the-art line over the stored model scores.
func (s *Service) Trend(ctx context.Context) ([]scoring.TrendPoint, error) {
	models, err := s.storedModels(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.Frontier(models), nil
}

// Benchmarks returns the normalized benchmarks.
func (s *Service) Benchmarks(ctx context.Context) ([]model.BenchmarkRecord, error) {
	raw, err := s.fetch(ctx, repository.CollectionBenchmarks)
	if err != nil {
		return nil, err
	}
	recs, issues := normalize.Benchmarks(raw, nil)
	s.report(ctx, normalize.CollectionBenchmarks, len(recs), issues)
	return recs, nil
}

// Performances returns the normalized performance rows.
func (s *Service) Performances(ctx context.Context) ([]model.PerformanceRecord, error) {
	raw, err := s.fetch(ctx, repository.CollectionPerformances)
	if err != nil {
		return nil, err
	}
	recs, issues := normalize.Performances(raw, nil)
	s.report(ctx, normalize.CollectionPerformances, len(recs), issues)
	return recs, nil
}

// Percentages returns the task specialization breakdown.
func (s *Service) Percentages(ctx context.Context) ([]model.TaskShare, error) {
	raw, err := s.fetch(ctx, repository.CollectionPercentages)
	if err != nil {
		return nil, err
	}
	recs, issues := normalize.Percentages(raw)
	s.report(ctx, normalize.CollectionPercentages, len(recs), issues)
	return recs, nil
}

// Comparisons returns the comparison chart rows.
func (s *Service) Comparisons(ctx context.Context) ([]model.ComparisonRecord, error) {
	raw, err := s.fetch(ctx, repository.CollectionComparisons)
	if err != nil {
		return nil, err
	}
	recs, issues := normalize.Comparisons(raw)
	s.report(ctx, normalize.CollectionComparisons, len(recs), issues)
	return recs, nil
}

// ComparisonPoints projects the comparison rows onto two metrics.
func (s *Service) ComparisonPoints(ctx context.Context, x, y string) ([]comparison.Point, error) {
	recs, err := s.Comparisons(ctx)
	if err != nil {
		return nil, err
	}
	return comparison.Points(recs, x, y)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"windowSizeDays": s.windowSizeDays,
		"defaultTopK":    s.defaultTopK,
		"maxTopK":        s.maxTopK,
	}
	if !s.started {
		return stats
	}

	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	docs := make(map[string]int64, len(repository.Collections()))
	for _, c := range repository.Collections() {
		n, err := s.store.Count(ctx, c)
		if err != nil {
			s.logger.Warn(ctx, "counting documents", logger.String("collection", string(c)), logger.Error(err))
			continue
		}
		docs[string(c)] = n
		metrics.UpdateStoreDocuments(string(c), n)
	}
	stats["documents"] = docs
	return stats
}

// core fetches and normalizes the three engine collections.
func (s *Service) core(ctx context.Context) (normalize.Result, error) {
	rawModels, err := s.fetch(ctx, repository.CollectionModels, repository.WithSortAsc("release_date"))
	if err != nil {
		return normalize.Result{}, err
	}
	rawBenchmarks, err := s.fetch(ctx, repository.CollectionBenchmarks)
	if err != nil {
		return normalize.Result{}, err
	}
	rawPerformances, err := s.fetch(ctx, repository.CollectionPerformances)
	if err != nil {
		return normalize.Result{}, err
	}

	start := time.Now()
	res := normalize.Normalize(rawModels, rawBenchmarks, rawPerformances)
	stage("normalize", start)

	kept := map[string]int{
		normalize.CollectionModels:       len(res.Models),
		normalize.CollectionBenchmarks:   len(res.Benchmarks),
		normalize.CollectionPerformances: len(res.Performances),
	}
	byCollection := map[string][]normalize.Issue{}
	for _, is := range res.Issues {
		byCollection[is.Collection] = append(byCollection[is.Collection], is)
	}
	for _, c := range []string{normalize.CollectionModels, normalize.CollectionBenchmarks, normalize.CollectionPerformances} {
		s.report(ctx, c, kept[c], byCollection[c])
	}
	return res, nil
}

// storedModels returns the normalized models with their scores as stored.
// Window selection and the trend never rank a model on a derived score.
func (s *Service) storedModels(ctx context.Context) ([]model.ModelRecord, error) {
	res, err := s.core(ctx)
	if err != nil {
		return nil, err
	}
	return res.Models, nil
}

func (s *Service) scoredModels(ctx context.Context) ([]model.ModelRecord, error) {
	res, err := s.core(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.FillScores(res.Models, res.Performances), nil
}

func (s *Service) fetch(ctx context.Context, c repository.Collection, opts ...repository.FindOption) ([]model.Document, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	start := time.Now()
	docs, err := s.store.Find(ctx, c, opts...)
	stage("fetch", start)
	if err != nil {
		s.logger.Error(ctx, "fetching collection", logger.String("collection", string(c)), logger.Error(err))
		return nil, fmt.Errorf("service.fetch %q: %w", c, err)
	}
	return docs, nil
}

// report logs dropped records as warnings and counts kept and dropped ones.
func (s *Service) report(ctx context.Context, collection string, kept int, issues []normalize.Issue) {
	metrics.RecordRecordsKept(collection, kept)
	for _, is := range issues {
		metrics.RecordRecordDropped(collection, is.Reason)
		s.logger.Warn(ctx, "dropped malformed record",
			logger.String("collection", is.Collection),
			logger.Int("index", is.Index),
			logger.String("reason", is.Reason),
		)
	}
}

func stage(name string, start time.Time) {
	metrics.RecordStageLatency(name, float64(time.Since(start).Microseconds())/1000)
}
