// Package loader bulk-imports JSON exports and the comparison CSV into a
// repository.Store using the job queue and worker pool.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/adapters/mq/queue"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/adapters/mq/worker"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/adapters/repository"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/dedupe"
	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/logger"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/metrics"
)

// Loader copies source files into a Store.
type Loader struct {
	store   repository.Store
	workers int
	logger  logger.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithWorkers bounds the number of files imported concurrently.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLogger sets the loader logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// New creates a Loader writing to store.
func New(store repository.Store, opts ...Option) *Loader {
	l := &Loader{
		store:   store,
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("loader")
	}
	return l
}

// ImportJSONDir imports every *.json file in dir. Each file becomes the
// collection named after it and holds an array of documents or a single
// document in MongoDB extended JSON.
func (l *Loader) ImportJSONDir(ctx context.Context, dir string, drop bool) (Summary, error) {
	const op = "loader.import_json"

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	var jobs []model.ImportJob
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		jobs = append(jobs, model.ImportJob{
			ID:         uuid.NewString(),
			Collection: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Source:     filepath.Join(dir, e.Name()),
			Format:     model.FormatJSON,
			Drop:       drop,
		})
	}
	l.logger.Info(ctx, "found json files", logger.String("dir", dir), logger.Int("files", len(jobs)))

	sum, err := l.run(ctx, jobs)
	if err != nil {
		return sum, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}

// ImportCSV replaces the comparison collection with the rows of path.
func (l *Loader) ImportCSV(ctx context.Context, path string) (Summary, error) {
	const op = "loader.import_csv"

	sum, err := l.run(ctx, []model.ImportJob{{
		ID:         uuid.NewString(),
		Collection: string(repository.CollectionComparisons),
		Source:     path,
		Format:     model.FormatCSV,
		Drop:       true,
	}})
	if err != nil {
		return sum, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}

// Handle runs one import job. It satisfies worker.Handler.
func (l *Loader) Handle(ctx context.Context, job model.ImportJob) (worker.Outcome, error) {
	switch job.Format {
	case model.FormatJSON:
		return l.importJSON(ctx, job)
	case model.FormatCSV:
		return l.importCSV(ctx, job)
	default:
		return worker.Outcome{}, fmt.Errorf("%w: %q", ErrUnknownFormat, job.Format)
	}
}

func (l *Loader) importJSON(ctx context.Context, job model.ImportJob) (worker.Outcome, error) {
	data, err := os.ReadFile(job.Source)
	if err != nil {
		return worker.Outcome{}, err
	}
	docs, err := ReadExtJSON(data)
	if err != nil {
		return worker.Outcome{}, err
	}

	c := repository.Collection(job.Collection)
	if job.Drop {
		l.logger.Info(ctx, "dropping collection", logger.String("collection", job.Collection))
		if err := l.store.Drop(ctx, c); err != nil {
			return worker.Outcome{}, err
		}
	}
	if len(docs) == 0 {
		l.logger.Info(ctx, "file holds no documents, skipped", logger.String("source", job.Source))
		return worker.Outcome{}, nil
	}

	docs, dupes, err := l.unseen(ctx, c, job.Drop, docs)
	if err != nil {
		return worker.Outcome{}, err
	}
	if dupes > 0 {
		l.logger.Warn(ctx, "documents with an existing _id skipped",
			logger.String("collection", job.Collection),
			logger.Int("skipped", dupes),
		)
	}
	n, err := l.store.InsertMany(ctx, c, docs)
	if err != nil {
		return worker.Outcome{}, err
	}
	l.logger.Info(ctx, "inserted documents",
		logger.String("collection", job.Collection),
		logger.Int("inserted", n),
	)
	return worker.Outcome{Inserted: n, Skipped: dupes}, nil
}

// unseen drops documents whose _id is already stored in c or repeats an
// earlier document of the same file. Documents without an _id are kept.
func (l *Loader) unseen(ctx context.Context, c repository.Collection, dropped bool, docs []model.Document) ([]model.Document, int, error) {
	seen := dedupe.NewInMemoryDeduper()
	if !dropped {
		existing, err := l.store.Find(ctx, c)
		if err != nil {
			return nil, 0, err
		}
		for _, d := range existing {
			if id, ok := docID(d); ok {
				seen.SeenAndRecord(ctx, id)
			}
		}
	}

	kept := docs[:0:0]
	for _, d := range docs {
		if id, ok := docID(d); ok && seen.SeenAndRecord(ctx, id) {
			continue
		}
		kept = append(kept, d)
	}
	return kept, len(docs) - len(kept), nil
}

func docID(d model.Document) (string, bool) {
	id, ok := d["_id"]
	if !ok || id == nil {
		return "", false
	}
	return fmt.Sprint(repository.Plain(id)), true
}

func (l *Loader) importCSV(ctx context.Context, job model.ImportJob) (worker.Outcome, error) {
	f, err := os.Open(job.Source)
	if err != nil {
		return worker.Outcome{}, err
	}
	defer f.Close()

	docs, skipped, err := ParseComparisonCSV(f)
	if err != nil {
		return worker.Outcome{}, err
	}
	for _, s := range skipped {
		l.logger.Warn(ctx, "row column count does not match header, skipping",
			logger.Int("line", s.Line),
			logger.Int("values", s.Values),
			logger.Int("headers", s.Headers),
		)
	}

	c := repository.Collection(job.Collection)
	if job.Drop {
		if err := l.store.Drop(ctx, c); err != nil {
			return worker.Outcome{}, err
		}
	}
	n, err := l.store.InsertMany(ctx, c, docs)
	if err != nil {
		return worker.Outcome{}, err
	}
	return worker.Outcome{Inserted: n, Skipped: len(skipped)}, nil
}

func (l *Loader) run(ctx context.Context, jobs []model.ImportJob) (Summary, error) {
	start := time.Now()
	sum := Summary{
		BatchID:  uuid.NewString(),
		Jobs:     len(jobs),
		Inserted: map[string]int{},
		Totals:   map[string]int64{},
	}
	if len(jobs) == 0 {
		return sum, nil
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(len(jobs)))
	for _, j := range jobs {
		if !q.Enqueue(ctx, j) {
			_ = q.Close()
			return sum, fmt.Errorf("%w: %s", ErrQueueRejected, j.Source)
		}
	}
	_ = q.Close()

	pool := worker.NewPool(min(l.workers, len(jobs)), q, l, worker.WithLogger(l.logger))
	pool.Start(ctx)

	var errs []error
	for res := range pool.Results() {
		if res.Err != nil {
			sum.Failed++
			errs = append(errs, res.Err)
			continue
		}
		sum.Succeeded++
		sum.Inserted[res.Job.Collection] += res.Outcome.Inserted
		sum.Skipped += res.Outcome.Skipped
	}

	for _, c := range touched(jobs) {
		n, err := l.store.Count(ctx, repository.Collection(c))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sum.Totals[c] = n
		metrics.UpdateStoreDocuments(c, n)
	}
	sum.Took = time.Since(start)

	if err := ctx.Err(); err != nil {
		return sum, err
	}
	if sum.Failed > 0 {
		return sum, fmt.Errorf("%w: %d of %d jobs: %w", ErrImportFailed, sum.Failed, sum.Jobs, errors.Join(errs...))
	}
	if len(errs) > 0 {
		return sum, errors.Join(errs...)
	}
	return sum, nil
}

func touched(jobs []model.ImportJob) []string {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if _, ok := seen[j.Collection]; ok {
			continue
		}
		seen[j.Collection] = struct{}{}
		out = append(out, j.Collection)
	}
	sort.Strings(out)
	return out
}
