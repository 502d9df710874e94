// Package repository stores the raw benchmark collections behind one
// document Store interface, backed by MongoDB or an embedded SQLite file.
package repository

import (
	"context"
	"time"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/metrics"
)

// Collection names a document collection.
type Collection string

// Collections read by the service. The names match the MongoDB exports.
const (
	CollectionModels       Collection = "LLM overall info"
	CollectionBenchmarks   Collection = "Benchmark MD"
	CollectionPerformances Collection = "LLM Performance"
	CollectionPercentages  Collection = "LLMs Task Percentages"
	CollectionComparisons  Collection = "Comparison Chart"
)

// Collections lists the collections the service reads, in load order.
func Collections() []Collection {
	return []Collection{
		CollectionModels,
		CollectionBenchmarks,
		CollectionPerformances,
		CollectionPercentages,
		CollectionComparisons,
	}
}

// Store provides access to schemaless documents.
type Store interface {
	// Find returns every document of a collection. Documents come back as
	// plain Go values: strings, float64/int32/int64, bool, time.Time,
	// []any and map[string]any.
	Find(ctx context.Context, c Collection, opts ...FindOption) ([]model.Document, error)

	// InsertMany appends documents and returns how many were written.
	// Documents without an "_id" get a generated one.
	InsertMany(ctx context.Context, c Collection, docs []model.Document) (int, error)

	// Drop removes a collection. Dropping a missing collection is not an error.
	Drop(ctx context.Context, c Collection) error

	// Count returns the number of documents in a collection.
	Count(ctx context.Context, c Collection) (int64, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection.
	Close(ctx context.Context) error
}

// observeFind records latency and failures of a find.
func observeFind(c Collection, start time.Time, err error) {
	metrics.RecordStoreQueryLatency(string(c), float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError("find")
		metrics.RecordErrorByComponent("store", "find")
	}
}

func observeError(op string, err error) {
	if err != nil {
		metrics.RecordStoreError(op)
		metrics.RecordErrorByComponent("store", op)
	}
}
