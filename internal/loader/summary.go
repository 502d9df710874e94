package loader

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// Summary reports the outcome of one import batch.
type Summary struct {
	BatchID   string
	Jobs      int
	Succeeded int
	Failed    int
	// Inserted counts written documents per collection.
	Inserted map[string]int
	// Skipped counts CSV rows dropped while parsing and JSON documents
	// whose _id was already present.
	Skipped int
	// Totals holds each touched collection's size after the batch.
	Totals map[string]int64
	Took   time.Duration
}

// TotalInserted sums Inserted across collections.
func (s Summary) TotalInserted() int {
	n := 0
	for _, v := range s.Inserted {
		n += v
	}
	return n
}

// Print writes a human readable report.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "batch %s: %d/%d jobs succeeded in %s\n", s.BatchID, s.Succeeded, s.Jobs, s.Took.Round(time.Millisecond))
	for _, c := range sortedKeys(s.Totals) {
		fmt.Fprintf(w, "  %-24s inserted %6d  total %6d\n", c, s.Inserted[c], s.Totals[c])
	}
	if s.Skipped > 0 {
		fmt.Fprintf(w, "  skipped rows: %d\n", s.Skipped)
	}
	if s.Failed > 0 {
		fmt.Fprintf(w, "  failed jobs: %d\n", s.Failed)
	}
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
