package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// SkippedRow describes a CSV row dropped because its column count differs
// from the header.
type SkippedRow struct {
	Line    int
	Values  int
	Headers int
}

// ParseComparisonCSV reads the comparison dataset. Each row becomes a
// document keyed by the trimmed header names. Numeric cells become
// float64 and empty cells nil.
func ParseComparisonCSV(r io.Reader) ([]model.Document, []SkippedRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var (
		docs    []model.Document
		skipped []SkippedRow
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			skipped = append(skipped, SkippedRow{Line: line, Values: len(rec), Headers: len(header)})
			continue
		}
		doc := make(model.Document, len(header))
		for i, h := range header {
			doc[h] = cell(rec[i])
		}
		docs = append(docs, doc)
	}
	return docs, skipped, nil
}

func cell(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}
