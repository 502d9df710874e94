package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/filter"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01"}

func errMissing(name string) error {
	return fmt.Errorf("missing %s", name)
}

// splitList splits a comma separated query value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseYears(raw string) ([]int, error) {
	parts := splitList(raw)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		y, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", p)
		}
		out = append(out, y)
	}
	return out, nil
}

// parseSpec reads organizations, providers, years, topK and q.
func parseSpec(q url.Values, resolveTopK func(string) (filter.TopK, error)) (filter.Spec, error) {
	years, err := parseYears(q.Get("years"))
	if err != nil {
		return filter.Spec{}, err
	}
	k, err := resolveTopK(q.Get("topK"))
	if err != nil {
		return filter.Spec{}, err
	}
	return filter.Spec{
		Organizations: filter.NewSet(splitList(q.Get("organizations"))...),
		Providers:     filter.NewSet(splitList(q.Get("providers"))...),
		Years:         filter.NewSet(years...),
		TopK:          k,
		ModelQuery:    strings.TrimSpace(q.Get("q")),
	}, nil
}

// parseDate accepts RFC3339, YYYY-MM-DD and YYYY-MM.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errMissing("date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
