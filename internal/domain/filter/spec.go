package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// Set is an unordered set of filter values. An empty set places no constraint.
type Set[T comparable] map[T]struct{}

// NewSet builds a set from values.
func NewSet[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in the set.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// allows is true for an empty set or a member.
func (s Set[T]) allows(v T) bool {
	return len(s) == 0 || s.Has(v)
}

// TopK is the number of leaves kept per benchmark. TopKAll disables truncation.
type TopK int

// TopKAll keeps every leaf.
const TopKAll TopK = 0

// String renders "all" for TopKAll.
func (k TopK) String() string {
	if k == TopKAll {
		return "all"
	}
	return strconv.Itoa(int(k))
}

// ParseTopK reads "all", "" or a positive integer.
func ParseTopK(s string) (TopK, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return TopKAll, nil
	}
	// ParseUint rejects sign prefixes, so "+5" is not a topK.
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil || n == 0 {
		return TopKAll, fmt.Errorf("%w: %q", ErrInvalidTopK, s)
	}
	return TopK(n), nil
}

// Spec selects which leaves survive Apply.
type Spec struct {
	Organizations Set[string]
	Providers     Set[string]
	Years         Set[int]
	TopK          TopK
	// ModelQuery is a case-insensitive substring of the model name.
	ModelQuery string
}

// Match reports whether a model passes the predicates of the filter.
func (s Spec) Match(m model.ModelRecord) bool {
	if !s.Organizations.allows(m.OrganizationID) || !s.Providers.allows(m.ProviderID) {
		return false
	}
	if len(s.Years) > 0 {
		year, ok := m.ReleaseYear()
		if !ok || !s.Years.Has(year) {
			return false
		}
	}
	if q := strings.TrimSpace(s.ModelQuery); q != "" {
		return strings.Contains(strings.ToLower(m.Name), strings.ToLower(q))
	}
	return true
}
