package filter

import (
	"fmt"
	"sort"
	"strings"
)

// DirectionFilter filters on event direction (incoming vs. outgoing).
type DirectionFilter struct {
	given map[string]struct{}
}

// NewDirectionFilter creates an empty direction filter
func NewDirectionFilter() *DirectionFilter {
	return &DirectionFilter{given: make(map[string]struct{})}
}

// Accumulate folds one direction token into the filter.
// "incoming"/"outgoing" normalize to "in"/"out"; matching is
// case-insensitive.
func (f *DirectionFilter) Accumulate(token string) error {
	arg := strings.ToLower(token)
	switch arg {
	case "incoming":
		arg = "in"
	case "outgoing":
		arg = "out"
	}
	if arg != "in" && arg != "out" {
		return NewInvalidArgument(fmt.Sprintf("unknown direction token %q", token), nil)
	}
	f.given[arg] = struct{}{}
	return nil
}

// Predicate renders the accumulated directions against the
// Events.outgoing flag (0 = incoming, 1 = outgoing).
func (f *DirectionFilter) Predicate() (string, []any, error) {
	if len(f.given) == 0 {
		return "", nil, NewEmptyFilterState("direction filter rendered without accumulated tokens")
	}

	var clauses []string
	if _, ok := f.given["in"]; ok {
		clauses = append(clauses, "Events.outgoing = 0")
	}
	if _, ok := f.given["out"]; ok {
		clauses = append(clauses, "Events.outgoing = 1")
	}
	return strings.Join(clauses, " OR "), nil, nil
}

// Describe returns the accumulated directions joined with "or"
func (f *DirectionFilter) Describe() string {
	given := make([]string, 0, len(f.given))
	for arg := range f.given {
		given = append(given, arg)
	}
	sort.Strings(given)
	return strings.Join(given, " or ")
}
