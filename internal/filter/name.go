package filter

import (
	"fmt"
	"sort"
	"strings"
)

// NameFilter filters on substrings of the resolved contact name.
//
// This is the catch-all variant: its recognition pattern matches any
// token, so it must be tried last in variant order. Terms are stored
// lower-cased in a set, so repeating a term in any case yields a single
// disjunct.
type NameFilter struct {
	terms map[string]struct{}
}

// NewNameFilter creates an empty name filter
func NewNameFilter() *NameFilter {
	return &NameFilter{terms: make(map[string]struct{})}
}

// Accumulate folds one search term into the filter
func (f *NameFilter) Accumulate(token string) error {
	if token == "" {
		return NewInvalidArgument("empty name term", nil)
	}
	f.terms[strings.ToLower(token)] = struct{}{}
	return nil
}

// Predicate renders one bound LIKE disjunct per distinct term against the
// Remotes.remote_name column. The wildcard markers are part of the bound
// parameter, not the SQL text.
func (f *NameFilter) Predicate() (string, []any, error) {
	if len(f.terms) == 0 {
		return "", nil, NewEmptyFilterState("name filter rendered without accumulated tokens")
	}

	terms := f.sortedTerms()
	clauses := make([]string, len(terms))
	args := make([]any, len(terms))
	for i, term := range terms {
		clauses[i] = "Remotes.remote_name LIKE ?"
		args[i] = "%" + term + "%"
	}
	return strings.Join(clauses, " OR "), args, nil
}

// Describe lists all distinct terms
func (f *NameFilter) Describe() string {
	terms := f.sortedTerms()
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = fmt.Sprintf("'%s'", term)
	}
	return "sender/recipient containing " + strings.Join(quoted, " or ")
}

// sortedTerms returns the term set in stable order so rendering is
// deterministic regardless of accumulation order
func (f *NameFilter) sortedTerms() []string {
	terms := make([]string, 0, len(f.terms))
	for term := range f.terms {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
