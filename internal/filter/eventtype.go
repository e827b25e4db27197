package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wjt/sms-query/internal/storage"
)

// EventTypeFilter filters on the event type (calls, missed calls, SMS).
type EventTypeFilter struct {
	given map[string]struct{}
}

// tokens accepted after normalization, mapped to EventTypes.name values
var eventTypeNames = map[string]string{
	"call":   storage.EventTypeCall,
	"missed": storage.EventTypeCallMissed,
	"sms":    storage.EventTypeSMS,
}

// eventTypeOrder fixes the disjunct order in rendered predicates
var eventTypeOrder = []string{"call", "missed", "sms"}

// NewEventTypeFilter creates an empty event type filter
func NewEventTypeFilter() *EventTypeFilter {
	return &EventTypeFilter{given: make(map[string]struct{})}
}

// Accumulate folds one event type token into the filter.
// "calls" normalizes to "call"; matching is case-insensitive.
func (f *EventTypeFilter) Accumulate(token string) error {
	arg := strings.ToLower(token)
	if arg == "calls" {
		arg = "call"
	}
	if _, ok := eventTypeNames[arg]; !ok {
		return NewInvalidArgument(fmt.Sprintf("unknown event type token %q", token), nil)
	}
	f.given[arg] = struct{}{}
	return nil
}

// Predicate renders the accumulated event types as an OR disjunction over
// the EventTypes.name column. The type names are fixed schema constants,
// so they are inlined rather than bound.
func (f *EventTypeFilter) Predicate() (string, []any, error) {
	if len(f.given) == 0 {
		return "", nil, NewEmptyFilterState("event type filter rendered without accumulated tokens")
	}

	var clauses []string
	for _, arg := range eventTypeOrder {
		if _, ok := f.given[arg]; ok {
			clauses = append(clauses, fmt.Sprintf("EventTypes.name = '%s'", eventTypeNames[arg]))
		}
	}
	return strings.Join(clauses, " OR "), nil, nil
}

// Describe returns the accumulated event types joined with "or"
func (f *EventTypeFilter) Describe() string {
	given := make([]string, 0, len(f.given))
	for arg := range f.given {
		given = append(given, arg)
	}
	sort.Strings(given)
	return strings.Join(given, " or ")
}
