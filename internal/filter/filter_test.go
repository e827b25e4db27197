package filter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wjt/sms-query/internal/storage"
)

const testPrefix = "+47"

func TestEventTypeFilter_Accumulate(t *testing.T) {
	f := NewEventTypeFilter()

	require.NoError(t, f.Accumulate("sms"))
	require.NoError(t, f.Accumulate("CALLS"))
	require.NoError(t, f.Accumulate("Missed"))

	assert.Equal(t, "call or missed or sms", f.Describe())
}

func TestEventTypeFilter_NormalizesCalls(t *testing.T) {
	f := NewEventTypeFilter()

	require.NoError(t, f.Accumulate("call"))
	require.NoError(t, f.Accumulate("calls"))

	clause, args, err := f.Predicate()
	require.NoError(t, err)
	assert.Empty(t, args)
	// "call" and "calls" collapse into one disjunct
	assert.Equal(t, fmt.Sprintf("EventTypes.name = '%s'", storage.EventTypeCall), clause)
}

func TestEventTypeFilter_RejectsUnknownToken(t *testing.T) {
	f := NewEventTypeFilter()

	err := f.Accumulate("fax")
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestEventTypeFilter_Predicate(t *testing.T) {
	f := NewEventTypeFilter()
	require.NoError(t, f.Accumulate("missed"))
	require.NoError(t, f.Accumulate("sms"))

	clause, args, err := f.Predicate()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t,
		fmt.Sprintf("EventTypes.name = '%s' OR EventTypes.name = '%s'",
			storage.EventTypeCallMissed, storage.EventTypeSMS),
		clause)
}

func TestDirectionFilter_Accumulate(t *testing.T) {
	f := NewDirectionFilter()

	require.NoError(t, f.Accumulate("in"))
	require.NoError(t, f.Accumulate("OUTGOING"))
	require.NoError(t, f.Accumulate("incoming"))

	assert.Equal(t, "in or out", f.Describe())

	clause, args, err := f.Predicate()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t, "Events.outgoing = 0 OR Events.outgoing = 1", clause)
}

func TestDirectionFilter_SingleDirection(t *testing.T) {
	f := NewDirectionFilter()
	require.NoError(t, f.Accumulate("out"))

	clause, args, err := f.Predicate()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t, "Events.outgoing = 1", clause)
}

func TestPhoneNumberFilter_DerivesComplementaryForms(t *testing.T) {
	prefixed := NewPhoneNumberFilter(testPrefix)
	require.NoError(t, prefixed.Accumulate("+4712345678"))

	bare := NewPhoneNumberFilter(testPrefix)
	require.NoError(t, bare.Accumulate("12345678"))

	// Both spellings yield the same pair of literal forms
	_, prefixedArgs, err := prefixed.Predicate()
	require.NoError(t, err)
	_, bareArgs, err := bare.Predicate()
	require.NoError(t, err)

	assert.ElementsMatch(t, prefixedArgs, bareArgs)
	assert.ElementsMatch(t, []any{"+4712345678", "12345678"}, prefixedArgs)
}

func TestPhoneNumberFilter_Predicate(t *testing.T) {
	f := NewPhoneNumberFilter(testPrefix)
	require.NoError(t, f.Accumulate("+4712345678"))

	clause, args, err := f.Predicate()
	require.NoError(t, err)
	assert.Equal(t, "Events.remote_uid = ? OR Events.remote_uid = ?", clause)
	assert.Equal(t, []any{"+4712345678", "12345678"}, args)
}

func TestPhoneNumberFilter_RejectsMalformedNumber(t *testing.T) {
	f := NewPhoneNumberFilter(testPrefix)

	err := f.Accumulate("12a45")
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestNameFilter_DeduplicatesCaseInsensitively(t *testing.T) {
	f := NewNameFilter()
	require.NoError(t, f.Accumulate("Alice"))
	require.NoError(t, f.Accumulate("alice"))
	require.NoError(t, f.Accumulate("ALICE"))

	clause, args, err := f.Predicate()
	require.NoError(t, err)
	assert.Equal(t, "Remotes.remote_name LIKE ?", clause)
	assert.Equal(t, []any{"%alice%"}, args)
	assert.Equal(t, "sender/recipient containing 'alice'", f.Describe())
}

func TestNameFilter_WildcardsInBoundParameter(t *testing.T) {
	f := NewNameFilter()
	require.NoError(t, f.Accumulate("bob"))

	clause, args, err := f.Predicate()
	require.NoError(t, err)
	assert.NotContains(t, clause, "%")
	assert.Equal(t, []any{"%bob%"}, args)
}

func TestNameFilter_RejectsEmptyTerm(t *testing.T) {
	f := NewNameFilter()

	err := f.Accumulate("")
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestFilters_EmptyStateIsAnError(t *testing.T) {
	filters := map[string]Filter{
		"event-type":   NewEventTypeFilter(),
		"direction":    NewDirectionFilter(),
		"phone-number": NewPhoneNumberFilter(testPrefix),
		"name":         NewNameFilter(),
	}

	for variant, f := range filters {
		_, _, err := f.Predicate()
		require.Error(t, err, variant)
		assert.True(t, IsEmptyFilterState(err), variant)
	}
}

func TestFilters_PlaceholderCountMatchesArgs(t *testing.T) {
	tokensByVariant := map[string][]string{
		"event-type":   {"call", "missed", "sms"},
		"direction":    {"in", "out"},
		"phone-number": {"+4712345678", "99887766", "12345678"},
		"name":         {"alice", "bob", "carol"},
	}
	factories := map[string]func() Filter{
		"event-type":   func() Filter { return NewEventTypeFilter() },
		"direction":    func() Filter { return NewDirectionFilter() },
		"phone-number": func() Filter { return NewPhoneNumberFilter(testPrefix) },
		"name":         func() Filter { return NewNameFilter() },
	}

	// Property holds at every accumulation size from 1 to N
	for variant, tokens := range tokensByVariant {
		for n := 1; n <= len(tokens); n++ {
			f := factories[variant]()
			for _, token := range tokens[:n] {
				require.NoError(t, f.Accumulate(token))
			}

			clause, args, err := f.Predicate()
			require.NoError(t, err)
			assert.Equal(t, strings.Count(clause, "?"), len(args),
				"%s with %d tokens", variant, n)
		}
	}
}

func TestFilters_RenderingIsIdempotent(t *testing.T) {
	f := NewPhoneNumberFilter(testPrefix)
	require.NoError(t, f.Accumulate("12345678"))

	clause1, args1, err := f.Predicate()
	require.NoError(t, err)
	clause2, args2, err := f.Predicate()
	require.NoError(t, err)

	assert.Equal(t, clause1, clause2)
	assert.Equal(t, args1, args2)
	assert.Equal(t, f.Describe(), f.Describe())

	n := NewNameFilter()
	require.NoError(t, n.Accumulate("Alice"))
	require.NoError(t, n.Accumulate("bob"))

	nClause1, nArgs1, err := n.Predicate()
	require.NoError(t, err)
	nClause2, nArgs2, err := n.Predicate()
	require.NoError(t, err)

	assert.Equal(t, nClause1, nClause2)
	assert.Equal(t, nArgs1, nArgs2)
}
