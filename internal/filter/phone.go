package filter

import (
	"fmt"
	"strings"
)

// PhoneNumberFilter filters on the remote phone number.
//
// The event store holds remote numbers both with and without the country
// prefix, so every accepted number also contributes its complementary
// form as an independent disjunct: a prefixed number adds its bare form,
// a bare number adds its prefixed form.
type PhoneNumberFilter struct {
	countryPrefix string
	nums          []string
}

// NewPhoneNumberFilter creates an empty phone number filter using the
// given country prefix for complementary-form derivation
func NewPhoneNumberFilter(countryPrefix string) *PhoneNumberFilter {
	return &PhoneNumberFilter{countryPrefix: countryPrefix}
}

// Accumulate folds one phone number token and its complementary form into
// the filter
func (f *PhoneNumberFilter) Accumulate(token string) error {
	if !phoneTokenRe.MatchString(token) {
		return NewInvalidArgument(fmt.Sprintf("malformed phone number %q", token), nil)
	}

	f.nums = append(f.nums, token)
	if strings.HasPrefix(token, f.countryPrefix) {
		f.nums = append(f.nums, token[len(f.countryPrefix):])
	} else {
		f.nums = append(f.nums, f.countryPrefix+token)
	}
	return nil
}

// Predicate renders one bound equality disjunct per stored literal form
// against the Events.remote_uid column
func (f *PhoneNumberFilter) Predicate() (string, []any, error) {
	if len(f.nums) == 0 {
		return "", nil, NewEmptyFilterState("phone number filter rendered without accumulated tokens")
	}

	clauses := make([]string, len(f.nums))
	args := make([]any, len(f.nums))
	for i, num := range f.nums {
		clauses[i] = "Events.remote_uid = ?"
		args[i] = num
	}
	return strings.Join(clauses, " OR "), args, nil
}

// Describe lists all stored literal forms
func (f *PhoneNumberFilter) Describe() string {
	return fmt.Sprintf("phone# in (%s)", strings.Join(f.nums, ", "))
}
