package filter

import "regexp"

// Filter accumulates command-line tokens of one variant and renders the
// accumulated state as a SQL predicate fragment with bound parameters.
//
// Tokens reach a filter in two stages: the variant's recognition pattern
// decides dispatch, then Accumulate performs strict validation. The pattern
// is a dispatch hint, not a full validator, so Accumulate may still reject
// a recognized token with an invalid-argument error.
type Filter interface {
	// Accumulate validates and normalizes a token, then folds it into
	// the filter state.
	Accumulate(token string) error

	// Predicate returns the SQL fragment implementing this filter and
	// the parameters bound to its '?' placeholders. The placeholder
	// count always equals the parameter count. Rendering a filter that
	// never accumulated a token is an empty-filter-state error.
	Predicate() (clause string, args []any, err error)

	// Describe returns a human-readable summary of the accumulated
	// values, joined with "or".
	Describe() string
}

// Variant identifies one of the four closed filter categories.
type Variant string

const (
	VariantEventType   Variant = "event-type"
	VariantDirection   Variant = "direction"
	VariantPhoneNumber Variant = "phone-number"
	VariantName        Variant = "name"
)

// descriptor pairs a variant's recognition predicate with its constructor.
type descriptor struct {
	variant   Variant
	recognize func(token string) bool
	create    func() Filter
}

var (
	eventTypeTokenRe = regexp.MustCompile(`(?i)^(calls?|missed|sms)$`)
	directionTokenRe = regexp.MustCompile(`(?i)^(in(coming)?|out(going)?)$`)
	phoneTokenRe     = regexp.MustCompile(`^\+?[0-9]+$`)
)

// variantDescriptors returns the variant dispatch table in precedence
// order. The name variant recognizes every token and must stay last so the
// narrower patterns get first claim.
func variantDescriptors(countryPrefix string) []descriptor {
	return []descriptor{
		{
			variant:   VariantEventType,
			recognize: eventTypeTokenRe.MatchString,
			create:    func() Filter { return NewEventTypeFilter() },
		},
		{
			variant:   VariantDirection,
			recognize: directionTokenRe.MatchString,
			create:    func() Filter { return NewDirectionFilter() },
		},
		{
			variant:   VariantPhoneNumber,
			recognize: phoneTokenRe.MatchString,
			create:    func() Filter { return NewPhoneNumberFilter(countryPrefix) },
		},
		{
			variant:   VariantName,
			recognize: func(string) bool { return true },
			create:    func() Filter { return NewNameFilter() },
		},
	}
}
