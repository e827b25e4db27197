package filter

import (
	"fmt"

	"github.com/wjt/sms-query/internal/logger"
)

// Classifier routes raw command-line tokens to filter variants.
//
// Each token is tried against the variant recognition patterns in fixed
// precedence order; the first match wins. A variant's filter instance is
// created lazily on its first matching token, so a classifier never holds
// an empty filter. One classifier serves one invocation.
type Classifier struct {
	variants []descriptor
	filters  map[Variant]Filter
	logger   *logger.Logger
}

// NewClassifier creates a classifier using the given country prefix for
// the phone number variant
func NewClassifier(countryPrefix string) *Classifier {
	return &Classifier{
		variants: variantDescriptors(countryPrefix),
		filters:  make(map[Variant]Filter),
		logger:   logger.GetLogger().Classifier(),
	}
}

// Classify routes every token to its variant and accumulates it.
// A strict-validation failure aborts classification with the offending
// token wrapped in the error.
func (c *Classifier) Classify(tokens []string) error {
	for _, token := range tokens {
		if err := c.classifyToken(token); err != nil {
			return fmt.Errorf("argument %q: %w", token, err)
		}
	}
	return nil
}

func (c *Classifier) classifyToken(token string) error {
	for _, desc := range c.variants {
		if !desc.recognize(token) {
			continue
		}

		f, ok := c.filters[desc.variant]
		if !ok {
			f = desc.create()
			c.filters[desc.variant] = f
		}

		if err := f.Accumulate(token); err != nil {
			return err
		}

		c.logger.Debug().
			Str("token", token).
			Str("variant", string(desc.variant)).
			Msg("Token classified")
		return nil
	}

	// Unreachable: the name variant recognizes every token
	c.logger.Error().Str("token", token).Msg("Token matched no filter variant")
	return nil
}

// Active returns the populated filters in declared variant order. The
// order is stable so predicate fragments and flattened parameters always
// line up the same way.
func (c *Classifier) Active() []Filter {
	var active []Filter
	for _, desc := range c.variants {
		if f, ok := c.filters[desc.variant]; ok {
			active = append(active, f)
		}
	}
	return active
}

// Get returns the filter instance for a variant, or nil when no token
// matched it
func (c *Classifier) Get(variant Variant) Filter {
	return c.filters[variant]
}

// Descriptions returns the human-readable summaries of the active
// filters, in declared variant order
func (c *Classifier) Descriptions() []string {
	var descs []string
	for _, f := range c.Active() {
		descs = append(descs, f.Describe())
	}
	return descs
}
