package terms

import (
	"fmt"
	"strings"

	"github.com/abhisek/lexicon/internal/rarity"
)

// Validate checks the built-in catalog.
func Validate() error {
	return validateTerms(c.terms)
}

// validateTerms performs all structural checks on the given term set.
// Returns a combined error describing all problems found, or nil if valid.
func validateTerms(terms []Term) error {
	var errs []string

	if len(terms) == 0 {
		errs = append(errs, "catalog is empty")
	}

	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		key := strings.ToLower(t.Term)
		if seen[key] {
			errs = append(errs, fmt.Sprintf("duplicate term: %q", t.Term))
		}
		seen[key] = true

		if strings.TrimSpace(t.Term) == "" {
			errs = append(errs, "term with empty spelling")
		}
		if strings.TrimSpace(t.Translation) == "" {
			errs = append(errs, fmt.Sprintf("term %q has no translation", t.Term))
		}
		if !t.Rarity.Valid() {
			errs = append(errs, fmt.Sprintf("term %q references unknown rarity %q", t.Term, t.Rarity))
		}
	}

	// Every tier must be selectable as a filter.
	for _, tier := range rarity.All() {
		found := false
		for _, t := range terms {
			if t.Rarity == tier {
				found = true
				break
			}
		}
		if !found && len(terms) > 0 {
			errs = append(errs, fmt.Sprintf("no terms for rarity %q", tier))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
