package terms

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/abhisek/lexicon/internal/rarity"
)

// catalog holds the term list with precomputed indices.
type catalog struct {
	terms        []Term
	byTerm       map[string]*Term
	byRarity     map[rarity.Tier][]Term
	translations []string
}

// c is the package-level catalog, set by init() in seed.go.
var c *catalog

func buildCatalog(terms []Term) *catalog {
	cat := &catalog{
		terms:    terms,
		byTerm:   make(map[string]*Term, len(terms)),
		byRarity: make(map[rarity.Tier][]Term),
	}
	for i := range cat.terms {
		t := &cat.terms[i]
		cat.byTerm[strings.ToLower(t.Term)] = t
		cat.byRarity[t.Rarity] = append(cat.byRarity[t.Rarity], *t)
	}
	cat.translations = lo.Uniq(lo.Map(terms, func(t Term, _ int) string {
		return t.Translation
	}))
	return cat
}

// All returns every term in catalog order.
func All() []Term {
	return slices.Clone(c.terms)
}

// ByRarity returns the terms of a single tier in catalog order.
func ByRarity(t rarity.Tier) []Term {
	return slices.Clone(c.byRarity[t])
}

// Translations returns the distinct translations across the whole catalog,
// in first-seen order.
func Translations() []string {
	return slices.Clone(c.translations)
}

// Lookup finds a term by its (case-insensitive) spelling.
func Lookup(term string) (Term, error) {
	t, ok := c.byTerm[strings.ToLower(strings.TrimSpace(term))]
	if !ok {
		return Term{}, fmt.Errorf("term not found: %q", term)
	}
	return *t, nil
}

// CountByRarity returns how many terms exist per tier.
func CountByRarity() map[rarity.Tier]int {
	counts := make(map[rarity.Tier]int, len(c.byRarity))
	for tier, ts := range c.byRarity {
		counts[tier] = len(ts)
	}
	return counts
}
