package question

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/samber/lo"

	"github.com/abhisek/lexicon/internal/rarity"
	"github.com/abhisek/lexicon/internal/terms"
)

// MaxDistractors is the number of wrong options shown next to the correct one.
const MaxDistractors = 3

// ErrEmptyPool is returned when no term matches the requested filter.
var ErrEmptyPool = errors.New("no terms match the selected rarity")

// Filter restricts question selection to one rarity tier, or to all of them.
type Filter string

// FilterAll selects from the whole catalog.
const FilterAll Filter = "all"

// FilterFor returns the filter for a single tier.
func FilterFor(t rarity.Tier) Filter {
	return Filter(t)
}

// Filters returns every selectable filter in menu order.
func Filters() []Filter {
	out := []Filter{FilterAll}
	for _, t := range rarity.All() {
		out = append(out, FilterFor(t))
	}
	return out
}

// Tier returns the tier for a single-tier filter. ok is false for FilterAll.
func (f Filter) Tier() (rarity.Tier, bool) {
	if f == FilterAll {
		return "", false
	}
	return rarity.Tier(f), true
}

// DisplayName returns a human-readable label for the filter.
func (f Filter) DisplayName() string {
	if t, ok := f.Tier(); ok {
		return t.DisplayName()
	}
	return "All"
}

// ParseFilter converts a user-supplied string into a Filter.
func ParseFilter(s string) (Filter, error) {
	if Filter(s) == FilterAll {
		return FilterAll, nil
	}
	t, err := rarity.Parse(s)
	if err != nil {
		return "", err
	}
	return FilterFor(t), nil
}

// Selector picks terms and builds option lists.
type Selector struct {
	catalog      []terms.Term
	translations []string
	rng          *rand.Rand
}

// NewSelector returns a selector over the built-in catalog.
// A nil rng uses an unseeded source.
func NewSelector(rng *rand.Rand) *Selector {
	return NewSelectorFrom(terms.All(), rng)
}

// NewSelectorFrom returns a selector over an explicit term set.
func NewSelectorFrom(catalog []terms.Term, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{
		catalog: catalog,
		translations: lo.Uniq(lo.Map(catalog, func(t terms.Term, _ int) string {
			return t.Translation
		})),
		rng: rng,
	}
}

// Select returns a uniformly random term matching the filter.
func (s *Selector) Select(filter Filter) (terms.Term, error) {
	pool := s.catalog
	if tier, ok := filter.Tier(); ok {
		pool = lo.Filter(s.catalog, func(t terms.Term, _ int) bool {
			return t.Rarity == tier
		})
	}
	if len(pool) == 0 {
		return terms.Term{}, fmt.Errorf("select %s: %w", filter, ErrEmptyPool)
	}
	return pool[s.rng.IntN(len(pool))], nil
}

// BuildOptions returns the correct translation plus up to MaxDistractors
// other distinct translations from the whole catalog, in random order.
func (s *Selector) BuildOptions(correct terms.Term) []string {
	distractors := lo.Without(s.translations, correct.Translation)
	s.shuffle(distractors)
	if len(distractors) > MaxDistractors {
		distractors = distractors[:MaxDistractors]
	}
	options := append(distractors, correct.Translation)
	s.shuffle(options)
	return options
}

func (s *Selector) shuffle(xs []string) {
	s.rng.Shuffle(len(xs), func(i, j int) {
		xs[i], xs[j] = xs[j], xs[i]
	})
}
