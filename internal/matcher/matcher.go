package matcher

import (
	"math"
	"math/rand"
	"sort"

	"kiwi-nutriplanner/internal/catalog"
	"kiwi-nutriplanner/internal/nutrition"
)

// MealSlot identifies one of the four daily meal moments.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotSnack     MealSlot = "snack"
	SlotDinner    MealSlot = "dinner"
)

// SlotOrder lists the slots in serving order. Day-wide operations iterate in
// this order so exclusion lists build up predictably.
var SlotOrder = []MealSlot{SlotBreakfast, SlotLunch, SlotSnack, SlotDinner}

// slotCategories whitelists which menu sections fit each meal moment. A juice
// is a fine snack; a full combo for breakfast is not.
var slotCategories = map[MealSlot][]catalog.Category{
	SlotBreakfast: {
		catalog.CategoryOmelettes,
		catalog.CategorySmoothies,
		catalog.CategoryDesserts,
		catalog.CategorySandwiches,
		catalog.CategoryJuices,
	},
	SlotLunch: {
		catalog.CategorySalads,
		catalog.CategoryCombos,
		catalog.CategorySandwiches,
	},
	SlotSnack: {
		catalog.CategoryJuices,
		catalog.CategorySmoothies,
		catalog.CategoryDesserts,
	},
	SlotDinner: {
		catalog.CategorySalads,
		catalog.CategorySandwiches,
		catalog.CategoryJuices,
	},
}

// Target is a macro target for one meal. Fields are fractional because per-slot
// targets are shares of the integer daily goals.
type Target struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// TargetFromMacros lifts an integer quadruple into a Target.
func TargetFromMacros(m nutrition.Macros) Target {
	return Target{
		Calories: float64(m.Calories),
		Protein:  float64(m.Protein),
		Carbs:    float64(m.Carbs),
		Fat:      float64(m.Fat),
	}
}

// Scale returns the target multiplied by ratio.
func (t Target) Scale(ratio float64) Target {
	return Target{
		Calories: t.Calories * ratio,
		Protein:  t.Protein * ratio,
		Carbs:    t.Carbs * ratio,
		Fat:      t.Fat * ratio,
	}
}

// Weights control the distance scoring. Protein is weighted highest because
// satiety and goal alignment hinge on it, calories next, carbs and fat least.
type Weights struct {
	Protein  float64
	Calories float64
	Carbs    float64
	Fat      float64
}

// DefaultWeights returns the production scoring weights.
func DefaultWeights() Weights {
	return Weights{Protein: 2.0, Calories: 1.0, Carbs: 0.8, Fat: 0.8}
}

// defaultTopPicks is how many of the best-scoring candidates the matcher
// samples from. One would make repeated suggestions monotonous; three keeps
// them near-optimal but varied.
const defaultTopPicks = 3

// Match pairs a chosen menu item with its distance to the target. A +Inf score
// marks the no-eligible-candidates fallback.
type Match struct {
	Item  catalog.MenuItem
	Score float64
}

// Matcher searches the catalog for the menu item closest to a macro target
// under the slot's category whitelist. It never fails: some item is always
// returned.
type Matcher struct {
	catalog  *catalog.Catalog
	weights  Weights
	topPicks int
	rng      *rand.Rand
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithWeights overrides the scoring weights.
func WithWeights(w Weights) Option {
	return func(m *Matcher) { m.weights = w }
}

// WithTopPicks overrides how many best candidates are sampled from.
func WithTopPicks(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.topPicks = n
		}
	}
}

// WithRand injects a random source so tests get reproducible selections. When
// unset the matcher uses the shared, non-deterministically seeded source.
func WithRand(r *rand.Rand) Option {
	return func(m *Matcher) { m.rng = r }
}

// New creates a Matcher over an immutable catalog.
func New(cat *catalog.Catalog, opts ...Option) *Matcher {
	m := &Matcher{
		catalog:  cat,
		weights:  DefaultWeights(),
		topPicks: defaultTopPicks,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindSubstitute returns the best-fitting menu item for the target and slot.
//
// Eligible items (slot category whitelist, macro data present) are scored by
// weighted absolute distance and sorted ascending. Excluded ids are dropped
// unless that would empty the set, in which case the exclusion is ignored
// rather than failing. The result is drawn uniformly from the best remaining
// candidates. An empty eligible set degrades to the first catalog item with an
// unbounded score.
func (m *Matcher) FindSubstitute(target Target, slot MealSlot, excludeIDs []string) Match {
	allowed := slotCategories[slot]

	var candidates []Match
	for _, item := range m.catalog.Items() {
		if !item.HasMacros() {
			continue
		}
		if !categoryAllowed(allowed, item.Category) {
			continue
		}
		candidates = append(candidates, Match{Item: item, Score: m.score(item, target)})
	}

	if len(candidates) == 0 {
		return Match{Item: m.catalog.First(), Score: math.Inf(1)}
	}

	// Stable sort keeps menu order on ties so seeded runs are reproducible.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})

	valid := withoutIDs(candidates, excludeIDs)
	if len(valid) == 0 {
		valid = candidates
	}

	top := valid
	if len(top) > m.topPicks {
		top = top[:m.topPicks]
	}
	return top[m.intn(len(top))]
}

func (m *Matcher) score(item catalog.MenuItem, target Target) float64 {
	return m.weights.Protein*math.Abs(float64(item.Macros.Protein)-target.Protein) +
		m.weights.Calories*math.Abs(float64(item.Calories)-target.Calories) +
		m.weights.Carbs*math.Abs(float64(item.Macros.Carbs)-target.Carbs) +
		m.weights.Fat*math.Abs(float64(item.Macros.Fat)-target.Fat)
}

func (m *Matcher) intn(n int) int {
	if n <= 1 {
		return 0
	}
	if m.rng != nil {
		return m.rng.Intn(n)
	}
	return rand.Intn(n)
}

func categoryAllowed(allowed []catalog.Category, cat catalog.Category) bool {
	for _, c := range allowed {
		if c == cat {
			return true
		}
	}
	return false
}

func withoutIDs(candidates []Match, excludeIDs []string) []Match {
	if len(excludeIDs) == 0 {
		return candidates
	}

	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	var out []Match
	for _, c := range candidates {
		if _, skip := excluded[c.Item.ID]; skip {
			continue
		}
		out = append(out, c)
	}
	return out
}
