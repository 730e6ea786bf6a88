package planner

import (
	"strings"

	"kiwi-nutriplanner/internal/catalog"
	"kiwi-nutriplanner/internal/matcher"
	"kiwi-nutriplanner/internal/nutrition"
)

// slotShare is the ideal share of the daily goals targeted by each meal
// moment when a slot has no usable estimate of its own. The four ratios
// deliberately do not sum to 1.0: each meal is matched against its own share,
// not a normalized split of the day.
var slotShare = map[matcher.MealSlot]float64{
	matcher.SlotBreakfast: 0.25,
	matcher.SlotLunch:     0.35,
	matcher.SlotSnack:     0.15,
	matcher.SlotDinner:    0.25,
}

// ProgressLevel classifies a day total against its goal.
type ProgressLevel string

const (
	ProgressUnder    ProgressLevel = "under"
	ProgressOnTarget ProgressLevel = "on_target"
	ProgressOver     ProgressLevel = "over"
)

// ClassifyProgress buckets current against target: under below 85%, over
// above 115%, on target between.
func ClassifyProgress(current, target int) ProgressLevel {
	if target <= 0 {
		if current > 0 {
			return ProgressOver
		}
		return ProgressOnTarget
	}

	pct := float64(current) / float64(target) * 100
	switch {
	case pct > 115:
		return ProgressOver
	case pct < 85:
		return ProgressUnder
	default:
		return ProgressOnTarget
	}
}

// DayProgress classifies each macro of a day against the daily goals.
type DayProgress struct {
	Calories ProgressLevel `json:"calories"`
	Protein  ProgressLevel `json:"protein"`
	Carbs    ProgressLevel `json:"carbs"`
	Fat      ProgressLevel `json:"fat"`
}

// CartLine is one menu item with how many times the week orders it. It feeds
// the storefront's add-all-to-cart flow.
type CartLine struct {
	Item     catalog.MenuItem `json:"item"`
	Quantity int              `json:"quantity"`
}

// Planner owns one planning session: the daily goals and the weekly grid. It
// is the only writer of the plan; the matcher and estimator only compute.
// Sessions are independent of each other, so a Planner is not safe for
// concurrent use.
type Planner struct {
	catalog *catalog.Catalog
	matcher *matcher.Matcher
	goals   nutrition.Macros
	plan    WeeklyPlan
}

// New starts a planning session with an all-empty weekly plan.
func New(cat *catalog.Catalog, m *matcher.Matcher, goals nutrition.Macros) *Planner {
	return &Planner{
		catalog: cat,
		matcher: m,
		goals:   goals,
		plan:    NewWeeklyPlan(),
	}
}

// Resume starts a session from a previously stored plan.
func Resume(cat *catalog.Catalog, m *matcher.Matcher, goals nutrition.Macros, plan WeeklyPlan) *Planner {
	return &Planner{catalog: cat, matcher: m, goals: goals, plan: plan}
}

// Goals returns the session's daily macro targets.
func (p *Planner) Goals() nutrition.Macros {
	return p.goals
}

// SetGoals replaces the daily targets, e.g. after a profile edit. The plan
// itself is untouched; progress is reclassified on the next read.
func (p *Planner) SetGoals(goals nutrition.Macros) {
	p.goals = goals
}

// Plan returns a snapshot of the weekly grid.
func (p *Planner) Plan() WeeklyPlan {
	return p.plan
}

// Day returns a snapshot of one day; the zero DayPlan when day is out of
// range.
func (p *Planner) Day(day int) DayPlan {
	if day < 0 || day >= DaysPerWeek {
		return DayPlan{}
	}
	return p.plan[day]
}

// EditSlot records a free-text meal on a slot, re-estimating its macros and
// clearing any prior menu item assignment. Blank text clears the slot back to
// empty.
func (p *Planner) EditSlot(day int, slot matcher.MealSlot, text string) {
	e := p.entry(day, slot)
	if e == nil {
		return
	}

	if strings.TrimSpace(text) == "" {
		*e = emptyEntry()
		return
	}
	*e = manualEntry(text)
}

// Suggest assigns the best-matching menu item to the slot. The target is the
// slot's own manual estimate when it has positive calories, otherwise the
// slot's ideal share of the daily goals.
func (p *Planner) Suggest(day int, slot matcher.MealSlot) (catalog.MenuItem, bool) {
	return p.applySuggestion(day, slot, nil)
}

// Swap replaces an assigned menu item with another suggestion, excluding the
// current item so a repeated swap is unlikely to bounce back to it.
func (p *Planner) Swap(day int, slot matcher.MealSlot) (catalog.MenuItem, bool) {
	e := p.entry(day, slot)
	if e == nil {
		return catalog.MenuItem{}, false
	}

	var exclude []string
	if e.IsMenuItem() {
		exclude = append(exclude, e.ItemID)
	}
	return p.applySuggestion(day, slot, exclude)
}

// OptimizeDay applies a suggestion to all four slots in serving order. Every
// chosen id is excluded for the rest of the pass, so one optimized day never
// serves the same dish twice.
func (p *Planner) OptimizeDay(day int) []catalog.MenuItem {
	var used []string
	var chosen []catalog.MenuItem
	for _, slot := range matcher.SlotOrder {
		item, ok := p.applySuggestion(day, slot, used)
		if !ok {
			continue
		}
		used = append(used, item.ID)
		chosen = append(chosen, item)
	}
	return chosen
}

// OptimizeWeek runs OptimizeDay over every day of the plan.
func (p *Planner) OptimizeWeek() {
	for day := 0; day < DaysPerWeek; day++ {
		p.OptimizeDay(day)
	}
}

func (p *Planner) applySuggestion(day int, slot matcher.MealSlot, exclude []string) (catalog.MenuItem, bool) {
	e := p.entry(day, slot)
	if e == nil {
		return catalog.MenuItem{}, false
	}

	match := p.matcher.FindSubstitute(p.targetFor(*e, slot), slot, exclude)
	*e = menuItemEntry(match.Item)
	return match.Item, true
}

func (p *Planner) targetFor(e MealEntry, slot matcher.MealSlot) matcher.Target {
	if e.State == SlotManual && e.Macros.Calories > 0 {
		return matcher.TargetFromMacros(e.Macros)
	}
	return matcher.TargetFromMacros(p.goals).Scale(slotShare[slot])
}

func (p *Planner) entry(day int, slot matcher.MealSlot) *MealEntry {
	if day < 0 || day >= DaysPerWeek {
		return nil
	}
	return p.plan[day].entry(slot)
}

// DayTotals sums the macros of one day's four entries.
func (p *Planner) DayTotals(day int) nutrition.Macros {
	if day < 0 || day >= DaysPerWeek {
		return nutrition.Macros{}
	}
	return p.plan[day].Totals()
}

// DayProgress classifies one day's totals against the daily goals.
func (p *Planner) DayProgress(day int) DayProgress {
	totals := p.DayTotals(day)
	return DayProgress{
		Calories: ClassifyProgress(totals.Calories, p.goals.Calories),
		Protein:  ClassifyProgress(totals.Protein, p.goals.Protein),
		Carbs:    ClassifyProgress(totals.Carbs, p.goals.Carbs),
		Fat:      ClassifyProgress(totals.Fat, p.goals.Fat),
	}
}

// WeekPrice sums the catalog price of every assigned menu item slot across
// the whole week, in currency units.
func (p *Planner) WeekPrice() int {
	total := 0
	p.eachMenuItem(func(item catalog.MenuItem) {
		total += item.Price
	})
	return total
}

// CartLines aggregates the week's assigned menu items into order lines, in
// first-appearance order.
func (p *Planner) CartLines() []CartLine {
	index := make(map[string]int)
	var lines []CartLine
	p.eachMenuItem(func(item catalog.MenuItem) {
		if i, ok := index[item.ID]; ok {
			lines[i].Quantity++
			return
		}
		index[item.ID] = len(lines)
		lines = append(lines, CartLine{Item: item, Quantity: 1})
	})
	return lines
}

// eachMenuItem visits the catalog item of every assigned slot, day by day in
// serving order. Entries whose id no longer resolves are skipped.
func (p *Planner) eachMenuItem(fn func(catalog.MenuItem)) {
	for day := range p.plan {
		for _, slot := range matcher.SlotOrder {
			e := p.plan[day].Entry(slot)
			if !e.IsMenuItem() {
				continue
			}
			if item, ok := p.catalog.ByID(e.ItemID); ok {
				fn(item)
			}
		}
	}
}
