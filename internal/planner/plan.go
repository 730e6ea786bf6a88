package planner

import (
	"kiwi-nutriplanner/internal/catalog"
	"kiwi-nutriplanner/internal/matcher"
	"kiwi-nutriplanner/internal/nutrition"
)

// DaysPerWeek is the length of a planning session.
const DaysPerWeek = 7

// SlotState tags the lifecycle state of one meal entry. The tag decides which
// fields of MealEntry are meaningful, so an assigned menu item without an id
// is unrepresentable by construction.
type SlotState string

const (
	// SlotEmpty is an untouched or cleared slot; macros are all zero.
	SlotEmpty SlotState = "empty"
	// SlotManual holds a free-text meal with estimator-derived macros.
	SlotManual SlotState = "manual"
	// SlotMenuItem holds an assigned Kiwi menu item; ItemID references the
	// catalog and the macros are copied from the item.
	SlotMenuItem SlotState = "menu_item"
)

// MealEntry is one cell of the 7x4 weekly grid.
type MealEntry struct {
	State  SlotState        `json:"state"`
	Text   string           `json:"text,omitempty"`
	Macros nutrition.Macros `json:"macros"`
	ItemID string           `json:"item_id,omitempty"`
}

// IsMenuItem reports whether the entry holds an assigned catalog item.
func (e MealEntry) IsMenuItem() bool {
	return e.State == SlotMenuItem
}

func emptyEntry() MealEntry {
	return MealEntry{State: SlotEmpty}
}

func manualEntry(text string) MealEntry {
	return MealEntry{
		State:  SlotManual,
		Text:   text,
		Macros: nutrition.ParseFoodText(text),
	}
}

func menuItemEntry(item catalog.MenuItem) MealEntry {
	m := nutrition.Macros{Calories: item.Calories}
	if item.Macros != nil {
		m.Protein = item.Macros.Protein
		m.Carbs = item.Macros.Carbs
		m.Fat = item.Macros.Fat
	}
	return MealEntry{
		State:  SlotMenuItem,
		Text:   item.Name + " (Kiwi Menu)",
		Macros: m,
		ItemID: item.ID,
	}
}

// DayPlan holds the four meal slots of a single day.
type DayPlan struct {
	Breakfast MealEntry `json:"breakfast"`
	Lunch     MealEntry `json:"lunch"`
	Snack     MealEntry `json:"snack"`
	Dinner    MealEntry `json:"dinner"`
}

// Entry returns the entry for a slot; the zero MealEntry for an unknown slot.
func (d DayPlan) Entry(slot matcher.MealSlot) MealEntry {
	if e := d.entry(slot); e != nil {
		return *e
	}
	return MealEntry{}
}

func (d *DayPlan) entry(slot matcher.MealSlot) *MealEntry {
	switch slot {
	case matcher.SlotBreakfast:
		return &d.Breakfast
	case matcher.SlotLunch:
		return &d.Lunch
	case matcher.SlotSnack:
		return &d.Snack
	case matcher.SlotDinner:
		return &d.Dinner
	}
	return nil
}

// Totals is the elementwise sum of the day's four entries.
func (d DayPlan) Totals() nutrition.Macros {
	return d.Breakfast.Macros.
		Add(d.Lunch.Macros).
		Add(d.Snack.Macros).
		Add(d.Dinner.Macros)
}

// WeeklyPlan is exactly seven day plans in calendar order (index 0 = first
// day of the week).
type WeeklyPlan [DaysPerWeek]DayPlan

// NewWeeklyPlan returns a plan with every slot empty.
func NewWeeklyPlan() WeeklyPlan {
	var plan WeeklyPlan
	for day := range plan {
		plan[day] = DayPlan{
			Breakfast: emptyEntry(),
			Lunch:     emptyEntry(),
			Snack:     emptyEntry(),
			Dinner:    emptyEntry(),
		}
	}
	return plan
}
