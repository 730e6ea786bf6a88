package report

import (
	"math/rand"
	"strings"
	"testing"

	"kiwi-nutriplanner/internal/catalog"
	"kiwi-nutriplanner/internal/matcher"
	"kiwi-nutriplanner/internal/nutrition"
	"kiwi-nutriplanner/internal/planner"
)

func newTestSession(t *testing.T) *planner.Planner {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	m := matcher.New(cat, matcher.WithRand(rand.New(rand.NewSource(3))))
	goals := nutrition.Macros{Calories: 2000, Protein: 150, Carbs: 200, Fat: 65}
	return planner.New(cat, m, goals)
}

func TestGoals(t *testing.T) {
	out := Goals(nutrition.Macros{Calories: 2200, Protein: 165, Carbs: 220, Fat: 73})

	if !strings.Contains(out, "🎯 *Metas diarias*") {
		t.Error("Missing goals header")
	}
	if !strings.Contains(out, "• Calorías: 2200 kcal") {
		t.Error("Missing calorie line")
	}
	if !strings.Contains(out, "• Proteína: 165g") {
		t.Error("Missing protein line")
	}
}

func TestDay(t *testing.T) {
	p := newTestSession(t)
	p.EditSlot(0, matcher.SlotBreakfast, "2 huevos con avena")

	out := Day(p, 0)

	if !strings.Contains(out, "*Lunes*") {
		t.Error("Missing day name")
	}
	if !strings.Contains(out, "Desayuno: 2 huevos con avena") {
		t.Error("Missing the manual meal")
	}
	if !strings.Contains(out, "Comida: _—_") {
		t.Error("Empty slots should render a placeholder")
	}
	// A single breakfast leaves the day far under target, and each of the
	// four macros carries its own marker.
	if got := strings.Count(out, "🔻"); got != 4 {
		t.Errorf("Expected 4 under-target markers, got %d", got)
	}
}

func TestWeekListsAllDays(t *testing.T) {
	p := newTestSession(t)
	out := Week(p)

	for _, name := range []string{"Lunes", "Miércoles", "Domingo"} {
		if !strings.Contains(out, "*"+name+"*") {
			t.Errorf("Missing day '%s'", name)
		}
	}
}

func TestBudget(t *testing.T) {
	p := newTestSession(t)

	t.Run("EmptyPlan", func(t *testing.T) {
		out := Budget(p)
		if !strings.Contains(out, "_Sin platillos del menú todavía_") {
			t.Error("Missing empty-plan placeholder")
		}
	})

	t.Run("WithOrders", func(t *testing.T) {
		p.OptimizeDay(0)
		out := Budget(p)
		if !strings.Contains(out, "🛒 *Pedido de la semana*") {
			t.Error("Missing budget header")
		}
		if !strings.Contains(out, "*Total: $") {
			t.Error("Missing total line")
		}
		if !strings.Contains(out, "1x ") {
			t.Error("Missing a quantity line")
		}
	})
}
