// Package report renders planning sessions as Telegram-flavored Markdown.
// The same text is printed by the CLI, where the markers are just as readable.
package report

import (
	"fmt"
	"strings"

	"kiwi-nutriplanner/internal/matcher"
	"kiwi-nutriplanner/internal/nutrition"
	"kiwi-nutriplanner/internal/planner"
)

var dayNames = [planner.DaysPerWeek]string{
	"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo",
}

var slotLabels = map[matcher.MealSlot]string{
	matcher.SlotBreakfast: "Desayuno",
	matcher.SlotLunch:     "Comida",
	matcher.SlotSnack:     "Snack",
	matcher.SlotDinner:    "Cena",
}

// Goals renders the daily macro targets.
func Goals(goals nutrition.Macros) string {
	var sb strings.Builder
	sb.WriteString("🎯 *Metas diarias*\n\n")
	sb.WriteString(fmt.Sprintf("• Calorías: %d kcal\n", goals.Calories))
	sb.WriteString(fmt.Sprintf("• Proteína: %dg\n", goals.Protein))
	sb.WriteString(fmt.Sprintf("• Carbohidratos: %dg\n", goals.Carbs))
	sb.WriteString(fmt.Sprintf("• Grasa: %dg\n", goals.Fat))
	return sb.String()
}

// Week renders the full weekly grid with per-day totals and progress.
func Week(p *planner.Planner) string {
	var sb strings.Builder
	sb.WriteString("📅 *Plan semanal*\n\n")

	for day := 0; day < planner.DaysPerWeek; day++ {
		sb.WriteString(Day(p, day))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Day renders one day of the plan.
func Day(p *planner.Planner, day int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s*\n", dayNames[day]))

	dp := p.Day(day)
	for _, slot := range matcher.SlotOrder {
		e := dp.Entry(slot)
		switch e.State {
		case planner.SlotEmpty:
			sb.WriteString(fmt.Sprintf("• %s: _—_\n", slotLabels[slot]))
		default:
			sb.WriteString(fmt.Sprintf("• %s: %s (%d kcal)\n", slotLabels[slot], e.Text, e.Macros.Calories))
		}
	}

	totals := p.DayTotals(day)
	progress := p.DayProgress(day)
	sb.WriteString(fmt.Sprintf("Total: %d kcal %s · %dg P %s · %dg C %s · %dg G %s\n",
		totals.Calories, progressIcon(progress.Calories),
		totals.Protein, progressIcon(progress.Protein),
		totals.Carbs, progressIcon(progress.Carbs),
		totals.Fat, progressIcon(progress.Fat),
	))
	return sb.String()
}

// Budget renders the week's order lines and total price.
func Budget(p *planner.Planner) string {
	lines := p.CartLines()

	var sb strings.Builder
	sb.WriteString("🛒 *Pedido de la semana*\n\n")
	if len(lines) == 0 {
		sb.WriteString("_Sin platillos del menú todavía_\n")
		return sb.String()
	}

	for _, l := range lines {
		sb.WriteString(fmt.Sprintf("• %dx %s — $%d\n", l.Quantity, l.Item.Name, l.Quantity*l.Item.Price))
	}
	sb.WriteString(fmt.Sprintf("\n*Total: $%d*\n", p.WeekPrice()))
	return sb.String()
}

func progressIcon(level planner.ProgressLevel) string {
	switch level {
	case planner.ProgressUnder:
		return "🔻"
	case planner.ProgressOver:
		return "🔺"
	default:
		return "✅"
	}
}
