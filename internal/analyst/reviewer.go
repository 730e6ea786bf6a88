package analyst

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"kiwi-nutriplanner/internal/llm"
	"kiwi-nutriplanner/internal/matcher"
	"kiwi-nutriplanner/internal/nutrition"
	"kiwi-nutriplanner/internal/planner"
	"kiwi-nutriplanner/internal/shared"
)

//go:embed reviewer_prompt.md
var reviewerPrompt string

// dayNames follows the plan's calendar order, index 0 = first day.
var dayNames = [planner.DaysPerWeek]string{
	"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo",
}

type reviewerPromptData struct {
	Goals nutrition.Macros
	Days  []daySummary
}

type daySummary struct {
	Name     string
	Totals   nutrition.Macros
	Progress planner.DayProgress
	Meals    []string
}

// Review is the generated weekly commentary plus execution metadata.
type Review struct {
	Commentary string
	Meta       shared.AgentMeta
}

// Reviewer produces a short nutritionist-style commentary on a finished
// weekly plan. It is an optional layer: the engine works without it.
type Reviewer struct {
	textGen llm.TextGenerator
}

// NewReviewer creates a Reviewer over any text generator.
func NewReviewer(textGen llm.TextGenerator) *Reviewer {
	return &Reviewer{textGen: textGen}
}

// ReviewWeek summarizes the plan against the daily goals and asks the model
// for commentary.
func (r *Reviewer) ReviewWeek(ctx context.Context, p *planner.Planner) (Review, error) {
	start := time.Now()

	prompt, err := buildReviewerPrompt(summarize(p))
	if err != nil {
		return Review{}, err
	}

	resp, err := r.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return Review{}, fmt.Errorf("failed to review plan: %w", err)
	}

	return Review{
		Commentary: strings.TrimSpace(resp.Content),
		Meta: shared.AgentMeta{
			AgentName: "WeeklyReviewer",
			Usage:     resp.Usage,
			Latency:   time.Since(start),
		},
	}, nil
}

func summarize(p *planner.Planner) reviewerPromptData {
	data := reviewerPromptData{Goals: p.Goals()}
	for day := 0; day < planner.DaysPerWeek; day++ {
		summary := daySummary{
			Name:     dayNames[day],
			Totals:   p.DayTotals(day),
			Progress: p.DayProgress(day),
		}
		for _, slot := range matcher.SlotOrder {
			e := p.Day(day).Entry(slot)
			if e.State == planner.SlotEmpty {
				continue
			}
			summary.Meals = append(summary.Meals, fmt.Sprintf("%s: %s", slot, e.Text))
		}
		data.Days = append(data.Days, summary)
	}
	return data
}

func buildReviewerPrompt(data reviewerPromptData) (string, error) {
	tmpl, err := template.New("reviewer").Parse(reviewerPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
