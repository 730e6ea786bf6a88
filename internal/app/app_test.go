package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"kiwi-nutriplanner/internal/catalog"
	"kiwi-nutriplanner/internal/config"
	"kiwi-nutriplanner/internal/matcher"
	"kiwi-nutriplanner/internal/nutrition"
	"kiwi-nutriplanner/internal/planner"
)

func TestLoadCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("EmbeddedDefault", func(t *testing.T) {
		cat, err := LoadCatalog(ctx, &config.Config{})
		if err != nil {
			t.Fatalf("LoadCatalog failed: %v", err)
		}
		if cat.Len() == 0 {
			t.Error("Expected the embedded menu to have items")
		}
	})

	t.Run("LocalFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "menu.json")
		data := `[{"id": "x1", "name": "Test", "price": 10, "category": "Ensaladas", "calories": 100, "macros": {"protein": 1, "carbs": 2, "fat": 3}}]`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("Failed to write menu file: %v", err)
		}

		cat, err := LoadCatalog(ctx, &config.Config{MenuPath: path})
		if err != nil {
			t.Fatalf("LoadCatalog failed: %v", err)
		}
		if cat.Len() != 1 {
			t.Errorf("Expected 1 item, got %d", cat.Len())
		}
		if _, ok := cat.ByID("x1"); !ok {
			t.Error("Expected item 'x1' from the file")
		}
	})
}

func TestPlanWeek(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	a := NewApp(&config.Config{}, cat, NewMatcher(&config.Config{}, cat), nil, nil, nil)

	p := a.PlanWeek(nutrition.UserProfile{
		Gender:        nutrition.GenderFemale,
		Age:           28,
		Height:        162,
		Weight:        58,
		ActivityLevel: nutrition.ActivityActive,
		Goal:          nutrition.GoalLoseFat,
	})

	for day := 0; day < planner.DaysPerWeek; day++ {
		for _, slot := range matcher.SlotOrder {
			if !p.Day(day).Entry(slot).IsMenuItem() {
				t.Fatalf("Day %d slot %s left unassigned", day, slot)
			}
		}
	}
	if p.WeekPrice() <= 0 {
		t.Error("Expected a positive week price for a fully assigned plan")
	}
}

func TestReviewWithoutGenerator(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	a := NewApp(&config.Config{}, cat, NewMatcher(&config.Config{}, cat), nil, nil, nil)

	p := planner.New(cat, NewMatcher(&config.Config{}, cat), nutrition.Macros{Calories: 2000})
	if _, err := a.Review(context.Background(), p); err == nil {
		t.Fatal("Expected an error when no reviewer is configured, got nil")
	}
}
