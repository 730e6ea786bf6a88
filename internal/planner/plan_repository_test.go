package planner

import (
	"context"
	"path/filepath"
	"testing"

	"kiwi-nutriplanner/internal/database"
	"kiwi-nutriplanner/internal/nutrition"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func TestRepository(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	goals := nutrition.Macros{Calories: 2200, Protein: 165, Carbs: 220, Fat: 73}
	plan := NewWeeklyPlan()
	plan[0].Breakfast = manualEntry("2 huevos con avena")
	plan[2].Lunch = MealEntry{
		State:  SlotMenuItem,
		Text:   "Del Chef (Kiwi Menu)",
		Macros: nutrition.Macros{Calories: 450, Protein: 45, Carbs: 20, Fat: 20},
		ItemID: "e4",
	}

	t.Run("SaveAndLatest", func(t *testing.T) {
		id, err := repo.Save(ctx, "user-1", goals, plan)
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if id <= 0 {
			t.Errorf("Expected a positive row id, got %d", id)
		}

		stored, err := repo.Latest(ctx, "user-1")
		if err != nil {
			t.Fatalf("Latest failed: %v", err)
		}
		if stored == nil {
			t.Fatal("Expected a stored plan, got nil")
		}
		if stored.Goals != goals {
			t.Errorf("Goals round trip mismatch: %+v", stored.Goals)
		}
		if stored.Plan[0].Breakfast.State != SlotManual {
			t.Errorf("Expected manual breakfast, got %s", stored.Plan[0].Breakfast.State)
		}
		if stored.Plan[2].Lunch.ItemID != "e4" {
			t.Errorf("Expected lunch item 'e4', got '%s'", stored.Plan[2].Lunch.ItemID)
		}
		if stored.Plan[6].Dinner.State != SlotEmpty {
			t.Errorf("Expected untouched slot to stay empty, got %s", stored.Plan[6].Dinner.State)
		}
	})

	t.Run("ListRecentNewestFirst", func(t *testing.T) {
		plan[4].Snack = manualEntry("yogurt con nuez")
		second, err := repo.Save(ctx, "user-1", goals, plan)
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		plans, err := repo.ListRecent(ctx, "user-1", 10)
		if err != nil {
			t.Fatalf("ListRecent failed: %v", err)
		}
		if len(plans) != 2 {
			t.Fatalf("Expected 2 plans, got %d", len(plans))
		}
		if plans[0].ID != second {
			t.Errorf("Expected newest plan first, got id %d", plans[0].ID)
		}
	})

	t.Run("LatestForUnknownUser", func(t *testing.T) {
		stored, err := repo.Latest(ctx, "nobody")
		if err != nil {
			t.Fatalf("Latest failed: %v", err)
		}
		if stored != nil {
			t.Errorf("Expected nil for a user with no history, got %+v", stored)
		}
	})
}
