package metrics

import (
	"path/filepath"
	"testing"
	"time"

	"kiwi-nutriplanner/internal/database"
	"kiwi-nutriplanner/internal/shared"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestStore(t *testing.T) {
	store := newTestStore(t)

	t.Run("RecordAndDailyUsage", func(t *testing.T) {
		err := store.Record(ExecutionMetric{
			AgentName:        "WeeklyReviewer",
			Model:            "gemini-1.5-flash",
			PromptTokens:     100,
			CompletionTokens: 40,
			LatencyMS:        850,
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}

		usage, err := store.GetDailyUsage(7)
		if err != nil {
			t.Fatalf("GetDailyUsage failed: %v", err)
		}
		if len(usage) != 1 {
			t.Fatalf("Expected 1 day of usage, got %d", len(usage))
		}
		if usage[0].TotalPrompt != 100 || usage[0].TotalCompletion != 40 {
			t.Errorf("Unexpected totals: %+v", usage[0])
		}
		// The stored timestamp must be in a form date() can group on.
		if want := time.Now().UTC().Format("2006-01-02"); usage[0].Date != want {
			t.Errorf("Expected rollup date %s, got %q", want, usage[0].Date)
		}
		if usage[0].TotalExecution != 1 {
			t.Errorf("Expected 1 execution, got %d", usage[0].TotalExecution)
		}
	})

	t.Run("RecordMetaSkipsEmptyUsage", func(t *testing.T) {
		err := store.RecordMeta(shared.AgentMeta{AgentName: "WeeklyReviewer"})
		if err != nil {
			t.Fatalf("RecordMeta failed: %v", err)
		}

		usage, err := store.GetDailyUsage(7)
		if err != nil {
			t.Fatalf("GetDailyUsage failed: %v", err)
		}
		if usage[0].TotalExecution != 1 {
			t.Errorf("Expected the empty run to be skipped, got %d executions", usage[0].TotalExecution)
		}
	})

	t.Run("Cleanup", func(t *testing.T) {
		err := store.Record(ExecutionMetric{
			AgentName: "WeeklyReviewer",
			Model:     "gemini-1.5-flash",
			Timestamp: time.Now().AddDate(0, 0, -60),
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}

		affected, err := store.Cleanup(30)
		if err != nil {
			t.Fatalf("Cleanup failed: %v", err)
		}
		if affected != 1 {
			t.Errorf("Expected 1 deleted row, got %d", affected)
		}
	})
}
