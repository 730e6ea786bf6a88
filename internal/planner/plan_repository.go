package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"kiwi-nutriplanner/internal/nutrition"
)

// StoredPlan is an approved weekly plan as persisted for a user.
type StoredPlan struct {
	ID        int64
	UserID    string
	Goals     nutrition.Macros
	Plan      WeeklyPlan
	CreatedAt time.Time
}

// Repository persists approved weekly plans to SQLite. The live session plan
// stays in memory; rows here are the history a user can come back to.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository over an open database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a plan snapshot and returns its row id.
func (r *Repository) Save(ctx context.Context, userID string, goals nutrition.Macros, plan WeeklyPlan) (int64, error) {
	goalsJSON, err := json.Marshal(goals)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal goals: %w", err)
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal plan: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, goals_json, plan_json, created_at) VALUES (?, ?, ?, ?)`,
		userID, string(goalsJSON), string(planJSON), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal plan: %w", err)
	}
	return res.LastInsertId()
}

// ListRecent retrieves the N most recent plans for a user, newest first.
func (r *Repository) ListRecent(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, goals_json, plan_json, created_at
		 FROM meal_plans WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Latest returns the most recent plan for a user, or nil when none exists.
func (r *Repository) Latest(ctx context.Context, userID string) (*StoredPlan, error) {
	plans, err := r.ListRecent(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, nil
	}
	return &plans[0], nil
}

func scanPlan(rows *sql.Rows) (StoredPlan, error) {
	var (
		p         StoredPlan
		goalsJSON string
		planJSON  string
	)
	if err := rows.Scan(&p.ID, &p.UserID, &goalsJSON, &planJSON, &p.CreatedAt); err != nil {
		return StoredPlan{}, fmt.Errorf("failed to scan meal plan row: %w", err)
	}
	if err := json.Unmarshal([]byte(goalsJSON), &p.Goals); err != nil {
		return StoredPlan{}, fmt.Errorf("failed to unmarshal goals for plan %d: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(planJSON), &p.Plan); err != nil {
		return StoredPlan{}, fmt.Errorf("failed to unmarshal plan %d: %w", p.ID, err)
	}
	return p, nil
}
