package app

import (
	"context"
	"fmt"
	"log"

	"kiwi-nutriplanner/internal/analyst"
	"kiwi-nutriplanner/internal/catalog"
	"kiwi-nutriplanner/internal/config"
	"kiwi-nutriplanner/internal/matcher"
	"kiwi-nutriplanner/internal/metrics"
	"kiwi-nutriplanner/internal/nutrition"
	"kiwi-nutriplanner/internal/planner"
)

// App bundles the engine's services for the CLI commands.
type App struct {
	cfg          *config.Config
	catalog      *catalog.Catalog
	matcher      *matcher.Matcher
	planRepo     *planner.Repository
	metricsStore *metrics.Store
	reviewer     *analyst.Reviewer // nil when Gemini is not configured
}

// NewApp creates the application with its dependencies.
func NewApp(
	cfg *config.Config,
	cat *catalog.Catalog,
	m *matcher.Matcher,
	planRepo *planner.Repository,
	metricsStore *metrics.Store,
	reviewer *analyst.Reviewer,
) *App {
	return &App{
		cfg:          cfg,
		catalog:      cat,
		matcher:      m,
		planRepo:     planRepo,
		metricsStore: metricsStore,
		reviewer:     reviewer,
	}
}

// LoadCatalog resolves the menu source in priority order: live URL, local
// file, embedded snapshot.
func LoadCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.MenuURL != "" {
		log.Printf("Fetching menu from %s", cfg.MenuURL)
		return catalog.NewExtractor().FetchMenu(ctx, cfg.MenuURL)
	}
	if cfg.MenuPath != "" {
		return catalog.LoadFile(cfg.MenuPath)
	}
	return catalog.Default()
}

// NewMatcher builds the substitute matcher with any configured overrides.
func NewMatcher(cfg *config.Config, cat *catalog.Catalog) *matcher.Matcher {
	var opts []matcher.Option
	if len(cfg.MatcherWeights) == 4 {
		opts = append(opts, matcher.WithWeights(matcher.Weights{
			Protein:  cfg.MatcherWeights[0],
			Calories: cfg.MatcherWeights[1],
			Carbs:    cfg.MatcherWeights[2],
			Fat:      cfg.MatcherWeights[3],
		}))
	}
	if cfg.MatcherTopPicks > 0 {
		opts = append(opts, matcher.WithTopPicks(cfg.MatcherTopPicks))
	}
	return matcher.New(cat, opts...)
}

// PlanWeek starts a session for the profile and fills every slot.
func (a *App) PlanWeek(profile nutrition.UserProfile) *planner.Planner {
	goals := nutrition.CalculateGoals(profile)
	p := planner.New(a.catalog, a.matcher, goals)
	p.OptimizeWeek()
	return p
}

// Estimate parses a free-text meal description into macros.
func (a *App) Estimate(text string) nutrition.Macros {
	return nutrition.ParseFoodText(text)
}

// SavePlan persists a finished session for the user.
func (a *App) SavePlan(ctx context.Context, userID string, p *planner.Planner) (int64, error) {
	return a.planRepo.Save(ctx, userID, p.Goals(), p.Plan())
}

// History returns the user's most recent saved plans.
func (a *App) History(ctx context.Context, userID string, limit int) ([]planner.StoredPlan, error) {
	return a.planRepo.ListRecent(ctx, userID, limit)
}

// Review asks the AI nutritionist for commentary and records the run.
func (a *App) Review(ctx context.Context, p *planner.Planner) (string, error) {
	if a.reviewer == nil {
		return "", fmt.Errorf("review requires GEMINI_API_KEY to be set")
	}

	review, err := a.reviewer.ReviewWeek(ctx, p)
	if err != nil {
		return "", err
	}
	if err := a.metricsStore.RecordMeta(review.Meta); err != nil {
		log.Printf("Warning: failed to record review metrics: %v", err)
	}
	return review.Commentary, nil
}
