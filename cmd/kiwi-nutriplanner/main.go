package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"kiwi-nutriplanner/internal/analyst"
	"kiwi-nutriplanner/internal/app"
	"kiwi-nutriplanner/internal/catalog"
	"kiwi-nutriplanner/internal/config"
	"kiwi-nutriplanner/internal/database"
	"kiwi-nutriplanner/internal/llm"
	"kiwi-nutriplanner/internal/matcher"
	"kiwi-nutriplanner/internal/metrics"
	"kiwi-nutriplanner/internal/nutrition"
	"kiwi-nutriplanner/internal/planner"
	"kiwi-nutriplanner/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cat, err := app.LoadCatalog(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load menu catalog: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)
	planRepo := planner.NewRepository(db.SQL)

	var reviewer *analyst.Reviewer
	if cfg.GeminiAPIKey != "" {
		textGen, err := llm.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		if closer, ok := textGen.(llm.Closer); ok {
			defer closer.Close()
		}
		reviewer = analyst.NewReviewer(textGen)
	}

	application := app.NewApp(cfg, cat, app.NewMatcher(cfg, cat), planRepo, metricsStore, reviewer)

	switch os.Args[1] {
	case "plan":
		runPlan(ctx, application)
	case "goals":
		runGoals()
	case "parse":
		runParse(application)
	case "suggest":
		runSuggest(cfg, cat)
	case "history":
		runHistory(ctx, application)
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func profileFlags(fs *flag.FlagSet) func() (nutrition.UserProfile, error) {
	age := fs.Int("age", 0, "Age in years")
	gender := fs.String("gender", "", "h (hombre) or m (mujer)")
	height := fs.Float64("height", 0, "Height in cm")
	weight := fs.Float64("weight", 0, "Weight in kg")
	activity := fs.String("activity", "moderado", "sedentario | moderado | activo")
	goal := fs.String("goal", "mantener", "mantener | bajar | subir")

	return func() (nutrition.UserProfile, error) {
		p := nutrition.UserProfile{Age: *age, Height: *height, Weight: *weight}
		if p.Age <= 0 || p.Height <= 0 || p.Weight <= 0 {
			return p, fmt.Errorf("-age, -height and -weight are required")
		}

		switch strings.ToLower(*gender) {
		case "h", "hombre":
			p.Gender = nutrition.GenderMale
		case "m", "mujer":
			p.Gender = nutrition.GenderFemale
		default:
			return p, fmt.Errorf("-gender must be h or m")
		}

		switch strings.ToLower(*activity) {
		case "sedentario":
			p.ActivityLevel = nutrition.ActivitySedentary
		case "moderado":
			p.ActivityLevel = nutrition.ActivityModerate
		case "activo":
			p.ActivityLevel = nutrition.ActivityActive
		default:
			return p, fmt.Errorf("unknown activity %q", *activity)
		}

		switch strings.ToLower(*goal) {
		case "mantener":
			p.Goal = nutrition.GoalMaintain
		case "bajar":
			p.Goal = nutrition.GoalLoseFat
		case "subir":
			p.Goal = nutrition.GoalMuscleGain
		default:
			return p, fmt.Errorf("unknown goal %q", *goal)
		}

		return p, nil
	}
}

func runPlan(ctx context.Context, application *app.App) {
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	profile := profileFlags(planCmd)
	save := planCmd.String("save", "", "Save the plan under this user id")
	review := planCmd.Bool("review", false, "Ask the AI nutritionist for commentary")
	planCmd.Parse(os.Args[2:])

	p, err := profile()
	if err != nil {
		log.Fatalf("Invalid profile: %v", err)
	}

	session := application.PlanWeek(p)

	fmt.Println(report.Goals(session.Goals()))
	fmt.Println(report.Week(session))
	fmt.Println(report.Budget(session))

	if *save != "" {
		id, err := application.SavePlan(ctx, *save, session)
		if err != nil {
			log.Fatalf("Failed to save plan: %v", err)
		}
		fmt.Printf("Plan saved as #%d\n", id)
	}

	if *review {
		commentary, err := application.Review(ctx, session)
		if err != nil {
			log.Fatalf("Review failed: %v", err)
		}
		fmt.Println("🧑‍⚕️ " + commentary)
	}
}

func runGoals() {
	goalsCmd := flag.NewFlagSet("goals", flag.ExitOnError)
	profile := profileFlags(goalsCmd)
	goalsCmd.Parse(os.Args[2:])

	p, err := profile()
	if err != nil {
		log.Fatalf("Invalid profile: %v", err)
	}

	fmt.Println(report.Goals(nutrition.CalculateGoals(p)))
}

func runParse(application *app.App) {
	if len(os.Args) < 3 {
		log.Fatal("Usage: kiwi-nutriplanner parse <meal description>")
	}
	text := strings.Join(os.Args[2:], " ")
	m := application.Estimate(text)
	fmt.Printf("%q → %d kcal, %dg P, %dg C, %dg G\n", text, m.Calories, m.Protein, m.Carbs, m.Fat)
}

func runSuggest(cfg *config.Config, cat *catalog.Catalog) {
	suggestCmd := flag.NewFlagSet("suggest", flag.ExitOnError)
	calories := suggestCmd.Int("calories", 0, "Target calories")
	protein := suggestCmd.Int("protein", 0, "Target protein grams")
	carbs := suggestCmd.Int("carbs", 0, "Target carb grams")
	fat := suggestCmd.Int("fat", 0, "Target fat grams")
	slotName := suggestCmd.String("slot", "comida", "desayuno | comida | snack | cena")
	suggestCmd.Parse(os.Args[2:])

	var slot matcher.MealSlot
	switch strings.ToLower(*slotName) {
	case "desayuno":
		slot = matcher.SlotBreakfast
	case "comida":
		slot = matcher.SlotLunch
	case "snack":
		slot = matcher.SlotSnack
	case "cena":
		slot = matcher.SlotDinner
	default:
		log.Fatalf("Unknown slot %q", *slotName)
	}

	target := matcher.TargetFromMacros(nutrition.Macros{
		Calories: *calories, Protein: *protein, Carbs: *carbs, Fat: *fat,
	})
	match := app.NewMatcher(cfg, cat).FindSubstitute(target, slot, nil)
	fmt.Printf("%s ($%d) — %d kcal\n", match.Item.Name, match.Item.Price, match.Item.Calories)
}

func runHistory(ctx context.Context, application *app.App) {
	historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
	user := historyCmd.String("user", "", "User id")
	limit := historyCmd.Int("limit", 5, "How many plans to list")
	historyCmd.Parse(os.Args[2:])

	if *user == "" {
		log.Fatal("-user is required")
	}

	plans, err := application.History(ctx, *user, *limit)
	if err != nil {
		log.Fatalf("Failed to list plans: %v", err)
	}
	if len(plans) == 0 {
		fmt.Println("No saved plans.")
		return
	}
	for _, p := range plans {
		fmt.Printf("#%d  %s  %d kcal/día\n", p.ID, p.CreatedAt.Format("2006-01-02"), p.Goals.Calories)
	}
}

func printUsage() {
	fmt.Println("Usage: kiwi-nutriplanner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan             Compute goals and fill a full week from the menu")
	fmt.Println("  goals            Compute daily macro targets for a profile")
	fmt.Println("  parse            Estimate macros for a free-text meal")
	fmt.Println("  suggest          Find the closest menu item to a macro target")
	fmt.Println("  history          List a user's saved plans")
	fmt.Println("  metrics-cleanup  Remove old metric records")
}
