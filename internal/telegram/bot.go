package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kiwi-nutriplanner/internal/analyst"
	"kiwi-nutriplanner/internal/catalog"
	"kiwi-nutriplanner/internal/config"
	"kiwi-nutriplanner/internal/matcher"
	"kiwi-nutriplanner/internal/metrics"
	"kiwi-nutriplanner/internal/nutrition"
	"kiwi-nutriplanner/internal/planner"
	"kiwi-nutriplanner/internal/report"
)

// Bot wraps the Telegram API around one shared catalog and matcher, with a
// TTL session per chat.
type Bot struct {
	api          *tgbotapi.BotAPI
	cfg          *config.Config
	catalog      *catalog.Catalog
	matcher      *matcher.Matcher
	sessions     *Sessions
	planRepo     *planner.Repository
	metricsStore *metrics.Store
	reviewer     *analyst.Reviewer // nil when Gemini is not configured
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	cat *catalog.Catalog,
	m *matcher.Matcher,
	planRepo *planner.Repository,
	metricsStore *metrics.Store,
	reviewer *analyst.Reviewer,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          api,
		cfg:          cfg,
		catalog:      cat,
		matcher:      m,
		sessions:     NewSessions(cfg.SessionTTL),
		planRepo:     planRepo,
		metricsStore: metricsStore,
		reviewer:     reviewer,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

// isAllowed accepts everyone when no allow-list is configured.
func (b *Bot) isAllowed(userID int64) bool {
	if len(b.cfg.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return
	}
	command, args := fields[0], fields[1:]

	switch command {
	case "/start", "/help":
		b.reply(msg.Chat.ID, helpText)
	case "/profile":
		b.handleProfile(msg, args)
	case "/metrics":
		b.handleMetricsRequest(msg)
	default:
		b.withSession(msg, func(s *Session) string {
			return b.runCommand(msg, s, command, args)
		})
	}
}

// withSession runs fn under the chat's session lock, asking for /profile
// first when no session exists.
func (b *Bot) withSession(msg *tgbotapi.Message, fn func(*Session) string) {
	session, ok := b.sessions.Get(msg.Chat.ID)
	if !ok {
		b.reply(msg.Chat.ID, "👤 Primero configura tu perfil con /profile. Escribe /help para ver el formato.")
		return
	}

	session.Lock()
	text := fn(session)
	session.Unlock()

	if text != "" {
		b.reply(msg.Chat.ID, text)
	}
}

func (b *Bot) runCommand(msg *tgbotapi.Message, s *Session, command string, args []string) string {
	switch command {
	case "/goals":
		return report.Goals(s.Planner.Goals())

	case "/meal":
		day, slot, rest, err := parseSlotArgs(args)
		if err != nil {
			return "❌ Uso: /meal <día 1-7> <desayuno|comida|snack|cena> [descripción]"
		}
		s.Planner.EditSlot(day, slot, rest)
		if strings.TrimSpace(rest) == "" {
			return "🧹 Espacio liberado.\n\n" + report.Day(s.Planner, day)
		}
		return report.Day(s.Planner, day)

	case "/suggest":
		day, slot, _, err := parseSlotArgs(args)
		if err != nil {
			return "❌ Uso: /suggest <día 1-7> <desayuno|comida|snack|cena>"
		}
		item, ok := s.Planner.Suggest(day, slot)
		if !ok {
			return "❌ No pude sugerir un platillo."
		}
		return fmt.Sprintf("🥗 Sugerencia: *%s* ($%d)\n\n%s", item.Name, item.Price, report.Day(s.Planner, day))

	case "/swap":
		day, slot, _, err := parseSlotArgs(args)
		if err != nil {
			return "❌ Uso: /swap <día 1-7> <desayuno|comida|snack|cena>"
		}
		item, ok := s.Planner.Swap(day, slot)
		if !ok {
			return "❌ No pude cambiar el platillo."
		}
		return fmt.Sprintf("🔄 Ahora: *%s* ($%d)\n\n%s", item.Name, item.Price, report.Day(s.Planner, day))

	case "/optimize":
		if len(args) == 0 || args[0] == "semana" {
			s.Planner.OptimizeWeek()
			return "✨ Semana optimizada.\n\n" + report.Week(s.Planner)
		}
		day, err := parseDay(args[0])
		if err != nil {
			return "❌ Uso: /optimize [día 1-7 | semana]"
		}
		s.Planner.OptimizeDay(day)
		return "✨ Día optimizado.\n\n" + report.Day(s.Planner, day)

	case "/plan":
		return report.Week(s.Planner)

	case "/day":
		if len(args) == 0 {
			return "❌ Uso: /day <día 1-7>"
		}
		day, err := parseDay(args[0])
		if err != nil {
			return "❌ Uso: /day <día 1-7>"
		}
		return report.Day(s.Planner, day)

	case "/budget", "/order":
		return report.Budget(s.Planner)

	case "/save":
		return b.handleSave(msg, s)

	case "/history":
		return b.handleHistory(msg)

	case "/review":
		return b.handleReview(s)

	default:
		return "🤔 Comando desconocido. Escribe /help."
	}
}

func (b *Bot) handleProfile(msg *tgbotapi.Message, args []string) {
	profile, err := parseProfile(args)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ Uso: /profile <edad> <h|m> <estatura cm> <peso kg> <sedentario|moderado|activo> <mantener|bajar|subir>")
		return
	}

	goals := nutrition.CalculateGoals(profile)
	session := &Session{
		Profile: profile,
		Planner: planner.New(b.catalog, b.matcher, goals),
	}
	b.sessions.Put(msg.Chat.ID, session)

	b.reply(msg.Chat.ID, "✅ Perfil guardado.\n\n"+report.Goals(goals))
}

func (b *Bot) handleSave(msg *tgbotapi.Message, s *Session) string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := strconv.FormatInt(msg.From.ID, 10)
	id, err := b.planRepo.Save(ctx, userID, s.Planner.Goals(), s.Planner.Plan())
	if err != nil {
		log.Printf("Error saving plan for user %s: %v", userID, err)
		return "❌ No pude guardar el plan."
	}
	return fmt.Sprintf("💾 Plan #%d guardado.", id)
}

func (b *Bot) handleHistory(msg *tgbotapi.Message) string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID := strconv.FormatInt(msg.From.ID, 10)
	plans, err := b.planRepo.ListRecent(ctx, userID, 5)
	if err != nil {
		log.Printf("Error listing plans for user %s: %v", userID, err)
		return "❌ No pude consultar tu historial."
	}
	if len(plans) == 0 {
		return "📭 Todavía no guardas ningún plan."
	}

	var sb strings.Builder
	sb.WriteString("🗂 *Planes guardados*\n\n")
	for _, p := range plans {
		sb.WriteString(fmt.Sprintf("• #%d — %s (%d kcal/día)\n", p.ID, p.CreatedAt.Format("2006-01-02"), p.Goals.Calories))
	}
	return sb.String()
}

func (b *Bot) handleReview(s *Session) string {
	if b.reviewer == nil {
		return "🔌 La revisión con IA no está configurada."
	}

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	review, err := b.reviewer.ReviewWeek(ctx, s.Planner)
	if err != nil {
		log.Printf("Error reviewing plan: %v", err)
		return "❌ La revisión falló, intenta de nuevo."
	}

	if err := b.metricsStore.RecordMeta(review.Meta); err != nil {
		log.Printf("Warning: failed to record review metrics: %v", err)
	}

	return "🧑‍⚕️ " + review.Commentary
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.reply(msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth("data")

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

const helpText = `🥝 *Kiwi NutriPlanner*

/profile <edad> <h|m> <estatura> <peso> <actividad> <meta> — calcula tus metas
  actividad: sedentario | moderado | activo
  meta: mantener | bajar | subir
/goals — tus metas diarias
/meal <día> <espacio> [texto] — registra (o limpia) una comida propia
/suggest <día> <espacio> — sugiere un platillo del menú
/swap <día> <espacio> — cambia el platillo sugerido
/optimize [día | semana] — llena los espacios automáticamente
/plan — plan semanal completo
/day <día> — un solo día
/budget — pedido y costo de la semana
/save — guarda el plan
/history — tus planes guardados
/review — opinión de la nutrióloga IA

Espacios: desayuno, comida, snack, cena. Días: 1 (lunes) a 7 (domingo).`

// parseSlotArgs parses "<day> <slot> [free text...]".
func parseSlotArgs(args []string) (int, matcher.MealSlot, string, error) {
	if len(args) < 2 {
		return 0, "", "", fmt.Errorf("expected day and slot")
	}
	day, err := parseDay(args[0])
	if err != nil {
		return 0, "", "", err
	}
	slot, err := parseSlot(args[1])
	if err != nil {
		return 0, "", "", err
	}
	return day, slot, strings.Join(args[2:], " "), nil
}

// parseDay maps user-facing 1..7 to plan indexes 0..6.
func parseDay(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > planner.DaysPerWeek {
		return 0, fmt.Errorf("invalid day %q", s)
	}
	return n - 1, nil
}

func parseSlot(s string) (matcher.MealSlot, error) {
	switch strings.ToLower(s) {
	case "desayuno", "breakfast":
		return matcher.SlotBreakfast, nil
	case "comida", "almuerzo", "lunch":
		return matcher.SlotLunch, nil
	case "snack", "colacion", "colación":
		return matcher.SlotSnack, nil
	case "cena", "dinner":
		return matcher.SlotDinner, nil
	}
	return "", fmt.Errorf("invalid slot %q", s)
}

func parseProfile(args []string) (nutrition.UserProfile, error) {
	if len(args) != 6 {
		return nutrition.UserProfile{}, fmt.Errorf("expected 6 arguments, got %d", len(args))
	}

	age, err := strconv.Atoi(args[0])
	if err != nil || age < 10 || age > 120 {
		return nutrition.UserProfile{}, fmt.Errorf("invalid age %q", args[0])
	}

	var gender nutrition.Gender
	switch strings.ToLower(args[1]) {
	case "h", "hombre":
		gender = nutrition.GenderMale
	case "m", "mujer":
		gender = nutrition.GenderFemale
	default:
		return nutrition.UserProfile{}, fmt.Errorf("invalid gender %q", args[1])
	}

	height, err := strconv.ParseFloat(args[2], 64)
	if err != nil || height <= 0 {
		return nutrition.UserProfile{}, fmt.Errorf("invalid height %q", args[2])
	}

	weight, err := strconv.ParseFloat(args[3], 64)
	if err != nil || weight <= 0 {
		return nutrition.UserProfile{}, fmt.Errorf("invalid weight %q", args[3])
	}

	var activity nutrition.ActivityLevel
	switch strings.ToLower(args[4]) {
	case "sedentario":
		activity = nutrition.ActivitySedentary
	case "moderado":
		activity = nutrition.ActivityModerate
	case "activo":
		activity = nutrition.ActivityActive
	default:
		return nutrition.UserProfile{}, fmt.Errorf("invalid activity %q", args[4])
	}

	var goal nutrition.Goal
	switch strings.ToLower(args[5]) {
	case "mantener":
		goal = nutrition.GoalMaintain
	case "bajar":
		goal = nutrition.GoalLoseFat
	case "subir":
		goal = nutrition.GoalMuscleGain
	default:
		return nutrition.UserProfile{}, fmt.Errorf("invalid goal %q", args[5])
	}

	return nutrition.UserProfile{
		Gender:        gender,
		Age:           age,
		Height:        height,
		Weight:        weight,
		ActivityLevel: activity,
		Goal:          goal,
	}, nil
}
