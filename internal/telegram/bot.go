package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"school-menu-calendar/internal/app"
	"school-menu-calendar/internal/config"
	"school-menu-calendar/internal/feed"
	"school-menu-calendar/internal/menu"
	"school-menu-calendar/internal/metrics"
	"school-menu-calendar/internal/preferences"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CalendarGenerator produces a rendered month.
type CalendarGenerator interface {
	Generate(ctx context.Context, req app.Request) (*app.Result, error)
}

// PreferenceEditor loads preferences and applies changes to them.
type PreferenceEditor interface {
	Load() (*preferences.Preferences, error)
	Update(fn func(p *preferences.Preferences)) (*preferences.Preferences, error)
}

// CatalogSource lists the district's allergens.
type CatalogSource interface {
	FetchAllergenCatalog(ctx context.Context, districtID string) ([]menu.Allergen, error)
}

// UsageReporter summarizes recent generations.
type UsageReporter interface {
	GetDailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
}

// Bot delivers calendars and edits allergen selections over Telegram.
type Bot struct {
	api       *tgbotapi.BotAPI
	generator CalendarGenerator
	prefs     PreferenceEditor
	catalog   CatalogSource
	usage     UsageReporter
	cfg       *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	generator CalendarGenerator,
	prefs PreferenceEditor,
	catalog CatalogSource,
	usage UsageReporter,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:       bot,
		generator: generator,
		prefs:     prefs,
		catalog:   catalog,
		usage:     usage,
		cfg:       cfg,
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

	if !isAllowed(b.cfg.TelegramAllowedUserIDs, update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func isAllowed(allowed []int64, id int64) bool {
	for _, a := range allowed {
		if a == id {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "calendar":
		b.handleCalendarRequest(msg)
	case "allergens":
		b.handleAllergensRequest(msg)
	case "avoid":
		b.handleAvoidRequest(msg)
	case "metrics":
		b.handleMetricsRequest(msg)
	default:
		b.reply(msg.Chat.ID, helpText)
	}
}

const helpText = "🍎 *School Menu Calendar*\n\n" +
	"/calendar `[YYYY-MM]` - printable allergen calendar\n" +
	"/allergens - list allergens and your selection\n" +
	"/avoid `<allergen>` - toggle an allergen"

func (b *Bot) handleCalendarRequest(msg *tgbotapi.Message) {
	year, month, err := parseMonthArg(msg.CommandArguments(), time.Now())
	if err != nil {
		b.reply(msg.Chat.ID, "❌ "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Printf("Generating calendar for %s %d", month, year)
	res, err := b.generator.Generate(ctx, app.Request{Year: year, Month: month})
	if err != nil {
		if !errors.Is(err, app.ErrSuperseded) {
			log.Printf("Error generating calendar: %v", err)
		}
		b.reply(msg.Chat.ID, failureText(err))
		return
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: res.FileName, Bytes: []byte(res.HTML)})
	doc.Caption = fmt.Sprintf("🗓️ %s %d: open in a browser and print (landscape).", month, year)
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("Failed to send calendar document: %v", err)
	}
}

// failureText explains a generation error in chat terms.
func failureText(err error) string {
	switch {
	case errors.Is(err, app.ErrSuperseded):
		return "⏭️ Replaced by a newer calendar request."
	case feed.IsKind(err, feed.KindFetchFailed):
		return "❌ *Menu service unreachable.* Try again later."
	case feed.IsKind(err, feed.KindDecodeFailed):
		return "❌ *Menu service returned unexpected data.*"
	case feed.IsKind(err, feed.KindNotFound):
		return "❌ *No menu published for that month.*"
	}
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	return fmt.Sprintf("❌ *Error generating calendar:*\n```\n%v\n```", safeErr)
}

func (b *Bot) handleAllergensRequest(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	catalog, err := b.catalog.FetchAllergenCatalog(ctx, b.cfg.DistrictID)
	if err != nil {
		log.Printf("Error fetching allergen catalog: %v", err)
		b.reply(msg.Chat.ID, failureText(err))
		return
	}
	prefs, err := b.prefs.Load()
	if err != nil {
		log.Printf("Error loading preferences: %v", err)
		b.reply(msg.Chat.ID, "❌ Error loading preferences.")
		return
	}
	b.reply(msg.Chat.ID, formatAllergenList(catalog, prefs.AllergenIDs))
}

func (b *Bot) handleAvoidRequest(msg *tgbotapi.Message) {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		b.reply(msg.Chat.ID, "Usage: /avoid `<allergen>`")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	catalog, err := b.catalog.FetchAllergenCatalog(ctx, b.cfg.DistrictID)
	if err != nil {
		log.Printf("Error fetching allergen catalog: %v", err)
		b.reply(msg.Chat.ID, failureText(err))
		return
	}
	allergen, ok := findAllergen(catalog, name)
	if !ok {
		b.reply(msg.Chat.ID, fmt.Sprintf("🤔 Unknown allergen %q. Try /allergens.", name))
		return
	}

	selected, err := toggleAllergen(b.prefs, allergen.ID)
	if err != nil {
		log.Printf("Error updating preferences: %v", err)
		b.reply(msg.Chat.ID, "❌ Error loading preferences.")
		return
	}

	if selected {
		b.reply(msg.Chat.ID, fmt.Sprintf("⛔ Now avoiding *%s*.", allergen.Name))
	} else {
		b.reply(msg.Chat.ID, fmt.Sprintf("✅ No longer avoiding *%s*.", allergen.Name))
	}
}

// toggleAllergen flips id in the stored selection and reports whether it is
// now selected.
func toggleAllergen(prefs PreferenceEditor, id string) (bool, error) {
	var selected bool
	_, err := prefs.Update(func(p *preferences.Preferences) {
		selected = p.ToggleAllergen(id)
	})
	return selected, err
}

func findAllergen(catalog []menu.Allergen, name string) (menu.Allergen, bool) {
	for _, a := range catalog {
		if strings.EqualFold(strings.TrimSpace(a.Name), name) {
			return a, true
		}
	}
	return menu.Allergen{}, false
}

func formatAllergenList(catalog []menu.Allergen, selectedIDs []string) string {
	selected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		selected[id] = true
	}

	var sb strings.Builder
	sb.WriteString("🥜 *Allergens*\n\n")
	if len(catalog) == 0 {
		sb.WriteString("_None published_\n")
	}
	for _, a := range catalog {
		mark := "▫️"
		if selected[a.ID] {
			mark = "⛔"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, a.Name))
	}
	return sb.String()
}

// parseMonthArg reads "YYYY-MM"; an empty argument means the current month.
func parseMonthArg(arg string, now time.Time) (int, time.Month, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", arg)
	if err != nil {
		return 0, 0, fmt.Errorf("expected a month like %s", now.Format("2006-01"))
	}
	return t.Year(), t.Month(), nil
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ *Access Denied*: Admin only."))
		return
	}

	usage, err := b.usage.GetDailyUsage(context.Background(), 7)
	if err != nil {
		log.Printf("Error fetching metrics: %v", err)
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Error fetching metrics."))
		return
	}
	b.reply(msg.Chat.ID, formatUsageReport(usage, metrics.GetSysHealth(dataDir(b.cfg))))
}

// dataDir is the directory holding the database and preferences.
func dataDir(cfg *config.Config) string {
	return filepath.Dir(cfg.DatabasePath)
}

func formatUsageReport(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Calendars*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d generated, avg %dms\n", d.Date, d.Generations, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	for _, line := range health.Lines() {
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send reply: %v", err)
	}
}
