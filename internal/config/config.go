package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "MENUCAL_"

	DefaultAPIBaseURL      = "https://api.linqconnect.com/api"
	DefaultSessionName     = "Lunch"
	DefaultDatabasePath    = "data/menu-calendar.db"
	DefaultPreferencesPath = "data/preferences.yaml"
	DefaultCacheTTL        = 10 * time.Minute
	DefaultProjectURL      = "https://github.com/school-menu-calendar/school-menu-calendar"
)

// Config holds the configuration for the application.
type Config struct {
	APIBaseURL      string
	DistrictID      string
	BuildingID      string
	BuildingName    string
	MenuPageURL     string
	SessionName     string
	DatabasePath    string
	PreferencesPath string
	CacheTTL        time.Duration
	ProjectURL      string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	Port                   string
}

// NewFromEnv creates a new Config. Values come from the optional YAML file
// named by MENUCAL_CONFIG, overlaid by MENUCAL_* environment variables.
// MENUCAL_DISTRICT_ID=abc sets the key district_id. Ids are not required
// here; commands that need them call RequireDistrict or RequireBuilding.
func NewFromEnv() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cacheTTL := DefaultCacheTTL
	if raw := k.String("cache_ttl"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MENUCAL_CACHE_TTL %q: %w", raw, err)
		}
		cacheTTL = d
	}

	// Telegram Config (Optional for CLI, required for Bot)
	allowed, err := parseIDs(k.String("telegram_allowed_user_ids"))
	if err != nil {
		return nil, fmt.Errorf("invalid MENUCAL_TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}
	var adminID int64
	if raw := k.String("telegram_admin_id"); raw != "" {
		fmt.Sscanf(raw, "%d", &adminID)
	}

	return &Config{
		APIBaseURL:             withDefault(k.String("api_url"), DefaultAPIBaseURL),
		DistrictID:             k.String("district_id"),
		BuildingID:             k.String("building_id"),
		BuildingName:           k.String("building_name"),
		MenuPageURL:            k.String("menu_page_url"),
		SessionName:            withDefault(k.String("session"), DefaultSessionName),
		DatabasePath:           withDefault(k.String("db_path"), DefaultDatabasePath),
		PreferencesPath:        withDefault(k.String("preferences_path"), DefaultPreferencesPath),
		CacheTTL:               cacheTTL,
		ProjectURL:             withDefault(k.String("project_url"), DefaultProjectURL),
		TelegramBotToken:       k.String("telegram_bot_token"),
		TelegramWebhookURL:     k.String("telegram_webhook_url"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
		Port:                   withDefault(k.String("port"), "8080"),
	}, nil
}

// RequireDistrict reports an error when no district id is configured.
func (c *Config) RequireDistrict() error {
	if c.DistrictID == "" {
		return fmt.Errorf("MENUCAL_DISTRICT_ID environment variable not set")
	}
	return nil
}

// RequireBuilding reports an error unless both the district and building
// ids are configured.
func (c *Config) RequireBuilding() error {
	if err := c.RequireDistrict(); err != nil {
		return err
	}
	if c.BuildingID == "" {
		return fmt.Errorf("MENUCAL_BUILDING_ID environment variable not set")
	}
	return nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// parseIDs reads a comma separated list of numeric user ids.
func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
