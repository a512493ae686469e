// Load envs from .env
// Load YAML config
// Apply env overrides and default values
// Validate the applicant profile when auto-apply is on

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath     = "configs/config.yaml"
	DefaultBaseURL  = "https://www.alternance.emploi.gouv.fr"
	defaultSearch   = "/recherches-offres-formations"
	defaultMaxCards = 50
)

type Config struct {
	Search    SearchConfig    `yaml:"search"`
	Applicant ApplicantConfig `yaml:"applicant"`
	//Behaviour
	AutoApply       bool     `yaml:"auto_apply"`
	AutoSubmit      bool     `yaml:"auto_submit"`
	ShowBrowser     bool     `yaml:"show_browser"`
	MaxApplications int      `yaml:"max_applications"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
	Workers         int      `yaml:"workers"`
	//Outputs
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	//Paths
	CookiesPath   string `yaml:"cookies_path"`
	CachePath     string `yaml:"cache_path"`
	OutputDir     string `yaml:"output_dir"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	RulesPath     string `yaml:"rules_path"`
}

type SearchConfig struct {
	Metier    string `yaml:"metier"`
	Lieu      string `yaml:"lieu"`
	BaseURL   string `yaml:"base_url"`
	SearchURL string `yaml:"search_url"`
	MaxCards  int    `yaml:"max_cards"`
}

// ApplicantConfig is what gets typed into application forms.
type ApplicantConfig struct {
	FirstName string `yaml:"first_name" validate:"required"`
	LastName  string `yaml:"last_name" validate:"required"`
	Email     string `yaml:"email" validate:"required,email"`
	Phone     string `yaml:"phone" validate:"required"`
	Message   string `yaml:"message"`
}

func (a ApplicantConfig) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Load reads .env, then the YAML file at path (DefaultPath when empty or
// ALTERNANCE_CONFIG when set), then environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("ALTERNANCE_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ Could not read %s: %v", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if show := os.Getenv("ALTERNANCE_SHOW_BROWSER"); show != "" {
		v, err := strconv.ParseBool(show)
		if err != nil {
			return fmt.Errorf("invalid ALTERNANCE_SHOW_BROWSER: %w", err)
		}
		cfg.ShowBrowser = v
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = DefaultBaseURL
	}
	if cfg.Search.SearchURL == "" {
		cfg.Search.SearchURL = cfg.Search.BaseURL + defaultSearch
	}
	if cfg.Search.MaxCards <= 0 {
		cfg.Search.MaxCards = defaultMaxCards
	}
	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "logs"
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "logs/screenshots"
	}
}

// Validate checks the fields a live search needs.
func (cfg *Config) Validate() error {
	if cfg.Search.Metier == "" {
		return fmt.Errorf("search.metier is required")
	}
	if cfg.AutoApply {
		if err := validator.New().Struct(cfg.Applicant); err != nil {
			return fmt.Errorf("applicant profile is required when auto_apply is on: %w", err)
		}
	}
	if cfg.AutoSubmit && !cfg.AutoApply {
		log.Println("⚠️ auto_submit has no effect while auto_apply is off")
	}
	return nil
}

func (cfg *Config) TelegramEnabled() bool {
	return cfg.TelegramToken != "" && cfg.TelegramChatID != 0
}

// Masked returns a copy safe to print.
func (cfg Config) Masked() Config {
	cfg.TelegramToken = mask(cfg.TelegramToken)
	cfg.DatabaseURL = mask(cfg.DatabaseURL)
	return cfg
}

func mask(secret string) string {
	if len(secret) <= 4 {
		if secret == "" {
			return ""
		}
		return "****"
	}
	return secret[:4] + "****"
}
