package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	OddsAPI  OddsAPIConfig  `yaml:"odds_api"`
	Picker   PickerConfig   `yaml:"picker"`
	Results  ResultsConfig  `yaml:"results"`
	Storage  StorageConfig  `yaml:"storage"`
	Health   HealthConfig   `yaml:"health"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"` // env TELEGRAM_BOT_TOKEN
	Channel  string `yaml:"channel"`   // env CHANNEL_USERNAME, e.g. "@ironhockey"
}

type OddsAPIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"` // env ODDS_API_KEY
	Regions   string        `yaml:"regions"`
	Markets   string        `yaml:"markets"` // env MARKETS
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

type PickerConfig struct {
	OddsRange string   `yaml:"odds_range"` // "low-high", env ODDS_RANGE
	PostTimes []string `yaml:"post_times"` // local HH:MM slots, env POST_TIMES (comma-separated)
	TZOffset  int      `yaml:"tz_offset"`  // display zone hours east of UTC, env TZ_OFFSET
}

type ResultsConfig struct {
	SweepInterval time.Duration `yaml:"sweep_interval"`
	DaysFrom      int           `yaml:"days_from"`
}

type StorageConfig struct {
	SportsCacheFile string `yaml:"sports_cache_file"`
	StateFile       string `yaml:"state_file"`
}

type HealthConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

func Load(configPath string) (*Config, error) {
	// Secrets usually live in .env next to the binary; missing file is fine.
	_ = godotenv.Load()

	config := defaults()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func defaults() *Config {
	return &Config{
		OddsAPI: OddsAPIConfig{
			BaseURL:   "https://api.the-odds-api.com/v4",
			Regions:   "eu,us,uk",
			Markets:   "h2h,totals",
			UserAgent: "IronHockeyBot/1.0",
			Timeout:   30 * time.Second,
		},
		Picker: PickerConfig{
			OddsRange: "1.70-2.50",
			PostTimes: []string{"11:00", "18:30"},
			TZOffset:  3,
		},
		Results: ResultsConfig{
			SweepInterval: 30 * time.Minute,
			DaysFrom:      2,
		},
		Storage: StorageConfig{
			SportsCacheFile: "sports_cache.json",
			StateFile:       "posted_events.json",
		},
		Health: HealthConfig{
			ReadHeaderTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// applyEnv lets environment variables override file values. Secrets are
// expected to come from the environment rather than the yaml file.
func (c *Config) applyEnv() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("CHANNEL_USERNAME"); v != "" {
		c.Telegram.Channel = v
	}
	if v := os.Getenv("ODDS_API_KEY"); v != "" {
		c.OddsAPI.APIKey = v
	}
	if v := os.Getenv("MARKETS"); v != "" {
		c.OddsAPI.Markets = v
	}
	if v := os.Getenv("ODDS_RANGE"); v != "" {
		c.Picker.OddsRange = v
	}
	if v := os.Getenv("POST_TIMES"); v != "" {
		c.Picker.PostTimes = splitList(v)
	}
	if v := os.Getenv("TZ_OFFSET"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Picker.TZOffset = n
		}
	}
}

// Validate checks the credentials without which the scheduler must not start.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required: set telegram.bot_token or TELEGRAM_BOT_TOKEN")
	}
	if c.Telegram.Channel == "" {
		return fmt.Errorf("telegram channel is required: set telegram.channel or CHANNEL_USERNAME")
	}
	if c.OddsAPI.APIKey == "" {
		return fmt.Errorf("odds api key is required: set odds_api.api_key or ODDS_API_KEY")
	}
	if _, _, err := c.Picker.ParseOddsRange(); err != nil {
		return err
	}
	if len(c.Picker.PostTimes) == 0 {
		return fmt.Errorf("at least one post time slot is required")
	}
	for _, slot := range c.Picker.PostTimes {
		if _, _, err := ParseSlot(slot); err != nil {
			return err
		}
	}
	return nil
}

// ParseOddsRange parses the "low-high" acceptable price band.
func (p PickerConfig) ParseOddsRange() (min, max float64, err error) {
	parts := strings.SplitN(p.OddsRange, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid odds_range %q: want \"low-high\"", p.OddsRange)
	}
	min, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid odds_range %q: %w", p.OddsRange, err)
	}
	max, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid odds_range %q: %w", p.OddsRange, err)
	}
	if min > max {
		return 0, 0, fmt.Errorf("invalid odds_range %q: low above high", p.OddsRange)
	}
	return min, max, nil
}

// ParseSlot parses one "HH:MM" local-time slot.
func ParseSlot(slot string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(slot), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid post time %q: want \"HH:MM\"", slot)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid post time %q: bad hour", slot)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid post time %q: bad minute", slot)
	}
	return hour, minute, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
