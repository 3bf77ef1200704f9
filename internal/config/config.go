package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"

	configPathEnv     = "ARXIV_DIGEST_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	discordWebhookEnv = "DISCORD_WEBHOOK_URL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Delivery channel names accepted in DeliveryConfig.Channel.
const (
	ChannelDiscord  = "discord"
	ChannelTelegram = "telegram"
)

// Source strategy names accepted in TopicConfig.Source.
const (
	SourceAPI     = "api"
	SourceListing = "listing"
)

// Config holds high-level settings required across the application.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Arxiv     ArxivConfig     `yaml:"arxiv"`
	Digest    DigestConfig    `yaml:"digest"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Logging   LoggingConfig   `yaml:"logging"`
	Topics    []TopicConfig   `yaml:"topics"`
}

// SchedulerConfig defines when the digest job should run in scheduled mode.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	return time.UTC
}

// ArxivConfig describes the export API client.
type ArxivConfig struct {
	Endpoint               string  `yaml:"endpoint"`
	UserAgent              string  `yaml:"userAgent"`
	RequestTimeoutSeconds  int     `yaml:"requestTimeoutSeconds"`
	InterQuerySleepSeconds float64 `yaml:"interQuerySleepSeconds"`
	MaxResultsPerTopic     int     `yaml:"maxResultsPerTopic"`
}

// RequestTimeout returns the HTTP timeout as a duration.
func (a ArxivConfig) RequestTimeout() time.Duration {
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// InterQueryDelay returns the pacing interval between per-topic queries.
// arXiv asks clients for at least three seconds between API calls, so
// anything shorter is raised to 3.1s.
func (a ArxivConfig) InterQueryDelay() time.Duration {
	sleep := a.InterQuerySleepSeconds
	if sleep < 3.0 {
		sleep = 3.1
	}
	return time.Duration(sleep * float64(time.Second))
}

// DigestConfig bounds candidate selection and presentation.
type DigestConfig struct {
	LookbackHours    int    `yaml:"lookbackHours"`
	RecentWindowDays int    `yaml:"recentWindowDays"`
	RecentCap        int    `yaml:"recentCap"`
	EducationalCap   int    `yaml:"educationalCap"`
	TitleMaxLength   int    `yaml:"titleMaxLength"`
	HeaderTemplate   string `yaml:"headerTemplate"`
	ReportTimezone   string `yaml:"reportTimezone"`
}

// LedgerConfig describes the delivery ledger file.
type LedgerConfig struct {
	Path            string `yaml:"path"`
	MaxDeliveredIDs int    `yaml:"maxDeliveredIds"`
}

// DeliveryConfig selects and parameterizes the outbound channel.
type DeliveryConfig struct {
	Channel       string         `yaml:"channel"`
	MaxUnitLength int            `yaml:"maxUnitLength"`
	Discord       DiscordConfig  `yaml:"discord"`
	Telegram      TelegramConfig `yaml:"telegram"`
}

// DiscordConfig wires the webhook sink.
type DiscordConfig struct {
	WebhookURL            string `yaml:"webhookUrl"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
}

// TelegramConfig wires the bot sink.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// ChatIDInt parses the configured chat id.
func (t TelegramConfig) ChatIDInt() (int64, error) {
	id, err := strconv.ParseInt(t.ChatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram chatId %q is not numeric: %w", t.ChatID, err)
	}
	return id, nil
}

// ArchiveConfig enables the optional Postgres delivery archive.
type ArchiveConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TopicConfig describes a single digest topic and its source strategy.
type TopicConfig struct {
	Name       string          `yaml:"name"`
	Source     string          `yaml:"source"`
	QueryTerms []string        `yaml:"queryTerms"`
	Categories []string        `yaml:"categories"`
	Listings   []ListingConfig `yaml:"listings"`
}

// ListingConfig holds a concrete listing endpoint to crawl for a topic.
type ListingConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. Load itself never fails; call Validate before running.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Archive.DSN = v
	}
	if v := os.Getenv(discordWebhookEnv); v != "" {
		c.Delivery.Discord.WebhookURL = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Delivery.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Delivery.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc = time.UTC
	}
	c.Scheduler.location = loc
}

// Validate checks the settings once at startup. Any error here aborts the
// process before the first fetch.
func (c Config) Validate() error {
	if len(c.Topics) == 0 {
		return fmt.Errorf("no topics configured")
	}
	for i, topic := range c.Topics {
		if topic.Name == "" {
			return fmt.Errorf("topic %d has no name", i+1)
		}
		switch topic.Source {
		case "", SourceAPI:
			if len(topic.QueryTerms) == 0 && len(topic.Categories) == 0 {
				return fmt.Errorf("topic %q has no queryTerms/categories", topic.Name)
			}
		case SourceListing:
			if len(topic.Listings) == 0 {
				return fmt.Errorf("topic %q uses the listing source but has no listings", topic.Name)
			}
		default:
			return fmt.Errorf("topic %q has unknown source %q", topic.Name, topic.Source)
		}
	}

	if c.Digest.LookbackHours < 1 {
		return fmt.Errorf("digest.lookbackHours must be >= 1, got %d", c.Digest.LookbackHours)
	}
	if c.Digest.RecentWindowDays < 1 {
		return fmt.Errorf("digest.recentWindowDays must be >= 1, got %d", c.Digest.RecentWindowDays)
	}
	if c.Ledger.MaxDeliveredIDs < 1 {
		return fmt.Errorf("ledger.maxDeliveredIds must be >= 1, got %d", c.Ledger.MaxDeliveredIDs)
	}
	if c.Delivery.MaxUnitLength < 1 {
		return fmt.Errorf("delivery.maxUnitLength must be >= 1, got %d", c.Delivery.MaxUnitLength)
	}

	switch c.Delivery.Channel {
	case ChannelDiscord:
		if c.Delivery.Discord.WebhookURL == "" {
			return fmt.Errorf("discord delivery requires a webhook URL (%s)", discordWebhookEnv)
		}
	case ChannelTelegram:
		if c.Delivery.Telegram.BotToken == "" {
			return fmt.Errorf("telegram delivery requires a bot token (%s)", telegramTokenEnv)
		}
		if _, err := c.Delivery.Telegram.ChatIDInt(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown delivery channel %q", c.Delivery.Channel)
	}

	return nil
}

func defaultConfig() Config {
	return Config{
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: time.UTC},
		Arxiv: ArxivConfig{
			Endpoint:               "http://export.arxiv.org/api/query",
			UserAgent:              "arxiv-digest/1.0 (contact: your-email@example.com)",
			RequestTimeoutSeconds:  30,
			InterQuerySleepSeconds: 3.1,
			MaxResultsPerTopic:     200,
		},
		Digest: DigestConfig{
			LookbackHours:    36,
			RecentWindowDays: 7,
			RecentCap:        5,
			EducationalCap:   1,
			TitleMaxLength:   120,
			HeaderTemplate:   "arXiv Daily Digest ({date})",
			ReportTimezone:   defaultTimezone,
		},
		Ledger: LedgerConfig{
			Path:            "state/ledger.json",
			MaxDeliveredIDs: 20000,
		},
		Delivery: DeliveryConfig{
			Channel:       ChannelDiscord,
			MaxUnitLength: 2000,
			Discord:       DiscordConfig{RequestTimeoutSeconds: 30},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
