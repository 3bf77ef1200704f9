package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := defaultConfig()
	cfg.Delivery.Discord.WebhookURL = "https://discord.test/webhook"
	cfg.Topics = []TopicConfig{
		{Name: "llm", QueryTerms: []string{"large language model"}, Categories: []string{"cs.CL"}},
	}
	return cfg
}

func TestValidateAcceptsDefaultsWithTopics(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no topics", func(c *Config) { c.Topics = nil }, "no topics"},
		{"unnamed topic", func(c *Config) { c.Topics[0].Name = "" }, "has no name"},
		{"empty query", func(c *Config) {
			c.Topics[0].QueryTerms = nil
			c.Topics[0].Categories = nil
		}, "queryTerms/categories"},
		{"listing source without listings", func(c *Config) {
			c.Topics[0].Source = SourceListing
		}, "no listings"},
		{"unknown source", func(c *Config) { c.Topics[0].Source = "gopher" }, "unknown source"},
		{"lookback too small", func(c *Config) { c.Digest.LookbackHours = 0 }, "lookbackHours"},
		{"recent window too small", func(c *Config) { c.Digest.RecentWindowDays = 0 }, "recentWindowDays"},
		{"ledger bound too small", func(c *Config) { c.Ledger.MaxDeliveredIDs = 0 }, "maxDeliveredIds"},
		{"unit length too small", func(c *Config) { c.Delivery.MaxUnitLength = 0 }, "maxUnitLength"},
		{"discord without webhook", func(c *Config) { c.Delivery.Discord.WebhookURL = "" }, "webhook"},
		{"unknown channel", func(c *Config) { c.Delivery.Channel = "carrier-pigeon" }, "delivery channel"},
		{"telegram without token", func(c *Config) {
			c.Delivery.Channel = ChannelTelegram
		}, "bot token"},
		{"telegram bad chat id", func(c *Config) {
			c.Delivery.Channel = ChannelTelegram
			c.Delivery.Telegram.BotToken = "123:abc"
			c.Delivery.Telegram.ChatID = "not-a-number"
		}, "not numeric"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tc.wantErr, err)
			}
		})
	}
}

func TestInterQueryDelayFloor(t *testing.T) {
	t.Parallel()

	cfg := ArxivConfig{InterQuerySleepSeconds: 1.0}
	if got := cfg.InterQueryDelay().Seconds(); got < 3.0 {
		t.Fatalf("delay below the arXiv courtesy floor: %v", got)
	}

	cfg.InterQuerySleepSeconds = 5.0
	if got := cfg.InterQueryDelay().Seconds(); got != 5.0 {
		t.Fatalf("expected configured delay 5s, got %v", got)
	}
}

func TestDefaultsMatchDocumentedValues(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if cfg.Digest.LookbackHours != 36 {
		t.Fatalf("default lookback: %d", cfg.Digest.LookbackHours)
	}
	if cfg.Digest.RecentWindowDays != 7 {
		t.Fatalf("default recent window: %d", cfg.Digest.RecentWindowDays)
	}
	if cfg.Digest.RecentCap != 5 || cfg.Digest.EducationalCap != 1 {
		t.Fatalf("default caps: %d/%d", cfg.Digest.RecentCap, cfg.Digest.EducationalCap)
	}
	if cfg.Ledger.MaxDeliveredIDs != 20000 {
		t.Fatalf("default ledger bound: %d", cfg.Ledger.MaxDeliveredIDs)
	}
	if cfg.Delivery.MaxUnitLength != 2000 {
		t.Fatalf("default unit length: %d", cfg.Delivery.MaxUnitLength)
	}
}
