package parser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ArxivDigest/internal/config"
	"ArxivDigest/internal/domain"
	"ArxivDigest/internal/ports"
	"ArxivDigest/internal/scanner"
)

// StrategySource implements PaperSource via registered scanner strategies.
// Each topic names its strategy in config; the default is the export API.
type StrategySource struct {
	registry   *scanner.Registry
	topics     []config.TopicConfig
	maxResults int
	logger     *slog.Logger
}

var _ ports.PaperSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined topics.
func NewStrategySource(reg *scanner.Registry, topics []config.TopicConfig, maxResults int, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry:   reg,
		topics:     topics,
		maxResults: maxResults,
		logger:     log,
	}
}

// FetchTopic resolves the topic's scanner and executes it.
func (s *StrategySource) FetchTopic(ctx context.Context, topicName string, cutoff time.Time) ([]domain.Paper, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	topic, ok := s.findTopic(topicName)
	if !ok {
		return nil, fmt.Errorf("topic %s is not configured", topicName)
	}

	source := topic.Source
	if source == "" {
		source = config.SourceAPI
	}
	strategy, err := s.registry.Resolve(source)
	if err != nil {
		return nil, fmt.Errorf("topic %s: %w", topicName, err)
	}

	req := scanner.Request{
		Topic:      toScannerTopic(topic),
		Cutoff:     cutoff,
		MaxResults: s.maxResults,
	}

	papers, err := strategy.Scan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("scan topic %s: %w", topicName, err)
	}

	if s.logger != nil {
		s.logger.Debug("topic fetched", "topic", topicName, "source", source, "papers", len(papers))
	}
	return papers, nil
}

func (s *StrategySource) findTopic(name string) (config.TopicConfig, bool) {
	for _, topic := range s.topics {
		if topic.Name == name {
			return topic, true
		}
	}
	return config.TopicConfig{}, false
}

func toScannerTopic(cfg config.TopicConfig) scanner.Topic {
	listings := make([]scanner.Listing, 0, len(cfg.Listings))
	for _, l := range cfg.Listings {
		listings = append(listings, scanner.Listing{Name: l.Name, URL: l.URL})
	}
	return scanner.Topic{
		Name:       cfg.Name,
		QueryTerms: cfg.QueryTerms,
		Categories: cfg.Categories,
		Listings:   listings,
	}
}
