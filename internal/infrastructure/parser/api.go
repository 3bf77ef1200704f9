package parser

import (
	"context"
	"fmt"
	"log/slog"

	"ArxivDigest/internal/domain"
	"ArxivDigest/internal/infrastructure/arxiv"
	"ArxivDigest/internal/scanner"
)

// APIScanner fetches topics through the arXiv export API.
type APIScanner struct {
	client *arxiv.Client
	logger *slog.Logger
}

var _ scanner.Scanner = (*APIScanner)(nil)

// NewAPIScanner wires the export API client.
func NewAPIScanner(client *arxiv.Client, log *slog.Logger) *APIScanner {
	return &APIScanner{client: client, logger: log}
}

// Name identifies the strategy inside the registry.
func (a *APIScanner) Name() string {
	return "api"
}

// Scan builds the topic's search query, fetches one Atom page and normalizes
// it. Cutoff filtering is left to the selector.
func (a *APIScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Paper, error) {
	query, err := arxiv.BuildQuery(req.Topic.QueryTerms, req.Topic.Categories)
	if err != nil {
		return nil, fmt.Errorf("topic %s: %w", req.Topic.Name, err)
	}

	if a.logger != nil {
		a.logger.Info("query arxiv", "topic", req.Topic.Name, "query", query)
	}

	xmlText, err := a.client.Fetch(ctx, query, req.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("topic %s: %w", req.Topic.Name, err)
	}

	papers, err := ParseAtom(xmlText)
	if err != nil {
		return nil, fmt.Errorf("topic %s: %w", req.Topic.Name, err)
	}
	return papers, nil
}
