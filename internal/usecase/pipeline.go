package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"ArxivDigest/internal/config"
	"ArxivDigest/internal/digest"
	"ArxivDigest/internal/domain"
	"ArxivDigest/internal/ports"
	"ArxivDigest/internal/render"
)

// PipelineDeps wires all driven adapters into the digest run.
type PipelineDeps struct {
	Source    ports.PaperSource
	Messenger ports.Messenger
	Ledger    ports.LedgerStore
	Archive   ports.Archive
	Rand      *rand.Rand
	Logger    *slog.Logger
}

// Pipeline implements one digest run: cutoff, per-topic selection, rendering,
// packing, delivery and the single ledger commit at the end.
type Pipeline struct {
	cfg       config.Config
	source    ports.PaperSource
	messenger ports.Messenger
	ledger    ports.LedgerStore
	archive   ports.Archive
	rand      *rand.Rand
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(cfg config.Config, deps PipelineDeps) *Pipeline {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		source:    deps.Source,
		messenger: deps.Messenger,
		ledger:    deps.Ledger,
		archive:   deps.Archive,
		rand:      rng,
		logger:    logger,
	}
}

// Run executes one complete digest run anchored at now (UTC).
//
// The run behaves as one atomic commit: the ledger is loaded once, mutated
// only in memory and persisted once after every unit reached the transport.
// Any failure before that point leaves the ledger untouched, so a retried
// run recomputes the same cutoff and candidates (at-least-once delivery).
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	now = now.UTC()

	led, err := p.ledger.Load()
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	lastSuccess, _ := led.LastSuccess()
	stateCutoff := digest.ComputeCutoff(now, lastSuccess, p.cfg.Digest.LookbackHours)
	recentCutoff := now.Add(-time.Duration(p.cfg.Digest.RecentWindowDays) * 24 * time.Hour)
	cutoff := digest.CandidateCutoff(stateCutoff, recentCutoff)

	p.logger.Info("run window",
		"last_success", formatTime(lastSuccess),
		"state_cutoff", stateCutoff.Format(time.RFC3339),
		"recent_cutoff", recentCutoff.Format(time.RFC3339),
		"candidate_cutoff", cutoff.Format(time.RFC3339))

	delivered := led.DeliveredSet()
	lastSeenByTopic := map[string]time.Time{}
	var (
		topicDigests  []domain.TopicDigest
		deliveredIDs  []string
		deliveredNow  []domain.DeliveredPaper
		totalSelected int
	)

	for _, topic := range p.cfg.Topics {
		papers, err := p.source.FetchTopic(ctx, topic.Name, cutoff)
		if err != nil {
			return fmt.Errorf("fetch topic %s: %w", topic.Name, err)
		}

		for _, paper := range papers {
			if paper.PublishedAt.After(lastSeenByTopic[topic.Name]) {
				lastSeenByTopic[topic.Name] = paper.PublishedAt
			}
		}

		candidates := digest.Collect(papers, cutoff, delivered)
		recent, educational := digest.Partition(candidates,
			p.cfg.Digest.RecentCap, p.cfg.Digest.EducationalCap, p.rand)

		p.logger.Info("topic selected",
			"topic", topic.Name,
			"fetched", len(papers),
			"candidates", len(candidates),
			"recent", len(recent),
			"educational", len(educational))

		topicDigests = append(topicDigests, domain.TopicDigest{
			Name:        topic.Name,
			Recent:      recent,
			Educational: educational,
		})

		// Ids selected here join the working set now so later topics in the
		// same run never emit the same paper again.
		for _, c := range append(append([]domain.Candidate{}, recent...), educational...) {
			delivered[c.ID] = struct{}{}
			deliveredIDs = append(deliveredIDs, c.ID)
			deliveredNow = append(deliveredNow, domain.DeliveredPaper{
				Paper:       c.Paper,
				Topic:       topic.Name,
				Educational: c.Educational,
				DeliveredAt: now,
			})
			totalSelected++
		}
	}

	blocks := render.BuildBlocks(render.DigestData{
		NowLocal:         p.localNow(now),
		CutoffUTC:        cutoff,
		RecentWindowDays: p.cfg.Digest.RecentWindowDays,
		HeaderTemplate:   p.cfg.Digest.HeaderTemplate,
		TitleMaxLength:   p.cfg.Digest.TitleMaxLength,
		Topics:           topicDigests,
	})
	units := render.Pack(blocks, p.cfg.Delivery.MaxUnitLength)

	p.logger.Info("digest totals",
		"topics", len(topicDigests), "selected", totalSelected, "units", len(units))

	for i, unit := range units {
		if err := p.messenger.Send(ctx, unit); err != nil {
			return fmt.Errorf("send unit %d/%d: %w", i+1, len(units), err)
		}
	}

	if p.archive != nil && len(deliveredNow) > 0 {
		if err := p.archive.SaveDelivered(ctx, deliveredNow); err != nil {
			// Archive trouble must not trigger re-delivery on the next run.
			p.logger.Warn("archive delivered papers", "error", err)
		}
	}

	led.Record(deliveredIDs, now, lastSeenByTopic, p.cfg.Ledger.MaxDeliveredIDs)
	if err := p.ledger.Commit(led); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}

	p.logger.Info("run committed",
		"delivered_ids", led.Len(), "last_success", now.Format(time.RFC3339))
	return nil
}

// localNow converts the run anchor into the report timezone, falling back to
// UTC when the configured zone is unknown.
func (p *Pipeline) localNow(now time.Time) time.Time {
	tz := p.cfg.Digest.ReportTimezone
	if tz == "" {
		return now
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		p.logger.Warn("invalid report timezone, using UTC", "timezone", tz)
		return now
	}
	return now.In(loc)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "none"
	}
	return t.Format(time.RFC3339)
}
