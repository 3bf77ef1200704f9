package digest

import (
	"testing"
	"time"
)

func TestComputeCutoffFirstRun(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	got := ComputeCutoff(now, time.Time{}, 36)
	want := now.Add(-36 * time.Hour)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestComputeCutoffClampsLookback(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	got := ComputeCutoff(now, time.Time{}, 0)
	want := now.Add(-time.Hour)
	if !got.Equal(want) {
		t.Fatalf("expected 1h clamp %v, got %v", want, got)
	}
}

func TestComputeCutoffFrequentRuns(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	lastSuccess := now.Add(-2 * time.Hour)

	got := ComputeCutoff(now, lastSuccess, 36)
	want := now.Add(-36 * time.Hour)
	if !got.Equal(want) {
		t.Fatalf("lookback should still apply: expected %v, got %v", want, got)
	}
}

func TestComputeCutoffCatchUp(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	lastSuccess := now.Add(-72 * time.Hour)

	got := ComputeCutoff(now, lastSuccess, 36)
	if !got.Equal(lastSuccess) {
		t.Fatalf("window should grow to the last success: expected %v, got %v", lastSuccess, got)
	}
}

func TestComputeCutoffClockSkew(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	lastSuccess := now.Add(30 * time.Minute)

	got := ComputeCutoff(now, lastSuccess, 36)
	want := now.Add(-36 * time.Hour)
	if !got.Equal(want) {
		t.Fatalf("future last success must count as zero elapsed: expected %v, got %v", want, got)
	}
}

func TestCandidateCutoffPicksEarlier(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	state := now.Add(-36 * time.Hour)
	recent := now.Add(-7 * 24 * time.Hour)

	if got := CandidateCutoff(state, recent); !got.Equal(recent) {
		t.Fatalf("expected recent cutoff %v, got %v", recent, got)
	}
	if got := CandidateCutoff(recent, state); !got.Equal(recent) {
		t.Fatalf("expected recent cutoff %v, got %v", recent, got)
	}
}
