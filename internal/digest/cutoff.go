package digest

import "time"

// ComputeCutoff returns the earliest publication time that must be considered
// by the current run.
//
// The configured lookback is clamped to a minimum of one hour. With no prior
// successful run the window is exactly the lookback. Otherwise the window is
// the larger of the lookback and the time elapsed since the last success, so
// a delayed run (outage, missed schedule) widens the window to cover the full
// gap instead of silently skipping it. Negative elapsed values, which appear
// under clock skew, count as zero.
func ComputeCutoff(now, lastSuccess time.Time, lookbackHours int) time.Time {
	lookback := time.Duration(max(lookbackHours, 1)) * time.Hour
	if lastSuccess.IsZero() {
		return now.Add(-lookback)
	}

	elapsed := now.Sub(lastSuccess)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > lookback {
		return now.Add(-elapsed)
	}
	return now.Add(-lookback)
}

// CandidateCutoff combines the state cutoff with the recent display window
// cutoff. A paper is a candidate when it falls within either window, so the
// effective cutoff is the earlier of the two.
func CandidateCutoff(stateCutoff, recentCutoff time.Time) time.Time {
	if recentCutoff.Before(stateCutoff) {
		return recentCutoff
	}
	return stateCutoff
}
