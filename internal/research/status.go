package research

import (
	"strconv"
	"time"

	"github.com/arcscan/arcscan-api/internal/search"
)

// Step numbers shown to clients. They project the three progress counters
// onto the five-stage journey the UI renders.
const (
	StepDerivingRequirements = 1
	StepSearching            = 2
	StepAnalyzing            = 3
	StepSynthesizing         = 4
	StepDone                 = 5
)

// CurrentStep maps a session snapshot to its display step. Counters are
// checked in pipeline order; the first incomplete one wins.
func CurrentStep(sess Session) int {
	if sess.Status == StatusCompleted {
		return StepDone
	}
	switch {
	case sess.ResearchProgress < 20:
		return StepDerivingRequirements
	case sess.ResearchProgress < 100:
		return StepSearching
	case sess.AnalysisProgress < 100:
		return StepAnalyzing
	case sess.CompilationProgress < 100:
		return StepSynthesizing
	default:
		return StepDone
	}
}

// Stalled reports whether two consecutive snapshots of a processing session
// show no movement. Terminal sessions are never stalled.
func Stalled(prev, cur Session) bool {
	if cur.Status != StatusProcessing {
		return false
	}
	return prev.Status == cur.Status &&
		prev.ResearchProgress == cur.ResearchProgress &&
		prev.AnalysisProgress == cur.AnalysisProgress &&
		prev.CompilationProgress == cur.CompilationProgress
}

// IsPotentiallyOutdated reports whether a source's published date is more
// than two years before now. Undated or unparseable sources are not flagged;
// a bare year is compared on the year alone.
func IsPotentiallyOutdated(publishedDate string, now time.Time) bool {
	if publishedDate == "" {
		return false
	}
	if len(publishedDate) == 4 {
		if year, err := strconv.Atoi(publishedDate); err == nil {
			return year < now.Year()-2
		}
	}
	if t, ok := search.ParseDate(publishedDate); ok {
		return t.Before(now.AddDate(-2, 0, 0))
	}
	return false
}
