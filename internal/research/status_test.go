package research

import (
	"testing"
	"time"
)

func TestCurrentStep(t *testing.T) {
	cases := []struct {
		name string
		sess Session
		want int
	}{
		{"fresh", Session{Status: StatusProcessing}, StepDerivingRequirements},
		{"requirements done", Session{Status: StatusProcessing, ResearchProgress: 20}, StepSearching},
		{"searching", Session{Status: StatusProcessing, ResearchProgress: 60}, StepSearching},
		{"analyzing", Session{Status: StatusProcessing, ResearchProgress: 100, AnalysisProgress: 30}, StepAnalyzing},
		{"synthesizing", Session{Status: StatusProcessing, ResearchProgress: 100, AnalysisProgress: 100, CompilationProgress: 40}, StepSynthesizing},
		{"counters full", Session{Status: StatusProcessing, ResearchProgress: 100, AnalysisProgress: 100, CompilationProgress: 100}, StepDone},
		{"completed", Session{Status: StatusCompleted, ResearchProgress: 100, AnalysisProgress: 100, CompilationProgress: 100}, StepDone},
		{"completed overrides counters", Session{Status: StatusCompleted}, StepDone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CurrentStep(tc.sess); got != tc.want {
				t.Errorf("CurrentStep(%+v) = %d, want %d", tc.sess, got, tc.want)
			}
		})
	}
}

func TestStalled(t *testing.T) {
	moving := Session{Status: StatusProcessing, ResearchProgress: 20}
	advanced := Session{Status: StatusProcessing, ResearchProgress: 60}

	if Stalled(moving, advanced) {
		t.Error("Progress advanced, should not be stalled")
	}
	if !Stalled(moving, moving) {
		t.Error("Identical processing snapshots should be stalled")
	}

	done := Session{Status: StatusCompleted, ResearchProgress: 100}
	if Stalled(done, done) {
		t.Error("Terminal sessions are never stalled")
	}
}

func TestIsPotentiallyOutdated(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		date string
		want bool
	}{
		{"", false},
		{"2026-01-10", false},
		{"2024-09-02", false},
		{"2024-08-30", true},
		{"12 Mar 2020", true},
		{"2023", true},
		{"2024", false},
		{"2026", false},
		{"no date here", false},
	}

	for _, tc := range cases {
		if got := IsPotentiallyOutdated(tc.date, now); got != tc.want {
			t.Errorf("IsPotentiallyOutdated(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}
}
