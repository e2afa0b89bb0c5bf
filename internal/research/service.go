package research

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	apperrors "github.com/arcscan/arcscan-api/internal/errors"
	"github.com/arcscan/arcscan-api/internal/generation"
	"github.com/arcscan/arcscan-api/internal/logger"
	"github.com/arcscan/arcscan-api/internal/metrics"
	"github.com/arcscan/arcscan-api/internal/search"
)

const noResultsMessage = "No search results found. We couldn't find any relevant data for your business. " +
	"Please try with more specific industry details or check your search API key."

// ServiceConfig tunes the orchestrator. Zero values get defaults.
type ServiceConfig struct {
	// GatewayTimeout bounds every individual gateway call. A timed-out
	// search call counts as that call's failure; a timed-out generation
	// call fails the session.
	GatewayTimeout time.Duration
	// SearchResultCount is the per-query result-count hint.
	SearchResultCount int
	// Categories overrides the embedded taxonomy, mainly for tests.
	Categories []Category
	// Fallback gateway credentials used when a profile omits its own.
	GenerationAPIKey string
	SearchAPIKey     string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Service drives research sessions through their phases.
type Service struct {
	store             SessionStore
	generation        generation.Client
	search            search.Client
	classifier        *Classifier
	logger            *logger.Logger
	gatewayTimeout    time.Duration
	searchResultCount int
	fallbackGenKey    string
	fallbackSearchKey string
	now               func() time.Time
}

// NewService creates the orchestrator.
func NewService(log *logger.Logger, store SessionStore, gen generation.Client, web search.Client, cfg ServiceConfig) *Service {
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = 60 * time.Second
	}
	if cfg.SearchResultCount <= 0 {
		cfg.SearchResultCount = 10
	}
	if cfg.Categories == nil {
		cfg.Categories = DefaultCategories
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Service{
		store:             store,
		generation:        gen,
		search:            web,
		classifier:        NewClassifier(cfg.Categories),
		logger:            log,
		gatewayTimeout:    cfg.GatewayTimeout,
		searchResultCount: cfg.SearchResultCount,
		fallbackGenKey:    cfg.GenerationAPIKey,
		fallbackSearchKey: cfg.SearchAPIKey,
		now:               cfg.Now,
	}
}

// CreateSession allocates a new session and returns its id.
func (s *Service) CreateSession() int {
	return s.store.Create()
}

// GetStatus returns a snapshot of the session.
func (s *Service) GetStatus(id int) (Session, bool) {
	return s.store.Get(id)
}

// StartResearch marks the session processing and spawns the pipeline. It
// returns immediately; the detached run communicates outcomes solely through
// session store writes. Fails only when the session id is unknown.
func (s *Service) StartResearch(id int, profile BusinessProfile) error {
	if profile.GenerationAPIKey == "" {
		profile.GenerationAPIKey = s.fallbackGenKey
	}
	if profile.SearchAPIKey == "" {
		profile.SearchAPIKey = s.fallbackSearchKey
	}

	stored := profile
	stored.GenerationAPIKey = ""
	stored.SearchAPIKey = ""

	ok := s.store.Update(id, func(sess *Session) {
		sess.Status = StatusProcessing
		sess.Phase = PhaseDerivingRequirements
		sess.Profile = stored
	})
	if !ok {
		return apperrors.NewResearchError(apperrors.KindSessionNotFound,
			fmt.Sprintf("research session %d not found", id), nil)
	}

	metrics.SessionsStarted.Inc()
	go s.run(id, profile)

	return nil
}

// run executes the pipeline for one session and records the terminal state.
func (s *Service) run(sessionID int, profile BusinessProfile) {
	ctx := logger.WithSessionID(context.Background(), sessionID)
	log := s.logger.WithContext(ctx).WithComponent("research")

	start := s.now()
	if err := s.process(ctx, sessionID, profile); err != nil {
		log.Error("research pipeline failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", s.now().Sub(start)))
		metrics.SessionsFailed.Inc()

		s.store.Update(sessionID, func(sess *Session) {
			sess.Status = StatusError
			sess.ErrorMessage = apperrors.UserMessage(err)
		})
		return
	}

	log.Info("research pipeline completed", slog.Duration("elapsed", s.now().Sub(start)))
	metrics.SessionsCompleted.Inc()
}

func (s *Service) process(ctx context.Context, sessionID int, profile BusinessProfile) error {
	log := s.logger.WithContext(ctx).WithComponent("research")

	// Phase 1: requirement derivation
	reqs, err := s.deriveRequirements(ctx, profile)
	if err != nil {
		return err
	}

	log.Info("requirements derived", slog.Int("query_count", len(reqs.SearchQueries)))

	s.store.Update(sessionID, func(sess *Session) {
		sess.Requirements = reqs.Requirements
		sess.ResearchQueries = append([]string(nil), reqs.SearchQueries...)
		sess.ResearchProgress = 20
		sess.Phase = PhaseSearching
	})

	// Phase 2: concurrent web research
	results := s.runSearches(ctx, sessionID, reqs.SearchQueries, profile.SearchAPIKey)
	if len(results) == 0 {
		return apperrors.NewResearchError(apperrors.KindNoResults, noResultsMessage, nil)
	}

	sortResults(results)

	sources := distinctSources(results)
	log.Info("web research finished",
		slog.Int("result_count", len(results)),
		slog.Int("source_count", len(sources)))

	s.store.Update(sessionID, func(sess *Session) {
		sess.ResearchProgress = 100
		sess.Sources = sources
		sess.AnalysisProgress = 30
		sess.Phase = PhaseAnalyzing
	})

	// Phase 3: analysis beat. Pollers animate off these counters; no extra
	// computation happens here.
	s.store.Update(sessionID, func(sess *Session) {
		sess.AnalysisProgress = 100
		sess.CompilationProgress = 40
		sess.Phase = PhaseSynthesizing
	})

	// Phase 4: report synthesis
	report, err := s.synthesizeReport(ctx, results, profile)
	if err != nil {
		return err
	}

	s.store.Update(sessionID, func(sess *Session) {
		sess.CompilationProgress = 90
	})

	finalizeReport(report, profile, s.classifier)

	s.store.Update(sessionID, func(sess *Session) {
		sess.Results = report
		sess.CompilationProgress = 100
		sess.Status = StatusCompleted
	})

	return nil
}

// deriveRequirements runs the first generation call and parses its payload.
func (s *Service) deriveRequirements(ctx context.Context, profile BusinessProfile) (*requirementsResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	start := s.now()
	text, err := s.generation.Generate(callCtx, buildRequirementsPrompt(profile, s.classifier.Categories(), s.now()), profile.GenerationAPIKey)
	metrics.ObserveGatewayCall("generation", s.now().Sub(start), err)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	var reqs requirementsResponse
	if err := generation.ExtractJSON(text, &reqs); err != nil {
		return nil, err
	}

	if reqs.Requirements == "" || len(reqs.SearchQueries) == 0 {
		return nil, apperrors.NewResearchError(apperrors.KindGenerationParse,
			"The generated response was missing the research requirements or search queries. Please try again with more specific business details.", nil)
	}

	return &reqs, nil
}

// runSearches fans one search call out per query and waits for all of them
// to settle. A failed call yields zero results for that query only; each
// completion bumps the research progress counter, clamped at 100.
func (s *Service) runSearches(ctx context.Context, sessionID int, queries []string, apiKey string) []search.Result {
	log := s.logger.WithContext(ctx).WithComponent("research")

	if len(queries) == 0 {
		return nil
	}
	increment := 80 / len(queries)

	perQuery := make([][]search.Result, len(queries))
	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
			defer cancel()

			start := s.now()
			results, err := s.search.Search(callCtx, query, apiKey, s.searchResultCount)
			metrics.ObserveGatewayCall("search", s.now().Sub(start), err)
			if err != nil {
				// One bad query never sinks the session.
				log.Warn("search query failed",
					slog.String("query", query),
					slog.String("error", err.Error()))
			} else {
				perQuery[i] = results
			}

			s.store.Update(sessionID, func(sess *Session) {
				progress := sess.ResearchProgress + increment
				if progress > 100 {
					progress = 100
				}
				sess.ResearchProgress = progress
			})
		}(i, query)
	}
	wg.Wait()

	var flattened []search.Result
	for _, results := range perQuery {
		flattened = append(flattened, results...)
	}

	return flattened
}

// synthesizeReport runs the final generation call and parses the report.
func (s *Service) synthesizeReport(ctx context.Context, results []search.Result, profile BusinessProfile) (*Report, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	start := s.now()
	text, err := s.generation.Generate(callCtx, buildAnalysisPrompt(results, profile, s.classifier.Categories(), s.now()), profile.GenerationAPIKey)
	metrics.ObserveGatewayCall("generation", s.now().Sub(start), err)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	var report Report
	if err := generation.ExtractJSON(text, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

// sortResults orders search results for analysis: dated entries first, most
// recent first among the dated ones, undated entries last in their prior
// relative order. Two stable passes; the date-presence partition runs last
// so it dominates.
func sortResults(results []search.Result) {
	sort.SliceStable(results, func(i, j int) bool {
		di, iok := search.ParseDate(results[i].PublishedDate)
		dj, jok := search.ParseDate(results[j].PublishedDate)
		if !iok || !jok {
			return false
		}
		return di.After(dj)
	})

	sort.SliceStable(results, func(i, j int) bool {
		_, iok := search.ParseDate(results[i].PublishedDate)
		_, jok := search.ParseDate(results[j].PublishedDate)
		return iok && !jok
	})
}

// distinctSources returns the deduplicated non-empty source names across all
// results, preserving first-seen order.
func distinctSources(results []search.Result) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, r := range results {
		if r.Source == "" || seen[r.Source] {
			continue
		}
		seen[r.Source] = true
		sources = append(sources, r.Source)
	}
	return sources
}
