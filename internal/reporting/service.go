package reporting

import (
	"context"

	"github.com/google/uuid"
	"github.com/partsline/opsconsole/internal/dedup"
	"github.com/partsline/opsconsole/internal/metrics"
	"github.com/partsline/opsconsole/internal/types"
	"github.com/rs/zerolog"
)

// FetchStrategies enumerates raw calls for a window via the two upstream
// strategies. Satisfied by dialpad.Fetcher.
type FetchStrategies interface {
	FetchDepartmentCalls(ctx context.Context, win types.Window, maxPages int) []types.RawCall
	FetchAgentCalls(ctx context.Context, win types.Window, maxPages int) []types.RawCall
}

// Service runs the full reporting pass: fetch both strategies, deduplicate
// each independently, keep the larger canonical set, and aggregate. All state
// is request-scoped; nothing survives a report.
type Service struct {
	fetcher FetchStrategies
	roster  *types.Roster
	agg     *Aggregator
	logger  zerolog.Logger
}

// NewService creates the reporting service
func NewService(fetcher FetchStrategies, roster *types.Roster, logger zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		roster:  roster,
		agg:     NewAggregator(roster, logger),
		logger:  logger.With().Str("component", "reporting").Logger(),
	}
}

// AgentActivity produces the per-agent activity report for a window
func (s *Service) AgentActivity(ctx context.Context, win types.Window, maxPages int) types.ActivityReport {
	calls, missed := s.canonicalCalls(ctx, win, maxPages)
	return s.agg.Aggregate(calls, missed, win)
}

// Calls produces the raw call listing with window stats
func (s *Service) Calls(ctx context.Context, win types.Window, maxPages int) types.CallsReport {
	calls, missed := s.canonicalCalls(ctx, win, maxPages)

	report := types.CallsReport{
		Calls: make([]types.RawCall, 0, len(calls)),
		Stats: types.CallStats{
			TotalCount:  len(calls),
			MissedCount: missed,
		},
		Days: PeriodDays(win),
		DateRange: types.DateRange{
			StartDate: FormatDate(win.StartMS),
			EndDate:   FormatDate(win.EndMS),
		},
	}

	for _, c := range calls {
		report.Calls = append(report.Calls, c.Call)
		switch c.Call.Direction {
		case types.DirectionInbound:
			report.Stats.InboundCount++
		case types.DirectionOutbound:
			report.Stats.OutboundCount++
		}
		if c.Status == types.StatusCompleted {
			report.Stats.CompletedCount++
		}
	}

	return report
}

// canonicalCalls fetches the window through both strategies, deduplicates
// each run independently, and returns the larger canonical set along with its
// missed-call count. Ties go to the department set. Each strategy misses
// different provider edge cases, so the larger set strictly dominates in
// observed coverage.
func (s *Service) canonicalCalls(ctx context.Context, win types.Window, maxPages int) ([]types.CanonicalCall, int) {
	runID := uuid.NewString()
	logger := s.logger.With().Str("run_id", runID).Logger()

	deptRaws := s.fetcher.FetchDepartmentCalls(ctx, win, maxPages)
	agentRaws := s.fetcher.FetchAgentCalls(ctx, win, maxPages)

	deptDedup := dedup.New(s.roster, logger)
	deptCalls := deptDedup.Run(deptRaws)

	agentDedup := dedup.New(s.roster, logger)
	agentCalls := agentDedup.Run(agentRaws)

	calls, missed := deptCalls, deptDedup.MissedCount()
	strategy := "department"
	if len(agentCalls) > len(deptCalls) {
		calls, missed = agentCalls, agentDedup.MissedCount()
		strategy = "per_agent"
	}

	logger.Info().
		Int("department_calls", len(deptCalls)).
		Int("agent_calls", len(agentCalls)).
		Str("chosen_strategy", strategy).
		Int("canonical_calls", len(calls)).
		Int("missed_calls", missed).
		Msg("strategy arbitration complete")

	metrics.Get().RecordReport(strategy, len(calls))
	return calls, missed
}
