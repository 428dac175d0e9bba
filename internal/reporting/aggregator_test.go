package reporting

import (
	"testing"
	"time"

	"github.com/partsline/opsconsole/internal/types"
	"github.com/rs/zerolog"
)

func testRoster() *types.Roster {
	return types.NewRoster([]types.Agent{
		{ID: "101", Name: "Alice"},
		{ID: "102", Name: "Bob"},
	})
}

func completedCall(agentID string, direction types.Direction, startedAt time.Time, durationMS float64) types.CanonicalCall {
	connected := types.FlexInt64(startedAt.UnixMilli())
	return types.CanonicalCall{
		Status: types.StatusCompleted,
		Call: types.RawCall{
			CallID:        types.FlexID("c-" + agentID),
			Direction:     direction,
			Target:        &types.Target{Type: types.TargetTypeUser, ID: types.FlexID(agentID)},
			DateStarted:   types.FlexInt64(startedAt.UnixMilli()),
			DateConnected: &connected,
			Duration:      types.FlexFloat64(durationMS),
		},
	}
}

func TestAggregateRollsUpPerAgent(t *testing.T) {
	day1 := time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)
	day2 := time.Date(2024, 3, 5, 10, 0, 0, 0, time.Local)
	win := types.Window{
		StartMS: time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local).UnixMilli(),
		EndMS:   time.Date(2024, 3, 5, 23, 59, 59, 0, time.Local).UnixMilli(),
	}

	calls := []types.CanonicalCall{
		completedCall("101", types.DirectionInbound, day1, 120_000), // 2.0 min
		completedCall("101", types.DirectionOutbound, day2, 60_000), // 1.0 min
		completedCall("102", types.DirectionInbound, day1, 300_000), // 5.0 min
		{Status: types.StatusMissed, Call: types.RawCall{CallID: "m1"}},
		{Status: types.StatusAmbiguous, Call: types.RawCall{CallID: "a1"}},
	}

	agg := NewAggregator(testRoster(), zerolog.Nop())
	report := agg.Aggregate(calls, 2, win)

	if report.TotalCompletedCalls != 3 {
		t.Errorf("expected 3 completed, got %d", report.TotalCompletedCalls)
	}
	if report.MissedCalls != 2 {
		t.Errorf("expected 2 missed, got %d", report.MissedCalls)
	}
	if report.TotalCalls != 5 {
		t.Errorf("expected 5 total, got %d", report.TotalCalls)
	}
	if report.PeriodDays != 2 {
		t.Errorf("expected 2 period days, got %d", report.PeriodDays)
	}
	if report.FromDate != "2024-03-04" || report.ToDate != "2024-03-05" {
		t.Errorf("unexpected echo dates %s..%s", report.FromDate, report.ToDate)
	}

	if len(report.Agents) != 2 {
		t.Fatalf("expected 2 agent buckets, got %d", len(report.Agents))
	}

	// Alice has the most completed calls, so she sorts first
	alice := report.Agents[0]
	if alice.AgentName != "Alice" {
		t.Fatalf("expected Alice first, got %s", alice.AgentName)
	}
	if alice.InboundCalls != 1 || alice.OutboundCalls != 1 || alice.CompletedCalls != 2 {
		t.Errorf("unexpected Alice counts: %+v", alice)
	}
	if alice.TotalDurationMin != 3.0 {
		t.Errorf("expected 3.0 total minutes, got %v", alice.TotalDurationMin)
	}
	if alice.AvgDurationMin != 1.5 {
		t.Errorf("expected 1.5 avg minutes, got %v", alice.AvgDurationMin)
	}
	if alice.CallsByDay["2024-03-04"] != 1 || alice.CallsByDay["2024-03-05"] != 1 {
		t.Errorf("unexpected calls by day: %v", alice.CallsByDay)
	}

	bob := report.Agents[1]
	if bob.AgentName != "Bob" || bob.CompletedCalls != 1 || bob.TotalDurationMin != 5.0 {
		t.Errorf("unexpected Bob bucket: %+v", bob)
	}
}

func TestAggregateExcludesNonCompleted(t *testing.T) {
	win := types.Window{
		StartMS: time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local).UnixMilli(),
		EndMS:   time.Date(2024, 3, 4, 23, 0, 0, 0, time.Local).UnixMilli(),
	}
	ambiguous := types.CanonicalCall{
		Status: types.StatusAmbiguous,
		Call: types.RawCall{
			CallID:   "a1",
			Target:   &types.Target{Type: types.TargetTypeUser, ID: "101"},
			Duration: 15_000,
		},
	}

	agg := NewAggregator(testRoster(), zerolog.Nop())
	report := agg.Aggregate([]types.CanonicalCall{ambiguous}, 1, win)

	if len(report.Agents) != 0 {
		t.Errorf("ambiguous call must not reach per-agent metrics, got %d buckets", len(report.Agents))
	}
	if report.TotalCompletedCalls != 0 || report.MissedCalls != 1 || report.TotalCalls != 1 {
		t.Errorf("unexpected totals: %+v", report)
	}
}

func TestCallDateSubstitutesNowOnBadTimestamp(t *testing.T) {
	fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)
	agg := NewAggregator(testRoster(), zerolog.Nop())
	agg.clock = func() time.Time { return fixed }

	// second-scale epoch must not silently pass as milliseconds
	leg := types.RawCall{DateStarted: types.FlexInt64(1_700_000_000)}
	if got := agg.callDate(leg); got != "2024-03-15" {
		t.Errorf("expected substitution with now, got %s", got)
	}

	ok := types.RawCall{DateStarted: types.FlexInt64(time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local).UnixMilli())}
	if got := agg.callDate(ok); got != "2024-03-04" {
		t.Errorf("expected real date, got %s", got)
	}
}
