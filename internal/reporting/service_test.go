package reporting

import (
	"context"
	"testing"

	"github.com/partsline/opsconsole/internal/types"
	"github.com/rs/zerolog"
)

type stubFetcher struct {
	department []types.RawCall
	agents     []types.RawCall
}

func (s *stubFetcher) FetchDepartmentCalls(_ context.Context, _ types.Window, _ int) []types.RawCall {
	return s.department
}

func (s *stubFetcher) FetchAgentCalls(_ context.Context, _ types.Window, _ int) []types.RawCall {
	return s.agents
}

func rawLeg(callID, entryID, agentID string) types.RawCall {
	connected := types.FlexInt64(1_699_999_930_000)
	return types.RawCall{
		CallID:           types.FlexID(callID),
		EntryPointCallID: types.FlexID(entryID),
		Direction:        types.DirectionInbound,
		Target:           &types.Target{Type: types.TargetTypeUser, ID: types.FlexID(agentID)},
		DateStarted:      types.FlexInt64(1_699_999_920_000),
		DateConnected:    &connected,
		Duration:         60_000,
	}
}

func legs(entryIDs ...string) []types.RawCall {
	out := make([]types.RawCall, 0, len(entryIDs))
	for i, id := range entryIDs {
		out = append(out, rawLeg("c-"+id+string(rune('a'+i)), id, "101"))
	}
	return out
}

func TestArbitrationPrefersLargerSet(t *testing.T) {
	fetcher := &stubFetcher{
		department: legs("E1", "E2"),
		agents:     legs("E1", "E2", "E3"),
	}

	svc := NewService(fetcher, testRoster(), zerolog.Nop())
	win := types.Window{StartMS: 1_699_900_000_000, EndMS: 1_700_000_000_000}

	report := svc.Calls(context.Background(), win, 2)
	if report.Stats.TotalCount != 3 {
		t.Errorf("expected per-agent set (3 calls) to win, got %d", report.Stats.TotalCount)
	}
}

func TestArbitrationTieGoesToDepartment(t *testing.T) {
	dept := legs("E1", "E2")
	// distinguish the sets by call ids
	agents := []types.RawCall{rawLeg("agent-x", "E8", "101"), rawLeg("agent-y", "E9", "101")}

	fetcher := &stubFetcher{department: dept, agents: agents}
	svc := NewService(fetcher, testRoster(), zerolog.Nop())
	win := types.Window{StartMS: 1_699_900_000_000, EndMS: 1_700_000_000_000}

	report := svc.Calls(context.Background(), win, 2)
	if report.Stats.TotalCount != 2 {
		t.Fatalf("expected 2 calls, got %d", report.Stats.TotalCount)
	}
	for _, c := range report.Calls {
		if c.CallID == "agent-x" || c.CallID == "agent-y" {
			t.Fatalf("tie must go to the department set, got survivor %s", c.CallID)
		}
	}
}

func TestArbitrationIsMonotone(t *testing.T) {
	base := legs("E1", "E2")
	superset := append(legs("E1", "E2"), rawLeg("extra", "E3", "102"))

	small := &stubFetcher{department: base, agents: nil}
	big := &stubFetcher{department: base, agents: superset}

	win := types.Window{StartMS: 1_699_900_000_000, EndMS: 1_700_000_000_000}

	smallReport := NewService(small, testRoster(), zerolog.Nop()).Calls(context.Background(), win, 2)
	bigReport := NewService(big, testRoster(), zerolog.Nop()).Calls(context.Background(), win, 2)

	if bigReport.Stats.TotalCount < smallReport.Stats.TotalCount {
		t.Errorf("feeding a superset decreased the chosen cardinality: %d -> %d",
			smallReport.Stats.TotalCount, bigReport.Stats.TotalCount)
	}
}

func TestAgentActivityEndToEnd(t *testing.T) {
	missedLeg := types.RawCall{
		CallID:           "m1",
		EntryPointCallID: "E4",
		Direction:        types.DirectionInbound,
		Target:           &types.Target{Type: types.TargetTypeUser, ID: "102"},
		DateStarted:      types.FlexInt64(1_699_999_920_000),
	}

	fetcher := &stubFetcher{
		department: append(legs("E1", "E2"), missedLeg),
	}
	svc := NewService(fetcher, testRoster(), zerolog.Nop())
	win := types.Window{StartMS: 1_699_900_000_000, EndMS: 1_700_000_000_000}

	activity := svc.AgentActivity(context.Background(), win, 2)

	if activity.TotalCompletedCalls != 2 {
		t.Errorf("expected 2 completed, got %d", activity.TotalCompletedCalls)
	}
	if activity.MissedCalls != 1 {
		t.Errorf("expected 1 missed, got %d", activity.MissedCalls)
	}
	if activity.TotalCalls != 3 {
		t.Errorf("expected 3 total, got %d", activity.TotalCalls)
	}
	if len(activity.Agents) != 1 || activity.Agents[0].AgentName != "Alice" || activity.Agents[0].CompletedCalls != 2 {
		t.Errorf("unexpected agent buckets: %+v", activity.Agents)
	}
}
