package reporting

import (
	"math"
	"sort"
	"time"

	"github.com/partsline/opsconsole/internal/types"
	"github.com/rs/zerolog"
)

// Aggregator rolls canonical calls into per-agent metrics over a window
type Aggregator struct {
	roster *types.Roster
	clock  func() time.Time
	logger zerolog.Logger
}

// NewAggregator creates an aggregator over the known-agent roster
func NewAggregator(roster *types.Roster, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		roster: roster,
		clock:  time.Now,
		logger: logger.With().Str("component", "aggregator").Logger(),
	}
}

// Aggregate builds the activity report for one window. Only completed calls
// contribute to per-agent metrics; missed and ambiguous calls are carried as
// the window-wide missed count. Unresolvable answering agents still count
// toward the window totals but produce no per-agent bucket.
func (a *Aggregator) Aggregate(calls []types.CanonicalCall, missedCalls int, win types.Window) types.ActivityReport {
	buckets := make(map[string]*types.AgentActivity)
	completed := 0

	for _, c := range calls {
		if c.Status != types.StatusCompleted {
			continue
		}
		completed++

		agent, ok := a.resolveAgent(c.Call)
		if !ok {
			continue
		}

		b := buckets[agent.ID]
		if b == nil {
			b = &types.AgentActivity{
				AgentID:    agent.ID,
				AgentName:  agent.Name,
				CallsByDay: make(map[string]int),
			}
			buckets[agent.ID] = b
		}

		switch c.Call.Direction {
		case types.DirectionInbound:
			b.InboundCalls++
		case types.DirectionOutbound:
			b.OutboundCalls++
		}
		b.CompletedCalls++
		b.TotalDurationMin = round1(b.TotalDurationMin + durationMinutes(c.Call))
		b.CallsByDay[a.callDate(c.Call)]++
	}

	agents := make([]types.AgentActivity, 0, len(buckets))
	for _, b := range buckets {
		if b.CompletedCalls > 0 {
			b.AvgDurationMin = round1(b.TotalDurationMin / float64(b.CompletedCalls))
		}
		agents = append(agents, *b)
	}
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].CompletedCalls != agents[j].CompletedCalls {
			return agents[i].CompletedCalls > agents[j].CompletedCalls
		}
		return agents[i].AgentName < agents[j].AgentName
	})

	return types.ActivityReport{
		Agents:              agents,
		TotalCompletedCalls: completed,
		MissedCalls:         missedCalls,
		TotalCalls:          completed + missedCalls,
		PeriodDays:          PeriodDays(win),
		FromDate:            FormatDate(win.StartMS),
		ToDate:              FormatDate(win.EndMS),
	}
}

// resolveAgent maps a surviving leg to a roster agent
func (a *Aggregator) resolveAgent(leg types.RawCall) (types.Agent, bool) {
	if leg.Target != nil {
		if agent, ok := a.roster.ByID(string(leg.Target.ID)); ok {
			return agent, true
		}
	}
	if leg.AgentName != "" {
		if agent, ok := a.roster.ByName(leg.AgentName); ok {
			return agent, true
		}
	}
	return types.Agent{}, false
}

// callDate converts date_started to a local report date, substituting the
// current day when the value is missing or not millisecond-scale.
func (a *Aggregator) callDate(leg types.RawCall) string {
	ms := int64(leg.DateStarted)
	if ms < minPlausibleMS {
		return a.clock().Local().Format(DateLayout)
	}
	return FormatDate(ms)
}

// minPlausibleMS mirrors the dedup-side guard against second-scale epochs
const minPlausibleMS = 100_000_000_000

func durationMinutes(leg types.RawCall) float64 {
	return round1(float64(leg.Duration) / 60_000)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
