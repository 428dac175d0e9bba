// Package dedup collapses raw provider call records into canonical calls.
//
// The provider returns one record per (call, agent) leg: a single inbound
// call that rings five agents arrives as five records. Deduplication picks
// one surviving leg per real-world call, classifies the call, and preserves
// who answered and who merely rang.
package dedup

import (
	"fmt"
	"sort"

	"github.com/partsline/opsconsole/internal/metrics"
	"github.com/partsline/opsconsole/internal/types"
	"github.com/rs/zerolog"
)

// fallbackBucketMS is the time-bucket width used to group records that lack
// an entry-point id: legs of one call ring within a few seconds of each
// other, so three minutes comfortably covers clock skew between legs.
const fallbackBucketMS = 180_000

// minPlausibleMS rejects second-scale epoch values leaking in from other code
// paths. Anything below this is not a millisecond timestamp from this decade.
const minPlausibleMS = 100_000_000_000

// Deduplicator runs one deduplication pass. It carries the missed-call count
// of its last run, so a Deduplicator is constructed per request and never
// shared.
type Deduplicator struct {
	roster      *types.Roster
	logger      zerolog.Logger
	missedCount int
}

// New creates a request-scoped deduplicator
func New(roster *types.Roster, logger zerolog.Logger) *Deduplicator {
	return &Deduplicator{
		roster: roster,
		logger: logger.With().Str("component", "dedup").Logger(),
	}
}

// Run deduplicates one strategy's raw records into canonical calls. Exactly
// one canonical call is produced per distinct real-world call; the surviving
// leg is chosen so that an answered call always survives through a connected
// leg, preferring known agents and, among those, the longest duration.
func (d *Deduplicator) Run(raws []types.RawCall) []types.CanonicalCall {
	legs := filterAgentLegs(raws)
	groups := groupLegs(legs)

	out := make([]types.CanonicalCall, 0, len(groups))
	d.missedCount = 0

	for _, g := range groups {
		c := d.resolveGroup(g)
		if c.Status == types.StatusMissed || c.Status == types.StatusAmbiguous {
			d.missedCount++
		}
		out = append(out, c)
	}

	metrics.Get().RecordDedupRun(len(raws), len(out))
	d.logger.Debug().
		Int("raw_records", len(raws)).
		Int("agent_legs", len(legs)).
		Int("canonical_calls", len(out)).
		Int("missed", d.missedCount).
		Msg("dedup pass complete")

	return out
}

// MissedCount returns the number of missed plus ambiguous calls seen by the
// last Run.
func (d *Deduplicator) MissedCount() int {
	return d.missedCount
}

// filterAgentLegs drops records that are not user-target legs. Department and
// other non-user targets are internal routing artifacts.
func filterAgentLegs(raws []types.RawCall) []types.RawCall {
	legs := make([]types.RawCall, 0, len(raws))
	for _, r := range raws {
		if r.Target == nil || r.Target.Type != types.TargetTypeUser {
			continue
		}
		legs = append(legs, r)
	}
	return legs
}

type group struct {
	key  string
	legs []types.RawCall
}

// groupLegs partitions legs into real-world calls, preserving first-seen
// order for deterministic output.
//
// Legs carrying an entry-point id group by that id. Id-less legs fall back to
// a (customer phone, direction, three-minute bucket) key; id-bearing legs
// never join a fallback bucket even when the phone and bucket match. Legs
// with neither an id nor usable fallback fields become singletons.
func groupLegs(legs []types.RawCall) []group {
	index := make(map[string]int)
	var ordered []group

	add := func(key string, leg types.RawCall) {
		if i, ok := index[key]; ok {
			ordered[i].legs = append(ordered[i].legs, leg)
			return
		}
		index[key] = len(ordered)
		ordered = append(ordered, group{key: key, legs: []types.RawCall{leg}})
	}

	for i, leg := range legs {
		switch {
		case leg.EntryPointCallID != "":
			add("ep|"+string(leg.EntryPointCallID), leg)
		case leg.ContactPhone() != "" && startedMS(leg) > 0:
			bucket := (startedMS(leg) / fallbackBucketMS) * fallbackBucketMS
			add(fmt.Sprintf("fb|%s|%s|%d", leg.ContactPhone(), leg.Direction, bucket), leg)
		case leg.CallID != "":
			add("orphan|"+string(leg.CallID), leg)
		default:
			// no identity at all; still one real-world call
			add(fmt.Sprintf("orphan|idx|%d", i), leg)
		}
	}

	return ordered
}

// resolveGroup picks the surviving leg and classifies the call
func (d *Deduplicator) resolveGroup(g group) types.CanonicalCall {
	var connected []types.RawCall
	anyDuration := false
	for _, leg := range g.legs {
		if leg.Connected() {
			connected = append(connected, leg)
		}
		if leg.Duration > 0 {
			anyDuration = true
		}
	}

	switch {
	case len(connected) > 0:
		survivor := d.pickByDuration(connected)
		return types.CanonicalCall{
			Call:           survivor,
			Status:         types.StatusCompleted,
			AnsweringAgent: d.answeringName(survivor),
			RoutedToAgents: d.otherKnownNames(g.legs, survivor),
		}

	case anyDuration:
		survivor := d.pickByDuration(g.legs)
		return types.CanonicalCall{
			Call:           survivor,
			Status:         types.StatusAmbiguous,
			AnsweringAgent: types.AgentUnknown,
			AffectedAgents: d.otherKnownNames(g.legs, survivor),
		}

	default:
		survivor := d.pickByRecency(g.legs)
		return types.CanonicalCall{
			Call:           survivor,
			Status:         types.StatusMissed,
			AnsweringAgent: types.AgentNobody,
			AffectedAgents: d.otherKnownNames(g.legs, survivor),
		}
	}
}

// pickByDuration prefers known-agent legs, then the longest duration. Ties
// break on call id so repeated runs over the same input agree.
func (d *Deduplicator) pickByDuration(legs []types.RawCall) types.RawCall {
	sorted := make([]types.RawCall, len(legs))
	copy(sorted, legs)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := d.knownName(sorted[i]) != "", d.knownName(sorted[j]) != ""
		if ki != kj {
			return ki
		}
		if sorted[i].Duration != sorted[j].Duration {
			return sorted[i].Duration > sorted[j].Duration
		}
		return sorted[i].CallID < sorted[j].CallID
	})
	return sorted[0]
}

// pickByRecency prefers known-agent legs, then the most recent start
func (d *Deduplicator) pickByRecency(legs []types.RawCall) types.RawCall {
	sorted := make([]types.RawCall, len(legs))
	copy(sorted, legs)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := d.knownName(sorted[i]) != "", d.knownName(sorted[j]) != ""
		if ki != kj {
			return ki
		}
		if startedMS(sorted[i]) != startedMS(sorted[j]) {
			return startedMS(sorted[i]) > startedMS(sorted[j])
		}
		return sorted[i].CallID < sorted[j].CallID
	})
	return sorted[0]
}

// knownName resolves a leg to a known agent's display name, or "". The target
// user id wins; the stamped fallback name from the per-agent fetch is second.
func (d *Deduplicator) knownName(leg types.RawCall) string {
	if leg.Target != nil {
		if a, ok := d.roster.ByID(string(leg.Target.ID)); ok {
			return a.Name
		}
	}
	if leg.AgentName != "" {
		if a, ok := d.roster.ByName(leg.AgentName); ok {
			return a.Name
		}
	}
	return ""
}

// answeringName names the agent on an answered surviving leg. Legs answered
// outside the roster report the Unknown sentinel, never a raw identifier.
func (d *Deduplicator) answeringName(leg types.RawCall) string {
	if name := d.knownName(leg); name != "" {
		return name
	}
	return types.AgentUnknown
}

// otherKnownNames collects known-agent display names of every leg except the
// survivor, deduplicated and sorted.
func (d *Deduplicator) otherKnownNames(legs []types.RawCall, survivor types.RawCall) []string {
	survivorName := d.knownName(survivor)
	seen := make(map[string]bool)
	var names []string
	for _, leg := range legs {
		if leg.CallID == survivor.CallID && leg.CallID != "" {
			continue
		}
		name := d.knownName(leg)
		if name == "" || name == survivorName || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// startedMS returns the leg's start in epoch milliseconds, or 0 when the
// value is missing or not millisecond-scale.
func startedMS(leg types.RawCall) int64 {
	v := int64(leg.DateStarted)
	if v < minPlausibleMS {
		return 0
	}
	return v
}
