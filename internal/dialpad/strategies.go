package dialpad

import (
	"context"

	"github.com/partsline/opsconsole/internal/types"
)

// Fetcher enumerates raw call records for a reporting window. The two methods
// correspond to the two upstream enumeration strategies; both are attempted
// per reporting request and each misses different provider edge cases.
type Fetcher struct {
	client       *Client
	departmentID string
	roster       *types.Roster
}

// NewFetcher creates a fetcher bound to a department and agent roster
func NewFetcher(client *Client, departmentID string, roster *types.Roster) *Fetcher {
	return &Fetcher{
		client:       client,
		departmentID: departmentID,
		roster:       roster,
	}
}

// FetchDepartmentCalls returns the window's records enumerated via the
// department target.
func (f *Fetcher) FetchDepartmentCalls(ctx context.Context, win types.Window, maxPages int) []types.RawCall {
	return f.client.FetchCalls(ctx, types.TargetTypeDepartment, f.departmentID, win, maxPages)
}

// FetchAgentCalls returns the union of the window's records enumerated per
// known agent. Each record is stamped with the agent's display name and id as
// a fallback identity for legs whose target reference is missing or mangled.
// Pages within an agent's fetch stay strictly sequential.
func (f *Fetcher) FetchAgentCalls(ctx context.Context, win types.Window, maxPages int) []types.RawCall {
	var all []types.RawCall
	for _, agent := range f.roster.Agents() {
		records := f.client.FetchCalls(ctx, types.TargetTypeUser, agent.ID, win, maxPages)
		for i := range records {
			if records[i].AgentID == "" {
				records[i].AgentID = agent.ID
			}
			if records[i].AgentName == "" {
				records[i].AgentName = agent.Name
			}
		}
		all = append(all, records...)
	}
	return all
}
