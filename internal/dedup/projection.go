package dedup

import "github.com/partsline/opsconsole/internal/types"

// ProjectStatus views a canonical call from one agent's perspective. A
// completed call that rang at the agent but was answered by somebody else
// projects to handled_elsewhere; every other combination projects to the
// call's own status. handled_elsewhere exists only at this layer and is never
// stored on the canonical call itself.
func ProjectStatus(c types.CanonicalCall, agentName string) types.CallStatus {
	if c.Status != types.StatusCompleted || agentName == "" || c.AnsweringAgent == agentName {
		return c.Status
	}
	for _, name := range c.RoutedToAgents {
		if name == agentName {
			return types.StatusHandledElsewhere
		}
	}
	return c.Status
}
