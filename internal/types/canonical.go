package types

// CallStatus classifies a canonical call after deduplication
type CallStatus string

const (
	// StatusCompleted means at least one leg of the group was answered by a
	// human (date_connected present on the surviving leg).
	StatusCompleted CallStatus = "completed"
	// StatusMissed means no leg connected and no leg accumulated duration
	StatusMissed CallStatus = "missed"
	// StatusAmbiguous means no leg connected but the provider reports nonzero
	// duration: the system held the call without a human picking up. Counted
	// as missed for reporting purposes.
	StatusAmbiguous CallStatus = "ambiguous"
	// StatusHandledElsewhere is never stored on a canonical call. It is the
	// per-agent projection of a completed call that rang at the agent but was
	// answered by somebody else.
	StatusHandledElsewhere CallStatus = "handled_elsewhere"
)

// Sentinel answering-agent names. AnsweringAgent is always a known agent's
// display name or one of these; it is never an identifier.
const (
	AgentNobody  = "Nobody"
	AgentUnknown = "Unknown"
)

// CanonicalCall is the single post-dedup record representing one real-world
// call. It carries the surviving leg so all display fields stay available.
type CanonicalCall struct {
	Call           RawCall    `json:"call"`
	Status         CallStatus `json:"status"`
	AnsweringAgent string     `json:"answering_agent"`
	// RoutedToAgents lists the known agents the call also rang at when it was
	// answered. AffectedAgents lists the known agents who shared a missed or
	// ambiguous call.
	RoutedToAgents []string `json:"routed_to_agents,omitempty"`
	AffectedAgents []string `json:"affected_agents,omitempty"`
}
