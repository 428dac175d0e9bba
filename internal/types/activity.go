package types

// AgentActivity is one agent's roll-up over a reporting window. Only
// completed calls contribute; missed calls are reported window-wide.
type AgentActivity struct {
	AgentID          string         `json:"agent_id"`
	AgentName        string         `json:"agent_name"`
	InboundCalls     int            `json:"inbound_calls"`
	OutboundCalls    int            `json:"outbound_calls"`
	CompletedCalls   int            `json:"completed_calls"`
	TotalDurationMin float64        `json:"total_duration_minutes"`
	AvgDurationMin   float64        `json:"avg_duration_minutes"`
	CallsByDay       map[string]int `json:"calls_by_day"`
}

// ActivityReport is the full agent-activity payload for a window
type ActivityReport struct {
	Agents              []AgentActivity `json:"agents"`
	TotalCompletedCalls int             `json:"total_completed_calls"`
	MissedCalls         int             `json:"missed_calls"`
	TotalCalls          int             `json:"total_calls"`
	PeriodDays          int             `json:"period_days"`
	FromDate            string          `json:"from_date"`
	ToDate              string          `json:"to_date"`
}

// CallStats summarizes the canonical call set behind a calls listing
type CallStats struct {
	TotalCount     int `json:"total_count"`
	InboundCount   int `json:"inbound_count"`
	OutboundCount  int `json:"outbound_count"`
	MissedCount    int `json:"missed_count"`
	CompletedCount int `json:"completed_count"`
}

// DateRange echoes the resolved window back to the caller
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CallsReport is the full calls-listing payload for a window
type CallsReport struct {
	Calls     []RawCall `json:"calls"`
	Stats     CallStats `json:"stats"`
	Days      int       `json:"days"`
	DateRange DateRange `json:"date_range"`
}
