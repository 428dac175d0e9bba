package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Direction of a call leg as reported by the telephony provider
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// TargetType identifies what a call leg was routed to
type TargetType string

const (
	TargetTypeUser       TargetType = "user"
	TargetTypeDepartment TargetType = "department"
)

// FlexID is a provider identifier that may arrive as a JSON string or number
type FlexID string

// UnmarshalJSON accepts both "12345" and 12345
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// FlexFloat64 is a numeric field that may arrive as a number, a numeric
// string, or a string in scientific notation. Values that cannot be parsed
// decode to zero rather than failing the record.
type FlexFloat64 float64

func (f *FlexFloat64) UnmarshalJSON(data []byte) error {
	*f = FlexFloat64(parseFlexFloat(data))
	return nil
}

// FlexInt64 is an epoch-millisecond field with the same tolerance rules
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	*f = FlexInt64(parseFlexFloat(data))
	return nil
}

func parseFlexFloat(data []byte) float64 {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return 0
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Target is the tagged reference a call leg was routed to. Only user targets
// represent agent legs; everything else is a routing artifact.
type Target struct {
	Type TargetType `json:"type"`
	ID   FlexID     `json:"id"`
	Name string     `json:"name,omitempty"`
}

// Contact holds the customer side of a call
type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// RawCall is one provider-returned record: one (call, agent) leg. All legs of
// the same real-world call share EntryPointCallID.
type RawCall struct {
	CallID           FlexID      `json:"call_id"`
	EntryPointCallID FlexID      `json:"entry_point_call_id,omitempty"`
	Direction        Direction   `json:"direction,omitempty"`
	Target           *Target     `json:"target,omitempty"`
	DateStarted      FlexInt64   `json:"date_started,omitempty"`
	DateConnected    *FlexInt64  `json:"date_connected,omitempty"`
	DateRang         *FlexInt64  `json:"date_rang,omitempty"`
	Duration         FlexFloat64 `json:"duration,omitempty"`

	Contact            *Contact        `json:"contact,omitempty"`
	ExternalNumber     string          `json:"external_number,omitempty"`
	InternalNumber     string          `json:"internal_number,omitempty"`
	AdminRecordingURLs []string        `json:"admin_recording_urls,omitempty"`
	RecordingDetails   json.RawMessage `json:"recording_details,omitempty"`

	// Stamped by the per-agent fetch strategy as a fallback identity when the
	// provider omits or mangles the target reference.
	AgentID   string `json:"agent_id,omitempty"`
	AgentName string `json:"agent_name,omitempty"`
}

// Connected reports whether this leg was answered by a human. Presence of
// date_connected is authoritative; duration alone is not.
func (r RawCall) Connected() bool {
	return r.DateConnected != nil
}

// ContactPhone returns the customer phone number, if any
func (r RawCall) ContactPhone() string {
	if r.Contact == nil {
		return ""
	}
	return r.Contact.Phone
}

// Window is an inclusive reporting interval in epoch milliseconds
type Window struct {
	StartMS int64
	EndMS   int64
}
