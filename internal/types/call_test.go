package types

import (
	"encoding/json"
	"testing"
)

func TestRawCallTolerantDecoding(t *testing.T) {
	tests := []struct {
		name         string
		payload      string
		wantDuration float64
		wantStarted  int64
		wantID       string
	}{
		{
			name:         "integer duration",
			payload:      `{"call_id": 12345, "duration": 15000, "date_started": 1699999920000}`,
			wantDuration: 15000,
			wantStarted:  1699999920000,
			wantID:       "12345",
		},
		{
			name:         "numeric string duration",
			payload:      `{"call_id": "c1", "duration": "15000", "date_started": "1699999920000"}`,
			wantDuration: 15000,
			wantStarted:  1699999920000,
			wantID:       "c1",
		},
		{
			name:         "scientific notation string",
			payload:      `{"call_id": "c1", "duration": "1.5e4"}`,
			wantDuration: 15000,
			wantID:       "c1",
		},
		{
			name:         "float duration",
			payload:      `{"call_id": "c1", "duration": 15000.7}`,
			wantDuration: 15000.7,
			wantID:       "c1",
		},
		{
			name:         "garbage duration decodes to zero",
			payload:      `{"call_id": "c1", "duration": "about a minute"}`,
			wantDuration: 0,
			wantID:       "c1",
		},
		{
			name:         "null fields decode to zero",
			payload:      `{"call_id": "c1", "duration": null, "date_started": null}`,
			wantDuration: 0,
			wantStarted:  0,
			wantID:       "c1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r RawCall
			if err := json.Unmarshal([]byte(tt.payload), &r); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if float64(r.Duration) != tt.wantDuration {
				t.Errorf("expected duration %v, got %v", tt.wantDuration, float64(r.Duration))
			}
			if int64(r.DateStarted) != tt.wantStarted {
				t.Errorf("expected date_started %d, got %d", tt.wantStarted, int64(r.DateStarted))
			}
			if string(r.CallID) != tt.wantID {
				t.Errorf("expected call_id %s, got %s", tt.wantID, r.CallID)
			}
		})
	}
}

func TestConnectedUsesPresenceNotValue(t *testing.T) {
	var r RawCall
	if err := json.Unmarshal([]byte(`{"call_id":"c1","date_connected":0}`), &r); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !r.Connected() {
		t.Error("expected presence of date_connected to mark the leg connected")
	}

	var absent RawCall
	if err := json.Unmarshal([]byte(`{"call_id":"c1","duration":15000}`), &absent); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if absent.Connected() {
		t.Error("expected missing date_connected to mean not connected")
	}
}

func TestRosterLookups(t *testing.T) {
	r := NewRoster([]Agent{
		{ID: "101", Name: "Alice"},
		{ID: "102", Name: "Bob"},
	})

	if a, ok := r.ByID("101"); !ok || a.Name != "Alice" {
		t.Errorf("expected Alice by id, got %v %v", a, ok)
	}
	if a, ok := r.ByName("Bob"); !ok || a.ID != "102" {
		t.Errorf("expected Bob by name, got %v %v", a, ok)
	}
	if _, ok := r.ByID("999"); ok {
		t.Error("expected unknown id to miss")
	}
	if r.Len() != 2 {
		t.Errorf("expected 2 agents, got %d", r.Len())
	}
}
