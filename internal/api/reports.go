package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/partsline/opsconsole/internal/metrics"
	"github.com/partsline/opsconsole/internal/reporting"
	"github.com/partsline/opsconsole/internal/types"
	"github.com/rs/zerolog"
)

const defaultDaysBack = 7

// ReportService is the call-activity core behind the reporting endpoints
type ReportService interface {
	AgentActivity(ctx context.Context, win types.Window, maxPages int) types.ActivityReport
	Calls(ctx context.Context, win types.Window, maxPages int) types.CallsReport
}

// ReportHandler provides the REST endpoints of the call-reporting surface
type ReportHandler struct {
	service         ReportService
	defaultMaxPages int
	clock           func() time.Time
	logger          zerolog.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service ReportService, defaultMaxPages int, logger zerolog.Logger) *ReportHandler {
	if defaultMaxPages <= 0 {
		defaultMaxPages = 2
	}
	return &ReportHandler{
		service:         service,
		defaultMaxPages: defaultMaxPages,
		clock:           time.Now,
		logger:          logger.With().Str("component", "report_handler").Logger(),
	}
}

// GetAgentActivity returns per-agent metrics for a window
// GET /agent-activity?start_date=&end_date= | ?days=N, plus max_pages
func (h *ReportHandler) GetAgentActivity(w http.ResponseWriter, r *http.Request) {
	win, maxPages, err := h.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		metrics.Get().RecordHTTPRequest("/agent-activity", http.StatusBadRequest)
		return
	}

	activity := h.service.AgentActivity(r.Context(), win, maxPages)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"activity": activity,
	})
	metrics.Get().RecordHTTPRequest("/agent-activity", http.StatusOK)
}

// GetCalls returns the raw call listing with window stats
// GET /calls — same query surface as /agent-activity
func (h *ReportHandler) GetCalls(w http.ResponseWriter, r *http.Request) {
	win, maxPages, err := h.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		metrics.Get().RecordHTTPRequest("/calls", http.StatusBadRequest)
		return
	}

	report := h.service.Calls(r.Context(), win, maxPages)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"calls":      report.Calls,
		"stats":      report.Stats,
		"days":       report.Days,
		"date_range": report.DateRange,
	})
	metrics.Get().RecordHTTPRequest("/calls", http.StatusOK)
}

// parseQuery resolves the reporting window and page budget from the request.
// Explicit dates win over days; with neither, the window defaults to the
// trailing week.
func (h *ReportHandler) parseQuery(r *http.Request) (types.Window, int, error) {
	q := r.URL.Query()
	now := h.clock()

	maxPages := h.defaultMaxPages
	if raw := q.Get("max_pages"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return types.Window{}, 0, errors.New("max_pages must be a positive integer")
		}
		maxPages = n
	}

	startDate, endDate := q.Get("start_date"), q.Get("end_date")
	if startDate != "" || endDate != "" {
		if startDate == "" || endDate == "" {
			return types.Window{}, 0, errors.New("start_date and end_date must be supplied together (YYYY-MM-DD)")
		}
		win, err := reporting.ResolveWindow(startDate, endDate, now)
		if err != nil {
			return types.Window{}, 0, err
		}
		return win, maxPages, nil
	}

	days := defaultDaysBack
	if raw := q.Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return types.Window{}, 0, errors.New("days must be an integer")
		}
		days = n
	}
	return reporting.ResolveDaysBack(days, now), maxPages, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}
