package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/partsline/opsconsole/internal/metrics"
	"github.com/partsline/opsconsole/internal/vin"
	"github.com/rs/zerolog"
)

// VINDecoder resolves a VIN against the government decoder
type VINDecoder interface {
	Decode(ctx context.Context, code string) (*vin.DecodeResult, error)
}

// VINHandler exposes the VIN decoder front-end
type VINHandler struct {
	decoder VINDecoder
	logger  zerolog.Logger
}

// NewVINHandler creates a new VINHandler
func NewVINHandler(decoder VINDecoder, logger zerolog.Logger) *VINHandler {
	return &VINHandler{
		decoder: decoder,
		logger:  logger.With().Str("component", "vin_handler").Logger(),
	}
}

// GetVIN decodes one VIN
// GET /vin/{vin}
func (h *VINHandler) GetVIN(w http.ResponseWriter, r *http.Request) {
	vinCode := chi.URLParam(r, "vin")
	if vinCode == "" {
		writeError(w, http.StatusBadRequest, "vin is required")
		return
	}

	result, err := h.decoder.Decode(r.Context(), vinCode)
	if err != nil {
		h.logger.Error().Err(err).Str("vin", vinCode).Msg("vin decode failed")
		writeError(w, http.StatusBadGateway, "vin decoder unavailable")
		metrics.Get().RecordHTTPRequest("/vin", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"vehicle": result,
	})
	metrics.Get().RecordHTTPRequest("/vin", http.StatusOK)
}
