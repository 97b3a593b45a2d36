// Copyright 2025 LNP/BP RGB Contributors
//
// Validation API Handlers
// HTTP surface over pkg/validation: submit a consignment, get back a
// verdict and status report.

package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/lnp-bp/rgb-validation-core/pkg/consignment"
	"github.com/lnp-bp/rgb-validation-core/pkg/metrics"
	"github.com/lnp-bp/rgb-validation-core/pkg/validation"
)

// maxConsignmentBytes bounds a single POST /api/v1/validate body.
const maxConsignmentBytes = 64 << 20

// ValidateHandlers provides the HTTP surface over the validator: submit
// a consignment, get back a verdict and status report.
type ValidateHandlers struct {
	validator *validation.Validator
	metrics   *metrics.Metrics
	logger    *log.Logger
}

// NewValidateHandlers constructs handlers backed by validator, recording
// outcomes to m.
func NewValidateHandlers(validator *validation.Validator, m *metrics.Metrics, logger *log.Logger) *ValidateHandlers {
	if logger == nil {
		logger = log.New(log.Writer(), "[ValidateAPI] ", log.LstdFlags)
	}
	return &ValidateHandlers{validator: validator, metrics: m, logger: logger}
}

// validateResponse is the JSON shape returned by HandleValidate.
type validateResponse struct {
	RunID    string            `json:"run_id"`
	Validity string            `json:"validity"`
	Status   validation.Status `json:"status"`
}

// HandleValidate handles POST /api/v1/validate. The request body is a
// consignment byte stream in the canonical wire layout (§6); the
// response reports the derived Validity and full Status.
func (h *ValidateHandlers) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "only POST is allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxConsignmentBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "BODY_TOO_LARGE", err.Error())
		return
	}

	mem, err := consignment.ReadFrom(body)
	if err != nil {
		h.metrics.ObserveDecodeFailure()
		h.writeError(w, http.StatusBadRequest, "BAD_CONSIGNMENT", err.Error())
		return
	}

	stop := h.metrics.Timer()
	run := validation.RunValidation(r.Context(), h.validator, consignment.NewChecked(mem))
	stop()
	h.metrics.ObserveValidation(run.Validity.String())

	h.writeJSON(w, http.StatusOK, validateResponse{
		RunID:    run.ID.String(),
		Validity: run.Validity.String(),
		Status:   run.Status,
	})
}

// HandleHealthz handles GET /healthz, a liveness probe carrying no
// dependency checks: the validator holds no external connections of its
// own (resolver I/O happens per-request).
func (h *ValidateHandlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ValidateHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("error encoding response: %v", err)
	}
}

func (h *ValidateHandlers) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
