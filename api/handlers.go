/*
handlers.go - HTTP API handlers for the commission engine

PURPOSE:
  Exposes the commission service via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to commission.Service.

ENDPOINTS:
  Commissions:
    GET    /api/commissions                 List (?project=&plot=)
    POST   /api/commissions                 Compute and store
    GET    /api/commissions/search          Latest for a plot (?plot_no=&project=)
    GET    /api/commissions/earnings        Top earners per role
                                            (?project=&cgm=&month=YYYY-MM&role=&limit=)
    POST   /api/commissions/preview         Compute without storing
    POST   /api/commissions/preview/statement
                                            Statement of an unsaved calculation
    GET    /api/commissions/{id}            Stored commission with resolved entries
    PUT    /api/commissions/{id}            Recompute and replace
    DELETE /api/commissions/{id}            Remove
    GET    /api/commissions/{id}/statement  Formatted statement

  Health:
    GET    /healthz

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate structure (validator/v10)
  3. Build a SaleInput with the form package
  4. Call the service
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid body, validation errors, bad id, bad earnings filter
  - 404: Commission not found
  - 500: Storage failures

SECURITY NOTE:
  No authentication. created_by is taken from the request body as given.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/plotdesk/commission-engine/commission"
	"github.com/plotdesk/commission-engine/report"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *commission.Service
	Pinger  Pinger

	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates a new handler. pinger may be nil.
func NewHandler(svc *commission.Service, pinger Pinger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.L()
	}
	return &Handler{
		Service:  svc,
		Pinger:   pinger,
		validate: newValidator(),
		logger:   logger.Named("commission.handler"),
		now:      time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// =============================================================================
// COMMISSION HANDLERS
// =============================================================================

// ListCommissions returns commission summaries.
func (h *Handler) ListCommissions(w http.ResponseWriter, r *http.Request) {
	filter := commission.Filter{
		ProjectName: strings.TrimSpace(r.URL.Query().Get("project")),
		PlotNo:      strings.TrimSpace(r.URL.Query().Get("plot")),
	}

	summaries, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]SummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toSummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DefaultEarningsLimit caps the earnings ranking when no CGM is selected.
const DefaultEarningsLimit = 5

// ListEarnings ranks the people who collected commission. Without a limit
// parameter the top DefaultEarningsLimit are returned, or everyone when a
// CGM is selected.
func (h *Handler) ListEarnings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := commission.EarningsFilter{
		ProjectName: strings.TrimSpace(q.Get("project")),
		CGMName:     strings.TrimSpace(q.Get("cgm")),
		Month:       strings.TrimSpace(q.Get("month")),
		Role:        commission.Role(strings.ToLower(strings.TrimSpace(q.Get("role")))),
	}

	switch raw := strings.TrimSpace(q.Get("limit")); {
	case raw != "":
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_FILTER", "limit must be an integer", nil)
			return
		}
		filter.Limit = n
	case filter.CGMName == "":
		filter.Limit = DefaultEarningsLimit
	}

	earnings, err := h.Service.Earnings(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]EarningDTO, len(earnings))
	for i, e := range earnings {
		dtos[i] = toEarningDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCommission computes and stores a commission.
func (h *Handler) CreateCommission(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	view, err := h.Service.Create(r.Context(), req.Build(), strings.TrimSpace(req.CreatedBy))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommissionDTO(view))
}

// GetCommission returns a stored commission with its entries resolved.
func (h *Handler) GetCommission(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	view, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommissionDTO(view))
}

// ReviseCommission recomputes a stored commission from a new form.
func (h *Handler) ReviseCommission(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	view, err := h.Service.Revise(r.Context(), id, req.Build(), strings.TrimSpace(req.CreatedBy))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommissionDTO(view))
}

// DeleteCommission removes a commission and its entries.
func (h *Handler) DeleteCommission(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"deleted": true,
	})
}

// SearchCommission returns the newest commission for a plot.
func (h *Handler) SearchCommission(w http.ResponseWriter, r *http.Request) {
	plotNo := strings.TrimSpace(r.URL.Query().Get("plot_no"))
	if plotNo == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "plot_no is required", nil)
		return
	}
	project := strings.TrimSpace(r.URL.Query().Get("project"))

	view, err := h.Service.Search(r.Context(), plotNo, project)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCommissionDTO(view))
}

// PreviewCommission computes a commission without storing it.
func (h *Handler) PreviewCommission(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toPreviewDTO(h.Service.Preview(req.Build())))
}

// =============================================================================
// STATEMENT HANDLERS
// =============================================================================

// GetStatement returns the formatted statement of a stored commission.
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	view, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report.Build(view, h.now()))
}

// PreviewStatement returns the statement of an unsaved calculation.
func (h *Handler) PreviewStatement(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, report.BuildPreview(h.Service.Preview(req.Build()), h.now()))
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports liveness and, when a pinger is set, store reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Pinger.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unreachable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (*CommissionRequest, bool) {
	var req CommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", err)
		return nil, false
	}

	if err := h.validate.Struct(req); err != nil {
		h.logger.Debug("request validation failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", validationDetails(err))
		return nil, false
	}
	return &req, true
}

// validationDetails maps each failing field to the rule it broke.
func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, commission.ErrInvalidID
	}
	return id, nil
}

// statusFor maps service errors to HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, commission.ErrInvalidFilter):
		return http.StatusBadRequest, "INVALID_FILTER"
	case commission.IsClientError(err):
		return http.StatusBadRequest, "INVALID_ID"
	case commission.IsNotFound(err):
		return http.StatusNotFound, "NOT_FOUND"
	case commission.IsStorage(err):
		return http.StatusInternalServerError, "STORAGE_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("commission request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
		// Storage details stay in the log.
		writeError(w, status, code, "Internal error", nil)
		return
	}
	writeError(w, status, code, err.Error(), nil)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	resp := ErrorResponse{Error: message, Code: code}
	switch d := details.(type) {
	case nil:
	case error:
		resp.Details = d.Error()
	default:
		resp.Details = d
	}
	writeJSON(w, status, resp)
}
