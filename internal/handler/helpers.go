package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/backend"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/logger"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/pricing"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/service"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/table"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/validation"
)

// remoteUnavailable is the single message shown for every remote failure
// that is not the shopper's or operator's fault.
const remoteUnavailable = "the shop service is unavailable, please try again later"

// listPageSize is the fixed number of rows per page on every list screen.
const listPageSize = 10

// Broadcaster pushes change notifications to dashboards. Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(topic, eventType string, payload any)
}

type addressRequest struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

func (a addressRequest) toModel() model.Address {
	return model.Address(a)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to encode JSON response", zap.Error(err))
	}
}

// decodeAndValidate reads a JSON body into v and runs its validate tags.
// It writes the 400 response itself and reports whether the caller may go on.
// normalizer is implemented by requests that clean their input before
// validation runs.
type normalizer interface {
	normalize()
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	if n, ok := v.(normalizer); ok {
		n.normalize()
	}
	if fields := validation.Struct(v); fields != nil {
		writeValidation(w, fields)
		return false
	}
	return true
}

func writeValidation(w http.ResponseWriter, fields validation.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

// isValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	return errors.Is(err, pricing.ErrEmptyItems) ||
		errors.Is(err, pricing.ErrInvalidQuantity) ||
		errors.Is(err, pricing.ErrNegativePrice) ||
		errors.Is(err, service.ErrInvalidShippingMethod) ||
		errors.Is(err, service.ErrInvalidPaymentMethod) ||
		errors.Is(err, service.ErrUnknownPolicy)
}

// writeError maps an error from a remote write or read to a response.
// entity names the record for the 404 message, e.g. "order".
func writeError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		writeValidation(w, fields)
		return
	}
	if isValidationError(err) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if errors.Is(err, backend.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": entity + " not found"})
		return
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		writeJSON(w, apiErr.Status, map[string]string{"error": apiErr.Message})
		return
	}

	logger.FromContext(r.Context()).Error("remote request failed",
		zap.String("entity", entity),
		zap.Error(err),
	)
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": remoteUnavailable})
}

// writeTableError answers 400 for a list query naming unknown columns.
func writeTableError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

// listPage applies the list query in r to rows and maps the visible page.
func listPage[T, R any](w http.ResponseWriter, r *http.Request, t *table.Table[T], rows []T, toRow func(T) R) {
	page, err := t.Apply(rows, table.ParseQuery(r.URL.Query()))
	if err != nil {
		writeTableError(w, err)
		return
	}
	items := make([]R, len(page.Items))
	for i, row := range page.Items {
		items[i] = toRow(row)
	}
	writeJSON(w, http.StatusOK, table.Page[R]{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	})
}

func notify(hub Broadcaster, topic, eventType string, payload any) {
	if hub != nil {
		hub.Broadcast(topic, eventType, payload)
	}
}

func normalizeStatus(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
