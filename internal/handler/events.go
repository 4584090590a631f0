package handler

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/enum"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/format"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/table"
)

// Realtime event types on the events topic.
const (
	EventLiveEventCreated = "event.created"
	EventLiveEventUpdated = "event.updated"
	EventLiveEventDeleted = "event.deleted"
)

// EventStore defines the remote API methods needed by live event handlers.
// Satisfied by *backend.Client; narrow interface for testability.
type EventStore interface {
	ListEvents(ctx context.Context) ([]model.LiveEvent, error)
	GetEvent(ctx context.Context, id string) (*model.LiveEvent, error)
	CreateEvent(ctx context.Context, e *model.LiveEvent) (*model.LiveEvent, error)
	UpdateEvent(ctx context.Context, id string, e *model.LiveEvent) (*model.LiveEvent, error)
	DeleteEvent(ctx context.Context, id string) error
}

var eventTable = table.New(listPageSize,
	[]table.Column[model.LiveEvent]{
		{Name: "name", Value: func(e model.LiveEvent) string { return e.Name }},
		{Name: "host_name", Value: func(e model.LiveEvent) string { return e.HostName }},
		{Name: "host_email", Value: func(e model.LiveEvent) string { return e.HostEmail }},
		{Name: "status", Value: func(e model.LiveEvent) string { return e.Status }},
		{Name: "starts_at", Value: func(e model.LiveEvent) string { return e.StartsAt.UTC().Format(time.RFC3339) }},
	},
	[]string{"name", "host_name", "host_email"},
	[]string{"status"},
)

// EventHandler handles live event CRUD endpoints.
type EventHandler struct {
	store EventStore
	hub   Broadcaster
}

// NewEventHandler creates a new EventHandler. hub may be nil.
func NewEventHandler(store EventStore, hub Broadcaster) *EventHandler {
	return &EventHandler{store: store, hub: hub}
}

// RegisterRoutes registers live event endpoints on the given Chi router.
// Expected to be mounted at /admin/events.
func (h *EventHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// --- Request / Response types ---

type eventRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	HostName    string    `json:"host_name" validate:"required"`
	HostEmail   string    `json:"host_email" validate:"required,email"`
	Link        string    `json:"link" validate:"omitempty,url"`
	Status      string    `json:"status" validate:"omitempty,oneof=SCHEDULED LIVE ENDED CANCELLED"`
}

type eventRow struct {
	model.LiveEvent
	Badge  string `json:"badge"`
	Starts string `json:"starts"`
	Ends   string `json:"ends"`
}

func toEventRow(e model.LiveEvent) eventRow {
	return eventRow{
		LiveEvent: e,
		Badge:     format.BadgeColor(e.Status),
		Starts:    format.Date(e.StartsAt),
		Ends:      format.Date(e.EndsAt),
	}
}

func (req eventRequest) toModel() *model.LiveEvent {
	status := req.Status
	if status == "" {
		status = enum.EventStatusScheduled
	}
	return &model.LiveEvent{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		HostName:    strings.TrimSpace(req.HostName),
		HostEmail:   strings.TrimSpace(req.HostEmail),
		Link:        strings.TrimSpace(req.Link),
		Status:      status,
	}
}

// upcomingEvents returns up to n scheduled events starting after now,
// soonest first.
func upcomingEvents(events []model.LiveEvent, now time.Time, n int) []model.LiveEvent {
	var out []model.LiveEvent
	for _, e := range events {
		if e.Status == enum.EventStatusScheduled && e.StartsAt.After(now) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// --- Handlers ---

// List returns one page of live events with search, filter and sort applied.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListEvents(r.Context())
	if err != nil {
		writeError(w, r, "event", err)
		return
	}
	listPage(w, r, eventTable, events, toEventRow)
}

// Get returns a single live event.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "event", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Create validates and writes a new live event.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.store.CreateEvent(r.Context(), req.toModel())
	if err != nil {
		writeError(w, r, "event", err)
		return
	}
	notify(h.hub, enum.TopicEvents, EventLiveEventCreated, created)
	writeJSON(w, http.StatusCreated, created)
}

// Update validates and writes the whole live event back.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	e := req.toModel()
	e.ID = id
	updated, err := h.store.UpdateEvent(r.Context(), id, e)
	if err != nil {
		writeError(w, r, "event", err)
		return
	}
	notify(h.hub, enum.TopicEvents, EventLiveEventUpdated, updated)
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a live event.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteEvent(r.Context(), id); err != nil {
		writeError(w, r, "event", err)
		return
	}
	notify(h.hub, enum.TopicEvents, EventLiveEventDeleted, map[string]string{"id": id})
	w.WriteHeader(http.StatusNoContent)
}
