package handlers

import (
	"net/http"
	"time"

	"github.com/gatherhub/server/internal/api/middleware"
	"github.com/gatherhub/server/internal/api/pagination"
	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain/events"
	"github.com/gatherhub/server/internal/domain/ids"
	"github.com/gatherhub/server/internal/metrics"
)

// EventsHandler serves the /api/v1/events surface. Every route runs behind
// RequireIdentity and RequireUser, so an actor is always available.
type EventsHandler struct {
	service *events.Service
}

func NewEventsHandler(service *events.Service) *EventsHandler {
	return &EventsHandler{service: service}
}

type userSummaryResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

type eventResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	StartDate   time.Time             `json:"startDate"`
	EndDate     time.Time             `json:"endDate"`
	Location    string                `json:"location"`
	Visibility  string                `json:"visibility"`
	CreatedBy   userSummaryResponse   `json:"createdBy"`
	Attendees   []userSummaryResponse `json:"attendees"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

type eventListResponse struct {
	Events     []eventResponse `json:"events"`
	Pagination pagination.Meta `json:"pagination"`
}

func toUserSummary(u events.UserSummary) userSummaryResponse {
	return userSummaryResponse{ID: u.ID, DisplayName: u.DisplayName, Email: u.Email}
}

func toEventResponse(e events.Event) eventResponse {
	attendees := make([]userSummaryResponse, 0, len(e.Attendees))
	for _, attendee := range e.Attendees {
		attendees = append(attendees, toUserSummary(attendee))
	}
	return eventResponse{
		ID:          e.ULID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Location:    e.Location,
		Visibility:  string(e.Visibility),
		CreatedBy:   toUserSummary(e.CreatedBy),
		Attendees:   attendees,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// eventID validates the {id} path value. A malformed ULID cannot name any
// event, so it is reported as not-found without touching the database.
func eventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if err := ids.ValidateULID(id); err != nil {
		problem.Write(w, r, http.StatusNotFound, "not-found", "Event not found", err, envFromRequest(r))
		return "", false
	}
	return id, true
}

// List handles GET /api/v1/events.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.Actor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized", problem.ErrUnauthorized, envFromRequest(r))
		return
	}

	filters, page, err := events.ParseListParams(r.URL.Query())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := h.service.List(r.Context(), actor, filters, page)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	items := make([]eventResponse, 0, len(result.Events))
	for _, event := range result.Events {
		items = append(items, toEventResponse(event))
	}

	respondJSON(w, http.StatusOK, eventListResponse{
		Events:     items,
		Pagination: result.Pagination,
	})
}

// Get handles GET /api/v1/events/{id}.
func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.Actor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized", problem.ErrUnauthorized, envFromRequest(r))
		return
	}

	id, ok := eventID(w, r)
	if !ok {
		return
	}

	event, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toEventResponse(*event))
}

// Create handles POST /api/v1/events.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.Actor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized", problem.ErrUnauthorized, envFromRequest(r))
		return
	}

	var input events.EventInput
	if !decodeJSON(w, r, &input) {
		return
	}

	event, err := h.service.Create(r.Context(), actor, input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	metrics.EventsCreatedTotal.Inc()
	respondJSON(w, http.StatusCreated, toEventResponse(*event))
}

// Update handles PUT /api/v1/events/{id}.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.Actor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized", problem.ErrUnauthorized, envFromRequest(r))
		return
	}

	id, ok := eventID(w, r)
	if !ok {
		return
	}

	var input events.UpdateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	event, err := h.service.Update(r.Context(), actor, id, input)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toEventResponse(*event))
}

// Delete handles DELETE /api/v1/events/{id}.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.Actor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized", problem.ErrUnauthorized, envFromRequest(r))
		return
	}

	id, ok := eventID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleAttendance handles POST /api/v1/events/{id}/attend. The same call
// joins or leaves depending on current membership.
func (h *EventsHandler) ToggleAttendance(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.Actor(r)
	if !ok {
		problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized", problem.ErrUnauthorized, envFromRequest(r))
		return
	}

	id, ok := eventID(w, r)
	if !ok {
		return
	}

	event, err := h.service.ToggleAttendance(r.Context(), actor, id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	direction := "left"
	if event.HasAttendee(actor.ID) {
		direction = "joined"
	}
	metrics.AttendanceTogglesTotal.WithLabelValues(direction).Inc()

	respondJSON(w, http.StatusOK, toEventResponse(*event))
}
