// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package event provides the HTTP delivery layer for events.

# Security

Discovery endpoints are public. Mutations require the ADMIN role; seat
registration requires any authenticated session.
*/
package event

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nicaa/alumni-api/internal/platform/middleware"
	requestutil "github.com/nicaa/alumni-api/internal/platform/request"
	"github.com/nicaa/alumni-api/internal/platform/respond"
	"github.com/nicaa/alumni-api/internal/platform/sec"
	"github.com/nicaa/alumni-api/internal/platform/validate"
	"github.com/nicaa/alumni-api/pkg/pagination"
)

// Handler implements the HTTP layer for events.
type Handler struct {
	eventService *Service
}

// NewHandler constructs a new event [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{eventService: service}
}

// Routes returns a [chi.Router] configured with the event domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public Discovery
	router.Get("/", handler.listEvents)
	router.Get("/{id}", handler.getEvent)

	// Member Registration
	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAuth)
		router.Post("/{id}/register", handler.registerForEvent)
		router.Delete("/{id}/register", handler.unregisterFromEvent)
	})

	// Administration
	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireRole(sec.RoleAdmin))
		router.Post("/", handler.createEvent)
		router.Put("/{id}", handler.updateEvent)
		router.Delete("/{id}", handler.deleteEvent)
	})

	return router
}

// # Payloads

// eventRequest defines the expected JSON payload for event creation and update.
type eventRequest struct {
	Title                string           `json:"title"`
	ShortDescription     string           `json:"shortDescription"`
	FullDescription      string           `json:"fullDescription"`
	BannerImage          string           `json:"bannerImage"`
	Date                 time.Time        `json:"date"`
	StartsTime           string           `json:"startsTime"`
	Venue                string           `json:"venue"`
	GoogleMapLink        string           `json:"googleMapLink"`
	OrganizerName        string           `json:"organizerName"`
	OrganizerContactInfo string           `json:"organizerContactInfo"`
	SpecialGuests        []string         `json:"specialGuests"`
	IsPaidEvent          bool             `json:"isPaidEvent"`
	PricingRanges        []PricingRange   `json:"pricingRanges"`
	SeatLimit            int              `json:"seatLimit"`
	SocialMediaLinks     SocialMediaLinks `json:"socialMediaLinks"`
	Status               Status           `json:"status"`
	Visibility           Visibility       `json:"visibility"`
}

// validate runs field-level checks shared by create and update.
func (input *eventRequest) validate() error {
	v := &validate.Validator{}
	v.Required("title", input.Title).
		Required("shortDescription", input.ShortDescription).MaxLen("shortDescription", input.ShortDescription, 200).
		Required("fullDescription", input.FullDescription).
		Required("bannerImage", input.BannerImage).
		Required("startsTime", input.StartsTime).
		Required("venue", input.Venue).
		Required("organizerName", input.OrganizerName).
		Required("organizerContactInfo", input.OrganizerContactInfo).
		Range("seatLimit", input.SeatLimit, 1, 1000000)

	v.Custom("date", input.Date.IsZero(), "is required")
	if input.Status != "" {
		v.OneOf("status", string(input.Status),
			string(StatusUpcoming), string(StatusOngoing), string(StatusCompleted))
	}
	if input.Visibility != "" {
		v.OneOf("visibility", string(input.Visibility),
			string(VisibilityPublic), string(VisibilityPrivate), string(VisibilityAlumniOnly))
	}
	for _, tier := range input.PricingRanges {
		v.Required("pricingRanges.batchRange", tier.BatchRange).
			Required("pricingRanges.description", tier.Description)
		v.Custom("pricingRanges.fee", tier.Fee < 0, "must not be negative")
	}

	return v.Err()
}

// toEvent converts the payload into a domain entity prototype.
func (input *eventRequest) toEvent() *Event {
	return &Event{
		Title:                input.Title,
		ShortDescription:     input.ShortDescription,
		FullDescription:      input.FullDescription,
		BannerImage:          input.BannerImage,
		Date:                 input.Date,
		StartsTime:           input.StartsTime,
		Venue:                input.Venue,
		GoogleMapLink:        input.GoogleMapLink,
		OrganizerName:        input.OrganizerName,
		OrganizerContactInfo: input.OrganizerContactInfo,
		SpecialGuests:        input.SpecialGuests,
		IsPaidEvent:          input.IsPaidEvent,
		PricingRanges:        input.PricingRanges,
		SeatLimit:            input.SeatLimit,
		SocialMediaLinks:     input.SocialMediaLinks,
		Status:               input.Status,
		Visibility:           input.Visibility,
	}
}

// # Discovery Endpoints

/*
GET /api/events.

Description: Lists events with optional search, status, visibility and date
range filters plus whitelisted sorting.

Request:
  - search, status, visibility, dateFrom, dateTo, sortBy, sortOrder: string
  - page, limit: int

Response:
  - 200: []Event + Meta: Paginated event listing
  - 400: Validation: Malformed filter values
*/
func (handler *Handler) listEvents(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	filter := ListFilter{
		Search:     query.Get("search"),
		Status:     Status(query.Get("status")),
		Visibility: Visibility(query.Get("visibility")),
		SortBy:     query.Get("sortBy"),
		SortOrder:  query.Get("sortOrder"),
		Pagination: pagination.FromRequest(request),
	}

	v := &validate.Validator{}
	if filter.Status != "" {
		v.OneOf("status", string(filter.Status),
			string(StatusUpcoming), string(StatusOngoing), string(StatusCompleted))
	}
	if filter.Visibility != "" {
		v.OneOf("visibility", string(filter.Visibility),
			string(VisibilityPublic), string(VisibilityPrivate), string(VisibilityAlumniOnly))
	}

	if raw := query.Get("dateFrom"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			v.Custom("dateFrom", true, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
		} else {
			filter.DateFrom = &parsed
		}
	}
	if raw := query.Get("dateTo"); raw != "" {
		parsed, err := parseDateParam(raw)
		if err != nil {
			v.Custom("dateTo", true, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
		} else {
			filter.DateTo = &parsed
		}
	}

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	events, meta, err := handler.eventService.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, events, meta)
}

// parseDateParam accepts either a full timestamp or a bare calendar date.
func parseDateParam(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}

/*
GET /api/events/{id}.

Response:
  - 200: Event: Hydrated event
  - 404: ErrNotFound: Unknown event
*/
func (handler *Handler) getEvent(writer http.ResponseWriter, request *http.Request) {
	event, err := handler.eventService.Get(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

// # Administration Endpoints

/*
POST /api/events.

Description: Creates a new event. Paid events must include pricing ranges.

Response:
  - 201: Event: The persisted event
  - 400: Validation/Pricing: Invalid payload
  - 403: ErrForbidden: Insufficient role
*/
func (handler *Handler) createEvent(writer http.ResponseWriter, request *http.Request) {
	var input eventRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.eventService.Create(request.Context(), input.toEvent())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, event)
}

/*
PUT /api/events/{id}.

Description: Replaces the mutable fields of an event. The registration
roster is preserved regardless of the payload.

Response:
  - 200: Event: The updated event
  - 400: Validation/Pricing: Invalid payload
  - 404: ErrNotFound: Unknown event
*/
func (handler *Handler) updateEvent(writer http.ResponseWriter, request *http.Request) {
	var input eventRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.eventService.Update(request.Context(), requestutil.ID(request), input.toEvent())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

/*
DELETE /api/events/{id}.

Response:
  - 204: No Content: Event deleted
  - 404: ErrNotFound: Unknown event
*/
func (handler *Handler) deleteEvent(writer http.ResponseWriter, request *http.Request) {
	if err := handler.eventService.Delete(request.Context(), requestutil.ID(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Registration Endpoints

/*
POST /api/events/{id}/register.

Description: Claims a seat for the authenticated member.

Response:
  - 200: Event: Updated roster state
  - 400: Duplicate/Capacity: Already registered or fully booked
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Unknown event
*/
func (handler *Handler) registerForEvent(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.eventService.Register(request.Context(), requestutil.ID(request), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

/*
DELETE /api/events/{id}/register.

Description: Releases the authenticated member's seat.

Response:
  - 200: Event: Updated roster state
  - 400: NotRegistered: No seat held
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Unknown event
*/
func (handler *Handler) unregisterFromEvent(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.eventService.Unregister(request.Context(), requestutil.ID(request), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}
