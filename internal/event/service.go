// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/pkg/pagination"
	"github.com/nicaa/alumni-api/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for events and registrations.
type Service struct {
	eventRepository Repository
	logger          *slog.Logger
}

// NewService constructs a new [Service].
func NewService(eventRepo Repository, logger *slog.Logger) *Service {
	return &Service{
		eventRepository: eventRepo,
		logger:          logger,
	}
}

// validatePricing enforces the paid-event invariant.
func validatePricing(isPaid bool, ranges []PricingRange) error {
	if isPaid && len(ranges) == 0 {
		return apperr.BadRequest("Pricing ranges are required for paid events")
	}
	return nil
}

// # Event Lifecycle

/*
Create persists a new event with an empty registration roster.

Description: Paid events must carry at least one pricing range. Status and
visibility default to Upcoming and Public when omitted.

Parameters:
  - context: context.Context
  - input: *Event (Prototype without identity or roster)

Returns:
  - *Event: The persisted event
  - error: Validation or storage failures
*/
func (service *Service) Create(context context.Context, input *Event) (*Event, error) {
	if err := validatePricing(input.IsPaidEvent, input.PricingRanges); err != nil {
		return nil, err
	}

	created := *input
	created.ID = uuid.New()
	created.RegisteredCount = 0
	created.RegisteredUsers = []string{}

	if created.Status == "" {
		created.Status = StatusUpcoming
	}
	if created.Visibility == "" {
		created.Visibility = VisibilityPublic
	}
	if created.SpecialGuests == nil {
		created.SpecialGuests = []string{}
	}
	if created.PricingRanges == nil {
		created.PricingRanges = []PricingRange{}
	}

	if err := service.eventRepository.Create(context, &created); err != nil {
		return nil, fmt.Errorf("event_service_create_failed: %w", err)
	}

	service.logger.Info("event_created",
		slog.String("event_id", created.ID),
		slog.String("title", created.Title),
	)

	return &created, nil
}

/*
List retrieves a filtered, sorted, paginated page of events.

Parameters:
  - context: context.Context
  - filter: ListFilter

Returns:
  - []Event: The requested page
  - pagination.Meta: Pagination metadata
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, filter ListFilter) ([]Event, pagination.Meta, error) {
	events, total, err := service.eventRepository.List(context, filter)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("event_service_list_failed: %w", err)
	}

	meta := pagination.NewMeta(filter.Pagination.Page, filter.Pagination.Limit, total)
	return events, meta, nil
}

/*
Get retrieves a single event by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Event: Hydrated event
  - error: Not found or execution failures
*/
func (service *Service) Get(context context.Context, id string) (*Event, error) {
	event, err := service.eventRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("event_service_get_failed: %w", err)
	}
	return event, nil
}

/*
Update applies changes to an existing event.

Description: The registration roster is never writable through this path;
only Register and Unregister mutate it. The paid-event pricing invariant is
re-checked against the merged state.

Parameters:
  - context: context.Context
  - id: string
  - changes: *Event (Full replacement of mutable fields)

Returns:
  - *Event: The updated event
  - error: Validation, not found or storage failures
*/
func (service *Service) Update(context context.Context, id string, changes *Event) (*Event, error) {
	current, err := service.eventRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("event_service_update_lookup_failed: %w", err)
	}

	if err := validatePricing(changes.IsPaidEvent, changes.PricingRanges); err != nil {
		return nil, err
	}

	merged := *changes
	merged.ID = current.ID
	merged.RegisteredCount = current.RegisteredCount
	merged.RegisteredUsers = current.RegisteredUsers
	merged.CreatedAt = current.CreatedAt

	if merged.Status == "" {
		merged.Status = current.Status
	}
	if merged.Visibility == "" {
		merged.Visibility = current.Visibility
	}

	if err := service.eventRepository.Update(context, &merged); err != nil {
		return nil, fmt.Errorf("event_service_update_failed: %w", err)
	}

	service.logger.Info("event_updated", slog.String("event_id", id))

	return &merged, nil
}

/*
Delete permanently removes an event.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Not found or execution failures
*/
func (service *Service) Delete(context context.Context, id string) error {
	if _, err := service.eventRepository.FindByID(context, id); err != nil {
		return fmt.Errorf("event_service_delete_lookup_failed: %w", err)
	}

	if err := service.eventRepository.Delete(context, id); err != nil {
		return fmt.Errorf("event_service_delete_failed: %w", err)
	}

	service.logger.Warn("event_deleted", slog.String("event_id", id))

	return nil
}

// # Registration

/*
Register claims a seat on an event for a user.

Description: Rejects duplicate registrations and fully booked events. The
roster and its count stay in lockstep.

Parameters:
  - context: context.Context
  - eventID: string
  - userID: string

Returns:
  - *Event: The event with its updated roster
  - error: Duplicate, capacity, not found or storage failures
*/
func (service *Service) Register(context context.Context, eventID, userID string) (*Event, error) {
	event, err := service.eventRepository.FindByID(context, eventID)
	if err != nil {
		return nil, fmt.Errorf("event_service_register_lookup_failed: %w", err)
	}

	if event.IsRegistered(userID) {
		return nil, apperr.BadRequest("User is already registered for this event")
	}

	if event.RegisteredCount >= event.SeatLimit {
		return nil, apperr.BadRequest("Event is fully booked")
	}

	event.RegisteredUsers = append(event.RegisteredUsers, userID)
	event.RegisteredCount = len(event.RegisteredUsers)

	if err := service.eventRepository.UpdateRegistration(
		context, eventID, event.RegisteredUsers, event.RegisteredCount); err != nil {
		return nil, fmt.Errorf("event_service_register_failed: %w", err)
	}

	service.logger.Info("event_registration_added",
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
		slog.Int("registered_count", event.RegisteredCount),
	)

	return event, nil
}

/*
Unregister releases a user's seat on an event.

Parameters:
  - context: context.Context
  - eventID: string
  - userID: string

Returns:
  - *Event: The event with its updated roster
  - error: Not registered, not found or storage failures
*/
func (service *Service) Unregister(context context.Context, eventID, userID string) (*Event, error) {
	event, err := service.eventRepository.FindByID(context, eventID)
	if err != nil {
		return nil, fmt.Errorf("event_service_unregister_lookup_failed: %w", err)
	}

	if !event.IsRegistered(userID) {
		return nil, apperr.BadRequest("User is not registered for this event")
	}

	remaining := make([]string, 0, len(event.RegisteredUsers)-1)
	for _, registered := range event.RegisteredUsers {
		if registered != userID {
			remaining = append(remaining, registered)
		}
	}
	event.RegisteredUsers = remaining
	event.RegisteredCount = len(remaining)

	if err := service.eventRepository.UpdateRegistration(
		context, eventID, event.RegisteredUsers, event.RegisteredCount); err != nil {
		return nil, fmt.Errorf("event_service_unregister_failed: %w", err)
	}

	service.logger.Info("event_registration_removed",
		slog.String("event_id", eventID),
		slog.String("user_id", userID),
	)

	return event, nil
}
