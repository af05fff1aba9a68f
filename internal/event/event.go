// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package event manages association events and their registrations.

It covers the full lifecycle of an event: creation with optional paid
pricing tiers, filtered discovery, seat-limited member registration, and
administrative upkeep.

# Architecture

  - Entities: Event, PricingRange, SocialMediaLinks.
  - Invariant: A paid event always carries at least one pricing range.
  - Capacity: registeredcount never exceeds seatlimit.
*/
package event

import (
	"context"
	"time"

	"github.com/nicaa/alumni-api/pkg/pagination"
)

// # Enumerations

// Status is the lifecycle phase of an event.
type Status string

const (
	StatusUpcoming  Status = "Upcoming"
	StatusOngoing   Status = "Ongoing"
	StatusCompleted Status = "Completed"
)

// Visibility controls which audience may discover an event.
type Visibility string

const (
	VisibilityPublic     Visibility = "Public"
	VisibilityPrivate    Visibility = "Private"
	VisibilityAlumniOnly Visibility = "Alumni-only"
)

// # Domain Entities

// PricingRange is a single fee tier of a paid event, keyed by batch range.
type PricingRange struct {
	BatchRange  string  `json:"batchRange"`
	Fee         float64 `json:"fee"`
	Description string  `json:"description"`
	IsPopular   bool    `json:"isPopular"`
}

// SocialMediaLinks groups the optional promotion links of an event.
type SocialMediaLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Website   string `json:"website,omitempty"`
}

// Event represents a single association event.
type Event struct {
	ID                   string           `json:"id"`
	Title                string           `json:"title"`
	ShortDescription     string           `json:"shortDescription"`
	FullDescription      string           `json:"fullDescription"`
	BannerImage          string           `json:"bannerImage"`
	Date                 time.Time        `json:"date"`
	StartsTime           string           `json:"startsTime"`
	Venue                string           `json:"venue"`
	GoogleMapLink        string           `json:"googleMapLink,omitempty"`
	OrganizerName        string           `json:"organizerName"`
	OrganizerContactInfo string           `json:"organizerContactInfo"`
	SpecialGuests        []string         `json:"specialGuests"`
	IsPaidEvent          bool             `json:"isPaidEvent"`
	PricingRanges        []PricingRange   `json:"pricingRanges"`
	SeatLimit            int              `json:"seatLimit"`
	SocialMediaLinks     SocialMediaLinks `json:"socialMediaLinks"`
	Status               Status           `json:"status"`
	Visibility           Visibility       `json:"visibility"`
	RegisteredCount      int              `json:"registeredCount"`
	RegisteredUsers      []string         `json:"registeredUsers"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}

// IsRegistered reports whether a user already holds a seat.
func (event *Event) IsRegistered(userID string) bool {
	for _, registered := range event.RegisteredUsers {
		if registered == userID {
			return true
		}
	}
	return false
}

// # Query Types

// ListFilter narrows, sorts and pages the event listing.
type ListFilter struct {
	// Search matches title, descriptions, organizer and venue (case-insensitive)
	Search     string
	Status     Status
	Visibility Visibility
	DateFrom   *time.Time
	DateTo     *time.Time

	// SortBy is a whitelisted column key: date, title or createdat
	SortBy    string
	SortOrder string

	Pagination pagination.Params
}

// # Repository Contract

// Repository defines the persistence contract for events.
type Repository interface {
	/*
		Create persists a new event.

		Parameters:
		  - context: context.Context
		  - event: *Event

		Returns:
		  - error: Constraint or execution failures
	*/
	Create(context context.Context, event *Event) error

	/*
		List retrieves a filtered, sorted, paginated page of events.

		Parameters:
		  - context: context.Context
		  - filter: ListFilter

		Returns:
		  - []Event: The requested page
		  - int: Total matching rows
		  - error: Retrieval failures
	*/
	List(context context.Context, filter ListFilter) ([]Event, int, error)

	/*
		FindByID retrieves an event by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Event: Hydrated event
		  - error: apperr.NotFound or execution failures
	*/
	FindByID(context context.Context, id string) (*Event, error)

	/*
		Update persists the mutable fields of an existing event.

		Parameters:
		  - context: context.Context
		  - event: *Event

		Returns:
		  - error: Execution failures
	*/
	Update(context context.Context, event *Event) error

	/*
		UpdateRegistration replaces an event's registration roster.

		Parameters:
		  - context: context.Context
		  - id: string
		  - registeredUsers: []string
		  - registeredCount: int

		Returns:
		  - error: Execution failures
	*/
	UpdateRegistration(context context.Context, id string, registeredUsers []string, registeredCount int) error

	/*
		Delete permanently removes an event.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	Delete(context context.Context, id string) error
}
