// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package event (Postgres) implements the storage layer for events over the
core.event table.

# Column Encoding

  - specialguests, registeredusers: text[] arrays.
  - pricingranges, socialmedialinks: jsonb documents.
*/
package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/dberr"
)

// eventColumns is the canonical SELECT list for hydrating a full Event.
const eventColumns = `
	id, title, shortdescription, fulldescription, bannerimage,
	date, startstime, venue, COALESCE(googlemaplink, ''),
	organizername, organizercontactinfo, specialguests,
	ispaidevent, pricingranges, seatlimit, socialmedialinks,
	status, visibility, registeredcount, registeredusers,
	createdat, updatedat`

// sortColumns whitelists the ORDER BY targets accepted from clients.
var sortColumns = map[string]string{
	"date":      "date",
	"title":     "title",
	"createdat": "createdat",
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres implementation for events.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// scanEvent hydrates an Event from a row produced with [eventColumns].
func scanEvent(row pgx.Row) (*Event, error) {
	event := &Event{}
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.ShortDescription,
		&event.FullDescription,
		&event.BannerImage,
		&event.Date,
		&event.StartsTime,
		&event.Venue,
		&event.GoogleMapLink,
		&event.OrganizerName,
		&event.OrganizerContactInfo,
		&event.SpecialGuests,
		&event.IsPaidEvent,
		&event.PricingRanges,
		&event.SeatLimit,
		&event.SocialMediaLinks,
		&event.Status,
		&event.Visibility,
		&event.RegisteredCount,
		&event.RegisteredUsers,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// # Repository Methods

/*
Create persists a new event row into core.event.

Parameters:
  - context: context.Context
  - event: *Event

Returns:
  - error: Constraint or execution failures
*/
func (repository *PostgresRepository) Create(context context.Context, event *Event) error {
	const query = `
		INSERT INTO core.event (
			id, title, shortdescription, fulldescription, bannerimage,
			date, startstime, venue, googlemaplink,
			organizername, organizercontactinfo, specialguests,
			ispaidevent, pricingranges, seatlimit, socialmedialinks,
			status, visibility, registeredcount, registeredusers,
			createdat, updatedat
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''),
			$10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)`

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		event.ID,
		event.Title,
		event.ShortDescription,
		event.FullDescription,
		event.BannerImage,
		event.Date,
		event.StartsTime,
		event.Venue,
		event.GoogleMapLink,
		event.OrganizerName,
		event.OrganizerContactInfo,
		event.SpecialGuests,
		event.IsPaidEvent,
		event.PricingRanges,
		event.SeatLimit,
		event.SocialMediaLinks,
		event.Status,
		event.Visibility,
		event.RegisteredCount,
		event.RegisteredUsers,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_event")
	}

	return nil
}

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
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]Event, int, error) {
	conditions := "WHERE 1=1"
	args := []interface{}{}

	if filter.Search != "" {
		placeholder := len(args) + 1
		conditions += fmt.Sprintf(
			` AND (title ILIKE $%d OR shortdescription ILIKE $%d OR fulldescription ILIKE $%d
				OR organizername ILIKE $%d OR venue ILIKE $%d)`,
			placeholder, placeholder, placeholder, placeholder, placeholder,
		)
		args = append(args, "%"+filter.Search+"%")
	}

	if filter.Status != "" {
		conditions += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, string(filter.Status))
	}

	if filter.Visibility != "" {
		conditions += fmt.Sprintf(" AND visibility = $%d", len(args)+1)
		args = append(args, string(filter.Visibility))
	}

	if filter.DateFrom != nil {
		conditions += fmt.Sprintf(" AND date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}

	if filter.DateTo != nil {
		conditions += fmt.Sprintf(" AND date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM core.event " + conditions
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_events")
	}

	// Unknown sort keys silently fall back to the event date
	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = "date"
	}
	direction := "ASC"
	if filter.SortOrder == "desc" {
		direction = "DESC"
	}

	pageQuery := fmt.Sprintf(
		"SELECT %s FROM core.event %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		eventColumns, conditions, sortColumn, direction, len(args)+1, len(args)+2,
	)
	args = append(args, filter.Pagination.Limit, filter.Pagination.Offset())

	rows, err := repository.pool.Query(context, pageQuery, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_events")
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_event")
		}
		events = append(events, *event)
	}

	return events, total, nil
}

/*
FindByID retrieves a single event by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Event: Hydrated event
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Event, error) {
	query := "SELECT " + eventColumns + " FROM core.event WHERE id = $1"

	event, err := scanEvent(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Event not found")
		}
		return nil, dberr.Wrap(err, "get_event")
	}

	return event, nil
}

/*
Update persists the mutable fields of an event, leaving the roster untouched.

Parameters:
  - context: context.Context
  - event: *Event

Returns:
  - error: Execution failures
*/
func (repository *PostgresRepository) Update(context context.Context, event *Event) error {
	const query = `
		UPDATE core.event
		SET title = $2, shortdescription = $3, fulldescription = $4, bannerimage = $5,
			date = $6, startstime = $7, venue = $8, googlemaplink = NULLIF($9, ''),
			organizername = $10, organizercontactinfo = $11, specialguests = $12,
			ispaidevent = $13, pricingranges = $14, seatlimit = $15,
			socialmedialinks = $16, status = $17, visibility = $18, updatedat = $19
		WHERE id = $1`

	event.UpdatedAt = time.Now()

	_, err := repository.pool.Exec(context, query,
		event.ID,
		event.Title,
		event.ShortDescription,
		event.FullDescription,
		event.BannerImage,
		event.Date,
		event.StartsTime,
		event.Venue,
		event.GoogleMapLink,
		event.OrganizerName,
		event.OrganizerContactInfo,
		event.SpecialGuests,
		event.IsPaidEvent,
		event.PricingRanges,
		event.SeatLimit,
		event.SocialMediaLinks,
		event.Status,
		event.Visibility,
		event.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_event")
	}

	return nil
}

/*
UpdateRegistration replaces an event's registration roster and count.

Parameters:
  - context: context.Context
  - id: string
  - registeredUsers: []string
  - registeredCount: int

Returns:
  - error: Execution failures
*/
func (repository *PostgresRepository) UpdateRegistration(
	context context.Context,
	id string,
	registeredUsers []string,
	registeredCount int,
) error {
	const query = `
		UPDATE core.event
		SET registeredusers = $2, registeredcount = $3, updatedat = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, id, registeredUsers, registeredCount, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update_event_registration")
	}

	return nil
}

/*
Delete permanently removes an event row.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM core.event WHERE id = $1`

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_event")
	}
	return nil
}
