// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package event_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicaa/alumni-api/internal/event"
	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/pkg/pagination"
)

// # Test Doubles

// fakeRepository is an in-memory event Repository keyed by ID.
type fakeRepository struct {
	events map[string]*event.Event
	order  []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{events: make(map[string]*event.Event)}
}

func (repository *fakeRepository) Create(_ context.Context, created *event.Event) error {
	copied := *created
	repository.events[created.ID] = &copied
	repository.order = append(repository.order, created.ID)
	return nil
}

func (repository *fakeRepository) List(_ context.Context, filter event.ListFilter) ([]event.Event, int, error) {
	var matched []event.Event
	for _, id := range repository.order {
		candidate := repository.events[id]
		if filter.Status != "" && candidate.Status != filter.Status {
			continue
		}
		if filter.Visibility != "" && candidate.Visibility != filter.Visibility {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(candidate.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.DateFrom != nil && candidate.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && candidate.Date.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, *candidate)
	}

	total := len(matched)
	offset := filter.Pagination.Offset()
	if offset > total {
		offset = total
	}
	end := offset + filter.Pagination.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repository *fakeRepository) FindByID(_ context.Context, id string) (*event.Event, error) {
	stored, ok := repository.events[id]
	if !ok {
		return nil, apperr.NotFound("Event not found")
	}
	copied := *stored
	copied.RegisteredUsers = append([]string(nil), stored.RegisteredUsers...)
	return &copied, nil
}

func (repository *fakeRepository) Update(_ context.Context, updated *event.Event) error {
	copied := *updated
	repository.events[updated.ID] = &copied
	return nil
}

func (repository *fakeRepository) UpdateRegistration(
	_ context.Context, id string, registeredUsers []string, registeredCount int,
) error {
	stored := repository.events[id]
	stored.RegisteredUsers = append([]string(nil), registeredUsers...)
	stored.RegisteredCount = registeredCount
	return nil
}

func (repository *fakeRepository) Delete(_ context.Context, id string) error {
	delete(repository.events, id)
	for index, stored := range repository.order {
		if stored == id {
			repository.order = append(repository.order[:index], repository.order[index+1:]...)
			break
		}
	}
	return nil
}

// # Fixtures

func newTestService(t *testing.T) (*event.Service, *fakeRepository) {
	t.Helper()

	repository := newFakeRepository()
	service := event.NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, repository
}

func sampleEvent(seatLimit int) *event.Event {
	return &event.Event{
		Title:                "Annual Reunion",
		ShortDescription:     "The yearly gathering of all batches",
		FullDescription:      "A full day of catching up, food and cultural programs.",
		BannerImage:          "https://cdn.nicaa.org/events/reunion.jpg",
		Date:                 time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		StartsTime:           "10:00 AM",
		Venue:                "College Auditorium",
		OrganizerName:        "NICAA Committee",
		OrganizerContactInfo: "committee@nicaa.org",
		SeatLimit:            seatLimit,
	}
}

// # Creation

/*
TestCreate_Defaults verifies that a new event starts Upcoming, Public and
with an empty roster.
*/
func TestCreate_Defaults(t *testing.T) {
	service, repository := newTestService(t)

	created, err := service.Create(context.Background(), sampleEvent(100))
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, event.StatusUpcoming, created.Status)
	assert.Equal(t, event.VisibilityPublic, created.Visibility)
	assert.Zero(t, created.RegisteredCount)
	assert.Empty(t, created.RegisteredUsers)
	assert.Contains(t, repository.events, created.ID)
}

/*
TestCreate_PaidEventRequiresPricing verifies the paid-event invariant on
both create and update.
*/
func TestCreate_PaidEventRequiresPricing(t *testing.T) {
	service, _ := newTestService(t)

	paid := sampleEvent(100)
	paid.IsPaidEvent = true

	_, err := service.Create(context.Background(), paid)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)

	// Supplying a tier satisfies the invariant
	paid.PricingRanges = []event.PricingRange{
		{BatchRange: "1995-2000", Fee: 1500, Description: "Senior batches"},
	}
	created, err := service.Create(context.Background(), paid)
	require.NoError(t, err)

	// Dropping the tiers later while staying paid is rejected too
	changes := *created
	changes.PricingRanges = nil
	_, err = service.Update(context.Background(), created.ID, &changes)
	require.Error(t, err)
}

// # Listing

/*
TestList_Filters verifies status filtering and pagination metadata.
*/
func TestList_Filters(t *testing.T) {
	service, _ := newTestService(t)

	upcoming := sampleEvent(50)
	_, err := service.Create(context.Background(), upcoming)
	require.NoError(t, err)

	completed := sampleEvent(50)
	completed.Title = "Founding Day"
	completed.Status = event.StatusCompleted
	_, err = service.Create(context.Background(), completed)
	require.NoError(t, err)

	params := pagination.Params{Page: 1, Limit: 20}

	events, meta, err := service.List(context.Background(), event.ListFilter{
		Status:     event.StatusCompleted,
		Pagination: params,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Founding Day", events[0].Title)
	assert.Equal(t, 1, meta.Total)

	events, meta, err = service.List(context.Background(), event.ListFilter{Pagination: params})
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, 2, meta.Total)
}

// # Registration

/*
TestRegister_SeatLimit verifies duplicate and capacity enforcement and that
the roster count stays in lockstep with the roster itself.
*/
func TestRegister_SeatLimit(t *testing.T) {
	service, repository := newTestService(t)

	created, err := service.Create(context.Background(), sampleEvent(2))
	require.NoError(t, err)

	_, err = service.Register(context.Background(), created.ID, "user-1")
	require.NoError(t, err)

	// Duplicate registration is rejected
	_, err = service.Register(context.Background(), created.ID, "user-1")
	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)

	updated, err := service.Register(context.Background(), created.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.RegisteredCount)

	// The event is now fully booked
	_, err = service.Register(context.Background(), created.ID, "user-3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fully booked")

	stored := repository.events[created.ID]
	assert.Equal(t, len(stored.RegisteredUsers), stored.RegisteredCount)
}

/*
TestUnregister_ReleasesSeat verifies seat release and the not-registered guard.
*/
func TestUnregister_ReleasesSeat(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.Create(context.Background(), sampleEvent(1))
	require.NoError(t, err)

	_, err = service.Unregister(context.Background(), created.ID, "user-1")
	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)

	_, err = service.Register(context.Background(), created.ID, "user-1")
	require.NoError(t, err)

	updated, err := service.Unregister(context.Background(), created.ID, "user-1")
	require.NoError(t, err)
	assert.Zero(t, updated.RegisteredCount)

	// The freed seat can be claimed again
	_, err = service.Register(context.Background(), created.ID, "user-2")
	assert.NoError(t, err)
}

// # Updates

/*
TestUpdate_PreservesRoster verifies that updates never touch the
registration roster.
*/
func TestUpdate_PreservesRoster(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.Create(context.Background(), sampleEvent(10))
	require.NoError(t, err)

	_, err = service.Register(context.Background(), created.ID, "user-1")
	require.NoError(t, err)

	changes := sampleEvent(10)
	changes.Title = "Annual Reunion 2026"
	changes.RegisteredUsers = []string{"smuggled-user"}
	changes.RegisteredCount = 99

	updated, err := service.Update(context.Background(), created.ID, changes)
	require.NoError(t, err)

	assert.Equal(t, "Annual Reunion 2026", updated.Title)
	assert.Equal(t, []string{"user-1"}, updated.RegisteredUsers)
	assert.Equal(t, 1, updated.RegisteredCount)
}
