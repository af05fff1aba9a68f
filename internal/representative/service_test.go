// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package representative_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/representative"
)

type fakeRepository struct {
	representatives map[string]*representative.Representative
	order           []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{representatives: map[string]*representative.Representative{}}
}

func (store *fakeRepository) Create(_ context.Context, rep *representative.Representative) error {
	clone := *rep
	store.representatives[rep.ID] = &clone
	store.order = append(store.order, rep.ID)
	return nil
}

func (store *fakeRepository) List(_ context.Context) ([]representative.Representative, error) {
	representatives := make([]representative.Representative, 0, len(store.order))
	for _, id := range store.order {
		representatives = append(representatives, *store.representatives[id])
	}
	return representatives, nil
}

func (store *fakeRepository) FindByID(_ context.Context, id string) (*representative.Representative, error) {
	rep, ok := store.representatives[id]
	if !ok {
		return nil, apperr.NotFound("Representative")
	}
	clone := *rep
	return &clone, nil
}

func (store *fakeRepository) PhoneInUse(_ context.Context, phone, excludeID string) (bool, error) {
	for _, rep := range store.representatives {
		if rep.ID != excludeID && rep.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (store *fakeRepository) Update(_ context.Context, rep *representative.Representative) error {
	if _, ok := store.representatives[rep.ID]; !ok {
		return apperr.NotFound("Representative")
	}
	clone := *rep
	store.representatives[rep.ID] = &clone
	return nil
}

func (store *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := store.representatives[id]; !ok {
		return apperr.NotFound("Representative")
	}
	delete(store.representatives, id)
	for index, stored := range store.order {
		if stored == id {
			store.order = append(store.order[:index], store.order[index+1:]...)
			break
		}
	}
	return nil
}

func newTestService(store *fakeRepository) *representative.Service {
	return representative.NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func application(name, phone string, year int, group, gender string) *representative.Representative {
	return &representative.Representative{
		Name:        name,
		Phone:       phone,
		FacebookURL: "https://facebook.com/" + phone,
		HSCYear:     year,
		HSCGroup:    group,
		Gender:      gender,
	}
}

func TestCreate_UniquePhone(t *testing.T) {
	service := newTestService(newFakeRepository())

	_, err := service.Create(context.Background(),
		application("Rahim Uddin", "01712345678", 2015, "Science", "Male"))
	require.NoError(t, err)

	_, err = service.Create(context.Background(),
		application("Karim Uddin", "01712345678", 2016, "Humanities", "Male"))
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
	assert.Equal(t, "Phone number already exists", appError.Message)
}

func TestUpdate_PhoneGuardExcludesSelf(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	first, err := service.Create(context.Background(),
		application("Rahim Uddin", "01712345678", 2015, "Science", "Male"))
	require.NoError(t, err)
	_, err = service.Create(context.Background(),
		application("Karim Uddin", "01712345679", 2016, "Humanities", "Male"))
	require.NoError(t, err)

	// keeping one's own phone is fine
	updated, err := service.Update(context.Background(), first.ID,
		application("Rahim Uddin Renamed", "01712345678", 2015, "Science", "Male"))
	require.NoError(t, err)
	assert.Equal(t, "Rahim Uddin Renamed", updated.Name)
	assert.Equal(t, first.CreatedAt, updated.CreatedAt)

	// taking the other application's phone is not
	_, err = service.Update(context.Background(), first.ID,
		application("Rahim Uddin", "01712345679", 2015, "Science", "Male"))
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
}

func TestDelete_ReturnsRemovedRecord(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	created, err := service.Create(context.Background(),
		application("Rahim Uddin", "01712345678", 2015, "Science", "Male"))
	require.NoError(t, err)

	removed, err := service.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	_, err = service.Delete(context.Background(), created.ID)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

func TestGetDashboardStats(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	applications := []*representative.Representative{
		application("A", "01712345671", 2015, "Science", "Male"),
		application("B", "01712345672", 2015, "Science", "Female"),
		application("C", "01712345673", 2016, "Humanities", "Male"),
	}
	for _, input := range applications {
		_, err := service.Create(context.Background(), input)
		require.NoError(t, err)
	}

	stats, err := service.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSubmissions)
	assert.Equal(t, 2, stats.GenderStats.Male)
	assert.Equal(t, 1, stats.GenderStats.Female)
	assert.Equal(t, 2, stats.HSCYearStats["2015"])
	assert.Equal(t, 1, stats.HSCYearStats["2016"])
	assert.Equal(t, 2, stats.HSCGroupStats["Science"])
}
