// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package souvenir_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/souvenir"
	"github.com/nicaa/alumni-api/pkg/pagination"
)

type fakeRepository struct {
	submissions map[string]*souvenir.Submission
	order       []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{submissions: map[string]*souvenir.Submission{}}
}

func (store *fakeRepository) Create(_ context.Context, submission *souvenir.Submission) error {
	clone := *submission
	store.submissions[submission.ID] = &clone
	store.order = append(store.order, submission.ID)
	return nil
}

func (store *fakeRepository) List(_ context.Context, filter souvenir.ListFilter) ([]souvenir.Submission, int, error) {
	matches := []souvenir.Submission{}
	for index := len(store.order) - 1; index >= 0; index-- {
		submission := store.submissions[store.order[index]]
		if filter.Category != "" && submission.Category != filter.Category {
			continue
		}
		if filter.Batch != "" && submission.Batch != filter.Batch {
			continue
		}
		if filter.Group != "" && submission.Group != filter.Group {
			continue
		}
		if filter.Search != "" {
			haystack := strings.ToLower(submission.Name + " " + submission.Email)
			if !strings.Contains(haystack, strings.ToLower(filter.Search)) {
				continue
			}
		}
		matches = append(matches, *submission)
	}
	total := len(matches)
	offset := filter.Pagination.Offset()
	if offset > total {
		offset = total
	}
	end := offset + filter.Pagination.Limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (store *fakeRepository) FindByID(_ context.Context, id string) (*souvenir.Submission, error) {
	submission, ok := store.submissions[id]
	if !ok {
		return nil, apperr.NotFound("Souvenir")
	}
	clone := *submission
	return &clone, nil
}

func (store *fakeRepository) Update(_ context.Context, submission *souvenir.Submission) error {
	if _, ok := store.submissions[submission.ID]; !ok {
		return apperr.NotFound("Souvenir")
	}
	clone := *submission
	store.submissions[submission.ID] = &clone
	return nil
}

func (store *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := store.submissions[id]; !ok {
		return apperr.NotFound("Souvenir")
	}
	delete(store.submissions, id)
	return nil
}

func newTestService(store *fakeRepository) *souvenir.Service {
	return souvenir.NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeupInput(name, email string) *souvenir.Submission {
	return &souvenir.Submission{
		Category:    "memory-writeup",
		Name:        name,
		Batch:       "2015",
		Group:       "science",
		PhoneNumber: "01712345678",
		Email:       email,
		PhotoURL:    "https://cdn.nicaa.org/photos/writeup.jpg",
		Content:     "<p>Those winter mornings on campus.</p>",
	}
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, status, appError.HTTPStatus)
}

func TestCreate_PhotoRulesByCategory(t *testing.T) {
	service := newTestService(newFakeRepository())

	t.Run("writeup requires photo and content", func(t *testing.T) {
		input := writeupInput("Rahim Uddin", "rahim@nicaa.org")
		input.PhotoURL = ""
		_, err := service.Create(context.Background(), input)
		requireStatus(t, err, 400)

		input = writeupInput("Rahim Uddin", "rahim@nicaa.org")
		input.Content = ""
		_, err = service.Create(context.Background(), input)
		requireStatus(t, err, 400)
	})

	t.Run("writeup rejects gallery field", func(t *testing.T) {
		input := writeupInput("Rahim Uddin", "rahim@nicaa.org")
		input.PhotoURLs = []string{"https://cdn.nicaa.org/photos/extra.jpg"}
		_, err := service.Create(context.Background(), input)
		requireStatus(t, err, 400)
	})

	t.Run("gallery requires one to ten photos", func(t *testing.T) {
		input := writeupInput("Rahim Uddin", "rahim@nicaa.org")
		input.Category = souvenir.CategoryPhotoGallery
		input.PhotoURL = ""
		input.Content = ""
		_, err := service.Create(context.Background(), input)
		requireStatus(t, err, 400)

		for count := 0; count < 11; count++ {
			input.PhotoURLs = append(input.PhotoURLs, fmt.Sprintf("https://cdn.nicaa.org/photos/%d.jpg", count))
		}
		_, err = service.Create(context.Background(), input)
		requireStatus(t, err, 400)

		input.PhotoURLs = input.PhotoURLs[:3]
		submission, err := service.Create(context.Background(), input)
		require.NoError(t, err)
		assert.Len(t, submission.PhotoURLs, 3)
	})
}

func TestCreate_NormalizesEmail(t *testing.T) {
	service := newTestService(newFakeRepository())

	submission, err := service.Create(context.Background(), writeupInput("Rahim Uddin", "  Rahim@NICAA.org "))
	require.NoError(t, err)
	assert.Equal(t, "rahim@nicaa.org", submission.Email)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	for index := 0; index < 3; index++ {
		input := writeupInput(fmt.Sprintf("Alumni %d", index), fmt.Sprintf("alumni%d@nicaa.org", index))
		_, err := service.Create(context.Background(), input)
		require.NoError(t, err)
	}
	gallery := writeupInput("Gallery Person", "gallery@nicaa.org")
	gallery.Category = souvenir.CategoryPhotoGallery
	gallery.PhotoURL = ""
	gallery.Content = ""
	gallery.PhotoURLs = []string{"https://cdn.nicaa.org/photos/g.jpg"}
	_, err := service.Create(context.Background(), gallery)
	require.NoError(t, err)

	submissions, meta, err := service.List(context.Background(), souvenir.ListFilter{
		Category:   "memory-writeup",
		Pagination: pagination.Params{Page: 1, Limit: 2},
	})
	require.NoError(t, err)
	assert.Len(t, submissions, 2)
	assert.Equal(t, 3, meta.Total)

	submissions, meta, err = service.List(context.Background(), souvenir.ListFilter{
		Search:     "gallery",
		Pagination: pagination.Params{Page: 1, Limit: 20},
	})
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, "Gallery Person", submissions[0].Name)
	assert.Equal(t, 1, meta.Total)
}

func TestUpdate_RevalidatesPhotoRules(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	submission, err := service.Create(context.Background(), writeupInput("Rahim Uddin", "rahim@nicaa.org"))
	require.NoError(t, err)

	// switching to photo-gallery without clearing the single photo fails
	gallery := souvenir.CategoryPhotoGallery
	_, err = service.Update(context.Background(), submission.ID, souvenir.UpdateInput{Category: &gallery})
	requireStatus(t, err, 400)

	empty := ""
	photos := []string{"https://cdn.nicaa.org/photos/a.jpg"}
	updated, err := service.Update(context.Background(), submission.ID, souvenir.UpdateInput{
		Category:  &gallery,
		PhotoURL:  &empty,
		PhotoURLs: &photos,
	})
	require.NoError(t, err)
	assert.Equal(t, souvenir.CategoryPhotoGallery, updated.Category)
}

func TestUpdatePhoto(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	submission, err := service.Create(context.Background(), writeupInput("Rahim Uddin", "rahim@nicaa.org"))
	require.NoError(t, err)

	updated, err := service.UpdatePhoto(context.Background(), submission.ID,
		"https://cdn.nicaa.org/photos/replacement.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.nicaa.org/photos/replacement.jpg", updated.PhotoURL)

	_, err = service.UpdatePhoto(context.Background(), "missing-id", "https://cdn.nicaa.org/photos/x.jpg")
	requireStatus(t, err, 404)
}

func TestDelete(t *testing.T) {
	store := newFakeRepository()
	service := newTestService(store)

	submission, err := service.Create(context.Background(), writeupInput("Rahim Uddin", "rahim@nicaa.org"))
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), submission.ID))
	requireStatus(t, service.Delete(context.Background(), submission.ID), 404)
}
