// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package faq_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicaa/alumni-api/internal/faq"
	"github.com/nicaa/alumni-api/internal/platform/apperr"
)

// # Test Doubles

// fakeCategoryStore is an in-memory CategoryRepository.
type fakeCategoryStore struct {
	categories map[string]*faq.Category
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[string]*faq.Category)}
}

func (store *fakeCategoryStore) Create(_ context.Context, category *faq.Category) error {
	copied := *category
	store.categories[category.ID] = &copied
	return nil
}

func (store *fakeCategoryStore) List(_ context.Context) ([]faq.Category, error) {
	var categories []faq.Category
	for _, category := range store.categories {
		categories = append(categories, *category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Order < categories[j].Order })
	return categories, nil
}

func (store *fakeCategoryStore) FindByID(_ context.Context, id string) (*faq.Category, error) {
	category, ok := store.categories[id]
	if !ok {
		return nil, apperr.NotFound("FAQ category not found")
	}
	copied := *category
	return &copied, nil
}

func (store *fakeCategoryStore) NameInUse(_ context.Context, name, excludeID string) (bool, error) {
	for _, category := range store.categories {
		if category.Name == name && category.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (store *fakeCategoryStore) ShiftOrders(_ context.Context, fromOrder int, excludeID string) error {
	for _, category := range store.categories {
		if category.Order >= fromOrder && category.ID != excludeID {
			category.Order++
		}
	}
	return nil
}

func (store *fakeCategoryStore) Update(_ context.Context, category *faq.Category) error {
	copied := *category
	store.categories[category.ID] = &copied
	return nil
}

func (store *fakeCategoryStore) Delete(_ context.Context, id string) error {
	delete(store.categories, id)
	return nil
}

// fakeEntryStore is an in-memory EntryRepository.
type fakeEntryStore struct {
	entries map[string]*faq.Entry
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{entries: make(map[string]*faq.Entry)}
}

func (store *fakeEntryStore) Create(_ context.Context, entry *faq.Entry) error {
	copied := *entry
	store.entries[entry.ID] = &copied
	return nil
}

func (store *fakeEntryStore) sorted(filter func(*faq.Entry) bool) []faq.Entry {
	var entries []faq.Entry
	for _, entry := range store.entries {
		if filter == nil || filter(entry) {
			entries = append(entries, *entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })
	return entries
}

func (store *fakeEntryStore) List(_ context.Context) ([]faq.Entry, error) {
	return store.sorted(nil), nil
}

func (store *fakeEntryStore) ListByCategory(_ context.Context, categoryID string) ([]faq.Entry, error) {
	return store.sorted(func(entry *faq.Entry) bool { return entry.CategoryID == categoryID }), nil
}

func (store *fakeEntryStore) ListHomepage(_ context.Context, limit int) ([]faq.Entry, error) {
	entries := store.sorted(func(entry *faq.Entry) bool { return entry.ShowHomePage })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (store *fakeEntryStore) FindByID(_ context.Context, id string) (*faq.Entry, error) {
	entry, ok := store.entries[id]
	if !ok {
		return nil, apperr.NotFound("FAQ not found")
	}
	copied := *entry
	return &copied, nil
}

func (store *fakeEntryStore) CountHomepage(_ context.Context, excludeID string) (int, error) {
	count := 0
	for _, entry := range store.entries {
		if entry.ShowHomePage && entry.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (store *fakeEntryStore) OrderTaken(_ context.Context, categoryID string, order int, excludeID string) (bool, error) {
	for _, entry := range store.entries {
		if entry.CategoryID == categoryID && entry.Order == order && entry.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (store *fakeEntryStore) Update(_ context.Context, entry *faq.Entry) error {
	copied := *entry
	store.entries[entry.ID] = &copied
	return nil
}

func (store *fakeEntryStore) Delete(_ context.Context, id string) error {
	delete(store.entries, id)
	return nil
}

func (store *fakeEntryStore) DeleteByCategory(_ context.Context, categoryID string) (int, error) {
	deleted := 0
	for id, entry := range store.entries {
		if entry.CategoryID == categoryID {
			delete(store.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

// # Fixtures

func newTestService(t *testing.T) (*faq.Service, *fakeCategoryStore, *fakeEntryStore) {
	t.Helper()

	categories := newFakeCategoryStore()
	entries := newFakeEntryStore()
	service := faq.NewService(categories, entries, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return service, categories, entries
}

// # Categories

/*
TestCreateCategory_UniqueName verifies the unique-name constraint and the
order shifting behavior on collisions.
*/
func TestCreateCategory_UniqueName(t *testing.T) {
	service, _, _ := newTestService(t)

	first, err := service.CreateCategory(context.Background(), "General", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Order)

	_, err = service.CreateCategory(context.Background(), "General", 2)
	require.Error(t, err)
	assert.Equal(t, 409, apperr.As(err).HTTPStatus)

	// Claiming an occupied order slot shifts the incumbent down
	second, err := service.CreateCategory(context.Background(), "Membership", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Order)

	categories, err := service.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Membership", categories[0].Name)
	assert.Equal(t, "General", categories[1].Name)
}

/*
TestDeleteCategory_Cascades verifies that removing a category removes its
entries and reports the cascaded count.
*/
func TestDeleteCategory_Cascades(t *testing.T) {
	service, _, entries := newTestService(t)

	category, err := service.CreateCategory(context.Background(), "General", 1)
	require.NoError(t, err)

	for index := 0; index < 3; index++ {
		_, err := service.CreateEntry(context.Background(), faq.EntryInput{
			CategoryID: category.ID,
			Question:   fmt.Sprintf("Question %d", index),
			Answer:     "Answer",
			Order:      index,
		})
		require.NoError(t, err)
	}

	deletion, err := service.DeleteCategory(context.Background(), category.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, deletion.DeletedFaqsCount)
	assert.Empty(t, entries.entries)
}

// # Entries

/*
TestCreateEntry_Guards verifies the category-existence, homepage-limit and
order-uniqueness guards.
*/
func TestCreateEntry_Guards(t *testing.T) {
	service, _, _ := newTestService(t)

	// Unknown category
	_, err := service.CreateEntry(context.Background(), faq.EntryInput{
		CategoryID: "missing", Question: "Q", Answer: "A",
	})
	require.Error(t, err)

	category, err := service.CreateCategory(context.Background(), "General", 1)
	require.NoError(t, err)

	created, err := service.CreateEntry(context.Background(), faq.EntryInput{
		CategoryID: category.ID, Question: "Q1", Answer: "A1", Order: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "General", created.CategoryName)

	// Order collision within the category
	_, err = service.CreateEntry(context.Background(), faq.EntryInput{
		CategoryID: category.ID, Question: "Q2", Answer: "A2", Order: 1,
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)
}

/*
TestHomepageLimit verifies that at most five entries can be pinned to the
homepage, across create and update paths.
*/
func TestHomepageLimit(t *testing.T) {
	service, _, _ := newTestService(t)

	category, err := service.CreateCategory(context.Background(), "General", 1)
	require.NoError(t, err)

	for index := 0; index < faq.HomepageLimit; index++ {
		_, err := service.CreateEntry(context.Background(), faq.EntryInput{
			CategoryID:   category.ID,
			Question:     fmt.Sprintf("Pinned %d", index),
			Answer:       "A",
			Order:        index,
			ShowHomePage: true,
		})
		require.NoError(t, err)
	}

	// A sixth pin is rejected on create
	_, err = service.CreateEntry(context.Background(), faq.EntryInput{
		CategoryID: category.ID, Question: "One too many", Answer: "A",
		Order: 10, ShowHomePage: true,
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)

	// An unpinned entry cannot be promoted past the limit either
	unpinned, err := service.CreateEntry(context.Background(), faq.EntryInput{
		CategoryID: category.ID, Question: "Unpinned", Answer: "A", Order: 11,
	})
	require.NoError(t, err)

	pin := true
	_, err = service.UpdateEntry(context.Background(), unpinned.ID, faq.EntryUpdateInput{ShowHomePage: &pin})
	require.Error(t, err)

	// An already-pinned entry can still be edited
	homepage, err := service.ListHomepageEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, homepage, faq.HomepageLimit)

	question := "Edited question"
	_, err = service.UpdateEntry(context.Background(), homepage[0].ID, faq.EntryUpdateInput{
		Question:     &question,
		ShowHomePage: &pin,
	})
	assert.NoError(t, err)
}

/*
TestReorderEntry verifies the dedicated reorder path respects order
uniqueness within a category.
*/
func TestReorderEntry(t *testing.T) {
	service, _, _ := newTestService(t)

	category, err := service.CreateCategory(context.Background(), "General", 1)
	require.NoError(t, err)

	first, err := service.CreateEntry(context.Background(), faq.EntryInput{
		CategoryID: category.ID, Question: "Q1", Answer: "A1", Order: 1,
	})
	require.NoError(t, err)

	second, err := service.CreateEntry(context.Background(), faq.EntryInput{
		CategoryID: category.ID, Question: "Q2", Answer: "A2", Order: 2,
	})
	require.NoError(t, err)

	// Moving onto an occupied slot fails
	_, err = service.ReorderEntry(context.Background(), second.ID, 1)
	require.Error(t, err)

	// Moving to a free slot succeeds
	moved, err := service.ReorderEntry(context.Background(), second.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, moved.Order)

	// The other entry is untouched
	unchanged, err := service.GetEntry(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unchanged.Order)
}

/*
TestListGrouped verifies categories are returned in display order with
their entries nested.
*/
func TestListGrouped(t *testing.T) {
	service, _, _ := newTestService(t)

	general, err := service.CreateCategory(context.Background(), "General", 2)
	require.NoError(t, err)
	membership, err := service.CreateCategory(context.Background(), "Membership", 1)
	require.NoError(t, err)

	_, err = service.CreateEntry(context.Background(), faq.EntryInput{
		CategoryID: general.ID, Question: "G1", Answer: "A", Order: 1,
	})
	require.NoError(t, err)

	groups, err := service.ListGrouped(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, membership.ID, groups[0].Category.ID)
	assert.Empty(t, groups[0].Entries)
	assert.Equal(t, general.ID, groups[1].Category.ID)
	assert.Len(t, groups[1].Entries, 1)
}
