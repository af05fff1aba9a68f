// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package faq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for FAQ categories and entries.
type Service struct {
	categoryRepository CategoryRepository
	entryRepository    EntryRepository
	logger             *slog.Logger
}

// NewService constructs a new [Service].
func NewService(categoryRepo CategoryRepository, entryRepo EntryRepository, logger *slog.Logger) *Service {
	return &Service{
		categoryRepository: categoryRepo,
		entryRepository:    entryRepo,
		logger:             logger,
	}
}

// # Category Management

/*
CreateCategory persists a new FAQ category.

Description: Names are unique across all categories. When the requested
order number collides with existing categories they are shifted down to
make room.

Parameters:
  - context: context.Context
  - name: string
  - order: int

Returns:
  - *Category: The persisted category
  - error: Duplicate name or storage failures
*/
func (service *Service) CreateCategory(context context.Context, name string, order int) (*Category, error) {
	taken, err := service.categoryRepository.NameInUse(context, name, "")
	if err != nil {
		return nil, fmt.Errorf("faq_service_category_name_check_failed: %w", err)
	}
	if taken {
		return nil, apperr.Conflict(fmt.Sprintf("Category with name %q already exists", name))
	}

	if err := service.categoryRepository.ShiftOrders(context, order, ""); err != nil {
		return nil, fmt.Errorf("faq_service_category_shift_failed: %w", err)
	}

	category := &Category{
		ID:    uuid.New(),
		Name:  name,
		Order: order,
	}
	if err := service.categoryRepository.Create(context, category); err != nil {
		return nil, fmt.Errorf("faq_service_category_create_failed: %w", err)
	}

	service.logger.Info("faq_category_created", slog.String("category_id", category.ID))

	return category, nil
}

// ListCategories retrieves every category in display order.
func (service *Service) ListCategories(context context.Context) ([]Category, error) {
	categories, err := service.categoryRepository.List(context)
	if err != nil {
		return nil, fmt.Errorf("faq_service_category_list_failed: %w", err)
	}
	return categories, nil
}

// GetCategory retrieves a single category by ID.
func (service *Service) GetCategory(context context.Context, id string) (*Category, error) {
	category, err := service.categoryRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("faq_service_category_get_failed: %w", err)
	}
	return category, nil
}

// CategoryUpdateInput defines the mutable category fields. Nil means unchanged.
type CategoryUpdateInput struct {
	Name  *string
	Order *int
}

/*
UpdateCategory applies partial changes to a category.

Parameters:
  - context: context.Context
  - id: string
  - input: CategoryUpdateInput

Returns:
  - *Category: The updated category
  - error: Duplicate name, not found or storage failures
*/
func (service *Service) UpdateCategory(context context.Context, id string, input CategoryUpdateInput) (*Category, error) {
	category, err := service.categoryRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("faq_service_category_update_lookup_failed: %w", err)
	}

	if input.Name != nil && *input.Name != category.Name {
		taken, err := service.categoryRepository.NameInUse(context, *input.Name, id)
		if err != nil {
			return nil, fmt.Errorf("faq_service_category_name_check_failed: %w", err)
		}
		if taken {
			return nil, apperr.Conflict(fmt.Sprintf("Category with name %q already exists", *input.Name))
		}
		category.Name = *input.Name
	}

	if input.Order != nil && *input.Order != category.Order {
		if err := service.categoryRepository.ShiftOrders(context, *input.Order, id); err != nil {
			return nil, fmt.Errorf("faq_service_category_shift_failed: %w", err)
		}
		category.Order = *input.Order
	}

	if err := service.categoryRepository.Update(context, category); err != nil {
		return nil, fmt.Errorf("faq_service_category_update_failed: %w", err)
	}

	return category, nil
}

// CategoryDeletion reports the outcome of a cascading category removal.
type CategoryDeletion struct {
	Message          string `json:"message"`
	DeletedFaqsCount int    `json:"deletedFaqsCount"`
}

/*
DeleteCategory removes a category together with every entry it contains.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *CategoryDeletion: Summary including the cascaded entry count
  - error: Not found or storage failures
*/
func (service *Service) DeleteCategory(context context.Context, id string) (*CategoryDeletion, error) {
	category, err := service.categoryRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("faq_service_category_delete_lookup_failed: %w", err)
	}

	deleted, err := service.entryRepository.DeleteByCategory(context, id)
	if err != nil {
		return nil, fmt.Errorf("faq_service_category_cascade_failed: %w", err)
	}

	if err := service.categoryRepository.Delete(context, id); err != nil {
		return nil, fmt.Errorf("faq_service_category_delete_failed: %w", err)
	}

	service.logger.Warn("faq_category_deleted",
		slog.String("category_id", id),
		slog.Int("cascaded_entries", deleted),
	)

	return &CategoryDeletion{
		Message:          fmt.Sprintf("Category %q and %d related FAQs deleted successfully", category.Name, deleted),
		DeletedFaqsCount: deleted,
	}, nil
}

// # Entry Management

// EntryInput carries the payload for creating an entry.
type EntryInput struct {
	CategoryID   string
	Question     string
	Answer       string
	Order        int
	ShowHomePage bool
}

// checkHomepageCapacity enforces the homepage pin limit.
func (service *Service) checkHomepageCapacity(context context.Context, excludeID string) error {
	pinned, err := service.entryRepository.CountHomepage(context, excludeID)
	if err != nil {
		return fmt.Errorf("faq_service_homepage_count_failed: %w", err)
	}
	if pinned >= HomepageLimit {
		return apperr.BadRequest(fmt.Sprintf(
			"Maximum %d FAQs can be shown on the homepage. Please remove some existing homepage FAQs first.",
			HomepageLimit))
	}
	return nil
}

// checkOrderUniqueness enforces per-category order uniqueness.
func (service *Service) checkOrderUniqueness(context context.Context, categoryID string, order int, excludeID string) error {
	taken, err := service.entryRepository.OrderTaken(context, categoryID, order, excludeID)
	if err != nil {
		return fmt.Errorf("faq_service_order_check_failed: %w", err)
	}
	if taken {
		return apperr.BadRequest(fmt.Sprintf(
			"An FAQ with order %d already exists in this category. Please choose a different order number.", order))
	}
	return nil
}

/*
CreateEntry persists a new FAQ entry.

Description: The referenced category must exist, the homepage pin limit is
enforced when ShowHomePage is set, and the order number must be free within
the category.

Parameters:
  - context: context.Context
  - input: EntryInput

Returns:
  - *Entry: The persisted entry
  - error: Unknown category, limit, order or storage failures
*/
func (service *Service) CreateEntry(context context.Context, input EntryInput) (*Entry, error) {
	category, err := service.categoryRepository.FindByID(context, input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("faq_service_entry_category_lookup_failed: %w", err)
	}

	if input.ShowHomePage {
		if err := service.checkHomepageCapacity(context, ""); err != nil {
			return nil, err
		}
	}

	if err := service.checkOrderUniqueness(context, input.CategoryID, input.Order, ""); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:           uuid.New(),
		CategoryID:   input.CategoryID,
		CategoryName: category.Name,
		Question:     input.Question,
		Answer:       input.Answer,
		Order:        input.Order,
		ShowHomePage: input.ShowHomePage,
	}
	if err := service.entryRepository.Create(context, entry); err != nil {
		return nil, fmt.Errorf("faq_service_entry_create_failed: %w", err)
	}

	service.logger.Info("faq_entry_created",
		slog.String("faq_id", entry.ID),
		slog.String("category_id", entry.CategoryID),
	)

	return entry, nil
}

// ListEntries retrieves every entry in display order.
func (service *Service) ListEntries(context context.Context) ([]Entry, error) {
	entries, err := service.entryRepository.List(context)
	if err != nil {
		return nil, fmt.Errorf("faq_service_entry_list_failed: %w", err)
	}
	return entries, nil
}

// ListEntriesByCategory retrieves a category's entries in display order.
func (service *Service) ListEntriesByCategory(context context.Context, categoryID string) ([]Entry, error) {
	if _, err := service.categoryRepository.FindByID(context, categoryID); err != nil {
		return nil, fmt.Errorf("faq_service_entry_category_lookup_failed: %w", err)
	}

	entries, err := service.entryRepository.ListByCategory(context, categoryID)
	if err != nil {
		return nil, fmt.Errorf("faq_service_entry_list_by_category_failed: %w", err)
	}
	return entries, nil
}

// ListHomepageEntries retrieves the homepage-pinned entries.
func (service *Service) ListHomepageEntries(context context.Context) ([]Entry, error) {
	entries, err := service.entryRepository.ListHomepage(context, HomepageLimit)
	if err != nil {
		return nil, fmt.Errorf("faq_service_homepage_list_failed: %w", err)
	}
	return entries, nil
}

/*
ListGrouped retrieves every category paired with its entries.

Returns:
  - []CategoryGroup: Categories in display order, entries nested
  - error: Retrieval failures
*/
func (service *Service) ListGrouped(context context.Context) ([]CategoryGroup, error) {
	categories, err := service.categoryRepository.List(context)
	if err != nil {
		return nil, fmt.Errorf("faq_service_grouped_categories_failed: %w", err)
	}

	groups := make([]CategoryGroup, 0, len(categories))
	for _, category := range categories {
		entries, err := service.entryRepository.ListByCategory(context, category.ID)
		if err != nil {
			return nil, fmt.Errorf("faq_service_grouped_entries_failed: %w", err)
		}
		groups = append(groups, CategoryGroup{Category: category, Entries: entries})
	}

	return groups, nil
}

// GetEntry retrieves a single entry by ID.
func (service *Service) GetEntry(context context.Context, id string) (*Entry, error) {
	entry, err := service.entryRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("faq_service_entry_get_failed: %w", err)
	}
	return entry, nil
}

// EntryUpdateInput defines the mutable entry fields. Nil means unchanged.
type EntryUpdateInput struct {
	CategoryID   *string
	Question     *string
	Answer       *string
	Order        *int
	ShowHomePage *bool
}

/*
UpdateEntry applies partial changes to an entry.

Description: Re-validates the category reference, homepage limit and order
uniqueness against the merged state.

Parameters:
  - context: context.Context
  - id: string
  - input: EntryUpdateInput

Returns:
  - *Entry: The updated entry
  - error: Validation, not found or storage failures
*/
func (service *Service) UpdateEntry(context context.Context, id string, input EntryUpdateInput) (*Entry, error) {
	entry, err := service.entryRepository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("faq_service_entry_update_lookup_failed: %w", err)
	}

	if input.CategoryID != nil && *input.CategoryID != entry.CategoryID {
		category, err := service.categoryRepository.FindByID(context, *input.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("faq_service_entry_category_lookup_failed: %w", err)
		}
		entry.CategoryID = category.ID
		entry.CategoryName = category.Name
	}

	if input.ShowHomePage != nil && *input.ShowHomePage && !entry.ShowHomePage {
		if err := service.checkHomepageCapacity(context, id); err != nil {
			return nil, err
		}
	}
	if input.ShowHomePage != nil {
		entry.ShowHomePage = *input.ShowHomePage
	}

	if input.Order != nil && *input.Order != entry.Order {
		if err := service.checkOrderUniqueness(context, entry.CategoryID, *input.Order, id); err != nil {
			return nil, err
		}
		entry.Order = *input.Order
	}

	if input.Question != nil {
		entry.Question = *input.Question
	}
	if input.Answer != nil {
		entry.Answer = *input.Answer
	}

	if err := service.entryRepository.Update(context, entry); err != nil {
		return nil, fmt.Errorf("faq_service_entry_update_failed: %w", err)
	}

	return entry, nil
}

/*
ReorderEntry moves an entry to a new order slot within its category.

Parameters:
  - context: context.Context
  - id: string
  - newOrder: int

Returns:
  - *Entry: The entry at its new position
  - error: Order collision, not found or storage failures
*/
func (service *Service) ReorderEntry(context context.Context, id string, newOrder int) (*Entry, error) {
	order := newOrder
	return service.UpdateEntry(context, id, EntryUpdateInput{Order: &order})
}

// DeleteEntry removes a single entry.
func (service *Service) DeleteEntry(context context.Context, id string) error {
	if _, err := service.entryRepository.FindByID(context, id); err != nil {
		return fmt.Errorf("faq_service_entry_delete_lookup_failed: %w", err)
	}

	if err := service.entryRepository.Delete(context, id); err != nil {
		return fmt.Errorf("faq_service_entry_delete_failed: %w", err)
	}

	service.logger.Info("faq_entry_deleted", slog.String("faq_id", id))

	return nil
}
