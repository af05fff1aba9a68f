// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package faq manages the frequently-asked-questions content of the platform.

It covers two related collections: ordered categories with unique names, and
the question/answer entries that belong to them. A bounded subset of entries
can be pinned to the homepage.

# Invariants

  - Category names are unique.
  - Entry order numbers are unique within a category.
  - At most [HomepageLimit] entries are flagged for the homepage.
*/
package faq

import (
	"context"
	"time"
)

// HomepageLimit caps how many entries may be pinned to the homepage.
const HomepageLimit = 5

// # Domain Entities

// Category is a named, ordered grouping of FAQ entries.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Entry is a single question/answer pair within a category.
type Entry struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"categoryId"`
	// CategoryName is joined in on reads for client convenience
	CategoryName string    `json:"categoryName,omitempty"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Order        int       `json:"order"`
	ShowHomePage bool      `json:"showHomePage"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CategoryGroup pairs a category with its entries for the grouped listing.
type CategoryGroup struct {
	Category Category `json:"category"`
	Entries  []Entry  `json:"faqs"`
}

// # Repository Contracts

// CategoryRepository defines the persistence contract for FAQ categories.
type CategoryRepository interface {
	// Create persists a new category.
	Create(context context.Context, category *Category) error

	// List retrieves every category ordered by its order number.
	List(context context.Context) ([]Category, error)

	// FindByID retrieves a category or apperr.NotFound.
	FindByID(context context.Context, id string) (*Category, error)

	// NameInUse reports whether a name belongs to a different category.
	NameInUse(context context.Context, name, excludeID string) (bool, error)

	// ShiftOrders pushes every category at or after the given order down by
	// one, skipping excludeID.
	ShiftOrders(context context.Context, fromOrder int, excludeID string) error

	// Update persists a category's mutable fields.
	Update(context context.Context, category *Category) error

	// Delete removes a category row.
	Delete(context context.Context, id string) error
}

// EntryRepository defines the persistence contract for FAQ entries.
type EntryRepository interface {
	// Create persists a new entry.
	Create(context context.Context, entry *Entry) error

	// List retrieves every entry ordered by order, then newest first.
	List(context context.Context) ([]Entry, error)

	// ListByCategory retrieves a category's entries in display order.
	ListByCategory(context context.Context, categoryID string) ([]Entry, error)

	// ListHomepage retrieves up to limit homepage-flagged entries.
	ListHomepage(context context.Context, limit int) ([]Entry, error)

	// FindByID retrieves an entry or apperr.NotFound.
	FindByID(context context.Context, id string) (*Entry, error)

	// CountHomepage counts homepage-flagged entries, skipping excludeID.
	CountHomepage(context context.Context, excludeID string) (int, error)

	// OrderTaken reports whether another entry in the category holds the order.
	OrderTaken(context context.Context, categoryID string, order int, excludeID string) (bool, error)

	// Update persists an entry's mutable fields.
	Update(context context.Context, entry *Entry) error

	// Delete removes an entry row.
	Delete(context context.Context, id string) error

	// DeleteByCategory removes every entry of a category and reports how many.
	DeleteByCategory(context context.Context, categoryID string) (int, error)
}
