// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package faq (Postgres) implements the storage layer for FAQ content over the
core.faqcategory and core.faq tables.
*/
package faq

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/dberr"
)

// # Category Repository

// PostgresCategoryRepository implements [CategoryRepository] using pgx.
type PostgresCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new Postgres implementation for FAQ categories.
func NewCategoryRepository(pool *pgxpool.Pool) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{pool: pool}
}

const categoryColumns = `id, name, displayorder, createdat, updatedat`

func scanCategory(row pgx.Row) (*Category, error) {
	category := &Category{}
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Order,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (repository *PostgresCategoryRepository) Create(context context.Context, category *Category) error {
	const query = `
		INSERT INTO core.faqcategory (id, name, displayorder, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5)`

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		category.ID, category.Name, category.Order, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_faq_category")
	}
	return nil
}

func (repository *PostgresCategoryRepository) List(context context.Context) ([]Category, error) {
	query := "SELECT " + categoryColumns + " FROM core.faqcategory ORDER BY displayorder ASC"

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_faq_categories")
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_faq_category")
		}
		categories = append(categories, *category)
	}
	return categories, nil
}

func (repository *PostgresCategoryRepository) FindByID(context context.Context, id string) (*Category, error) {
	query := "SELECT " + categoryColumns + " FROM core.faqcategory WHERE id = $1"

	category, err := scanCategory(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("FAQ category not found")
		}
		return nil, dberr.Wrap(err, "get_faq_category")
	}
	return category, nil
}

func (repository *PostgresCategoryRepository) NameInUse(context context.Context, name, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM core.faqcategory WHERE name = $1 AND id != $2)`

	var taken bool
	if err := repository.pool.QueryRow(context, query, name, excludeID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "check_faq_category_name")
	}
	return taken, nil
}

func (repository *PostgresCategoryRepository) ShiftOrders(context context.Context, fromOrder int, excludeID string) error {
	const query = `
		UPDATE core.faqcategory
		SET displayorder = displayorder + 1, updatedat = $3
		WHERE displayorder >= $1 AND id != $2`

	_, err := repository.pool.Exec(context, query, fromOrder, excludeID, time.Now())
	if err != nil {
		return dberr.Wrap(err, "shift_faq_category_order")
	}
	return nil
}

func (repository *PostgresCategoryRepository) Update(context context.Context, category *Category) error {
	const query = `
		UPDATE core.faqcategory
		SET name = $2, displayorder = $3, updatedat = $4
		WHERE id = $1`

	category.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		category.ID, category.Name, category.Order, category.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_faq_category")
	}
	return nil
}

func (repository *PostgresCategoryRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM core.faqcategory WHERE id = $1`

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_faq_category")
	}
	return nil
}

// # Entry Repository

// PostgresEntryRepository implements [EntryRepository] using pgx.
type PostgresEntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new Postgres implementation for FAQ entries.
func NewEntryRepository(pool *pgxpool.Pool) *PostgresEntryRepository {
	return &PostgresEntryRepository{pool: pool}
}

// entryColumns joins the category name in for every read.
const entryColumns = `
	f.id, f.categoryid, c.name, f.question, f.answer,
	f.displayorder, f.showhomepage, f.createdat, f.updatedat`

const entryFrom = ` FROM core.faq f JOIN core.faqcategory c ON c.id = f.categoryid `

func scanEntry(row pgx.Row) (*Entry, error) {
	entry := &Entry{}
	err := row.Scan(
		&entry.ID,
		&entry.CategoryID,
		&entry.CategoryName,
		&entry.Question,
		&entry.Answer,
		&entry.Order,
		&entry.ShowHomePage,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (repository *PostgresEntryRepository) collect(context context.Context, query string, args ...interface{}) ([]Entry, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_faqs")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_faq")
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

func (repository *PostgresEntryRepository) Create(context context.Context, entry *Entry) error {
	const query = `
		INSERT INTO core.faq (
			id, categoryid, question, answer, displayorder, showhomepage,
			createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		entry.ID, entry.CategoryID, entry.Question, entry.Answer,
		entry.Order, entry.ShowHomePage, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_faq")
	}
	return nil
}

func (repository *PostgresEntryRepository) List(context context.Context) ([]Entry, error) {
	query := "SELECT " + entryColumns + entryFrom + "ORDER BY f.displayorder ASC, f.createdat DESC"
	return repository.collect(context, query)
}

func (repository *PostgresEntryRepository) ListByCategory(context context.Context, categoryID string) ([]Entry, error) {
	query := "SELECT " + entryColumns + entryFrom +
		"WHERE f.categoryid = $1 ORDER BY f.displayorder ASC, f.createdat DESC"
	return repository.collect(context, query, categoryID)
}

func (repository *PostgresEntryRepository) ListHomepage(context context.Context, limit int) ([]Entry, error) {
	query := "SELECT " + entryColumns + entryFrom +
		"WHERE f.showhomepage ORDER BY f.displayorder ASC, f.createdat DESC LIMIT $1"
	return repository.collect(context, query, limit)
}

func (repository *PostgresEntryRepository) FindByID(context context.Context, id string) (*Entry, error) {
	query := "SELECT " + entryColumns + entryFrom + "WHERE f.id = $1"

	entry, err := scanEntry(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("FAQ not found")
		}
		return nil, dberr.Wrap(err, "get_faq")
	}
	return entry, nil
}

func (repository *PostgresEntryRepository) CountHomepage(context context.Context, excludeID string) (int, error) {
	const query = `SELECT COUNT(*) FROM core.faq WHERE showhomepage AND id != $1`

	var count int
	if err := repository.pool.QueryRow(context, query, excludeID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_homepage_faqs")
	}
	return count, nil
}

func (repository *PostgresEntryRepository) OrderTaken(
	context context.Context, categoryID string, order int, excludeID string,
) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM core.faq
			WHERE categoryid = $1 AND displayorder = $2 AND id != $3
		)`

	var taken bool
	if err := repository.pool.QueryRow(context, query, categoryID, order, excludeID).Scan(&taken); err != nil {
		return false, dberr.Wrap(err, "check_faq_order")
	}
	return taken, nil
}

func (repository *PostgresEntryRepository) Update(context context.Context, entry *Entry) error {
	const query = `
		UPDATE core.faq
		SET categoryid = $2, question = $3, answer = $4, displayorder = $5,
			showhomepage = $6, updatedat = $7
		WHERE id = $1`

	entry.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		entry.ID, entry.CategoryID, entry.Question, entry.Answer,
		entry.Order, entry.ShowHomePage, entry.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "update_faq")
	}
	return nil
}

func (repository *PostgresEntryRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM core.faq WHERE id = $1`

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_faq")
	}
	return nil
}

func (repository *PostgresEntryRepository) DeleteByCategory(context context.Context, categoryID string) (int, error) {
	const query = `DELETE FROM core.faq WHERE categoryid = $1`

	tag, err := repository.pool.Exec(context, query, categoryID)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_faqs_by_category")
	}
	return int(tag.RowsAffected()), nil
}
