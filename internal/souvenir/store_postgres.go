// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package souvenir

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/dberr"
)

const submissionColumns = `
	id, category, name, batch, groupname, phonenumber, email,
	COALESCE(photourl, ''), photourls, content, professionaldetails,
	createdat, updatedat`

// sortColumns whitelists the ORDER BY targets for submission listings.
var sortColumns = map[string]string{
	"createdAt": "createdat",
	"name":      "name",
	"batch":     "batch",
	"category":  "category",
}

// PostgresRepository persists souvenir submissions in PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a submission repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanSubmission(row pgx.Row) (*Submission, error) {
	var submission Submission
	err := row.Scan(
		&submission.ID, &submission.Category, &submission.Name,
		&submission.Batch, &submission.Group, &submission.PhoneNumber,
		&submission.Email, &submission.PhotoURL, &submission.PhotoURLs,
		&submission.Content, &submission.ProfessionalDetails,
		&submission.CreatedAt, &submission.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// Create inserts a new submission row.
func (repository *PostgresRepository) Create(context context.Context, submission *Submission) error {
	query := `
		INSERT INTO core.souvenir (
			id, category, name, batch, groupname, phonenumber, email,
			photourl, photourls, content, professionaldetails, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, $12, $13)`
	_, err := repository.pool.Exec(context, query,
		submission.ID, submission.Category, submission.Name,
		submission.Batch, submission.Group, submission.PhoneNumber,
		submission.Email, submission.PhotoURL, submission.PhotoURLs,
		submission.Content, submission.ProfessionalDetails,
		submission.CreatedAt, submission.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_souvenir")
	}
	return nil
}

// List retrieves a filtered, sorted page of submissions plus the total count.
func (repository *PostgresRepository) List(context context.Context, filter ListFilter) ([]Submission, int, error) {
	conditions := "WHERE 1=1"
	args := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Batch != "" {
		args = append(args, filter.Batch)
		conditions += fmt.Sprintf(" AND batch = $%d", len(args))
	}
	if filter.Group != "" {
		args = append(args, filter.Group)
		conditions += fmt.Sprintf(" AND groupname = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", len(args), len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM core.souvenir " + conditions
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_souvenirs")
	}

	orderColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		orderColumn = "createdat"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	args = append(args, filter.Pagination.Limit, filter.Pagination.Offset())
	query := fmt.Sprintf("SELECT %s FROM core.souvenir %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		submissionColumns, conditions, orderColumn, direction, len(args)-1, len(args))

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_souvenirs")
	}
	defer rows.Close()

	submissions := []Submission{}
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_souvenir")
		}
		submissions = append(submissions, *submission)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_souvenirs")
	}
	return submissions, total, nil
}

// FindByID retrieves one submission by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Submission, error) {
	query := "SELECT " + submissionColumns + " FROM core.souvenir WHERE id = $1"
	submission, err := scanSubmission(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Souvenir")
		}
		return nil, dberr.Wrap(err, "get_souvenir")
	}
	return submission, nil
}

// Update persists a submission's mutable fields.
func (repository *PostgresRepository) Update(context context.Context, submission *Submission) error {
	query := `
		UPDATE core.souvenir SET
			category = $2, name = $3, batch = $4, groupname = $5,
			phonenumber = $6, email = $7, photourl = NULLIF($8, ''),
			photourls = $9, content = $10, professionaldetails = $11, updatedat = $12
		WHERE id = $1`
	tag, err := repository.pool.Exec(context, query,
		submission.ID, submission.Category, submission.Name,
		submission.Batch, submission.Group, submission.PhoneNumber,
		submission.Email, submission.PhotoURL, submission.PhotoURLs,
		submission.Content, submission.ProfessionalDetails, submission.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_souvenir")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Souvenir")
	}
	return nil
}

// Delete removes a submission row.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, "DELETE FROM core.souvenir WHERE id = $1", id)
	if err != nil {
		return dberr.Wrap(err, "delete_souvenir")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Souvenir")
	}
	return nil
}
