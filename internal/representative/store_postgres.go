// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package representative

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/dberr"
)

const representativeColumns = `
	id, name, phone, facebookurl, comments, hscyear, hscgroup, gender,
	createdat, updatedat`

// PostgresRepository persists representative applications in PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a representative repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanRepresentative(row pgx.Row) (*Representative, error) {
	var representative Representative
	err := row.Scan(
		&representative.ID, &representative.Name, &representative.Phone,
		&representative.FacebookURL, &representative.Comments,
		&representative.HSCYear, &representative.HSCGroup, &representative.Gender,
		&representative.CreatedAt, &representative.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &representative, nil
}

// Create inserts a new application row.
func (repository *PostgresRepository) Create(context context.Context, representative *Representative) error {
	query := `
		INSERT INTO core.representative (
			id, name, phone, facebookurl, comments, hscyear, hscgroup, gender,
			createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repository.pool.Exec(context, query,
		representative.ID, representative.Name, representative.Phone,
		representative.FacebookURL, representative.Comments,
		representative.HSCYear, representative.HSCGroup, representative.Gender,
		representative.CreatedAt, representative.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_representative")
	}
	return nil
}

// List retrieves every application, oldest first.
func (repository *PostgresRepository) List(context context.Context) ([]Representative, error) {
	query := "SELECT " + representativeColumns + " FROM core.representative ORDER BY createdat ASC"
	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_representatives")
	}
	defer rows.Close()

	representatives := []Representative{}
	for rows.Next() {
		representative, err := scanRepresentative(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_representative")
		}
		representatives = append(representatives, *representative)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_representatives")
	}
	return representatives, nil
}

// FindByID retrieves one application by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Representative, error) {
	query := "SELECT " + representativeColumns + " FROM core.representative WHERE id = $1"
	representative, err := scanRepresentative(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Representative")
		}
		return nil, dberr.Wrap(err, "get_representative")
	}
	return representative, nil
}

// PhoneInUse reports whether another application holds the phone number.
func (repository *PostgresRepository) PhoneInUse(context context.Context, phone, excludeID string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM core.representative WHERE phone = $1 AND id != $2)"
	if err := repository.pool.QueryRow(context, query, phone, excludeID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_representative_phone")
	}
	return exists, nil
}

// Update persists an application's mutable fields.
func (repository *PostgresRepository) Update(context context.Context, representative *Representative) error {
	query := `
		UPDATE core.representative SET
			name = $2, phone = $3, facebookurl = $4, comments = $5,
			hscyear = $6, hscgroup = $7, gender = $8, updatedat = $9
		WHERE id = $1`
	tag, err := repository.pool.Exec(context, query,
		representative.ID, representative.Name, representative.Phone,
		representative.FacebookURL, representative.Comments,
		representative.HSCYear, representative.HSCGroup, representative.Gender,
		representative.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_representative")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Representative")
	}
	return nil
}

// Delete removes an application row.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, "DELETE FROM core.representative WHERE id = $1", id)
	if err != nil {
		return dberr.Wrap(err, "delete_representative")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Representative")
	}
	return nil
}
