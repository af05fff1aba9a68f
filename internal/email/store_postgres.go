// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package email

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicaa/alumni-api/internal/platform/dberr"
)

// PostgresLogRepository persists email log entries in PostgreSQL.
type PostgresLogRepository struct {
	pool *pgxpool.Pool
}

// NewLogRepository creates an email log repository backed by the given pool.
func NewLogRepository(pool *pgxpool.Pool) *PostgresLogRepository {
	return &PostgresLogRepository{pool: pool}
}

// Record inserts one delivery attempt.
func (repository *PostgresLogRepository) Record(context context.Context, entry *LogEntry) error {
	query := `
		INSERT INTO users.emaillog (
			id, recipientemail, recipientname, subject, templatename,
			logtype, errormessage, sentat, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repository.pool.Exec(context, query,
		entry.ID, entry.RecipientEmail, entry.RecipientName,
		entry.Subject, entry.TemplateName, entry.Type,
		entry.ErrorMessage, entry.SentAt, entry.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "record_email_log")
	}
	return nil
}
