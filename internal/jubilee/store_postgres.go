// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package jubilee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/dberr"
)

// participantColumns is the canonical column list for participant queries.
const participantColumns = `
	id, participantcategory, secretcode, fullname, phonenumber,
	alternativephonenumber, COALESCE(email, ''), hscpassingyear, groupname,
	gender, bloodgroup, paymenttype, amounttype, amount, comments,
	fathername, fatherphonenumber, fatheroccupation,
	mothername, motherphonenumber, motheroccupation,
	mainparticipantbatch, mainparticipantgroup, COALESCE(mainparticipantid, ''),
	mainparticipantname, guestname, guestmobilenumber, babyname, babyphone,
	createdat, updatedat`

// PostgresRepository persists jubilee participants in PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a participant repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanParticipant(row pgx.Row) (*Participant, error) {
	var participant Participant
	err := row.Scan(
		&participant.ID, &participant.ParticipantCategory, &participant.SecretCode,
		&participant.FullName, &participant.PhoneNumber, &participant.AlternativePhoneNumber,
		&participant.Email, &participant.HSCPassingYear, &participant.Group,
		&participant.Gender, &participant.BloodGroup, &participant.PaymentType,
		&participant.AmountType, &participant.Amount, &participant.Comments,
		&participant.FatherName, &participant.FatherPhoneNumber, &participant.FatherOccupation,
		&participant.MotherName, &participant.MotherPhoneNumber, &participant.MotherOccupation,
		&participant.MainParticipantBatch, &participant.MainParticipantGroup, &participant.MainParticipantID,
		&participant.MainParticipantName, &participant.GuestName, &participant.GuestMobileNumber,
		&participant.BabyName, &participant.BabyPhone,
		&participant.CreatedAt, &participant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func collectParticipants(rows pgx.Rows) ([]Participant, error) {
	defer rows.Close()
	participants := []Participant{}
	for rows.Next() {
		participant, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, *participant)
	}
	return participants, rows.Err()
}

// Create inserts a new participant row.
func (repository *PostgresRepository) Create(context context.Context, participant *Participant) error {
	query := `
		INSERT INTO core.participant (
			id, participantcategory, secretcode, fullname, phonenumber,
			alternativephonenumber, email, hscpassingyear, groupname,
			gender, bloodgroup, paymenttype, amounttype, amount, comments,
			fathername, fatherphonenumber, fatheroccupation,
			mothername, motherphonenumber, motheroccupation,
			mainparticipantbatch, mainparticipantgroup, mainparticipantid,
			mainparticipantname, guestname, guestmobilenumber, babyname, babyphone,
			createdat, updatedat
		) VALUES (
			$1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, NULLIF($24, ''),
			$25, $26, $27, $28, $29, $30, $31
		)`
	_, err := repository.pool.Exec(context, query,
		participant.ID, participant.ParticipantCategory, participant.SecretCode,
		participant.FullName, participant.PhoneNumber, participant.AlternativePhoneNumber,
		participant.Email, participant.HSCPassingYear, participant.Group,
		participant.Gender, participant.BloodGroup, participant.PaymentType,
		participant.AmountType, participant.Amount, participant.Comments,
		participant.FatherName, participant.FatherPhoneNumber, participant.FatherOccupation,
		participant.MotherName, participant.MotherPhoneNumber, participant.MotherOccupation,
		participant.MainParticipantBatch, participant.MainParticipantGroup, participant.MainParticipantID,
		participant.MainParticipantName, participant.GuestName, participant.GuestMobileNumber,
		participant.BabyName, participant.BabyPhone,
		participant.CreatedAt, participant.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_participant")
	}
	return nil
}

// List retrieves every participant, newest first.
func (repository *PostgresRepository) List(context context.Context) ([]Participant, error) {
	query := "SELECT " + participantColumns + " FROM core.participant ORDER BY createdat DESC"
	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_participants")
	}
	participants, err := collectParticipants(rows)
	if err != nil {
		return nil, dberr.Wrap(err, "list_participants")
	}
	return participants, nil
}

// FindByID retrieves one participant by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Participant, error) {
	query := "SELECT " + participantColumns + " FROM core.participant WHERE id = $1"
	participant, err := scanParticipant(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Participant not found")
		}
		return nil, dberr.Wrap(err, "get_participant")
	}
	return participant, nil
}

// SecretCodeExists reports whether a secret code has already been issued.
func (repository *PostgresRepository) SecretCodeExists(context context.Context, code string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM core.participant WHERE secretcode = $1)"
	if err := repository.pool.QueryRow(context, query, code).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_secret_code")
	}
	return exists, nil
}

// ContactInUse reports whether another non dependent participant already
// registered the email or phone number.
func (repository *PostgresRepository) ContactInUse(context context.Context, email, phone, excludeID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM core.participant
			WHERE (email = $1 OR phonenumber = $2)
			  AND participantcategory NOT IN ($3, $4)
			  AND id != $5
		)`
	err := repository.pool.QueryRow(context, query,
		email, phone, CategoryGuest, CategoryBaby, excludeID).Scan(&exists)
	if err != nil {
		return false, dberr.Wrap(err, "check_participant_contact")
	}
	return exists, nil
}

// ListByBatchAndGroup retrieves a batch's participants in one group sorted by
// full name. The batch matches the last two digits of the HSC passing year.
func (repository *PostgresRepository) ListByBatchAndGroup(context context.Context, batch int, group Group) ([]Participant, error) {
	query := "SELECT " + participantColumns + `
		FROM core.participant
		WHERE (hscpassingyear % 100) = ($1 % 100) AND groupname = $2
		ORDER BY fullname ASC`
	rows, err := repository.pool.Query(context, query, batch, group)
	if err != nil {
		return nil, dberr.Wrap(err, "list_batch_group_participants")
	}
	participants, err := collectParticipants(rows)
	if err != nil {
		return nil, dberr.Wrap(err, "list_batch_group_participants")
	}
	return participants, nil
}

// Update persists a participant's mutable fields. The secret code and
// category columns are left untouched.
func (repository *PostgresRepository) Update(context context.Context, participant *Participant) error {
	query := `
		UPDATE core.participant SET
			fullname = $2, phonenumber = $3, alternativephonenumber = $4,
			email = NULLIF($5, ''), hscpassingyear = $6, groupname = $7,
			gender = $8, bloodgroup = $9, paymenttype = $10, amounttype = $11,
			amount = $12, comments = $13,
			fathername = $14, fatherphonenumber = $15, fatheroccupation = $16,
			mothername = $17, motherphonenumber = $18, motheroccupation = $19,
			guestname = $20, guestmobilenumber = $21, babyname = $22, babyphone = $23,
			updatedat = $24
		WHERE id = $1`
	tag, err := repository.pool.Exec(context, query,
		participant.ID,
		participant.FullName, participant.PhoneNumber, participant.AlternativePhoneNumber,
		participant.Email, participant.HSCPassingYear, participant.Group,
		participant.Gender, participant.BloodGroup, participant.PaymentType,
		participant.AmountType, participant.Amount, participant.Comments,
		participant.FatherName, participant.FatherPhoneNumber, participant.FatherOccupation,
		participant.MotherName, participant.MotherPhoneNumber, participant.MotherOccupation,
		participant.GuestName, participant.GuestMobileNumber,
		participant.BabyName, participant.BabyPhone,
		participant.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_participant")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Participant not found")
	}
	return nil
}

// Delete removes a participant row.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, "DELETE FROM core.participant WHERE id = $1", id)
	if err != nil {
		return dberr.Wrap(err, "delete_participant")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Participant not found")
	}
	return nil
}
