// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package jubilee

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/validate"
	"github.com/nicaa/alumni-api/pkg/slice"
	"github.com/nicaa/alumni-api/pkg/uuid"
)

// secretCodeAttempts bounds the uniqueness loop; collisions on a six digit
// suffix within the same batch and day are vanishingly rare.
const secretCodeAttempts = 10

/*
Service implements participant registration, lookup, statistics and bulk
import for the Silver Jubilee.
*/
type Service struct {
	participantRepository Repository
	logger                *slog.Logger

	// codeSuffix produces the random trailing digits of a secret code.
	codeSuffix func() string
}

/*
NewService creates the jubilee participant service.

Parameters:
  - participantRepository: persistence layer for participants.
  - logger: structured logger.

Returns:
  - *Service: ready to use service instance.
*/
func NewService(participantRepository Repository, logger *slog.Logger) *Service {
	return &Service{
		participantRepository: participantRepository,
		logger:                logger,
		codeSuffix: func() string {
			return fmt.Sprintf("%06d", rand.Intn(1000000))
		},
	}
}

// # Validation

func validGroups() []string {
	return []string{string(GroupScience), string(GroupBusinessStudies), string(GroupHumanities)}
}

func validBloodGroups() []string {
	return []string{
		string(BloodUnknown), string(BloodAPositive), string(BloodBPositive),
		string(BloodOPositive), string(BloodABPositive), string(BloodABNegative),
		string(BloodANegative), string(BloodBNegative), string(BloodONegative),
	}
}

/*
validateParticipant enforces the category dependent field requirements.

Guest and Baby registrations anchor to a main participant's batch and group,
every other category supplies full personal and parental details.
*/
func validateParticipant(input *Participant) error {
	v := validate.New()
	v.OneOf("participantCategory", string(input.ParticipantCategory),
		string(CategoryAlumni), string(CategoryStudent), string(CategoryGuest),
		string(CategoryBaby), string(CategoryLifetimeMembership))
	v.OneOf("paymentType", string(input.PaymentType),
		string(PaymentBkash), string(PaymentNagad), string(PaymentCash), string(PaymentBankAccount))
	if input.AmountType != "" {
		v.OneOf("amountType", string(input.AmountType), string(AmountRegistration), string(AmountDonation))
	}
	v.Custom("amount", input.Amount < 0, "must not be negative")

	switch input.ParticipantCategory {
	case CategoryGuest, CategoryBaby:
		v.Custom("mainParticipantBatch", input.MainParticipantBatch <= 0, "is required")
		v.OneOf("mainParticipantGroup", string(input.MainParticipantGroup), validGroups()...)
		if input.ParticipantCategory == CategoryGuest {
			v.Required("guestName", input.GuestName)
			v.Required("guestMobileNumber", input.GuestMobileNumber)
		} else {
			v.Required("mainParticipantId", input.MainParticipantID)
			v.Required("babyName", input.BabyName)
			v.Required("babyPhone", input.BabyPhone)
		}
	default:
		v.Required("fullName", input.FullName)
		v.Required("phoneNumber", input.PhoneNumber)
		v.Required("email", input.Email)
		v.Email("email", input.Email)
		v.Custom("hscPassingYear", input.HSCPassingYear < 1950 || input.HSCPassingYear > 2100, "must be a valid year")
		v.OneOf("group", string(input.Group), validGroups()...)
		v.OneOf("gender", string(input.Gender), string(GenderMale), string(GenderFemale))
		v.OneOf("bloodGroup", string(input.BloodGroup), validBloodGroups()...)
		v.Required("fatherName", input.FatherName)
		v.Required("fatherPhoneNumber", input.FatherPhoneNumber)
		v.Required("fatherOccupation", input.FatherOccupation)
		v.Required("motherName", input.MotherName)
		v.Required("motherPhoneNumber", input.MotherPhoneNumber)
		v.Required("motherOccupation", input.MotherOccupation)
	}
	return v.Err()
}

// # Secret Code

/*
generateSecretCode builds a code in the form {batch}-{groupCode}-{dd}-{mm}-{random6}.

The batch is the last two digits of the HSC passing year; Guest and Baby
registrations use the main participant's batch and group instead.
*/
func (service *Service) generateSecretCode(participant *Participant, now time.Time) string {
	year := participant.HSCPassingYear
	group := participant.Group
	if participant.ParticipantCategory.IsDependent() {
		year = participant.MainParticipantBatch
		group = participant.MainParticipantGroup
	}
	return fmt.Sprintf("%02d-%s-%02d-%02d-%s",
		year%100, group.Code(), now.Day(), int(now.Month()), service.codeSuffix())
}

func (service *Service) uniqueSecretCode(context context.Context, participant *Participant) (string, error) {
	now := time.Now()
	for attempt := 0; attempt < secretCodeAttempts; attempt++ {
		code := service.generateSecretCode(participant, now)
		taken, err := service.participantRepository.SecretCodeExists(context, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("jubilee_secret_code_exhausted: no unique code after %d attempts", secretCodeAttempts)
}

// # Registration

/*
Register validates and persists a new participant.

A main participant referenced by Guest or Baby registrations must exist, and
non dependent categories must not reuse an email or phone number that is
already registered.

Parameters:
  - context: request scoped context.
  - input: participant payload without ID, secret code or timestamps.

Returns:
  - *Participant: the stored participant including its secret code.
  - error: validation, duplicate or repository failure.
*/
func (service *Service) Register(context context.Context, input *Participant) (*Participant, error) {
	if input.AmountType == "" {
		input.AmountType = AmountRegistration
	}
	if err := validateParticipant(input); err != nil {
		return nil, err
	}

	if input.ParticipantCategory.IsDependent() && input.MainParticipantID != "" {
		main, err := service.participantRepository.FindByID(context, input.MainParticipantID)
		if err != nil {
			if apperr.As(err) != nil {
				return nil, apperr.BadRequest("Main participant not found")
			}
			return nil, err
		}
		input.MainParticipantName = main.FullName
	}

	if !input.ParticipantCategory.IsDependent() {
		inUse, err := service.participantRepository.ContactInUse(context, input.Email, input.PhoneNumber, "")
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, apperr.BadRequest("Participant with this email or phone number already registered")
		}
	}

	code, err := service.uniqueSecretCode(context, input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	input.ID = uuid.New()
	input.SecretCode = code
	input.CreatedAt = now
	input.UpdatedAt = now

	if err := service.participantRepository.Create(context, input); err != nil {
		return nil, err
	}
	service.logger.Info("jubilee participant registered",
		slog.String("participantId", input.ID),
		slog.String("category", string(input.ParticipantCategory)))
	return input, nil
}

// # Lookup

// List returns every participant, newest first.
func (service *Service) List(context context.Context) ([]Participant, error) {
	return service.participantRepository.List(context)
}

// Get returns one participant by ID.
func (service *Service) Get(context context.Context, id string) (*Participant, error) {
	return service.participantRepository.FindByID(context, id)
}

/*
GetByBatchAndGroup lists a batch's participants within one academic group,
sorted by full name.

Returns apperr.NotFound when no participant matches.
*/
func (service *Service) GetByBatchAndGroup(context context.Context, batch int, group Group) (*BatchGroupListing, error) {
	participants, err := service.participantRepository.ListByBatchAndGroup(context, batch, group)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, apperr.NotFound(fmt.Sprintf("No participants found for batch %d in group %s", batch, group))
	}
	return &BatchGroupListing{
		Batch:        batch,
		Group:        group,
		Total:        len(participants),
		Participants: participants,
	}, nil
}

// # Mutation

// UpdateInput carries the optional fields of a partial participant update.
type UpdateInput struct {
	FullName               *string
	PhoneNumber            *string
	AlternativePhoneNumber *string
	Email                  *string
	HSCPassingYear         *int
	Group                  *Group
	Gender                 *Gender
	BloodGroup             *BloodGroup
	PaymentType            *PaymentType
	AmountType             *AmountType
	Amount                 *float64
	Comments               *string
	FatherName             *string
	FatherPhoneNumber      *string
	FatherOccupation       *string
	MotherName             *string
	MotherPhoneNumber      *string
	MotherOccupation       *string
	GuestName              *string
	GuestMobileNumber      *string
	BabyName               *string
	BabyPhone              *string
}

/*
Update applies a partial update to a participant.

The category and secret code are immutable; a changed email or phone number
is checked for duplicates against every other non dependent participant.
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Participant, error) {
	participant, err := service.participantRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		participant.FullName = *input.FullName
	}
	if input.PhoneNumber != nil {
		participant.PhoneNumber = *input.PhoneNumber
	}
	if input.AlternativePhoneNumber != nil {
		participant.AlternativePhoneNumber = *input.AlternativePhoneNumber
	}
	if input.Email != nil {
		participant.Email = *input.Email
	}
	if input.HSCPassingYear != nil {
		participant.HSCPassingYear = *input.HSCPassingYear
	}
	if input.Group != nil {
		participant.Group = *input.Group
	}
	if input.Gender != nil {
		participant.Gender = *input.Gender
	}
	if input.BloodGroup != nil {
		participant.BloodGroup = *input.BloodGroup
	}
	if input.PaymentType != nil {
		participant.PaymentType = *input.PaymentType
	}
	if input.AmountType != nil {
		participant.AmountType = *input.AmountType
	}
	if input.Amount != nil {
		participant.Amount = *input.Amount
	}
	if input.Comments != nil {
		participant.Comments = *input.Comments
	}
	if input.FatherName != nil {
		participant.FatherName = *input.FatherName
	}
	if input.FatherPhoneNumber != nil {
		participant.FatherPhoneNumber = *input.FatherPhoneNumber
	}
	if input.FatherOccupation != nil {
		participant.FatherOccupation = *input.FatherOccupation
	}
	if input.MotherName != nil {
		participant.MotherName = *input.MotherName
	}
	if input.MotherPhoneNumber != nil {
		participant.MotherPhoneNumber = *input.MotherPhoneNumber
	}
	if input.MotherOccupation != nil {
		participant.MotherOccupation = *input.MotherOccupation
	}
	if input.GuestName != nil {
		participant.GuestName = *input.GuestName
	}
	if input.GuestMobileNumber != nil {
		participant.GuestMobileNumber = *input.GuestMobileNumber
	}
	if input.BabyName != nil {
		participant.BabyName = *input.BabyName
	}
	if input.BabyPhone != nil {
		participant.BabyPhone = *input.BabyPhone
	}

	if err := validateParticipant(participant); err != nil {
		return nil, err
	}

	contactChanged := input.Email != nil || input.PhoneNumber != nil
	if contactChanged && !participant.ParticipantCategory.IsDependent() {
		inUse, err := service.participantRepository.ContactInUse(context, participant.Email, participant.PhoneNumber, id)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, apperr.BadRequest("Participant with this email or phone number already registered")
		}
	}

	participant.UpdatedAt = time.Now()
	if err := service.participantRepository.Update(context, participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// Delete removes a participant after verifying it exists.
func (service *Service) Delete(context context.Context, id string) error {
	if _, err := service.participantRepository.FindByID(context, id); err != nil {
		return err
	}
	return service.participantRepository.Delete(context, id)
}

// # Statistics

/*
GetStatistics aggregates registration counts per category, group and payment
type plus the collected amounts.
*/
func (service *Service) GetStatistics(context context.Context) (*Statistics, error) {
	participants, err := service.participantRepository.List(context)
	if err != nil {
		return nil, err
	}

	statistics := &Statistics{
		TotalParticipants: len(participants),
		ByCategory:        map[Category]int{},
		ByGroup:           map[Group]int{},
		ByPaymentType:     map[PaymentType]int{},
	}
	for _, participant := range participants {
		statistics.ByCategory[participant.ParticipantCategory]++
		if participant.Group != "" {
			statistics.ByGroup[participant.Group]++
		}
		statistics.ByPaymentType[participant.PaymentType]++
		statistics.TotalAmount += participant.Amount
		switch participant.AmountType {
		case AmountDonation:
			statistics.DonationAmount += participant.Amount
		default:
			statistics.RegistrationAmount += participant.Amount
		}
	}
	return statistics, nil
}

// # Bulk Import

// ImportRowError reports a single rejected CSV row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes a CSV bulk import.
type ImportResult struct {
	CreatedCount int              `json:"createdCount"`
	FailedCount  int              `json:"failedCount"`
	Created      []Participant    `json:"created"`
	Errors       []ImportRowError `json:"errors"`
}

/*
ImportCSV registers participants from a CSV file.

The first record is a header naming the participant fields in camelCase
(participantCategory, fullName, phoneNumber, ...). Rows are processed one by
one; a row that fails validation or registration is recorded under Errors
without aborting the remaining rows.

Parameters:
  - context: request scoped context.
  - reader: the uploaded CSV content.

Returns:
  - *ImportResult: created participants and per row errors.
  - error: malformed CSV or missing header.
*/
func (service *Service) ImportCSV(context context.Context, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, apperr.BadRequest("CSV file is empty or unreadable")
	}
	columns := make(map[string]int, len(header))
	for index, name := range header {
		columns[strings.TrimSpace(name)] = index
	}
	if _, ok := columns["participantCategory"]; !ok {
		return nil, apperr.BadRequest("CSV header must include a participantCategory column")
	}

	result := &ImportResult{
		Created: []Participant{},
		Errors:  []ImportRowError{},
	}
	rowNumber := 1
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			result.FailedCount++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNumber, Message: "malformed CSV row"})
			continue
		}

		participant, err := participantFromRecord(columns, record)
		if err == nil {
			_, err = service.Register(context, participant)
		}
		if err != nil {
			message := err.Error()
			if appError := apperr.As(err); appError != nil {
				message = appError.Message
				if len(appError.Details) > 0 {
					parts := slice.Map(appError.Details, func(detail apperr.FieldError) string {
						return fmt.Sprintf("%s %s", detail.Field, detail.Message)
					})
					message = strings.Join(parts, "; ")
				}
			}
			result.FailedCount++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNumber, Message: message})
			continue
		}
		result.CreatedCount++
		result.Created = append(result.Created, *participant)
	}

	service.logger.Info("jubilee csv import finished",
		slog.Int("created", result.CreatedCount),
		slog.Int("failed", result.FailedCount))
	return result, nil
}

func participantFromRecord(columns map[string]int, record []string) (*Participant, error) {
	field := func(name string) string {
		index, ok := columns[name]
		if !ok || index >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[index])
	}
	numeric := func(name string) (int, error) {
		raw := field(name)
		if raw == "" {
			return 0, nil
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return 0, apperr.BadRequest(fmt.Sprintf("%s must be a number", name))
		}
		return value, nil
	}

	participant := &Participant{
		ParticipantCategory:    Category(field("participantCategory")),
		FullName:               field("fullName"),
		PhoneNumber:            field("phoneNumber"),
		AlternativePhoneNumber: field("alternativePhoneNumber"),
		Email:                  field("email"),
		Group:                  Group(field("group")),
		Gender:                 Gender(field("gender")),
		BloodGroup:             BloodGroup(field("bloodGroup")),
		PaymentType:            PaymentType(field("paymentType")),
		AmountType:             AmountType(field("amountType")),
		Comments:               field("comments"),
		FatherName:             field("fatherName"),
		FatherPhoneNumber:      field("fatherPhoneNumber"),
		FatherOccupation:       field("fatherOccupation"),
		MotherName:             field("motherName"),
		MotherPhoneNumber:      field("motherPhoneNumber"),
		MotherOccupation:       field("motherOccupation"),
		MainParticipantGroup:   Group(field("mainParticipantGroup")),
		MainParticipantID:      field("mainParticipantId"),
		GuestName:              field("guestName"),
		GuestMobileNumber:      field("guestMobileNumber"),
		BabyName:               field("babyName"),
		BabyPhone:              field("babyPhone"),
	}

	var err error
	if participant.HSCPassingYear, err = numeric("hscPassingYear"); err != nil {
		return nil, err
	}
	if participant.MainParticipantBatch, err = numeric("mainParticipantBatch"); err != nil {
		return nil, err
	}
	if raw := field("amount"); raw != "" {
		amount, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			return nil, apperr.BadRequest("amount must be a number")
		}
		participant.Amount = amount
	}
	return participant, nil
}
