// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package jubilee manages Silver Jubilee celebration participants.

Registration is open to five participant categories with category-dependent
validation: Alumni, Student and Lifetime Membership registrants supply full
personal and parental details, while Guest and Baby registrants ride on a
main participant's batch and group. Every participant receives a unique
secret code used at the venue.

# Secret Code

The code format is {batch}-{groupCode}-{dd}-{mm}-{random6}, where batch is
the last two digits of the HSC passing year (or the main participant's
batch), groupCode maps Science=01, Business Studies=02, Humanities=03, and
dd/mm fix the registration day.
*/
package jubilee

import (
	"context"
	"time"
)

// # Enumerations

// Category is the kind of registrant.
type Category string

const (
	CategoryAlumni             Category = "Alumni"
	CategoryStudent            Category = "Student"
	CategoryGuest              Category = "Guest"
	CategoryBaby               Category = "Baby"
	CategoryLifetimeMembership Category = "Lifetime Membership"
)

// IsDependent reports whether the category registers through a main participant.
func (category Category) IsDependent() bool {
	return category == CategoryGuest || category == CategoryBaby
}

// Group is an HSC academic group.
type Group string

const (
	GroupScience         Group = "Science"
	GroupBusinessStudies Group = "Business Studies"
	GroupHumanities      Group = "Humanities"
)

// Code returns the two-digit secret-code fragment for the group.
func (group Group) Code() string {
	switch group {
	case GroupScience:
		return "01"
	case GroupBusinessStudies:
		return "02"
	case GroupHumanities:
		return "03"
	default:
		return "00"
	}
}

// Gender of a registrant.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// BloodGroup of a registrant.
type BloodGroup string

const (
	BloodUnknown    BloodGroup = "Don't know"
	BloodAPositive  BloodGroup = "A+"
	BloodBPositive  BloodGroup = "B+"
	BloodOPositive  BloodGroup = "O+"
	BloodABPositive BloodGroup = "AB+"
	BloodABNegative BloodGroup = "AB-"
	BloodANegative  BloodGroup = "A-"
	BloodBNegative  BloodGroup = "B-"
	BloodONegative  BloodGroup = "O-"
)

// PaymentType is the channel a registration fee arrived through.
type PaymentType string

const (
	PaymentBkash       PaymentType = "Bkash"
	PaymentNagad       PaymentType = "Nagad"
	PaymentCash        PaymentType = "Cash"
	PaymentBankAccount PaymentType = "Bank Account"
)

// AmountType distinguishes registration fees from donations.
type AmountType string

const (
	AmountRegistration AmountType = "Registration"
	AmountDonation     AmountType = "Donation"
)

// # Domain Entities

// Participant is a single Silver Jubilee registration.
type Participant struct {
	ID                  string   `json:"id"`
	ParticipantCategory Category `json:"participantCategory"`
	SecretCode          string   `json:"secretCode"`

	// Personal information; required unless the category is dependent
	FullName               string     `json:"fullName,omitempty"`
	PhoneNumber            string     `json:"phoneNumber,omitempty"`
	AlternativePhoneNumber string     `json:"alternativePhoneNumber,omitempty"`
	Email                  string     `json:"email,omitempty"`
	HSCPassingYear         int        `json:"hscPassingYear,omitempty"`
	Group                  Group      `json:"group,omitempty"`
	Gender                 Gender     `json:"gender,omitempty"`
	BloodGroup             BloodGroup `json:"bloodGroup,omitempty"`

	PaymentType PaymentType `json:"paymentType"`
	AmountType  AmountType  `json:"amountType"`
	Amount      float64     `json:"amount"`
	Comments    string      `json:"comments,omitempty"`

	// Parental information; required unless the category is dependent
	FatherName        string `json:"fatherName,omitempty"`
	FatherPhoneNumber string `json:"fatherPhoneNumber,omitempty"`
	FatherOccupation  string `json:"fatherOccupation,omitempty"`
	MotherName        string `json:"motherName,omitempty"`
	MotherPhoneNumber string `json:"motherPhoneNumber,omitempty"`
	MotherOccupation  string `json:"motherOccupation,omitempty"`

	// Anchor to the main participant for Guest and Baby categories
	MainParticipantBatch int    `json:"mainParticipantBatch,omitempty"`
	MainParticipantGroup Group  `json:"mainParticipantGroup,omitempty"`
	MainParticipantID    string `json:"mainParticipantId,omitempty"`
	MainParticipantName  string `json:"mainParticipantName,omitempty"`

	GuestName         string `json:"guestName,omitempty"`
	GuestMobileNumber string `json:"guestMobileNumber,omitempty"`

	BabyName  string `json:"babyName,omitempty"`
	BabyPhone string `json:"babyPhone,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// # Statistics

// Statistics aggregates registration counts and collected amounts.
type Statistics struct {
	TotalParticipants int `json:"totalParticipants"`

	ByCategory    map[Category]int    `json:"byCategory"`
	ByGroup       map[Group]int       `json:"byGroup"`
	ByPaymentType map[PaymentType]int `json:"byPaymentType"`

	TotalAmount        float64 `json:"totalAmount"`
	RegistrationAmount float64 `json:"registrationAmount"`
	DonationAmount     float64 `json:"donationAmount"`
}

// BatchGroupListing pairs a batch/group filter with its matches.
type BatchGroupListing struct {
	Batch        int           `json:"batch"`
	Group        Group         `json:"group"`
	Total        int           `json:"total"`
	Participants []Participant `json:"participants"`
}

// # Repository Contract

// Repository defines the persistence contract for jubilee participants.
type Repository interface {
	// Create persists a new participant.
	Create(context context.Context, participant *Participant) error

	// List retrieves every participant, newest first.
	List(context context.Context) ([]Participant, error)

	// FindByID retrieves a participant or apperr.NotFound.
	FindByID(context context.Context, id string) (*Participant, error)

	// SecretCodeExists reports whether a code has already been issued.
	SecretCodeExists(context context.Context, code string) (bool, error)

	// ContactInUse reports whether a non-dependent participant already holds
	// the email or phone number, skipping excludeID.
	ContactInUse(context context.Context, email, phone, excludeID string) (bool, error)

	// ListByBatchAndGroup retrieves a batch's participants in one group,
	// sorted by full name.
	ListByBatchAndGroup(context context.Context, batch int, group Group) ([]Participant, error)

	// Update persists a participant's mutable fields.
	Update(context context.Context, participant *Participant) error

	// Delete removes a participant row.
	Delete(context context.Context, id string) error
}
