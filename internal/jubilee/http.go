// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package jubilee

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/internal/platform/middleware"
	requestutil "github.com/nicaa/alumni-api/internal/platform/request"
	"github.com/nicaa/alumni-api/internal/platform/respond"
	"github.com/nicaa/alumni-api/internal/platform/validate"
	"github.com/nicaa/alumni-api/pkg/pointer"
)

// maxCSVUploadBytes caps the participant import payload at 5 MiB.
const maxCSVUploadBytes = 5 << 20

// ConfirmationMailer delivers registration confirmation emails.
type ConfirmationMailer interface {
	SendJubileeConfirmation(context context.Context, participant *Participant) error
}

// Handler exposes the jubilee participant endpoints.
type Handler struct {
	service *Service
	mailer  ConfirmationMailer
}

// NewHandler creates the jubilee HTTP handler.
func NewHandler(service *Service, mailer ConfirmationMailer) *Handler {
	return &Handler{service: service, mailer: mailer}
}

// Routes mounts the participant endpoints onto a fresh router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listParticipants)
	router.Get("/by-batch-group", handler.listByBatchAndGroup)
	router.Get("/{id}", handler.getParticipant)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Post("/register", handler.registerParticipant)
		protected.Get("/statistics", handler.getStatistics)
		protected.Patch("/{id}", handler.updateParticipant)
		protected.Delete("/{id}", handler.deleteParticipant)
		protected.Post("/{id}/send-email", handler.sendConfirmationEmail)
		protected.Post("/upload-csv", handler.importParticipants)
	})

	return router
}

func (handler *Handler) registerParticipant(writer http.ResponseWriter, request *http.Request) {
	var input Participant
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	participant, err := handler.service.Register(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, participant)
}

func (handler *Handler) listParticipants(writer http.ResponseWriter, request *http.Request) {
	participants, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, participants)
}

func (handler *Handler) listByBatchAndGroup(writer http.ResponseWriter, request *http.Request) {
	batchParam := request.URL.Query().Get("batch")
	group := request.URL.Query().Get("group")

	v := validate.New()
	batch, err := strconv.Atoi(batchParam)
	v.Custom("batch", batchParam == "" || err != nil || batch < 0, "must be a non-negative number")
	v.OneOf("group", group, validGroups()...)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	listing, err := handler.service.GetByBatchAndGroup(request.Context(), batch, Group(group))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, listing)
}

func (handler *Handler) getStatistics(writer http.ResponseWriter, request *http.Request) {
	statistics, err := handler.service.GetStatistics(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, statistics)
}

func (handler *Handler) getParticipant(writer http.ResponseWriter, request *http.Request) {
	participant, err := handler.service.Get(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, participant)
}

type updateParticipantRequest struct {
	FullName               *string  `json:"fullName"`
	PhoneNumber            *string  `json:"phoneNumber"`
	AlternativePhoneNumber *string  `json:"alternativePhoneNumber"`
	Email                  *string  `json:"email"`
	HSCPassingYear         *int     `json:"hscPassingYear"`
	Group                  *string  `json:"group"`
	Gender                 *string  `json:"gender"`
	BloodGroup             *string  `json:"bloodGroup"`
	PaymentType            *string  `json:"paymentType"`
	AmountType             *string  `json:"amountType"`
	Amount                 *float64 `json:"amount"`
	Comments               *string  `json:"comments"`
	FatherName             *string  `json:"fatherName"`
	FatherPhoneNumber      *string  `json:"fatherPhoneNumber"`
	FatherOccupation       *string  `json:"fatherOccupation"`
	MotherName             *string  `json:"motherName"`
	MotherPhoneNumber      *string  `json:"motherPhoneNumber"`
	MotherOccupation       *string  `json:"motherOccupation"`
	GuestName              *string  `json:"guestName"`
	GuestMobileNumber      *string  `json:"guestMobileNumber"`
	BabyName               *string  `json:"babyName"`
	BabyPhone              *string  `json:"babyPhone"`
}

func (input updateParticipantRequest) toInput() UpdateInput {
	update := UpdateInput{
		FullName:               input.FullName,
		PhoneNumber:            input.PhoneNumber,
		AlternativePhoneNumber: input.AlternativePhoneNumber,
		Email:                  input.Email,
		HSCPassingYear:         input.HSCPassingYear,
		Amount:                 input.Amount,
		Comments:               input.Comments,
		FatherName:             input.FatherName,
		FatherPhoneNumber:      input.FatherPhoneNumber,
		FatherOccupation:       input.FatherOccupation,
		MotherName:             input.MotherName,
		MotherPhoneNumber:      input.MotherPhoneNumber,
		MotherOccupation:       input.MotherOccupation,
		GuestName:              input.GuestName,
		GuestMobileNumber:      input.GuestMobileNumber,
		BabyName:               input.BabyName,
		BabyPhone:              input.BabyPhone,
	}
	if raw := input.Group; raw != nil {
		update.Group = pointer.To(Group(*raw))
	}
	if raw := input.Gender; raw != nil {
		update.Gender = pointer.To(Gender(*raw))
	}
	if raw := input.BloodGroup; raw != nil {
		update.BloodGroup = pointer.To(BloodGroup(*raw))
	}
	if raw := input.PaymentType; raw != nil {
		update.PaymentType = pointer.To(PaymentType(*raw))
	}
	if raw := input.AmountType; raw != nil {
		update.AmountType = pointer.To(AmountType(*raw))
	}
	return update
}

func (handler *Handler) updateParticipant(writer http.ResponseWriter, request *http.Request) {
	var input updateParticipantRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	participant, err := handler.service.Update(request.Context(), requestutil.ID(request), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, participant)
}

func (handler *Handler) deleteParticipant(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, "Participant deleted successfully")
}

func (handler *Handler) sendConfirmationEmail(writer http.ResponseWriter, request *http.Request) {
	participant, err := handler.service.Get(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if participant.Email == "" {
		respond.Error(writer, request, apperr.BadRequest("Participant has no email address on record"))
		return
	}
	if err := handler.mailer.SendJubileeConfirmation(request.Context(), participant); err != nil {
		respond.Error(writer, request, apperr.Internal(fmt.Errorf("jubilee_confirmation_mail_failed: %w", err)))
		return
	}
	respond.Message(writer, "Confirmation email sent successfully")
}

func (handler *Handler) importParticipants(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseMultipartForm(maxCSVUploadBytes); err != nil {
		respond.Error(writer, request, apperr.BadRequest("Expected a multipart form with a CSV file"))
		return
	}
	file, _, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, apperr.BadRequest("A CSV file is required under the \"file\" field"))
		return
	}
	defer file.Close()

	result, err := handler.service.ImportCSV(request.Context(), file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
