// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package souvenir

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nicaa/alumni-api/internal/platform/middleware"
	requestutil "github.com/nicaa/alumni-api/internal/platform/request"
	"github.com/nicaa/alumni-api/internal/platform/respond"
	"github.com/nicaa/alumni-api/internal/platform/sec"
	"github.com/nicaa/alumni-api/internal/platform/validate"
	"github.com/nicaa/alumni-api/pkg/pagination"
)

// Handler exposes the souvenir submission endpoints.
type Handler struct {
	souvenirService *Service
}

// NewHandler creates the souvenir HTTP handler.
func NewHandler(souvenirService *Service) *Handler {
	return &Handler{souvenirService: souvenirService}
}

// Routes mounts the souvenir endpoints onto a fresh router.
// Submission is an open alumni form; management requires an admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.createSubmission)
	router.Get("/", handler.listSubmissions)
	router.Get("/{id}", handler.getSubmission)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Patch("/{id}", handler.updateSubmission)
		admin.Patch("/{id}/photo", handler.updateSubmissionPhoto)
		admin.Delete("/{id}", handler.deleteSubmission)
	})

	return router
}

type submissionRequest struct {
	Category            string   `json:"category"`
	Name                string   `json:"name"`
	Batch               string   `json:"batch"`
	Group               string   `json:"group"`
	PhoneNumber         string   `json:"phoneNumber"`
	Email               string   `json:"email"`
	PhotoURL            string   `json:"photoUrl"`
	PhotoURLs           []string `json:"photoUrls"`
	Content             string   `json:"content"`
	ProfessionalDetails string   `json:"professionalDetails"`
}

func (input submissionRequest) validate() error {
	v := validate.New()
	v.Required("category", input.Category)
	v.MaxLen("category", input.Category, 100)
	v.Required("name", input.Name)
	v.MaxLen("name", input.Name, 200)
	v.Required("batch", input.Batch)
	v.Required("group", input.Group)
	v.Required("phoneNumber", input.PhoneNumber)
	v.Required("email", input.Email)
	v.Email("email", input.Email)
	if input.PhotoURL != "" {
		v.URL("photoUrl", input.PhotoURL)
	}
	for _, photoURL := range input.PhotoURLs {
		v.URL("photoUrls", photoURL)
	}
	return v.Err()
}

func (input submissionRequest) toSubmission() *Submission {
	return &Submission{
		Category:            input.Category,
		Name:                input.Name,
		Batch:               input.Batch,
		Group:               input.Group,
		PhoneNumber:         input.PhoneNumber,
		Email:               input.Email,
		PhotoURL:            input.PhotoURL,
		PhotoURLs:           input.PhotoURLs,
		Content:             input.Content,
		ProfessionalDetails: input.ProfessionalDetails,
	}
}

func (handler *Handler) createSubmission(writer http.ResponseWriter, request *http.Request) {
	var input submissionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}
	submission, err := handler.souvenirService.Create(request.Context(), input.toSubmission())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, submission)
}

func (handler *Handler) listSubmissions(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := ListFilter{
		Category:   query.Get("category"),
		Batch:      query.Get("batch"),
		Group:      query.Get("group"),
		Search:     query.Get("search"),
		SortBy:     query.Get("sortBy"),
		SortOrder:  query.Get("sortOrder"),
		Pagination: pagination.FromRequest(request),
	}
	submissions, meta, err := handler.souvenirService.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, submissions, meta)
}

func (handler *Handler) getSubmission(writer http.ResponseWriter, request *http.Request) {
	submission, err := handler.souvenirService.Get(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, submission)
}

type updateSubmissionRequest struct {
	Category            *string   `json:"category"`
	Name                *string   `json:"name"`
	Batch               *string   `json:"batch"`
	Group               *string   `json:"group"`
	PhoneNumber         *string   `json:"phoneNumber"`
	Email               *string   `json:"email"`
	PhotoURL            *string   `json:"photoUrl"`
	PhotoURLs           *[]string `json:"photoUrls"`
	Content             *string   `json:"content"`
	ProfessionalDetails *string   `json:"professionalDetails"`
}

func (handler *Handler) updateSubmission(writer http.ResponseWriter, request *http.Request) {
	var input updateSubmissionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	v := validate.New()
	if input.Email != nil {
		v.Email("email", *input.Email)
	}
	if input.PhotoURL != nil && *input.PhotoURL != "" {
		v.URL("photoUrl", *input.PhotoURL)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	submission, err := handler.souvenirService.Update(request.Context(), requestutil.ID(request), UpdateInput{
		Category:            input.Category,
		Name:                input.Name,
		Batch:               input.Batch,
		Group:               input.Group,
		PhoneNumber:         input.PhoneNumber,
		Email:               input.Email,
		PhotoURL:            input.PhotoURL,
		PhotoURLs:           input.PhotoURLs,
		Content:             input.Content,
		ProfessionalDetails: input.ProfessionalDetails,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, submission)
}

type updatePhotoRequest struct {
	PhotoURL string `json:"photoUrl"`
}

func (handler *Handler) updateSubmissionPhoto(writer http.ResponseWriter, request *http.Request) {
	var input updatePhotoRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	v := validate.New()
	v.Required("photoUrl", input.PhotoURL)
	v.URL("photoUrl", input.PhotoURL)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	submission, err := handler.souvenirService.UpdatePhoto(request.Context(), requestutil.ID(request), input.PhotoURL)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, submission)
}

func (handler *Handler) deleteSubmission(writer http.ResponseWriter, request *http.Request) {
	if err := handler.souvenirService.Delete(request.Context(), requestutil.ID(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Message(writer, "Souvenir deleted successfully")
}
