// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package representative

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nicaa/alumni-api/internal/platform/middleware"
	requestutil "github.com/nicaa/alumni-api/internal/platform/request"
	"github.com/nicaa/alumni-api/internal/platform/respond"
	"github.com/nicaa/alumni-api/internal/platform/sec"
	"github.com/nicaa/alumni-api/internal/platform/validate"
)

// Handler exposes the batch representative endpoints.
type Handler struct {
	representativeService *Service
}

// NewHandler creates the representative HTTP handler.
func NewHandler(representativeService *Service) *Handler {
	return &Handler{representativeService: representativeService}
}

// Routes mounts the representative endpoints onto a fresh router.
// Applying is an open alumni form; review requires an admin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.createRepresentative)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Get("/", handler.listRepresentatives)
		admin.Get("/dashboard", handler.getDashboardStats)
		admin.Get("/{id}", handler.getRepresentative)
		admin.Patch("/{id}", handler.updateRepresentative)
		admin.Delete("/{id}", handler.deleteRepresentative)
	})

	return router
}

type representativeRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	FacebookURL string `json:"facebookUrl"`
	Comments    string `json:"comments"`
	HSCYear     int    `json:"hscYear"`
	HSCGroup    string `json:"hscGroup"`
	Gender      string `json:"gender"`
}

func (input representativeRequest) validate() error {
	v := validate.New()
	v.Required("name", input.Name)
	v.Required("phone", input.Phone)
	v.Phone("phone", input.Phone)
	v.Required("facebookUrl", input.FacebookURL)
	v.URL("facebookUrl", input.FacebookURL)
	v.Range("hscYear", input.HSCYear, 1950, 2100)
	v.Required("hscGroup", input.HSCGroup)
	v.OneOf("gender", input.Gender, "Male", "Female")
	return v.Err()
}

func (input representativeRequest) toRepresentative() *Representative {
	return &Representative{
		Name:        input.Name,
		Phone:       input.Phone,
		FacebookURL: input.FacebookURL,
		Comments:    input.Comments,
		HSCYear:     input.HSCYear,
		HSCGroup:    input.HSCGroup,
		Gender:      input.Gender,
	}
}

func (handler *Handler) createRepresentative(writer http.ResponseWriter, request *http.Request) {
	var input representativeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}
	representative, err := handler.representativeService.Create(request.Context(), input.toRepresentative())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, representative)
}

func (handler *Handler) listRepresentatives(writer http.ResponseWriter, request *http.Request) {
	representatives, err := handler.representativeService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, representatives)
}

func (handler *Handler) getDashboardStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.representativeService.GetDashboardStats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

func (handler *Handler) getRepresentative(writer http.ResponseWriter, request *http.Request) {
	representative, err := handler.representativeService.Get(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, representative)
}

func (handler *Handler) updateRepresentative(writer http.ResponseWriter, request *http.Request) {
	var input representativeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}
	representative, err := handler.representativeService.Update(
		request.Context(), requestutil.ID(request), input.toRepresentative())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, representative)
}

func (handler *Handler) deleteRepresentative(writer http.ResponseWriter, request *http.Request) {
	representative, err := handler.representativeService.Delete(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, representative)
}
