// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package faq provides the HTTP delivery layer for FAQ content.

# Security

Reads are public; every mutation requires the ADMIN role.
*/
package faq

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nicaa/alumni-api/internal/platform/middleware"
	requestutil "github.com/nicaa/alumni-api/internal/platform/request"
	"github.com/nicaa/alumni-api/internal/platform/respond"
	"github.com/nicaa/alumni-api/internal/platform/sec"
	"github.com/nicaa/alumni-api/internal/platform/validate"
)

// Handler implements the HTTP layer for FAQ content.
type Handler struct {
	faqService *Service
}

// NewHandler constructs a new FAQ [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{faqService: service}
}

// Routes returns a [chi.Router] configured with the FAQ domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public Reads
	router.Get("/", handler.listEntries)
	router.Get("/homepage", handler.listHomepageEntries)
	router.Get("/grouped", handler.listGrouped)
	router.Get("/categories", handler.listCategories)
	router.Get("/categories/{id}", handler.getCategory)
	router.Get("/categories/{id}/faqs", handler.listEntriesByCategory)
	router.Get("/{id}", handler.getEntry)

	// Administration
	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireRole(sec.RoleAdmin))

		router.Post("/categories", handler.createCategory)
		router.Patch("/categories/{id}", handler.updateCategory)
		router.Delete("/categories/{id}", handler.deleteCategory)

		router.Post("/", handler.createEntry)
		router.Patch("/{id}", handler.updateEntry)
		router.Patch("/{id}/reorder", handler.reorderEntry)
		router.Delete("/{id}", handler.deleteEntry)
	})

	return router
}

// # Category Endpoints

// categoryRequest defines the JSON payload for category creation and update.
type categoryRequest struct {
	Name  *string `json:"name"`
	Order *int    `json:"order"`
}

/*
POST /api/faqs/categories.

Response:
  - 201: Category: The persisted category
  - 409: ErrConflict: Duplicate name
*/
func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input categoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Custom("name", input.Name == nil || *input.Name == "", "is required")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order := 0
	if input.Order != nil {
		order = *input.Order
	}

	category, err := handler.faqService.CreateCategory(request.Context(), *input.Name, order)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, category)
}

// GET /api/faqs/categories.
func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.faqService.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

// GET /api/faqs/categories/{id}.
func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.faqService.GetCategory(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

/*
PATCH /api/faqs/categories/{id}.

Response:
  - 200: Category: The updated category
  - 404: ErrNotFound: Unknown category
  - 409: ErrConflict: Duplicate name
*/
func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	var input categoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.faqService.UpdateCategory(request.Context(), requestutil.ID(request),
		CategoryUpdateInput{Name: input.Name, Order: input.Order})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, category)
}

/*
DELETE /api/faqs/categories/{id}.

Description: Removes the category and cascades to every entry inside it.

Response:
  - 200: CategoryDeletion: Summary with the cascaded entry count
  - 404: ErrNotFound: Unknown category
*/
func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	deletion, err := handler.faqService.DeleteCategory(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, deletion)
}

// # Entry Endpoints

// entryRequest defines the JSON payload for entry creation.
type entryRequest struct {
	CategoryID   string `json:"categoryId"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Order        int    `json:"order"`
	ShowHomePage bool   `json:"showHomePage"`
}

/*
POST /api/faqs.

Response:
  - 201: Entry: The persisted entry
  - 400: Validation/Limit/Order: Invalid payload
  - 404: ErrNotFound: Unknown category
*/
func (handler *Handler) createEntry(writer http.ResponseWriter, request *http.Request) {
	var input entryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("categoryId", input.CategoryID).
		UUID("categoryId", input.CategoryID).
		Required("question", input.Question).
		Required("answer", input.Answer)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.faqService.CreateEntry(request.Context(), EntryInput{
		CategoryID:   input.CategoryID,
		Question:     input.Question,
		Answer:       input.Answer,
		Order:        input.Order,
		ShowHomePage: input.ShowHomePage,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

// GET /api/faqs.
func (handler *Handler) listEntries(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.faqService.ListEntries(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entries)
}

// GET /api/faqs/homepage.
func (handler *Handler) listHomepageEntries(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.faqService.ListHomepageEntries(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entries)
}

// GET /api/faqs/grouped.
func (handler *Handler) listGrouped(writer http.ResponseWriter, request *http.Request) {
	groups, err := handler.faqService.ListGrouped(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, groups)
}

// GET /api/faqs/categories/{id}/faqs.
func (handler *Handler) listEntriesByCategory(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.faqService.ListEntriesByCategory(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entries)
}

// GET /api/faqs/{id}.
func (handler *Handler) getEntry(writer http.ResponseWriter, request *http.Request) {
	entry, err := handler.faqService.GetEntry(request.Context(), requestutil.ID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entry)
}

// entryUpdateRequest defines the JSON payload for partial entry updates.
type entryUpdateRequest struct {
	CategoryID   *string `json:"categoryId"`
	Question     *string `json:"question"`
	Answer       *string `json:"answer"`
	Order        *int    `json:"order"`
	ShowHomePage *bool   `json:"showHomePage"`
}

/*
PATCH /api/faqs/{id}.

Response:
  - 200: Entry: The updated entry
  - 400: Validation/Limit/Order: Invalid payload
  - 404: ErrNotFound: Unknown entry or category
*/
func (handler *Handler) updateEntry(writer http.ResponseWriter, request *http.Request) {
	var input entryUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.faqService.UpdateEntry(request.Context(), requestutil.ID(request), EntryUpdateInput{
		CategoryID:   input.CategoryID,
		Question:     input.Question,
		Answer:       input.Answer,
		Order:        input.Order,
		ShowHomePage: input.ShowHomePage,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// reorderRequest defines the JSON payload for moving an entry.
type reorderRequest struct {
	Order int `json:"order"`
}

/*
PATCH /api/faqs/{id}/reorder.

Response:
  - 200: Entry: The entry at its new position
  - 400: Order: Slot already taken within the category
  - 404: ErrNotFound: Unknown entry
*/
func (handler *Handler) reorderEntry(writer http.ResponseWriter, request *http.Request) {
	var input reorderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.faqService.ReorderEntry(request.Context(), requestutil.ID(request), input.Order)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
DELETE /api/faqs/{id}.

Response:
  - 204: No Content: Entry deleted
  - 404: ErrNotFound: Unknown entry
*/
func (handler *Handler) deleteEntry(writer http.ResponseWriter, request *http.Request) {
	if err := handler.faqService.DeleteEntry(request.Context(), requestutil.ID(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
