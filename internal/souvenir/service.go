// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package souvenir

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/pkg/pagination"
	"github.com/nicaa/alumni-api/pkg/uuid"
)

// Service implements souvenir submission management.
type Service struct {
	submissionRepository Repository
	logger               *slog.Logger
}

// NewService creates the souvenir service.
func NewService(submissionRepository Repository, logger *slog.Logger) *Service {
	return &Service{submissionRepository: submissionRepository, logger: logger}
}

/*
checkPhotoFields enforces the category dependent photo rules.

The photo-gallery category carries one to ten entries in PhotoURLs and must
leave PhotoURL empty; every other category carries exactly PhotoURL plus
mandatory content and must leave PhotoURLs empty.
*/
func checkPhotoFields(submission *Submission) error {
	if submission.Category == CategoryPhotoGallery {
		if len(submission.PhotoURLs) == 0 {
			return apperr.BadRequest("At least 1 photo is required for photo-gallery category")
		}
		if len(submission.PhotoURLs) > MaxGalleryPhotos {
			return apperr.BadRequest("Maximum 10 photos allowed for photo-gallery category")
		}
		if submission.PhotoURL != "" {
			return apperr.BadRequest("photoUrl should not be set for photo-gallery category. Use photoUrls instead.")
		}
		return nil
	}
	if submission.PhotoURL == "" {
		return apperr.BadRequest("Photo upload is required for non-photo-gallery categories")
	}
	if submission.Content == "" {
		return apperr.BadRequest("Content is required for non-photo-gallery categories")
	}
	if len(submission.PhotoURLs) > 0 {
		return apperr.BadRequest("photoUrls should not be set for non-photo-gallery categories. Use photoUrl instead.")
	}
	return nil
}

/*
Create validates and persists a new submission.

Parameters:
  - context: request scoped context.
  - input: submission payload without ID or timestamps.

Returns:
  - *Submission: the stored submission.
  - error: validation or repository failure.
*/
func (service *Service) Create(context context.Context, input *Submission) (*Submission, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := checkPhotoFields(input); err != nil {
		return nil, err
	}
	if input.PhotoURLs == nil {
		input.PhotoURLs = []string{}
	}

	now := time.Now()
	input.ID = uuid.New()
	input.CreatedAt = now
	input.UpdatedAt = now

	if err := service.submissionRepository.Create(context, input); err != nil {
		return nil, err
	}
	service.logger.Info("souvenir submission created",
		slog.String("submissionId", input.ID),
		slog.String("category", input.Category))
	return input, nil
}

// List returns a filtered, paginated page of submissions.
func (service *Service) List(context context.Context, filter ListFilter) ([]Submission, pagination.Meta, error) {
	submissions, total, err := service.submissionRepository.List(context, filter)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return submissions, pagination.NewMeta(filter.Pagination.Page, filter.Pagination.Limit, total), nil
}

// Get returns one submission by ID.
func (service *Service) Get(context context.Context, id string) (*Submission, error) {
	return service.submissionRepository.FindByID(context, id)
}

// UpdateInput carries the optional fields of a partial submission update.
type UpdateInput struct {
	Category            *string
	Name                *string
	Batch               *string
	Group               *string
	PhoneNumber         *string
	Email               *string
	PhotoURL            *string
	PhotoURLs           *[]string
	Content             *string
	ProfessionalDetails *string
}

// Update applies a partial update and revalidates the photo rules.
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Submission, error) {
	submission, err := service.submissionRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Category != nil {
		submission.Category = *input.Category
	}
	if input.Name != nil {
		submission.Name = *input.Name
	}
	if input.Batch != nil {
		submission.Batch = *input.Batch
	}
	if input.Group != nil {
		submission.Group = *input.Group
	}
	if input.PhoneNumber != nil {
		submission.PhoneNumber = *input.PhoneNumber
	}
	if input.Email != nil {
		submission.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.PhotoURL != nil {
		submission.PhotoURL = *input.PhotoURL
	}
	if input.PhotoURLs != nil {
		submission.PhotoURLs = *input.PhotoURLs
	}
	if input.Content != nil {
		submission.Content = *input.Content
	}
	if input.ProfessionalDetails != nil {
		submission.ProfessionalDetails = *input.ProfessionalDetails
	}

	if err := checkPhotoFields(submission); err != nil {
		return nil, err
	}

	submission.UpdatedAt = time.Now()
	if err := service.submissionRepository.Update(context, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// UpdatePhoto replaces only the single photo URL of a submission.
func (service *Service) UpdatePhoto(context context.Context, id, photoURL string) (*Submission, error) {
	return service.Update(context, id, UpdateInput{PhotoURL: &photoURL})
}

// Delete removes a submission after verifying it exists.
func (service *Service) Delete(context context.Context, id string) error {
	if _, err := service.submissionRepository.FindByID(context, id); err != nil {
		return err
	}
	return service.submissionRepository.Delete(context, id)
}
