// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package souvenir collects alumni submissions for the printed souvenir.

Submissions fall into free-form categories such as "memory-writeup" or
"photo-gallery". The photo-gallery category carries up to ten photo URLs and
optional content; every other category carries exactly one photo URL and
mandatory rich text content.
*/
package souvenir

import (
	"context"
	"time"

	"github.com/nicaa/alumni-api/pkg/pagination"
)

// CategoryPhotoGallery switches a submission to multi-photo validation.
const CategoryPhotoGallery = "photo-gallery"

// MaxGalleryPhotos caps a photo-gallery submission.
const MaxGalleryPhotos = 10

// Submission is a single souvenir contribution.
type Submission struct {
	ID                  string    `json:"id"`
	Category            string    `json:"category"`
	Name                string    `json:"name"`
	Batch               string    `json:"batch"`
	Group               string    `json:"group"`
	PhoneNumber         string    `json:"phoneNumber"`
	Email               string    `json:"email"`
	PhotoURL            string    `json:"photoUrl,omitempty"`
	PhotoURLs           []string  `json:"photoUrls,omitempty"`
	Content             string    `json:"content,omitempty"`
	ProfessionalDetails string    `json:"professionalDetails,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ListFilter narrows and orders a submission listing.
type ListFilter struct {
	Category   string
	Batch      string
	Group      string
	Search     string
	SortBy     string
	SortOrder  string
	Pagination pagination.Params
}

// Repository defines the persistence contract for souvenir submissions.
type Repository interface {
	Create(context context.Context, submission *Submission) error
	List(context context.Context, filter ListFilter) ([]Submission, int, error)
	FindByID(context context.Context, id string) (*Submission, error)
	Update(context context.Context, submission *Submission) error
	Delete(context context.Context, id string) error
}
