// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

package representative

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/nicaa/alumni-api/internal/platform/apperr"
	"github.com/nicaa/alumni-api/pkg/uuid"
)

// Service implements batch representative collection.
type Service struct {
	representativeRepository Repository
	logger                   *slog.Logger
}

// NewService creates the representative service.
func NewService(representativeRepository Repository, logger *slog.Logger) *Service {
	return &Service{representativeRepository: representativeRepository, logger: logger}
}

/*
Create persists a new application. A phone number may back at most one
application.
*/
func (service *Service) Create(context context.Context, input *Representative) (*Representative, error) {
	inUse, err := service.representativeRepository.PhoneInUse(context, input.Phone, "")
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, apperr.BadRequest("Phone number already exists")
	}

	now := time.Now()
	input.ID = uuid.New()
	input.CreatedAt = now
	input.UpdatedAt = now

	if err := service.representativeRepository.Create(context, input); err != nil {
		return nil, err
	}
	service.logger.Info("representative application received",
		slog.String("representativeId", input.ID),
		slog.Int("hscYear", input.HSCYear))
	return input, nil
}

// List returns every application, oldest first.
func (service *Service) List(context context.Context) ([]Representative, error) {
	return service.representativeRepository.List(context)
}

// Get returns one application by ID.
func (service *Service) Get(context context.Context, id string) (*Representative, error) {
	return service.representativeRepository.FindByID(context, id)
}

/*
Update replaces an application's fields. The phone number stays unique
across all other applications.
*/
func (service *Service) Update(context context.Context, id string, input *Representative) (*Representative, error) {
	current, err := service.representativeRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Phone != current.Phone {
		inUse, err := service.representativeRepository.PhoneInUse(context, input.Phone, id)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, apperr.BadRequest("Phone number already exists")
		}
	}

	input.ID = current.ID
	input.CreatedAt = current.CreatedAt
	input.UpdatedAt = time.Now()
	if err := service.representativeRepository.Update(context, input); err != nil {
		return nil, err
	}
	return input, nil
}

// Delete removes an application and returns the removed record.
func (service *Service) Delete(context context.Context, id string) (*Representative, error) {
	representative, err := service.representativeRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if err := service.representativeRepository.Delete(context, id); err != nil {
		return nil, err
	}
	return representative, nil
}

/*
GetDashboardStats aggregates the submission counts by gender, HSC year and
HSC group.
*/
func (service *Service) GetDashboardStats(context context.Context) (*DashboardStats, error) {
	representatives, err := service.representativeRepository.List(context)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalSubmissions: len(representatives),
		HSCYearStats:     map[string]int{},
		HSCGroupStats:    map[string]int{},
	}
	for _, representative := range representatives {
		switch representative.Gender {
		case "Male":
			stats.GenderStats.Male++
		case "Female":
			stats.GenderStats.Female++
		}
		stats.HSCYearStats[strconv.Itoa(representative.HSCYear)]++
		stats.HSCGroupStats[representative.HSCGroup]++
	}
	return stats, nil
}
