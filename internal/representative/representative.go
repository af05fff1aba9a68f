// Copyright (c) 2026 NICAA. All rights reserved.
// Author: platform@nicaa.org

/*
Package representative collects batch representative applications.

Alumni volunteer as the contact person for their HSC batch and group; the
association reviews the submissions through an admin dashboard.
*/
package representative

import (
	"context"
	"time"
)

// Representative is a single batch representative application.
type Representative struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	FacebookURL string    `json:"facebookUrl"`
	Comments    string    `json:"comments,omitempty"`
	HSCYear     int       `json:"hscYear"`
	HSCGroup    string    `json:"hscGroup"`
	Gender      string    `json:"gender"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DashboardStats summarizes the collected applications.
type DashboardStats struct {
	TotalSubmissions int            `json:"totalSubmissions"`
	GenderStats      GenderStats    `json:"genderStats"`
	HSCYearStats     map[string]int `json:"hscYearStats"`
	HSCGroupStats    map[string]int `json:"hscGroupStats"`
}

// GenderStats splits the submission count by gender.
type GenderStats struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// Repository defines the persistence contract for representative applications.
type Repository interface {
	Create(context context.Context, representative *Representative) error

	// List retrieves every application, oldest first.
	List(context context.Context) ([]Representative, error)

	FindByID(context context.Context, id string) (*Representative, error)

	// PhoneInUse reports whether another application holds the phone number.
	PhoneInUse(context context.Context, phone, excludeID string) (bool, error)

	Update(context context.Context, representative *Representative) error
	Delete(context context.Context, id string) error
}
