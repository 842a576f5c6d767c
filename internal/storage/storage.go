// Package storage defines the persistence interface for projects, business profiles and outputs.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/zodiac/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines project, profile and output persistence operations.
type Storage interface {
	// Project operations. CreateProject also creates the project's empty profile.
	CreateProject(ctx context.Context, p *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context, userID string) ([]*models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id string) error

	// Profile operations. GetProfile returns ErrNotFound when no row exists.
	GetProfile(ctx context.Context, projectID string) (*models.BusinessProfile, error)
	UpsertProfile(ctx context.Context, p *models.BusinessProfile) error

	// Output operations. Outputs are append-only and listed newest first.
	CreateOutput(ctx context.Context, o *models.Output) error
	GetOutput(ctx context.Context, id string) (*models.Output, error)
	ListOutputs(ctx context.Context, projectID string) ([]*models.Output, error)
	DeleteOutput(ctx context.Context, id string) error

	// Stats
	Stats(ctx context.Context) (*Stats, error)

	Close() error
}

// Stats summarizes stored rows.
type Stats struct {
	Projects      int64 `json:"projects"`
	Profiles      int64 `json:"profiles"`
	Outputs       int64 `json:"outputs"`
	DatabaseBytes int64 `json:"databaseBytes"`
}
