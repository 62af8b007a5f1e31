package service

import (
	"context"
	"errors"

	"polleria_backend/internal/locations/repository"
	"polleria_backend/platform/apperr"
)

// LocationStore is the persistence surface the service needs.
type LocationStore interface {
	List(ctx context.Context) ([]repository.Location, error)
	Get(ctx context.Context, id int64) (repository.Location, error)
	GetByName(ctx context.Context, name string) (repository.Location, error)
}

type Service struct {
	repo LocationStore
}

func New(repo LocationStore) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]repository.Location, error) {
	locations, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list locations failed", err).WithOp("locations.List")
	}
	return locations, nil
}

func (s *Service) Get(ctx context.Context, id int64) (repository.Location, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Location{}, apperr.NotFound("location not found")
		}
		return repository.Location{}, apperr.Wrap(apperr.KindInternal, "get location failed", err).WithOp("locations.Get")
	}
	return l, nil
}

// GetByName resolves a location by its exact name, case-insensitively.
func (s *Service) GetByName(ctx context.Context, name string) (repository.Location, error) {
	l, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Location{}, apperr.NotFound("location not found")
		}
		return repository.Location{}, apperr.Wrap(apperr.KindInternal, "get location failed", err).WithOp("locations.GetByName")
	}
	return l, nil
}
