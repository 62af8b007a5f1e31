package service

import (
	"context"
	"errors"
	"io"

	"polleria_backend/internal/adapters/storage"
	"polleria_backend/internal/catalog/repository"
	"polleria_backend/platform/apperr"
	"polleria_backend/platform/logger"
)

// ProductStore is the persistence surface the service needs.
type ProductStore interface {
	Create(ctx context.Context, name, description string, price float64, unit string) (repository.Product, error)
	Get(ctx context.Context, id int64) (repository.Product, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Product, error)
	Update(ctx context.Context, id int64, name, description string, price float64, unit string, active bool) (repository.Product, error)
	SetImageURL(ctx context.Context, id int64, imageURL string) error
	SoftDelete(ctx context.Context, id int64) error
}

type Service struct {
	repo        ProductStore
	images      storage.ImageStore
	imageBucket string
	log         *logger.Logger
}

// New builds the catalog service. images may be nil when object storage
// is not configured; image endpoints then reject uploads.
func New(repo ProductStore, images storage.ImageStore, imageBucket string, log *logger.Logger) *Service {
	return &Service{repo: repo, images: images, imageBucket: imageBucket, log: log}
}

func (s *Service) Create(ctx context.Context, name, description string, price float64, unit string) (repository.Product, error) {
	p, err := s.repo.Create(ctx, name, description, price, unit)
	if err != nil {
		return repository.Product{}, apperr.Wrap(apperr.KindInternal, "create product failed", err).WithOp("catalog.Create")
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (repository.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Product{}, apperr.NotFound("product not found")
		}
		return repository.Product{}, apperr.Wrap(apperr.KindInternal, "get product failed", err).WithOp("catalog.Get")
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, params repository.ListParams) ([]repository.Product, error) {
	if params.Offset < 0 {
		params.Offset = 0
	}
	products, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list products failed", err).WithOp("catalog.List")
	}
	return products, nil
}

// ActiveProducts returns the full active catalog, unpaginated. The intake
// pipeline snapshots it before interpreting each message.
func (s *Service) ActiveProducts(ctx context.Context) ([]repository.Product, error) {
	return s.List(ctx, repository.ListParams{ActiveOnly: true})
}

func (s *Service) Update(ctx context.Context, id int64, name, description string, price float64, unit string, active bool) (repository.Product, error) {
	p, err := s.repo.Update(ctx, id, name, description, price, unit, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Product{}, apperr.NotFound("product not found")
		}
		return repository.Product{}, apperr.Wrap(apperr.KindInternal, "update product failed", err).WithOp("catalog.Update")
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.SoftDelete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("product not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete product failed", err).WithOp("catalog.Delete")
	}
	return nil
}

// UploadImage stores the image and records its key on the product.
func (s *Service) UploadImage(ctx context.Context, id int64, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	if s.images == nil {
		return "", apperr.BadRequest("image storage is not configured")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return "", err
	}

	fileKey, err := s.images.UploadImage(ctx, s.imageBucket, fileName, contentType, reader, size)
	if err != nil {
		return "", apperr.Wrap(apperr.KindBadRequest, err.Error(), err).WithOp("catalog.UploadImage")
	}

	if err := s.repo.SetImageURL(ctx, id, fileKey); err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "record image failed", err).WithOp("catalog.UploadImage")
	}
	return fileKey, nil
}

// ImageDownloadURL returns a presigned URL for the product's stored image.
func (s *Service) ImageDownloadURL(ctx context.Context, id int64) (*storage.PresignedURL, error) {
	if s.images == nil {
		return nil, apperr.BadRequest("image storage is not configured")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ImageURL == "" {
		return nil, apperr.NotFound("product has no image")
	}

	presigned, err := s.images.GenerateDownloadURL(ctx, s.imageBucket, p.ImageURL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "presign image failed", err).WithOp("catalog.ImageDownloadURL")
	}
	return presigned, nil
}
