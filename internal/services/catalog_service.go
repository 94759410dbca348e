package services

import (
	"context"
	"errors"
	"strings"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

var (
	ErrCatalogInvalidInput = errors.New("catalog service: invalid input")
	ErrCatalogNotFound     = errors.New("catalog service: not found")
	ErrCatalogUnavailable  = errors.New("catalog service: storage unavailable")
)

const maxItemPageSize = 100

// ListItemsQuery filters the public item listing.
type ListItemsQuery struct {
	Search       string
	CategorySlug string
	Limit        int
	Offset       int
}

// CatalogService serves the public, read-only browse surface.
type CatalogService interface {
	GetItem(ctx context.Context, itemID string) (domain.Item, error)
	GetItemBySlug(ctx context.Context, slug string) (domain.Item, error)
	ListItems(ctx context.Context, query ListItemsQuery) ([]domain.Item, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// CatalogServiceDeps bundles the catalog service dependencies.
type CatalogServiceDeps struct {
	Catalog repositories.CatalogRepository
}

type catalogService struct {
	catalog repositories.CatalogRepository
}

// NewCatalogService validates deps and constructs the service.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("catalog service: catalog repository is required")
	}
	return &catalogService{catalog: deps.Catalog}, nil
}

func (s *catalogService) GetItem(ctx context.Context, itemID string) (domain.Item, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return domain.Item{}, ErrCatalogInvalidInput
	}
	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return domain.Item{}, s.translate(err)
	}
	return item, nil
}

func (s *catalogService) GetItemBySlug(ctx context.Context, slug string) (domain.Item, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Item{}, ErrCatalogInvalidInput
	}
	item, err := s.catalog.GetItemBySlug(ctx, slug)
	if err != nil {
		return domain.Item{}, s.translate(err)
	}
	return item, nil
}

func (s *catalogService) ListItems(ctx context.Context, query ListItemsQuery) ([]domain.Item, error) {
	limit := query.Limit
	if limit <= 0 || limit > maxItemPageSize {
		limit = 0 // repository default
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	items, err := s.catalog.ListItems(ctx, repositories.ItemQuery{
		Search:       strings.TrimSpace(query.Search),
		CategorySlug: strings.TrimSpace(query.CategorySlug),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, s.translate(err)
	}
	return items, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, s.translate(err)
	}
	return categories, nil
}

func (s *catalogService) translate(err error) error {
	switch {
	case repositories.IsNotFound(err):
		return ErrCatalogNotFound
	case repositories.IsUnavailable(err):
		return ErrCatalogUnavailable
	default:
		return err
	}
}
