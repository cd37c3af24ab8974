package service

import (
	"context"
	"fmt"

	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/repository"
)

type catalogService struct {
	products repository.ProductRepository
}

func NewCatalogService(products repository.ProductRepository) CatalogService {
	return &catalogService{products: products}
}

func (s *catalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Rentable && p.DailyRate <= 0 {
		return fmt.Errorf("rentable product requires a positive daily rate")
	}
	return s.products.Create(ctx, p)
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, p *domain.Product) error {
	return s.products.Update(ctx, p)
}

func (s *catalogService) DeleteProduct(ctx context.Context, sellerID string, id int64) error {
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if existing.SellerID != sellerID {
		return ErrForbidden
	}
	return s.products.Delete(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	return s.products.List(ctx, category)
}

func (s *catalogService) ListSellerProducts(ctx context.Context, sellerID string) ([]domain.Product, error) {
	return s.products.ListBySeller(ctx, sellerID)
}
