package service

import (
	"context"
	"fmt"

	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/repository"
)

type communityService struct {
	banners  repository.BannerRepository
	requests repository.RequestRepository
	reviews  repository.ReviewRepository
}

func NewCommunityService(
	banners repository.BannerRepository,
	requests repository.RequestRepository,
	reviews repository.ReviewRepository,
) CommunityService {
	return &communityService{banners: banners, requests: requests, reviews: reviews}
}

func (s *communityService) CreateBanner(ctx context.Context, b *domain.Banner) error {
	if b.Title == "" {
		return fmt.Errorf("banner title is required")
	}
	return s.banners.Create(ctx, b)
}

func (s *communityService) ListBanners(ctx context.Context, activeOnly bool) ([]domain.Banner, error) {
	return s.banners.List(ctx, activeOnly)
}

func (s *communityService) UpdateBanner(ctx context.Context, b *domain.Banner) error {
	return s.banners.Update(ctx, b)
}

func (s *communityService) DeleteBanner(ctx context.Context, id int64) error {
	return s.banners.Delete(ctx, id)
}

func (s *communityService) CreateRequest(ctx context.Context, r *domain.Request) error {
	if r.Title == "" {
		return fmt.Errorf("request title is required")
	}
	return s.requests.Create(ctx, r)
}

func (s *communityService) ListRequests(ctx context.Context) ([]domain.Request, error) {
	return s.requests.List(ctx)
}

func (s *communityService) ToggleRequestLike(ctx context.Context, requestID int64, userID string) (bool, error) {
	return s.requests.ToggleLike(ctx, requestID, userID)
}

func (s *communityService) DeleteRequest(ctx context.Context, id int64, userID string) error {
	return s.requests.Delete(ctx, id, userID)
}

func (s *communityService) CreateReview(ctx context.Context, r *domain.Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return s.reviews.Create(ctx, r)
}

func (s *communityService) ListProductReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}
