package postgres

import (
	"database/sql"

	"earnshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ProductRepository
	repository.CartRepository
	repository.OrderRepository
	repository.CustomizationRepository
	repository.BannerRepository
	repository.RequestRepository
	repository.ReviewRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		ProductRepository:       NewProductRepository(db),
		CartRepository:          NewCartRepository(db),
		OrderRepository:         NewOrderRepository(db),
		CustomizationRepository: NewCustomizationRepository(db),
		BannerRepository:        NewBannerRepository(db),
		RequestRepository:       NewRequestRepository(db),
		ReviewRepository:        NewReviewRepository(db),
	}
}
