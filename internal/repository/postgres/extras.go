package postgres

import (
	"context"
	"database/sql"
	"time"

	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/repository"
)

type customizationRepository struct {
	db *sql.DB
}

func NewCustomizationRepository(db *sql.DB) repository.CustomizationRepository {
	return &customizationRepository{db: db}
}

func (r *customizationRepository) Create(ctx context.Context, cu *domain.Customization) error {
	query := `INSERT INTO customizations (id, user_id, product_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, cu.ID, cu.UserID, cu.ProductID, cu.Text, time.Now())
	return err
}

func (r *customizationRepository) GetByID(ctx context.Context, id string) (*domain.Customization, error) {
	cu := &domain.Customization{}
	query := `SELECT id, user_id, product_id, text, created_at FROM customizations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cu.ID, &cu.UserID, &cu.ProductID, &cu.Text, &cu.CreatedAt)
	if err != nil {
		return nil, err
	}
	return cu, nil
}

func (r *customizationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM customizations WHERE id = $1`, id)
	return err
}

type bannerRepository struct {
	db *sql.DB
}

func NewBannerRepository(db *sql.DB) repository.BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) Create(ctx context.Context, b *domain.Banner) error {
	query := `INSERT INTO banner (title, message, image_url, active, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, b.Title, b.Message, b.ImageURL, b.Active, time.Now()).Scan(&b.ID)
}

func (r *bannerRepository) List(ctx context.Context, activeOnly bool) ([]domain.Banner, error) {
	query := `SELECT id, title, message, image_url, active, created_at FROM banner`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banners []domain.Banner
	for rows.Next() {
		var b domain.Banner
		if err := rows.Scan(&b.ID, &b.Title, &b.Message, &b.ImageURL, &b.Active, &b.CreatedAt); err != nil {
			return nil, err
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

func (r *bannerRepository) Update(ctx context.Context, b *domain.Banner) error {
	query := `UPDATE banner SET title=$1, message=$2, image_url=$3, active=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, b.Title, b.Message, b.ImageURL, b.Active, b.ID)
	return err
}

func (r *bannerRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM banner WHERE id = $1`, id)
	return err
}

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	query := `INSERT INTO requests (user_id, title, details, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, req.UserID, req.Title, req.Details, time.Now()).Scan(&req.ID)
}

func (r *requestRepository) List(ctx context.Context) ([]domain.Request, error) {
	query := `SELECT r.id, r.user_id, r.title, r.details,
			(SELECT COUNT(*) FROM request_likes l WHERE l.request_id = r.id), r.created_at
		FROM requests r ORDER BY 5 DESC, r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.Request
	for rows.Next() {
		var req domain.Request
		if err := rows.Scan(&req.ID, &req.UserID, &req.Title, &req.Details, &req.Likes, &req.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *requestRepository) ToggleLike(ctx context.Context, requestID int64, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM request_likes WHERE request_id = $1 AND user_id = $2`, requestID, userID)
	if err != nil {
		return false, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if deleted > 0 {
		return false, nil
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO request_likes (request_id, user_id, created_at) VALUES ($1, $2, $3)`,
		requestID, userID, time.Now())
	return err == nil, err
}

func (r *requestRepository) Delete(ctx context.Context, id int64, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM requests WHERE id = $1 AND user_id = $2`, id, userID)
	return err
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO reviews (product_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, time.Now()).Scan(&rv.ID)
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, user_id, rating, comment, created_at FROM reviews
		 WHERE product_id = $1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
