package postgres

import (
	"context"
	"database/sql"
	"time"

	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/repository"

	"github.com/lib/pq"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, seller_id, name, description, category, price, daily_rate,
	rentable, is_customizable, sizes, images, stock, bestseller, created_at`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (seller_id, name, description, category, price, daily_rate,
			rentable, is_customizable, sizes, images, stock, bestseller, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		p.SellerID, p.Name, p.Description, p.Category, p.Price, p.DailyRate,
		p.Rentable, p.IsCustomizable, pq.Array(p.Sizes), pq.Array(p.Images),
		p.Stock, p.Bestseller, time.Now(),
	).Scan(&p.ID)
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p := &domain.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category, &p.Price, &p.DailyRate,
		&p.Rentable, &p.IsCustomizable, pq.Array(&p.Sizes), pq.Array(&p.Images),
		&p.Stock, &p.Bestseller, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name=$1, description=$2, category=$3, price=$4, daily_rate=$5,
			rentable=$6, is_customizable=$7, sizes=$8, images=$9, stock=$10, bestseller=$11
		WHERE id=$12 AND seller_id=$13`
	_, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Category, p.Price, p.DailyRate,
		p.Rentable, p.IsCustomizable, pq.Array(p.Sizes), pq.Array(p.Images),
		p.Stock, p.Bestseller, p.ID, p.SellerID)
	return err
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	// Orders embed product snapshots, so deleting a catalog row never
	// touches order history.
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *productRepository) List(ctx context.Context, category string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE seller_id = $1 ORDER BY created_at DESC`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *productRepository) Snapshot(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	if len(ids) == 0 {
		return map[int64]domain.Product{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		snapshot[p.ID] = p
	}
	return snapshot, nil
}

func collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Category, &p.Price, &p.DailyRate,
			&p.Rentable, &p.IsCustomizable, pq.Array(&p.Sizes), pq.Array(&p.Images),
			&p.Stock, &p.Bestseller, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
