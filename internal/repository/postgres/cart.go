package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"earnshare-backend/internal/cart"
	"earnshare-backend/internal/repository"
)

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// Get returns the stored cart, or an empty cart when none exists yet.
// The persisted record is a convenience cache of the client's cart, not
// a ledger; a missing row is not an error.
func (r *cartRepository) Get(ctx context.Context, userID string) (cart.Cart, error) {
	var items []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT items FROM carts WHERE user_id = $1`, userID).Scan(&items)
	if err == sql.ErrNoRows {
		return cart.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	c := cart.Cart{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &c); err != nil {
			return nil, fmt.Errorf("failed to decode cart items: %w", err)
		}
	}
	return c, nil
}

func (r *cartRepository) Save(ctx context.Context, userID string, c cart.Cart) error {
	items, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart items: %w", err)
	}
	query := `INSERT INTO carts (user_id, items, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at`
	_, err = r.db.ExecContext(ctx, query, userID, items, time.Now())
	return err
}

func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	return r.Save(ctx, userID, cart.Cart{})
}
