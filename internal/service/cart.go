package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"earnshare-backend/internal/cart"
	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/logger"
	"earnshare-backend/internal/pricing"
	"earnshare-backend/internal/repository"
)

type cartService struct {
	carts          repository.CartRepository
	products       repository.ProductRepository
	customizations repository.CustomizationRepository
}

func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	customizations repository.CustomizationRepository,
) CartService {
	return &cartService{carts: carts, products: products, customizations: customizations}
}

func (s *cartService) Get(ctx context.Context, userID string) (*CartView, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.view(ctx, c)
}

func (s *cartService) AddItem(ctx context.Context, userID string, in AddItemInput) (*CartView, error) {
	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, ErrNotFound
	}

	var rent *pricing.RentInfo
	if product.Rentable {
		rent = pricing.Compute(product.DailyRate, product.Price, in.RentStart, in.RentEnd)
		if rent == nil {
			return nil, cart.ErrRentDatesMissing
		}
	}

	var custom *domain.Customization
	if product.IsCustomizable && in.CustomizationText != "" {
		custom = &domain.Customization{
			ID:        uuid.NewString(),
			UserID:    userID,
			ProductID: product.ID,
			Text:      in.CustomizationText,
		}
		if err := s.customizations.Create(ctx, custom); err != nil {
			return nil, fmt.Errorf("failed to save customization: %w", err)
		}
	}

	current, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	next, _, err := current.AddLine(*product, in.Size, rent, custom)
	if err != nil {
		return nil, err
	}

	view, err := s.save(ctx, userID, next)
	if err != nil && custom != nil {
		// The unsaved cart line is the only reference to the new
		// customization; remove the row rather than leave it orphaned.
		if delErr := s.customizations.Delete(ctx, custom.ID); delErr != nil {
			logger.Warn("failed to remove orphaned customization",
				"customization_id", custom.ID, "error", delErr)
		}
		return nil, err
	}
	return view, err
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID string, productID int64, key string, quantity int32) (*CartView, error) {
	current, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.save(ctx, userID, current.SetQuantity(productID, key, quantity))
}

func (s *cartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}

// save persists then prices the cart. Persistence is best effort: on a
// storage failure the updated cart view is still returned alongside the
// error so the caller keeps a consistent client state while surfacing
// the sync failure.
func (s *cartService) save(ctx context.Context, userID string, c cart.Cart) (*CartView, error) {
	view, viewErr := s.view(ctx, c)
	if err := s.carts.Save(ctx, userID, c); err != nil {
		logger.Warn("cart sync failed", "user_id", userID, "error", err)
		return view, fmt.Errorf("failed to sync cart: %w", err)
	}
	return view, viewErr
}

func (s *cartService) view(ctx context.Context, c cart.Cart) (*CartView, error) {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	catalog, err := s.products.Snapshot(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load product snapshot: %w", err)
	}
	return &CartView{Cart: c, Totals: c.ComputeTotals(catalog)}, nil
}
