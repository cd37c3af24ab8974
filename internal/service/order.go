package service

import (
	"context"
	"fmt"
	"time"

	"earnshare-backend/internal/cart"
	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/logger"
	"earnshare-backend/internal/repository"
)

type orderService struct {
	orders         repository.OrderRepository
	carts          repository.CartRepository
	products       repository.ProductRepository
	customizations repository.CustomizationRepository
	checkout       *checkoutService
	shippingFee    float64
	currency       string
}

func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	customizations repository.CustomizationRepository,
	checkout *checkoutService,
	shippingFee float64,
	currency string,
) OrderService {
	return &orderService{
		orders:         orders,
		carts:          carts,
		products:       products,
		customizations: customizations,
		checkout:       checkout,
		shippingFee:    shippingFee,
		currency:       currency,
	}
}

func (s *orderService) SubmitOrder(ctx context.Context, buyerID string, in SubmitOrderInput) (*SubmitOrderResult, error) {
	current, err := s.carts.Get(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if current.Count() == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]int64, 0, len(current))
	for id := range current {
		ids = append(ids, id)
	}
	catalog, err := s.products.Snapshot(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load product snapshot: %w", err)
	}

	totals := current.ComputeTotals(catalog)
	if totals.DueTodaySubtotal <= 0 {
		return nil, ErrNothingPayable
	}

	items, err := s.buildItems(ctx, current, catalog)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		BuyerID:          buyerID,
		Address:          in.Address,
		Items:            items,
		Amount:           totals.DueTodaySubtotal + s.shippingFee,
		RentSubtotal:     totals.RentSubtotal,
		PurchaseSubtotal: totals.PurchaseSubtotal,
		ShippingFee:      s.shippingFee,
		DepositTotal:     totals.DepositTotal,
		DepositCurrency:  s.currency,
		RentBreakdown:    breakdown(totals.RentLines),
		Status:           domain.OrderStatusPlaced,
		PaymentMethod:    in.PaymentMethod,
		Date:             time.Now().UTC(),
	}
	if totals.DepositTotal > 0 {
		order.Deposit.Status = domain.DepositHoldPending
		order.Deposit.RentalEndDate = totals.MaxRentalEndDate
	} else {
		order.Deposit.Status = domain.DepositHoldNone
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if !in.PaymentMethod.Online() {
		// Cash on delivery settles offline and never enters the deposit
		// lifecycle, so the order is complete as placed.
		if err := s.carts.Clear(ctx, buyerID); err != nil {
			logger.Warn("failed to clear cart after order", "order_id", order.ID, "error", err)
		}
		return &SubmitOrderResult{Order: order}, nil
	}

	session, err := s.checkout.InitiateSession(ctx, order)
	if err != nil {
		// The order row without a session is unreachable for the buyer;
		// drop it rather than leave an unpayable order behind.
		if delErr := s.orders.DeleteUnpaid(ctx, order.ID); delErr != nil {
			logger.Error("failed to delete order after session failure", "order_id", order.ID, "error", delErr)
		}
		return nil, err
	}
	order.CheckoutSessionID = session.ID
	return &SubmitOrderResult{Order: order, CheckoutURL: session.URL}, nil
}

func (s *orderService) buildItems(ctx context.Context, c cart.Cart, catalog map[int64]domain.Product) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	for productID, lines := range c {
		product, ok := catalog[productID]
		if !ok {
			continue
		}
		for key, line := range lines {
			item := domain.OrderItem{
				ProductID: productID,
				Name:      product.Name,
				Price:     product.Price,
				SizeKey:   key,
				Quantity:  line.Quantity,
			}
			if len(product.Images) > 0 {
				item.Image = product.Images[0]
			}
			switch line.Kind {
			case cart.LineKindRental:
				item.DailyRate = product.DailyRate
				item.RentInfo = line.RentInfo
			case cart.LineKindCustomized:
				item.Size = line.BaseSize
				custom, err := s.customizations.GetByID(ctx, line.Customization)
				if err != nil {
					return nil, fmt.Errorf("failed to load customization %s: %w", line.Customization, err)
				}
				item.Customization = custom
			default:
				item.Size = key
			}
			items = append(items, item)
		}
	}
	return items, nil
}

func breakdown(lines []cart.RentLineSummary) []domain.RentBreakdownLine {
	out := make([]domain.RentBreakdownLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, domain.RentBreakdownLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Days:      l.Days,
			RentFee:   l.RentFee,
			Deposit:   l.Deposit,
			StartDate: l.StartDate,
			EndDate:   l.EndDate,
		})
	}
	return out
}

func (s *orderService) Verify(ctx context.Context, buyerID string, orderID int64, success bool) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, ErrNotFound
	}
	if order.BuyerID != buyerID {
		return nil, ErrForbidden
	}

	if !success {
		if order.Payment {
			// A paid order survives a stray failure redirect.
			return order, nil
		}
		if err := s.orders.DeleteUnpaid(ctx, orderID); err != nil {
			return nil, fmt.Errorf("failed to delete unpaid order: %w", err)
		}
		return nil, nil
	}

	if !order.Payment {
		// The webhook normally lands first; this covers the redirect
		// racing ahead of it.
		if err := s.orders.MarkPaid(ctx, orderID, order.PaymentIntentID); err != nil {
			return nil, fmt.Errorf("failed to mark order paid: %w", err)
		}
		order.Payment = true
	}
	if err := s.carts.Clear(ctx, buyerID); err != nil {
		logger.Warn("failed to clear cart after payment", "order_id", orderID, "error", err)
	}
	return order, nil
}

func (s *orderService) Status(ctx context.Context, buyerID string, orderID int64) (*OrderStatusView, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, ErrNotFound
	}
	if order.BuyerID != buyerID {
		return nil, ErrForbidden
	}
	return &OrderStatusView{OrderID: order.ID, Paid: order.Payment, Status: order.Status}, nil
}

// Reorder puts a past order's purchase lines back into the cart. Rental
// lines are skipped: their date ranges are in the past and need a fresh
// selection.
func (s *orderService) Reorder(ctx context.Context, buyerID string, orderID int64) (*CartView, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, ErrNotFound
	}
	if order.BuyerID != buyerID {
		return nil, ErrForbidden
	}

	ids := make([]int64, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	catalog, err := s.products.Snapshot(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load product snapshot: %w", err)
	}

	current, err := s.carts.Get(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	merged := current
	for _, item := range order.Items {
		if item.RentInfo != nil {
			continue
		}
		product, ok := catalog[item.ProductID]
		if !ok {
			continue
		}
		for n := int32(0); n < item.Quantity; n++ {
			next, _, err := merged.AddLine(product, item.Size, nil, item.Customization)
			if err != nil {
				return nil, err
			}
			merged = next
		}
	}

	if err := s.carts.Save(ctx, buyerID, merged); err != nil {
		return nil, fmt.Errorf("failed to sync cart: %w", err)
	}
	return &CartView{Cart: merged, Totals: merged.ComputeTotals(catalog)}, nil
}

func (s *orderService) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	return s.orders.ListByBuyer(ctx, buyerID)
}

func (s *orderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	return s.orders.UpdateStatus(ctx, orderID, status)
}
