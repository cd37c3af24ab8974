package service

import (
	"context"
	"fmt"
	"math"

	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/payment"
	"earnshare-backend/internal/repository"
)

// cents converts an account-currency amount to minor units for the
// payment processor.
func cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// checkoutService turns a persisted order into a hosted checkout
// session. Deposits never appear as line items: the session charges only
// what is due today, and the deposit is authorized separately after the
// charge succeeds.
type checkoutService struct {
	orders   repository.OrderRepository
	provider payment.Provider
	currency string
}

func NewCheckoutService(orders repository.OrderRepository, provider payment.Provider, currency string) *checkoutService {
	return &checkoutService{orders: orders, provider: provider, currency: currency}
}

// LineItems builds the payable lines of an order: each rental's rent
// fee, each purchase line at its snapshot price, and the shipping fee.
// Non-positive lines are dropped rather than sent to the processor.
func (s *checkoutService) LineItems(order *domain.Order) []payment.CheckoutLineItem {
	items := make([]payment.CheckoutLineItem, 0, len(order.Items)+1)
	for _, item := range order.Items {
		if item.RentInfo != nil {
			if item.RentInfo.RentFee <= 0 {
				continue
			}
			items = append(items, payment.CheckoutLineItem{
				Name:        fmt.Sprintf("%s (rental, %d days)", item.Name, item.RentInfo.Days),
				AmountCents: cents(item.RentInfo.RentFee),
				Quantity:    1,
			})
			continue
		}
		if item.Price <= 0 || item.Quantity <= 0 {
			continue
		}
		items = append(items, payment.CheckoutLineItem{
			Name:        item.Name,
			AmountCents: cents(item.Price),
			Quantity:    int64(item.Quantity),
		})
	}
	if order.ShippingFee > 0 {
		items = append(items, payment.CheckoutLineItem{
			Name:        "Shipping",
			AmountCents: cents(order.ShippingFee),
			Quantity:    1,
		})
	}
	return items
}

// InitiateSession creates the hosted session for an unpaid order and
// records the session id on the order row.
func (s *checkoutService) InitiateSession(ctx context.Context, order *domain.Order) (*payment.CheckoutSession, error) {
	if order.Payment {
		return nil, ErrAlreadyPaid
	}
	items := s.LineItems(order)
	if len(items) == 0 {
		return nil, ErrNothingPayable
	}

	session, err := s.provider.CreateCheckoutSession(ctx, payment.CheckoutSessionParams{
		OrderID:           order.ID,
		Method:            string(order.PaymentMethod),
		Currency:          s.currency,
		LineItems:         items,
		SavePaymentMethod: order.DepositTotal > 0,
	})
	if err != nil {
		return nil, err
	}
	if err := s.orders.SetCheckoutSession(ctx, order.ID, session.ID); err != nil {
		return nil, fmt.Errorf("failed to record checkout session: %w", err)
	}
	return session, nil
}
