package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"earnshare-backend/internal/config"
	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/logger"
	"earnshare-backend/internal/payment"
	"earnshare-backend/internal/repository"
)

// AlertSender notifies the operator about deposit failures that need a
// manual follow-up. Send failures are logged, never propagated: the
// alert is advisory and must not fail the lifecycle it reports on.
type AlertSender interface {
	SendDepositAlert(ctx context.Context, orderID int64, stage, reason string) error
}

type depositService struct {
	orders   repository.OrderRepository
	provider payment.Provider
	alerts   AlertSender
	cadence  config.DepositConfig
	currency string
	now      func() time.Time
}

func NewDepositService(
	orders repository.OrderRepository,
	provider payment.Provider,
	alerts AlertSender,
	cadence config.DepositConfig,
	currency string,
) DepositService {
	return &depositService{
		orders:   orders,
		provider: provider,
		alerts:   alerts,
		cadence:  cadence,
		currency: currency,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *depositService) HandleCheckoutCompleted(ctx context.Context, checkout *payment.CompletedCheckout) error {
	orderID, err := strconv.ParseInt(checkout.OrderID, 10, 64)
	if err != nil {
		return fmt.Errorf("checkout session %s carries no usable order id: %w", checkout.SessionID, err)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.ackMissingOrder(ctx, orderID, checkout.SessionID)
			return nil
		}
		return fmt.Errorf("failed to load order %d: %w", orderID, err)
	}

	if err := s.orders.MarkPaid(ctx, orderID, checkout.PaymentIntentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The order vanished between the load and the update, a
			// failed-verify cleanup racing the webhook.
			s.ackMissingOrder(ctx, orderID, checkout.SessionID)
			return nil
		}
		return fmt.Errorf("failed to mark order %d paid: %w", orderID, err)
	}
	logger.Info("order payment confirmed", "order_id", orderID, "session_id", checkout.SessionID)

	if order.DepositTotal <= 0 {
		return nil
	}
	if order.Deposit.PaymentIntentID != "" {
		// A hold already exists; this is a redelivered event.
		logger.Debug("deposit already authorized", "order_id", orderID)
		return nil
	}

	details, err := s.provider.GetChargeDetails(ctx, checkout.PaymentIntentID)
	if err != nil || details.PaymentMethodID == "" || details.CustomerID == "" {
		reason := "charge left no reusable payment method"
		if err != nil {
			reason = err.Error()
		}
		s.recordFailure(ctx, order, domain.DepositHoldAuthorizationFailed, "authorization", reason)
		return nil
	}
	order.Deposit.PaymentMethodID = details.PaymentMethodID
	order.Deposit.CustomerID = details.CustomerID

	auth, err := s.provider.CreateDepositAuthorization(ctx, payment.AuthorizationParams{
		OrderID:         order.ID,
		AmountCents:     cents(order.DepositTotal),
		Currency:        s.currency,
		CustomerID:      details.CustomerID,
		PaymentMethodID: details.PaymentMethodID,
		Sequence:        1,
	})
	if err != nil {
		s.recordFailure(ctx, order, domain.DepositHoldAuthorizationFailed, "authorization", err.Error())
		return nil
	}

	s.applyAuthorization(order, auth, "authorization")
	if err := s.orders.UpdateDepositHold(ctx, order.ID, &order.Deposit); err != nil {
		return fmt.Errorf("failed to persist deposit hold for order %d: %w", order.ID, err)
	}
	s.appendEvent(ctx, order.ID, domain.DepositEvent{
		Type:            "authorization",
		PaymentIntentID: auth.ID,
		Amount:          order.DepositTotal,
		Sequence:        order.Deposit.ReauthorizationCount + 1,
		OccurredAt:      s.now(),
	})
	logger.Info("deposit hold authorized",
		"order_id", order.ID, "payment_intent_id", auth.ID, "amount", order.DepositTotal)
	return nil
}

// ackMissingOrder flags a paid checkout whose order no longer exists.
// Redelivering the event can never succeed, so it is acknowledged and
// the operator is alerted to reconcile the charge.
func (s *depositService) ackMissingOrder(ctx context.Context, orderID int64, sessionID string) {
	logger.Error("checkout completed for a missing order",
		"order_id", orderID, "session_id", sessionID)
	if s.alerts != nil {
		if err := s.alerts.SendDepositAlert(ctx, orderID, "authorization",
			"checkout completed but the order no longer exists"); err != nil {
			logger.Warn("failed to send deposit alert", "order_id", orderID, "error", err)
		}
	}
}

func (s *depositService) RenewExpiringHolds(ctx context.Context) (*RenewalSummary, error) {
	leadHours := s.cadence.RenewalLeadHours
	if leadHours < 1 {
		leadHours = 1
	}
	cutoff := s.now().Add(time.Duration(leadHours) * time.Hour)

	orders, err := s.orders.ListExpiringDepositHolds(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to scan expiring deposit holds: %w", err)
	}

	summary := &RenewalSummary{Scanned: len(orders)}
	for i := range orders {
		order := &orders[i]
		switch s.renewOne(ctx, order) {
		case renewOutcomeRenewed:
			summary.Renewed++
		case renewOutcomeSkipped:
			summary.Skipped++
		case renewOutcomeFailed:
			summary.Failed++
		}
	}
	logger.Info("deposit renewal batch finished",
		"scanned", summary.Scanned, "renewed", summary.Renewed,
		"skipped", summary.Skipped, "failed", summary.Failed)
	return summary, nil
}

type renewOutcome int

const (
	renewOutcomeRenewed renewOutcome = iota
	renewOutcomeSkipped
	renewOutcomeFailed
)

// renewOne handles a single order so one bad order never aborts the
// batch.
func (s *depositService) renewOne(ctx context.Context, order *domain.Order) renewOutcome {
	now := s.now()

	if order.Deposit.RentalEndDate == nil || !order.Deposit.RentalEndDate.After(now) {
		// The rental is over; stop renewing and hand the hold to the
		// operator for release or capture.
		if err := order.Deposit.Transition(domain.DepositHoldAwaitingRelease); err != nil {
			logger.Error("invalid hold state at rental end", "order_id", order.ID, "error", err)
			return renewOutcomeFailed
		}
		order.Deposit.NextActionAt = nil
		if err := s.orders.UpdateDepositHold(ctx, order.ID, &order.Deposit); err != nil {
			logger.Error("failed to persist hold", "order_id", order.ID, "error", err)
			return renewOutcomeFailed
		}
		s.appendEvent(ctx, order.ID, domain.DepositEvent{
			Type:       "awaiting_release",
			Message:    "rental ended, hold awaiting release",
			OccurredAt: now,
		})
		return renewOutcomeSkipped
	}

	if order.Deposit.PaymentMethodID == "" || order.Deposit.CustomerID == "" {
		s.recordFailure(ctx, order, domain.DepositHoldReauthorizationFailed, "reauthorization",
			"no reusable payment method on file")
		return renewOutcomeFailed
	}

	// Cancel the expiring hold first. A cancel failure is tolerable: the
	// old authorization lapses on its own, while a missing replacement
	// would leave the deposit uncovered.
	if order.Deposit.PaymentIntentID != "" {
		if err := s.provider.CancelAuthorization(ctx, order.Deposit.PaymentIntentID); err != nil {
			logger.Warn("failed to cancel expiring hold",
				"order_id", order.ID, "payment_intent_id", order.Deposit.PaymentIntentID, "error", err)
		}
	}

	sequence := order.Deposit.ReauthorizationCount + 1
	auth, err := s.provider.CreateDepositAuthorization(ctx, payment.AuthorizationParams{
		OrderID:         order.ID,
		AmountCents:     cents(order.DepositTotal),
		Currency:        s.currency,
		CustomerID:      order.Deposit.CustomerID,
		PaymentMethodID: order.Deposit.PaymentMethodID,
		Sequence:        sequence,
	})
	if err != nil {
		s.recordFailure(ctx, order, domain.DepositHoldReauthorizationFailed, "reauthorization", err.Error())
		return renewOutcomeFailed
	}

	s.applyAuthorization(order, auth, "reauthorization")
	order.Deposit.ReauthorizationCount = sequence
	if err := s.orders.UpdateDepositHold(ctx, order.ID, &order.Deposit); err != nil {
		logger.Error("failed to persist renewed hold", "order_id", order.ID, "error", err)
		return renewOutcomeFailed
	}
	s.appendEvent(ctx, order.ID, domain.DepositEvent{
		Type:            "reauthorization",
		PaymentIntentID: auth.ID,
		Amount:          order.DepositTotal,
		Sequence:        sequence,
		OccurredAt:      s.now(),
	})
	logger.Info("deposit hold renewed",
		"order_id", order.ID, "payment_intent_id", auth.ID, "sequence", sequence)
	return renewOutcomeRenewed
}

// applyAuthorization stamps a fresh authorization onto the hold and
// schedules the next renewal. The hold reads as authorized only when the
// processor reports a live manual-capture hold; any other processor
// status is recorded as-is and re-evaluated on the next cycle.
func (s *depositService) applyAuthorization(order *domain.Order, auth *payment.Authorization, stage string) {
	authorizedAt := s.now()

	windowDays := s.cadence.AuthorizationWindowDays
	if windowDays < 1 {
		windowDays = 1
	}
	intervalDays := s.cadence.RenewalIntervalDays
	if intervalDays < 1 {
		intervalDays = 1
	}

	status := domain.DepositHoldStatus(auth.Status)
	if auth.Status == payment.StatusRequiresCapture {
		status = domain.DepositHoldAuthorized
	}
	if err := order.Deposit.Transition(status); err != nil {
		// The table does not cover this path; record the raw status
		// anyway, losing it would hide the hold's real state.
		logger.Warn("unexpected hold transition", "order_id", order.ID, "stage", stage, "error", err)
		order.Deposit.Status = status
	}

	order.Deposit.PaymentIntentID = auth.ID
	order.Deposit.LastAuthorizedAt = &authorizedAt
	expiresAt := authorizedAt.AddDate(0, 0, windowDays)
	order.Deposit.ExpiresAt = &expiresAt

	// Another renewal is needed only if the rental outlives the current
	// authorization window (minus the final day kept as slack).
	if order.Deposit.RentalEndDate != nil &&
		order.Deposit.RentalEndDate.After(authorizedAt.AddDate(0, 0, windowDays-1)) {
		nextActionAt := authorizedAt.AddDate(0, 0, intervalDays)
		order.Deposit.NextActionAt = &nextActionAt
	} else {
		order.Deposit.NextActionAt = nil
	}
}

// recordFailure moves the hold to a failed status, logs the audit event,
// and alerts the operator. Persistence errors are logged because there
// is no better recovery path at this point.
func (s *depositService) recordFailure(ctx context.Context, order *domain.Order, status domain.DepositHoldStatus, stage, reason string) {
	logger.Error("deposit "+stage+" failed", "order_id", order.ID, "reason", reason)

	if err := order.Deposit.Transition(status); err != nil {
		logger.Warn("unexpected hold transition", "order_id", order.ID, "stage", stage, "error", err)
		order.Deposit.Status = status
	}
	if err := s.orders.UpdateDepositHold(ctx, order.ID, &order.Deposit); err != nil {
		logger.Error("failed to persist failed hold", "order_id", order.ID, "error", err)
	}
	s.appendEvent(ctx, order.ID, domain.DepositEvent{
		Type:       stage + "_failed",
		Message:    reason,
		OccurredAt: s.now(),
	})

	if s.alerts != nil {
		if err := s.alerts.SendDepositAlert(ctx, order.ID, stage, reason); err != nil {
			logger.Warn("failed to send deposit alert", "order_id", order.ID, "error", err)
		}
	}
}

func (s *depositService) appendEvent(ctx context.Context, orderID int64, event domain.DepositEvent) {
	if err := s.orders.AppendDepositEvent(ctx, orderID, event); err != nil {
		logger.Error("failed to append deposit event", "order_id", orderID, "type", event.Type, "error", err)
	}
}
