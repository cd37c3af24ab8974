package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/repository"
)

const orderColumns = `id, buyer_id, address, items, amount, rent_subtotal, purchase_subtotal,
	shipping_fee, deposit_total, deposit_currency, rent_breakdown, status, payment,
	paymentmethod, payment_intent_id, checkout_session_id,
	deposit_payment_intent_id, deposit_payment_method_id, deposit_customer_id,
	deposit_last_authorized_at, deposit_authorization_expires_at, deposit_next_action_at,
	deposit_reauthorization_count, deposit_hold_status, deposit_rental_end_date,
	deposit_metadata, date, updated_on`

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	address, err := json.Marshal(o.Address)
	if err != nil {
		return fmt.Errorf("failed to encode order address: %w", err)
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	breakdown, err := json.Marshal(o.RentBreakdown)
	if err != nil {
		return fmt.Errorf("failed to encode rent breakdown: %w", err)
	}
	meta, err := json.Marshal(o.Deposit.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode deposit metadata: %w", err)
	}

	query := `INSERT INTO orders (buyer_id, address, items, amount, rent_subtotal, purchase_subtotal,
			shipping_fee, deposit_total, deposit_currency, rent_breakdown, status, payment,
			paymentmethod, deposit_hold_status, deposit_rental_end_date, deposit_metadata, date, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		o.BuyerID, address, items, o.Amount, o.RentSubtotal, o.PurchaseSubtotal,
		o.ShippingFee, o.DepositTotal, o.DepositCurrency, breakdown, o.Status, o.Payment,
		o.PaymentMethod, o.Deposit.Status, nullTime(o.Deposit.RentalEndDate), meta,
		o.Date, time.Now(),
	).Scan(&o.ID)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE buyer_id = $1 ORDER BY date DESC`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_on = $2 WHERE id = $3`, status, time.Now(), id)
	return err
}

func (r *orderRepository) MarkPaid(ctx context.Context, id int64, paymentIntentID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment = TRUE, payment_intent_id = $1, updated_on = $2 WHERE id = $3`,
		paymentIntentID, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return err
}

func (r *orderRepository) SetCheckoutSession(ctx context.Context, id int64, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET checkout_session_id = $1, updated_on = $2 WHERE id = $3`,
		sessionID, time.Now(), id)
	return err
}

func (r *orderRepository) DeleteUnpaid(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM orders WHERE id = $1 AND payment = FALSE`, id)
	return err
}

func (r *orderRepository) UpdateDepositHold(ctx context.Context, id int64, hold *domain.DepositHold) error {
	query := `UPDATE orders SET
			deposit_payment_intent_id = $1,
			deposit_payment_method_id = $2,
			deposit_customer_id = $3,
			deposit_last_authorized_at = $4,
			deposit_authorization_expires_at = $5,
			deposit_next_action_at = $6,
			deposit_reauthorization_count = $7,
			deposit_hold_status = $8,
			deposit_rental_end_date = $9,
			updated_on = $10
		WHERE id = $11`
	_, err := r.db.ExecContext(ctx, query,
		hold.PaymentIntentID, hold.PaymentMethodID, hold.CustomerID,
		nullTime(hold.LastAuthorizedAt), nullTime(hold.ExpiresAt), nullTime(hold.NextActionAt),
		hold.ReauthorizationCount, hold.Status, nullTime(hold.RentalEndDate), time.Now(), id)
	return err
}

func (r *orderRepository) AppendDepositEvent(ctx context.Context, id int64, event domain.DepositEvent) error {
	entry, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode deposit event: %w", err)
	}
	// The history is appended inside the statement itself; concurrent
	// writers serialize on the row and no entry is ever overwritten.
	query := `UPDATE orders SET deposit_metadata = jsonb_set(
			jsonb_set(COALESCE(deposit_metadata, '{}'::jsonb), '{history}',
				COALESCE(deposit_metadata->'history', '[]'::jsonb) || $1::jsonb),
			'{updated_at}', to_jsonb($2::timestamptz)),
			updated_on = $2
		WHERE id = $3`
	_, err = r.db.ExecContext(ctx, query, entry, time.Now(), id)
	return err
}

// terminalHoldStatuses never re-enter the renewal scan. Anything else,
// "authorized" or a processor-native transient value, is re-evaluated.
const terminalHoldStatuses = `'', 'none', 'pending_authorization', 'awaiting_release',
	'authorization_failed', 'reauthorization_failed'`

func (r *orderRepository) ListExpiringDepositHolds(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE deposit_total > 0
		  AND deposit_authorization_expires_at IS NOT NULL
		  AND deposit_authorization_expires_at <= $1
		  AND deposit_hold_status NOT IN (` + terminalHoldStatuses + `)
		ORDER BY deposit_authorization_expires_at ASC`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	o := &domain.Order{}
	var (
		address, items, breakdown, meta []byte
		lastAuthorized, expires         sql.NullTime
		nextAction, rentalEnd           sql.NullTime
		depositIntent, depositMethod    sql.NullString
		depositCustomer, chargeIntent   sql.NullString
		sessionID                       sql.NullString
	)
	err := row.Scan(
		&o.ID, &o.BuyerID, &address, &items, &o.Amount, &o.RentSubtotal, &o.PurchaseSubtotal,
		&o.ShippingFee, &o.DepositTotal, &o.DepositCurrency, &breakdown, &o.Status, &o.Payment,
		&o.PaymentMethod, &chargeIntent, &sessionID,
		&depositIntent, &depositMethod, &depositCustomer,
		&lastAuthorized, &expires, &nextAction,
		&o.Deposit.ReauthorizationCount, &o.Deposit.Status, &rentalEnd,
		&meta, &o.Date, &o.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(address, &o.Address); err != nil {
		return nil, fmt.Errorf("failed to decode order address: %w", err)
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &o.RentBreakdown); err != nil {
			return nil, fmt.Errorf("failed to decode rent breakdown: %w", err)
		}
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &o.Deposit.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode deposit metadata: %w", err)
		}
	}

	o.PaymentIntentID = chargeIntent.String
	o.CheckoutSessionID = sessionID.String
	o.Deposit.PaymentIntentID = depositIntent.String
	o.Deposit.PaymentMethodID = depositMethod.String
	o.Deposit.CustomerID = depositCustomer.String
	o.Deposit.LastAuthorizedAt = timePtr(lastAuthorized)
	o.Deposit.ExpiresAt = timePtr(expires)
	o.Deposit.NextActionAt = timePtr(nextAction)
	o.Deposit.RentalEndDate = timePtr(rentalEnd)
	return o, nil
}

func collectOrders(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
