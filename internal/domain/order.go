package domain

import (
	"time"

	"earnshare-backend/internal/pricing"
)

type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "Order Placed"
	OrderStatusPacking        OrderStatus = "Packing"
	OrderStatusShipped        OrderStatus = "Shipped"
	OrderStatusOutForDelivery OrderStatus = "Out for delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
)

type PaymentMethod string

const (
	PaymentMethodCOD       PaymentMethod = "cod"
	PaymentMethodStripe    PaymentMethod = "stripe"
	PaymentMethodGooglePay PaymentMethod = "googlepay"
)

// Online reports whether the method settles through the payment
// processor. Only online methods leave a reusable payment-method
// reference, so only they can enter the deposit lifecycle.
func (m PaymentMethod) Online() bool {
	return m == PaymentMethodStripe || m == PaymentMethodGooglePay
}

type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// OrderItem embeds a product snapshot at purchase time; later product
// edits never rewrite order history.
type OrderItem struct {
	ProductID     int64             `json:"id"`
	Name          string            `json:"name"`
	Price         float64           `json:"price"`
	DailyRate     float64           `json:"daily_rate,omitempty"`
	Size          string            `json:"size"`
	SizeKey       string            `json:"size_key"`
	Quantity      int32             `json:"quantity"`
	Image         string            `json:"image,omitempty"`
	Customization *Customization    `json:"customization,omitempty"`
	RentInfo      *pricing.RentInfo `json:"rentInfo,omitempty"`
}

// RentBreakdownLine is the persisted per-line rent/deposit split.
type RentBreakdownLine struct {
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Days      int       `json:"days"`
	RentFee   float64   `json:"rent_fee"`
	Deposit   float64   `json:"deposit"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type Order struct {
	ID      int64       `json:"id"`
	BuyerID string      `json:"buyer_id"`
	Address Address     `json:"address"`
	Items   []OrderItem `json:"items"`

	// Amount is what the buyer is charged today: rent fees + purchase
	// subtotal + shipping. Deposits are holds, never part of Amount.
	Amount           float64             `json:"amount"`
	RentSubtotal     float64             `json:"rent_subtotal"`
	PurchaseSubtotal float64             `json:"purchase_subtotal"`
	ShippingFee      float64             `json:"shipping_fee"`
	DepositTotal     float64             `json:"deposit_total"`
	DepositCurrency  string              `json:"deposit_currency"`
	RentBreakdown    []RentBreakdownLine `json:"rent_breakdown"`

	Status            OrderStatus   `json:"status"`
	Payment           bool          `json:"payment"`
	PaymentMethod     PaymentMethod `json:"paymentmethod"`
	PaymentIntentID   string        `json:"payment_intent_id"`
	CheckoutSessionID string        `json:"checkout_session_id"`

	Deposit DepositHold `json:"deposit"`

	Date      time.Time `json:"date"`
	UpdatedOn time.Time `json:"updated_on"`
}
