// Package cart models the client cart as an explicit value type with
// pure reducers, so the merge and dedup rules are testable on their own.
// Lines are keyed by (product id, configuration key) where the
// configuration key is a plain size, a rental date-range signature, or a
// size plus customization id. These are mutually exclusive per product
// type and never merge with each other.
package cart

import (
	"errors"
	"fmt"
	"time"

	"earnshare-backend/internal/domain"
	"earnshare-backend/internal/pricing"
)

type LineKind string

const (
	LineKindPurchase   LineKind = "purchase"
	LineKindRental     LineKind = "rental"
	LineKindCustomized LineKind = "customized"
)

// Line is one cart entry. Rental lines always carry quantity 1 and an
// embedded RentInfo; customized lines remember their base size so the
// order snapshot can show it.
type Line struct {
	Kind          LineKind          `json:"kind"`
	Quantity      int32             `json:"quantity"`
	BaseSize      string            `json:"baseSize,omitempty"`
	RentInfo      *pricing.RentInfo `json:"rentInfo,omitempty"`
	Customization string            `json:"customization,omitempty"`
}

// Cart maps product id to configuration key to line.
type Cart map[int64]map[string]Line

// Totals is the monetary aggregation the storefront shows and order
// submission persists. DueTodaySubtotal deliberately excludes deposits.
type Totals struct {
	RentSubtotal     float64           `json:"rentSubtotal"`
	PurchaseSubtotal float64           `json:"purchaseSubtotal"`
	DepositTotal     float64           `json:"depositTotal"`
	DueTodaySubtotal float64           `json:"dueTodaySubtotal"`
	RentLines        []RentLineSummary `json:"rentLineSummaries"`
	MaxRentalEndDate *time.Time        `json:"maxRentalEndDate,omitempty"`
}

// RentLineSummary is the per-line rent/deposit split fed into the
// persisted rent breakdown.
type RentLineSummary struct {
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	Days      int       `json:"days"`
	RentFee   float64   `json:"rent_fee"`
	Deposit   float64   `json:"deposit"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

var (
	ErrSizeRequired     = errors.New("product size is required")
	ErrRentDatesMissing = errors.New("rental dates are required")
)

// CustomKey builds the configuration key of a customized line. Customized
// and plain units of the same product and size must not merge, so the
// customization id is part of the key.
func CustomKey(size, customizationID string) string {
	return fmt.Sprintf("%s|custom:%s", size, customizationID)
}

// clone copies the cart one level deep so reducers never mutate their input.
func (c Cart) clone() Cart {
	next := make(Cart, len(c))
	for productID, lines := range c {
		copied := make(map[string]Line, len(lines))
		for key, line := range lines {
			copied[key] = line
		}
		next[productID] = copied
	}
	return next
}

// AddLine adds one unit of a product under the configuration implied by
// the arguments and returns the new cart plus the line's key. Rental
// lines pin quantity at 1 per distinct date range; a new range is a new
// line. A non-empty customization on a customizable product creates a
// line keyed apart from plain size lines.
func (c Cart) AddLine(product domain.Product, size string, rent *pricing.RentInfo, custom *domain.Customization) (Cart, string, error) {
	if product.Rentable {
		if rent == nil {
			return c, "", ErrRentDatesMissing
		}
		key := rent.RangeKey()
		next := c.clone()
		if next[product.ID] == nil {
			next[product.ID] = map[string]Line{}
		}
		next[product.ID][key] = Line{Kind: LineKindRental, Quantity: 1, RentInfo: rent}
		return next, key, nil
	}

	if size == "" {
		return c, "", ErrSizeRequired
	}

	key := size
	line := Line{Kind: LineKindPurchase, Quantity: 1}
	if product.IsCustomizable && custom != nil && custom.Text != "" {
		key = CustomKey(size, custom.ID)
		line = Line{Kind: LineKindCustomized, Quantity: 1, BaseSize: size, Customization: custom.ID}
	}

	next := c.clone()
	if next[product.ID] == nil {
		next[product.ID] = map[string]Line{}
	}
	if existing, ok := next[product.ID][key]; ok {
		existing.Quantity++
		next[product.ID][key] = existing
	} else {
		next[product.ID][key] = line
	}
	return next, key, nil
}

// SetQuantity sets a line's quantity. Zero removes the line entirely and
// drops the product entry once its last line is gone; zero is not a
// valid persisted state.
func (c Cart) SetQuantity(productID int64, key string, quantity int32) Cart {
	lines, ok := c[productID]
	if !ok {
		return c
	}
	line, ok := lines[key]
	if !ok {
		return c
	}

	next := c.clone()
	if quantity <= 0 {
		delete(next[productID], key)
		if len(next[productID]) == 0 {
			delete(next, productID)
		}
		return next
	}
	if line.Kind == LineKindRental {
		quantity = 1
	}
	line.Quantity = quantity
	next[productID][key] = line
	return next
}

// RemoveLine drops a line regardless of quantity.
func (c Cart) RemoveLine(productID int64, key string) Cart {
	return c.SetQuantity(productID, key, 0)
}

// Count is the unit count shown on the cart badge.
func (c Cart) Count() int32 {
	var total int32
	for _, lines := range c {
		for _, line := range lines {
			total += line.Quantity
		}
	}
	return total
}

// ComputeTotals aggregates the cart against a catalog snapshot. Lines
// whose product is missing from the snapshot are skipped: the catalog is
// the pricing source of truth and a vanished product cannot be priced.
func (c Cart) ComputeTotals(catalog map[int64]domain.Product) Totals {
	var totals Totals
	for productID, lines := range c {
		product, ok := catalog[productID]
		if !ok {
			continue
		}
		for _, line := range lines {
			switch line.Kind {
			case LineKindRental:
				if line.RentInfo == nil {
					continue
				}
				totals.RentSubtotal += line.RentInfo.RentFee
				totals.DepositTotal += line.RentInfo.Deposit
				totals.RentLines = append(totals.RentLines, RentLineSummary{
					ProductID: productID,
					Name:      product.Name,
					Days:      line.RentInfo.Days,
					RentFee:   line.RentInfo.RentFee,
					Deposit:   line.RentInfo.Deposit,
					StartDate: line.RentInfo.StartDate,
					EndDate:   line.RentInfo.EndDate,
				})
				end := line.RentInfo.EndDate
				if totals.MaxRentalEndDate == nil || end.After(*totals.MaxRentalEndDate) {
					totals.MaxRentalEndDate = &end
				}
			default:
				totals.PurchaseSubtotal += product.Price * float64(line.Quantity)
			}
		}
	}
	totals.DueTodaySubtotal = totals.RentSubtotal + totals.PurchaseSubtotal
	return totals
}
