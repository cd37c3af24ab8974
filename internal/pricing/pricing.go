package pricing

import (
	"fmt"
	"time"
)

// RentInfo is the monetary breakdown of one rental selection. Amounts are
// in account currency units; conversion to minor units happens only at
// the payment boundary.
type RentInfo struct {
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	Days       int       `json:"days"`
	RentFee    float64   `json:"rentFee"`
	Deposit    float64   `json:"deposit"`
	TotalPrice float64   `json:"totalPrice"`
}

// Equal reports whether two results are identical, date identity included.
func (r *RentInfo) Equal(o *RentInfo) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.StartDate.Equal(o.StartDate) &&
		r.EndDate.Equal(o.EndDate) &&
		r.Days == o.Days &&
		r.RentFee == o.RentFee &&
		r.Deposit == o.Deposit &&
		r.TotalPrice == o.TotalPrice
}

// RangeKey returns the cart configuration key for this date range,
// e.g. "rent:2026-03-01..2026-03-05".
func (r *RentInfo) RangeKey() string {
	return fmt.Sprintf("rent:%s..%s",
		r.StartDate.Format("2006-01-02"), r.EndDate.Format("2006-01-02"))
}

// calendarDays is the whole-day difference between two dates, ignoring
// the time-of-day components.
func calendarDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// Compute derives the rental breakdown for a daily rate, the product's
// reference value, and a selected date range. Either date missing means
// no commitment yet and yields nil; the caller must reset any previously
// shown totals. The deposit shrinks as the rent fee grows and reaches
// zero once the rent fee alone covers the reference value.
func Compute(dailyRate, referenceValue float64, start, end *time.Time) *RentInfo {
	if start == nil || end == nil {
		return nil
	}

	days := calendarDays(*start, *end) + 1 // both endpoints count
	if days < 1 {
		days = 1
	}

	rentFee := float64(days) * dailyRate
	deposit := referenceValue - rentFee
	if deposit < 0 {
		deposit = 0
	}
	total := rentFee
	if rentFee < referenceValue {
		total = rentFee + deposit
	}

	return &RentInfo{
		StartDate:  *start,
		EndDate:    *end,
		Days:       days,
		RentFee:    rentFee,
		Deposit:    deposit,
		TotalPrice: total,
	}
}

// Calculator recomputes a rental breakdown as the caller's selection
// changes and invokes the change callback only when the result actually
// differs from the previous one. The dedup is a liveness guard: callers
// typically re-render on the callback, and re-rendering feeds the same
// inputs back in.
type Calculator struct {
	dailyRate      float64
	referenceValue float64
	onChange       func(*RentInfo)
	last           *RentInfo
	fired          bool
}

func NewCalculator(dailyRate, referenceValue float64, onChange func(*RentInfo)) *Calculator {
	return &Calculator{
		dailyRate:      dailyRate,
		referenceValue: referenceValue,
		onChange:       onChange,
	}
}

// Update recomputes for the given range and returns the current result.
// A nil result (incomplete range) is also deduplicated so the caller's
// zero-reset fires once, not on every poll.
func (c *Calculator) Update(start, end *time.Time) *RentInfo {
	next := Compute(c.dailyRate, c.referenceValue, start, end)
	if c.fired && next.Equal(c.last) {
		return c.last
	}
	c.last = next
	c.fired = true
	if c.onChange != nil {
		c.onChange(next)
	}
	return next
}

// Current returns the last computed result without recomputing.
func (c *Calculator) Current() *RentInfo {
	return c.last
}
