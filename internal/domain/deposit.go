package domain

import (
	"fmt"
	"time"
)

// DepositHoldStatus tracks the card authorization backing a rental
// deposit. Besides the closed set below, the column may transiently hold
// a payment-processor-native intent status (e.g. "requires_action") when
// a freshly created authorization did not land in manual-capture state;
// the renewal job re-evaluates those on its next cycle.
type DepositHoldStatus string

const (
	// DepositHoldNone means the order carries no deposit. Terminal.
	DepositHoldNone DepositHoldStatus = "none"
	// DepositHoldPending means the order is paid but the deposit has not
	// been authorized yet. The unset ("") status reads as pending.
	DepositHoldPending DepositHoldStatus = "pending_authorization"
	// DepositHoldAuthorized means an active manual-capture hold exists.
	DepositHoldAuthorized DepositHoldStatus = "authorized"
	// DepositHoldAwaitingRelease means the rental ended; the hold awaits
	// operator release or capture and is never auto-renewed again.
	DepositHoldAwaitingRelease DepositHoldStatus = "awaiting_release"
	// DepositHoldAuthorizationFailed means the initial authorization
	// attempt failed.
	DepositHoldAuthorizationFailed DepositHoldStatus = "authorization_failed"
	// DepositHoldReauthorizationFailed means a renewal attempt failed;
	// the hold may lapse before the rental ends.
	DepositHoldReauthorizationFailed DepositHoldStatus = "reauthorization_failed"
)

// Known reports whether s is one of the closed statuses.
func (s DepositHoldStatus) Known() bool {
	switch s.normalize() {
	case DepositHoldNone, DepositHoldPending, DepositHoldAuthorized,
		DepositHoldAwaitingRelease, DepositHoldAuthorizationFailed,
		DepositHoldReauthorizationFailed:
		return true
	}
	return false
}

// ProviderTransient reports whether s is a processor-native status that
// the renewal job should re-evaluate.
func (s DepositHoldStatus) ProviderTransient() bool {
	return !s.Known()
}

func (s DepositHoldStatus) normalize() DepositHoldStatus {
	if s == "" {
		return DepositHoldPending
	}
	return s
}

// depositTransitions is the closed transition table. Provider-transient
// statuses are handled separately: they may be entered from pending or
// authorized and leave toward authorized, awaiting_release, or
// reauthorization_failed.
var depositTransitions = map[DepositHoldStatus][]DepositHoldStatus{
	DepositHoldPending: {
		DepositHoldAuthorized,
		DepositHoldAuthorizationFailed,
	},
	DepositHoldAuthorized: {
		DepositHoldAuthorized, // renewal replaces the hold
		DepositHoldAwaitingRelease,
		DepositHoldReauthorizationFailed,
	},
}

// CanTransition reports whether moving from s to next is allowed.
func (s DepositHoldStatus) CanTransition(next DepositHoldStatus) bool {
	from := s.normalize()
	if next.ProviderTransient() {
		return from == DepositHoldPending || from == DepositHoldAuthorized || from.ProviderTransient()
	}
	if from.ProviderTransient() {
		switch next {
		case DepositHoldAuthorized, DepositHoldAwaitingRelease, DepositHoldReauthorizationFailed:
			return true
		}
		return false
	}
	for _, allowed := range depositTransitions[from] {
		if next == allowed {
			return true
		}
	}
	return false
}

// DepositEvent is a single entry of the append-only deposit history.
// The history is the audit trail for a financial hold and must only ever
// be extended.
type DepositEvent struct {
	Type            string    `json:"type"`
	Message         string    `json:"message,omitempty"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	Amount          float64   `json:"amount,omitempty"`
	Sequence        int32     `json:"sequence,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// DepositMetadata is the semi-structured history log persisted as JSONB
// on the order row.
type DepositMetadata struct {
	History   []DepositEvent `json:"history"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DepositHold is the deposit authorization state carried on an order.
type DepositHold struct {
	PaymentIntentID      string            `json:"deposit_payment_intent_id"`
	PaymentMethodID      string            `json:"deposit_payment_method_id"`
	CustomerID           string            `json:"deposit_customer_id"`
	LastAuthorizedAt     *time.Time        `json:"deposit_last_authorized_at"`
	ExpiresAt            *time.Time        `json:"deposit_authorization_expires_at"`
	NextActionAt         *time.Time        `json:"deposit_next_action_at"`
	ReauthorizationCount int32             `json:"deposit_reauthorization_count"`
	Status               DepositHoldStatus `json:"deposit_hold_status"`
	RentalEndDate        *time.Time        `json:"deposit_rental_end_date"`
	Metadata             DepositMetadata   `json:"deposit_metadata"`
}

// Transition moves the hold to next, rejecting anything outside the
// transition table so an invalid state is an error, not a silent data bug.
func (h *DepositHold) Transition(next DepositHoldStatus) error {
	if !h.Status.CanTransition(next) {
		return fmt.Errorf("invalid deposit hold transition: %q -> %q", h.Status.normalize(), next)
	}
	h.Status = next
	return nil
}
