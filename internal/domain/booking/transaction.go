package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/studiobook/backend/internal/domain/shared"
)

// TransactionStatus represents the lifecycle state of a booking transaction
type TransactionStatus string

const (
	StatusConfirmed TransactionStatus = "confirmed"
	StatusCancelled TransactionStatus = "cancelled"
)

// IsValid checks whether the status is a known value
func (s TransactionStatus) IsValid() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// Transaction is an immutable booking+payment record owned by the transaction
// source. Amount and DiscountAmount are in the merchant's currency with two
// fraction digits. OccurredAt is the booked slot's start time; CreatedAt is
// when the booking was made.
type Transaction struct {
	ID                 uuid.UUID         `json:"id"`
	MerchantID         uuid.UUID         `json:"merchant_id"`
	StudioID           uuid.UUID         `json:"studio_id"`
	StudioName         string            `json:"studio_name"`
	ItemID             uuid.UUID         `json:"item_id"`
	ItemName           string            `json:"item_name"`
	CustomerID         uuid.UUID         `json:"customer_id"`
	CustomerName       string            `json:"customer_name"`
	Amount             decimal.Decimal   `json:"amount"`
	DiscountAmount     decimal.Decimal   `json:"discount_amount"`
	Status             TransactionStatus `json:"status"`
	CancellationReason *string           `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	OccurredAt         time.Time         `json:"occurred_at"`
}

// Validate enforces the transaction invariants. Malformed records are rejected
// at ingestion; the analytics engine assumes clean input.
func (t *Transaction) Validate() error {
	if t.ID == uuid.Nil {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "transaction id is required")
	}
	if t.MerchantID == uuid.Nil {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "merchant id is required")
	}
	if t.CustomerID == uuid.Nil {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "customer id is required")
	}
	if !t.Status.IsValid() {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "unknown transaction status")
	}
	if t.Amount.IsNegative() {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "amount cannot be negative")
	}
	if t.DiscountAmount.IsNegative() {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "discount cannot be negative")
	}
	if t.DiscountAmount.GreaterThan(t.Amount) {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "discount cannot exceed amount")
	}
	if t.CreatedAt.IsZero() || t.OccurredAt.IsZero() {
		return shared.NewDomainError(shared.ErrCodeInvalidInput, "transaction timestamps are required")
	}
	return nil
}

// IsConfirmed reports whether the transaction contributes to revenue
func (t *Transaction) IsConfirmed() bool {
	return t.Status == StatusConfirmed
}

// NetAmount returns amount minus coupon discount
func (t *Transaction) NetAmount() decimal.Decimal {
	return t.Amount.Sub(t.DiscountAmount)
}

// Reason returns the cancellation reason, bucketing missing reasons as "Other"
func (t *Transaction) Reason() string {
	if t.CancellationReason == nil || *t.CancellationReason == "" {
		return "Other"
	}
	return *t.CancellationReason
}
