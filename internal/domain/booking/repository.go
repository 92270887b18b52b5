package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionRepository is the read-side contract against the transaction
// source. Implementations must return transactions ordered by occurred_at
// ascending so downstream computation is deterministic. Store failures must be
// returned as errors, never as partial result sets.
type TransactionRepository interface {
	// FindByMerchant returns the merchant's transactions whose occurred_at
	// falls inside the window.
	FindByMerchant(ctx context.Context, merchantID uuid.UUID, w Window) ([]Transaction, error)

	// FindAllByMerchant returns the merchant's full transaction history.
	FindAllByMerchant(ctx context.Context, merchantID uuid.UUID) ([]Transaction, error)

	// FindByCustomer returns one customer's full history under a merchant.
	FindByCustomer(ctx context.Context, merchantID, customerID uuid.UUID) ([]Transaction, error)

	// FindUpcoming returns confirmed transactions booked for slots after the
	// given instant.
	FindUpcoming(ctx context.Context, merchantID uuid.UUID, after time.Time) ([]Transaction, error)

	// HasMerchant reports whether any transaction exists for the merchant.
	HasMerchant(ctx context.Context, merchantID uuid.UUID) (bool, error)
}
