package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studiobook/backend/internal/domain/booking"
	"github.com/studiobook/backend/internal/infrastructure/persistence/models"
)

// GormTransactionRepository implements TransactionRepository using GORM.
// All reads return rows ordered by occurred_at ascending (id ascending as a
// tie-break) so downstream ranking stays deterministic.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByMerchant returns the merchant's transactions inside the window.
func (r *GormTransactionRepository) FindByMerchant(ctx context.Context, merchantID uuid.UUID, w booking.Window) ([]booking.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND occurred_at >= ? AND occurred_at < ?", merchantID, w.Start, w.End).
		Order("occurred_at ASC, id ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(txModels), nil
}

// FindAllByMerchant returns the merchant's full transaction history.
func (r *GormTransactionRepository) FindAllByMerchant(ctx context.Context, merchantID uuid.UUID) ([]booking.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("occurred_at ASC, id ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(txModels), nil
}

// FindByCustomer returns one customer's transactions under the merchant.
func (r *GormTransactionRepository) FindByCustomer(ctx context.Context, merchantID, customerID uuid.UUID) ([]booking.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND customer_id = ?", merchantID, customerID).
		Order("occurred_at ASC, id ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(txModels), nil
}

// FindUpcoming returns transactions whose booked slot starts after the given
// time.
func (r *GormTransactionRepository) FindUpcoming(ctx context.Context, merchantID uuid.UUID, after time.Time) ([]booking.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND occurred_at > ?", merchantID, after).
		Order("occurred_at ASC, id ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(txModels), nil
}

// HasMerchant reports whether the merchant has any transactions at all.
func (r *GormTransactionRepository) HasMerchant(ctx context.Context, merchantID uuid.UUID) (bool, error) {
	var probe struct{ ID uuid.UUID }
	err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select("id").
		Where("merchant_id = ?", merchantID).
		Take(&probe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Save appends a transaction record. The record is validated first; the table
// is append-only and malformed rows are rejected at this boundary.
func (r *GormTransactionRepository) Save(ctx context.Context, tx *booking.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(models.TransactionModelFromDomain(tx)).Error
}

// SaveBatch appends multiple transaction records
func (r *GormTransactionRepository) SaveBatch(ctx context.Context, txs []*booking.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	txModels := make([]*models.TransactionModel, len(txs))
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
		txModels[i] = models.TransactionModelFromDomain(tx)
	}
	return r.db.WithContext(ctx).CreateInBatches(txModels, 500).Error
}

func toDomainSlice(txModels []models.TransactionModel) []booking.Transaction {
	txs := make([]booking.Transaction, len(txModels))
	for i, m := range txModels {
		txs[i] = *m.ToDomain()
	}
	return txs
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ booking.TransactionRepository = (*GormTransactionRepository)(nil)
