package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/studiobook/backend/internal/domain/booking"
)

// TransactionModel is the persistence model for the booking Transaction
// record. Rows are append-only: the analytics engine never updates them.
type TransactionModel struct {
	ID                 uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	MerchantID         uuid.UUID                 `gorm:"type:uuid;not null;index:idx_tx_merchant_occurred,priority:1"`
	StudioID           uuid.UUID                 `gorm:"type:uuid;not null;index"`
	StudioName         string                    `gorm:"type:varchar(200);not null"`
	ItemID             uuid.UUID                 `gorm:"type:uuid;not null"`
	ItemName           string                    `gorm:"type:varchar(200);not null"`
	CustomerID         uuid.UUID                 `gorm:"type:uuid;not null;index:idx_tx_merchant_customer,priority:2"`
	CustomerName       string                    `gorm:"type:varchar(200);not null"`
	Amount             decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount     decimal.Decimal           `gorm:"type:decimal(18,2);not null;default:0"`
	Status             booking.TransactionStatus `gorm:"type:varchar(20);not null"`
	CancellationReason *string                   `gorm:"type:varchar(200)"`
	CreatedAt          time.Time                 `gorm:"not null"`
	OccurredAt         time.Time                 `gorm:"not null;index:idx_tx_merchant_occurred,priority:2"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts the persistence model to a domain Transaction record.
func (m *TransactionModel) ToDomain() *booking.Transaction {
	return &booking.Transaction{
		ID:                 m.ID,
		MerchantID:         m.MerchantID,
		StudioID:           m.StudioID,
		StudioName:         m.StudioName,
		ItemID:             m.ItemID,
		ItemName:           m.ItemName,
		CustomerID:         m.CustomerID,
		CustomerName:       m.CustomerName,
		Amount:             m.Amount,
		DiscountAmount:     m.DiscountAmount,
		Status:             m.Status,
		CancellationReason: m.CancellationReason,
		CreatedAt:          m.CreatedAt,
		OccurredAt:         m.OccurredAt,
	}
}

// FromDomain populates the persistence model from a domain Transaction record.
func (m *TransactionModel) FromDomain(t *booking.Transaction) {
	m.ID = t.ID
	m.MerchantID = t.MerchantID
	m.StudioID = t.StudioID
	m.StudioName = t.StudioName
	m.ItemID = t.ItemID
	m.ItemName = t.ItemName
	m.CustomerID = t.CustomerID
	m.CustomerName = t.CustomerName
	m.Amount = t.Amount
	m.DiscountAmount = t.DiscountAmount
	m.Status = t.Status
	m.CancellationReason = t.CancellationReason
	m.CreatedAt = t.CreatedAt
	m.OccurredAt = t.OccurredAt
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction record.
func TransactionModelFromDomain(t *booking.Transaction) *TransactionModel {
	m := &TransactionModel{}
	m.FromDomain(t)
	return m
}
