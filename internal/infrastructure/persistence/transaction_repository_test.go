package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studiobook/backend/internal/domain/booking"
	"github.com/studiobook/backend/internal/domain/shared"
	"github.com/studiobook/backend/internal/infrastructure/persistence/models"
)

func newTestRepo(t *testing.T) *GormTransactionRepository {
	t.Helper()
	// a named shared-cache database keeps the pool's connections on the same
	// in-memory store while isolating tests from each other
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.TransactionModel{}))
	return NewGormTransactionRepository(db)
}

func testTx(merchantID uuid.UUID, occurred time.Time) *booking.Transaction {
	return &booking.Transaction{
		ID:           uuid.New(),
		MerchantID:   merchantID,
		StudioID:     uuid.New(),
		StudioName:   "Main Studio",
		ItemID:       uuid.New(),
		ItemName:     "Recording Session",
		CustomerID:   uuid.New(),
		CustomerName: "Noa Levi",
		Amount:       decimal.NewFromInt(100),
		Status:       booking.StatusConfirmed,
		CreatedAt:    occurred.AddDate(0, 0, -1),
		OccurredAt:   occurred,
	}
}

func TestRepo_SaveAndFindByMerchant(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	merchantID := uuid.New()
	at := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)

	tx := testTx(merchantID, at)
	reason := "Illness"
	cancelled := testTx(merchantID, at.Add(2*time.Hour))
	cancelled.Status = booking.StatusCancelled
	cancelled.CancellationReason = &reason

	require.NoError(t, repo.Save(ctx, tx))
	require.NoError(t, repo.Save(ctx, cancelled))

	w := booking.CurrentMonth(at)
	got, err := repo.FindByMerchant(ctx, merchantID, w)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, tx.ID, got[0].ID)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, got[1].CancellationReason)
	assert.Equal(t, "Illness", *got[1].CancellationReason)
}

func TestRepo_WindowIsHalfOpen(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	merchantID := uuid.New()
	w := booking.CurrentMonth(time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC))

	onStart := testTx(merchantID, w.Start)
	onEnd := testTx(merchantID, w.End)
	justInside := testTx(merchantID, w.End.Add(-time.Second))
	require.NoError(t, repo.SaveBatch(ctx, []*booking.Transaction{onStart, onEnd, justInside}))

	got, err := repo.FindByMerchant(ctx, merchantID, w)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, onStart.ID, got[0].ID)
	assert.Equal(t, justInside.ID, got[1].ID)
}

func TestRepo_OrderedByOccurredAtThenID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	merchantID := uuid.New()
	at := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)

	later := testTx(merchantID, at.Add(time.Hour))
	earlier := testTx(merchantID, at)
	twinA := testTx(merchantID, at.Add(2*time.Hour))
	twinB := testTx(merchantID, at.Add(2*time.Hour))
	twinA.ID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	twinB.ID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	require.NoError(t, repo.SaveBatch(ctx, []*booking.Transaction{later, twinB, earlier, twinA}))

	got, err := repo.FindAllByMerchant(ctx, merchantID)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, earlier.ID, got[0].ID)
	assert.Equal(t, later.ID, got[1].ID)
	assert.Equal(t, twinA.ID, got[2].ID)
	assert.Equal(t, twinB.ID, got[3].ID)
}

func TestRepo_FindByCustomer(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	merchantID := uuid.New()
	customerID := uuid.New()
	at := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)

	mine := testTx(merchantID, at)
	mine.CustomerID = customerID
	other := testTx(merchantID, at)
	foreign := testTx(uuid.New(), at)
	foreign.CustomerID = customerID
	require.NoError(t, repo.SaveBatch(ctx, []*booking.Transaction{mine, other, foreign}))

	got, err := repo.FindByCustomer(ctx, merchantID, customerID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)
}

func TestRepo_FindUpcoming(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	merchantID := uuid.New()
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)

	past := testTx(merchantID, now.AddDate(0, 0, -1))
	exactlyNow := testTx(merchantID, now)
	future := testTx(merchantID, now.AddDate(0, 0, 3))
	require.NoError(t, repo.SaveBatch(ctx, []*booking.Transaction{past, exactlyNow, future}))

	got, err := repo.FindUpcoming(ctx, merchantID, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, future.ID, got[0].ID)
}

func TestRepo_HasMerchant(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	merchantID := uuid.New()

	exists, err := repo.HasMerchant(ctx, merchantID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Save(ctx, testTx(merchantID, time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC))))

	exists, err = repo.HasMerchant(ctx, merchantID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepo_SaveRejectsMalformedRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)

	overDiscounted := testTx(uuid.New(), at)
	overDiscounted.DiscountAmount = decimal.NewFromInt(500)

	err := repo.Save(ctx, overDiscounted)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.ErrCodeInvalidInput, domainErr.Code)

	// nothing was written
	exists, err := repo.HasMerchant(ctx, overDiscounted.MerchantID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepo_SaveBatchEmptyIsNoop(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.SaveBatch(context.Background(), nil))
}
