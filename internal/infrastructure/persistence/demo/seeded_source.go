// Package demo provides a deterministic in-memory transaction source for
// demos and tests. All randomness flows through one explicitly seeded
// generator, so the same seed and clock always produce the same history.
package demo

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/studiobook/backend/internal/domain/booking"
)

var namespace = uuid.MustParse("b5d1f1c0-9e68-4c11-8f52-3a7e6f1d4b20")

type studioSpec struct {
	name  string
	items []itemSpec
}

type itemSpec struct {
	name  string
	price float64
}

var studioSpecs = []studioSpec{
	{name: "Main Studio", items: []itemSpec{
		{name: "Recording Session", price: 350},
		{name: "Mixing Session", price: 280},
		{name: "Mastering", price: 220},
	}},
	{name: "Rehearsal Room A", items: []itemSpec{
		{name: "Band Rehearsal", price: 120},
		{name: "Solo Practice", price: 70},
	}},
	{name: "Rehearsal Room B", items: []itemSpec{
		{name: "Band Rehearsal", price: 110},
		{name: "Drum Practice", price: 80},
	}},
}

var customerNames = []string{
	"Noa Levi", "Daniel Cohen", "Maya Peretz", "Itay Mizrahi", "Shira Katz",
	"Omer Biton", "Tamar Friedman", "Yonatan Azulay", "Lior Shapiro", "Hila Dahan",
	"Eitan Malka", "Roni Gabay", "Amit Ohana", "Yael Baruch", "Nadav Edri",
}

var cancellationReasons = []string{
	"Schedule conflict", "Illness", "Weather", "Price", "",
}

// seasonalFactor mirrors the booking patterns of a working studio: busy fall
// and winter, quieter spring and summer.
func seasonalFactor(month time.Month) float64 {
	switch {
	case month >= time.September && month <= time.December:
		return 1.15
	case month >= time.March && month <= time.June:
		return 0.92
	default:
		return 1.0
	}
}

// SeededSource is a deterministic TransactionRepository serving a generated
// booking history for one merchant: roughly fourteen months back plus one
// month of upcoming confirmed bookings.
type SeededSource struct {
	merchantID uuid.UUID
	txs        []booking.Transaction
}

// NewSeededSource generates the demo history. Identical (merchantID, seed,
// now) inputs yield an identical transaction log.
func NewSeededSource(merchantID uuid.UUID, seed int64, now time.Time) *SeededSource {
	rng := rand.New(rand.NewSource(seed))
	s := &SeededSource{merchantID: merchantID}

	customers := make([]struct {
		id   uuid.UUID
		name string
	}, len(customerNames))
	for i, name := range customerNames {
		customers[i].id = uuid.NewSHA1(namespace, []byte("customer:"+name))
		customers[i].name = name
	}

	seq := 0
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for back := 14; back >= -1; back-- {
		start := monthStart.AddDate(0, -back, 0)
		growth := 1.0 + float64(14-back)*0.02
		volume := int(float64(34) * growth * seasonalFactor(start.Month()))
		for i := 0; i < volume; i++ {
			studio := studioSpecs[rng.Intn(len(studioSpecs))]
			item := studio.items[rng.Intn(len(studio.items))]
			customer := customers[rng.Intn(len(customers))]

			day := rng.Intn(daysIn(start)) + 1
			// bookings skew into business hours
			hour := 9 + rng.Intn(12)
			occurred := time.Date(start.Year(), start.Month(), day, hour, 0, 0, 0, start.Location())

			amount := decimal.NewFromFloat(item.price)
			discount := decimal.Zero
			if rng.Float64() < 0.2 {
				discount = amount.Mul(decimal.NewFromFloat(0.1)).Round(2)
			}

			status := booking.StatusConfirmed
			var reason *string
			if back >= 0 && rng.Float64() < 0.08 {
				status = booking.StatusCancelled
				r := cancellationReasons[rng.Intn(len(cancellationReasons))]
				if r != "" {
					reason = &r
				}
			}

			seq++
			s.txs = append(s.txs, booking.Transaction{
				ID:                 uuid.NewSHA1(namespace, []byte(fmt.Sprintf("tx:%d", seq))),
				MerchantID:         merchantID,
				StudioID:           uuid.NewSHA1(namespace, []byte("studio:"+studio.name)),
				StudioName:         studio.name,
				ItemID:             uuid.NewSHA1(namespace, []byte("item:"+studio.name+":"+item.name)),
				ItemName:           item.name,
				CustomerID:         customer.id,
				CustomerName:       customer.name,
				Amount:             amount,
				DiscountAmount:     discount,
				Status:             status,
				CancellationReason: reason,
				CreatedAt:          occurred.AddDate(0, 0, -rng.Intn(14)-1),
				OccurredAt:         occurred,
			})
		}
	}

	sort.SliceStable(s.txs, func(a, b int) bool {
		if !s.txs[a].OccurredAt.Equal(s.txs[b].OccurredAt) {
			return s.txs[a].OccurredAt.Before(s.txs[b].OccurredAt)
		}
		return s.txs[a].ID.String() < s.txs[b].ID.String()
	})
	return s
}

func daysIn(monthStart time.Time) int {
	return monthStart.AddDate(0, 1, -1).Day()
}

// FindByMerchant returns the generated transactions inside the window.
func (s *SeededSource) FindByMerchant(ctx context.Context, merchantID uuid.UUID, w booking.Window) ([]booking.Transaction, error) {
	if merchantID != s.merchantID {
		return []booking.Transaction{}, nil
	}
	out := make([]booking.Transaction, 0)
	for _, tx := range s.txs {
		if w.Contains(tx.OccurredAt) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// FindAllByMerchant returns the full generated history.
func (s *SeededSource) FindAllByMerchant(ctx context.Context, merchantID uuid.UUID) ([]booking.Transaction, error) {
	if merchantID != s.merchantID {
		return []booking.Transaction{}, nil
	}
	out := make([]booking.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

// FindByCustomer returns one customer's generated transactions.
func (s *SeededSource) FindByCustomer(ctx context.Context, merchantID, customerID uuid.UUID) ([]booking.Transaction, error) {
	out := make([]booking.Transaction, 0)
	if merchantID != s.merchantID {
		return out, nil
	}
	for _, tx := range s.txs {
		if tx.CustomerID == customerID {
			out = append(out, tx)
		}
	}
	return out, nil
}

// FindUpcoming returns generated transactions booked after the given time.
func (s *SeededSource) FindUpcoming(ctx context.Context, merchantID uuid.UUID, after time.Time) ([]booking.Transaction, error) {
	out := make([]booking.Transaction, 0)
	if merchantID != s.merchantID {
		return out, nil
	}
	for _, tx := range s.txs {
		if tx.OccurredAt.After(after) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// HasMerchant reports whether this source serves the merchant.
func (s *SeededSource) HasMerchant(ctx context.Context, merchantID uuid.UUID) (bool, error) {
	return merchantID == s.merchantID, nil
}

// MerchantID returns the merchant this source was generated for
func (s *SeededSource) MerchantID() uuid.UUID {
	return s.merchantID
}

// Ensure SeededSource implements TransactionRepository
var _ booking.TransactionRepository = (*SeededSource)(nil)
