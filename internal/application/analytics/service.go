package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/studiobook/backend/internal/domain/analytics"
	"github.com/studiobook/backend/internal/domain/booking"
	"github.com/studiobook/backend/internal/domain/shared"
)

// Cache dimensions. A cached response is keyed (merchant, window, dimension)
// and dropped whenever the merchant's transactions change.
const (
	dimStats         = "stats"
	dimStudios       = "studios"
	dimProjections   = "projections"
	dimBreakdown     = "breakdown"
	dimCancellations = "cancellations"
	dimTimeSlots     = "time_slots"
	dimRepeat        = "repeat_customers"
)

const defaultCacheTTL = 5 * time.Minute

// AnalyticsService orchestrates the analyzers over the transaction source.
// Every response is a pure function of (transaction snapshot, window,
// parameters): no analyzer holds state, which is what makes the fan-out and
// the cache safe.
type AnalyticsService struct {
	repo   booking.TransactionRepository
	cache  shared.AnalyticsCache
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time
}

// AnalyticsServiceOption is a functional option for configuring the service
type AnalyticsServiceOption func(*AnalyticsService)

// WithCacheTTL overrides the backstop TTL on cached responses
func WithCacheTTL(ttl time.Duration) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the service clock, anchoring every calendar computation
// for tests and replay.
func WithClock(now func() time.Time) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAnalyticsService creates the analytics orchestrator
func NewAnalyticsService(repo booking.TransactionRepository, cache shared.AnalyticsCache, logger *zap.Logger, opts ...AnalyticsServiceOption) *AnalyticsService {
	s := &AnalyticsService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		ttl:    defaultCacheTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MerchantStats computes the dashboard read model for the window.
func (s *AnalyticsService) MerchantStats(ctx context.Context, merchantID uuid.UUID, window string) (*analytics.MerchantStats, error) {
	w, err := s.resolveWindow(ctx, merchantID, window)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, merchantID, dimStats, w, func() (*analytics.MerchantStats, error) {
		all, err := s.repo.FindAllByMerchant(ctx, merchantID)
		if err != nil {
			return nil, s.unavailable(err)
		}
		return merchantStats(all, w, s.now()), nil
	})
}

// StudioAnalytics returns one row per studio in the merchant's portfolio.
func (s *AnalyticsService) StudioAnalytics(ctx context.Context, merchantID uuid.UUID, window string) ([]analytics.StudioAnalyticsRow, error) {
	w, err := s.resolveWindow(ctx, merchantID, window)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, merchantID, dimStudios, w, func() ([]analytics.StudioAnalyticsRow, error) {
		current, previous, err := s.loadWindowPair(ctx, merchantID, w)
		if err != nil {
			return nil, err
		}
		return studioRows(current, previous, w), nil
	})
}

// CustomerAnalytics returns the paginated customer segmentation listing.
// Pagination and sortBy are validated before any repository access.
func (s *AnalyticsService) CustomerAnalytics(ctx context.Context, merchantID uuid.UUID, filter shared.Filter, sortBy string) (*shared.Paginated[analytics.CustomerAnalyticsRow], error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	sortKey, err := analytics.ParseCustomerSortBy(sortBy)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMerchant(ctx, merchantID); err != nil {
		return nil, err
	}

	all, err := s.repo.FindAllByMerchant(ctx, merchantID)
	if err != nil {
		return nil, s.unavailable(err)
	}

	rows := customerRows(all, s.now())
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		matched := rows[:0]
		for _, row := range rows {
			if strings.Contains(strings.ToLower(row.CustomerName), needle) {
				matched = append(matched, row)
			}
		}
		rows = matched
	}
	sortCustomerRows(rows, sortKey)

	page := shared.NewPaginated(rows, filter.Page, filter.Limit)
	return &page, nil
}

// CustomerDetail returns the drill-down view for one customer. A customer
// with no transactions under this merchant is not found.
func (s *AnalyticsService) CustomerDetail(ctx context.Context, merchantID, customerID uuid.UUID) (*analytics.CustomerDetail, error) {
	if err := s.ensureMerchant(ctx, merchantID); err != nil {
		return nil, err
	}
	txs, err := s.repo.FindByCustomer(ctx, merchantID, customerID)
	if err != nil {
		return nil, s.unavailable(err)
	}
	if len(txs) == 0 {
		return nil, shared.NewDomainError(shared.ErrCodeNotFound, "customer has no transactions under this merchant")
	}
	return customerDetail(customerID, txs, s.now()), nil
}

// Projections forecasts the next three months from the merchant's 12-month
// actuals plus already-booked future revenue.
func (s *AnalyticsService) Projections(ctx context.Context, merchantID uuid.UUID) (*analytics.Projections, error) {
	if err := s.ensureMerchant(ctx, merchantID); err != nil {
		return nil, err
	}
	now := s.now()
	w := booking.CurrentMonth(now)
	return cached(ctx, s, merchantID, dimProjections, w, func() (*analytics.Projections, error) {
		var all, upcoming []booking.Transaction
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			all, err = s.repo.FindAllByMerchant(gctx, merchantID)
			return err
		})
		g.Go(func() error {
			var err error
			upcoming, err = s.repo.FindUpcoming(gctx, merchantID, now)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, s.unavailable(err)
		}

		confirmedUpcoming := decimal.Zero
		for _, tx := range upcoming {
			if tx.IsConfirmed() {
				confirmedUpcoming = confirmedUpcoming.Add(tx.Amount)
			}
		}
		return forecast(monthlyRevenue(all, now), confirmedUpcoming), nil
	})
}

// RevenueBreakdown slices window revenue by studio, item, weekday and hour.
func (s *AnalyticsService) RevenueBreakdown(ctx context.Context, merchantID uuid.UUID, window string) (*analytics.RevenueBreakdown, error) {
	w, err := s.resolveWindow(ctx, merchantID, window)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, merchantID, dimBreakdown, w, func() (*analytics.RevenueBreakdown, error) {
		txs, err := s.repo.FindByMerchant(ctx, merchantID, w)
		if err != nil {
			return nil, s.unavailable(err)
		}
		return revenueBreakdown(txs), nil
	})
}

// Cancellations analyzes the window's cancelled bookings against the previous
// equal-length window.
func (s *AnalyticsService) Cancellations(ctx context.Context, merchantID uuid.UUID, window string) (*analytics.CancellationStats, error) {
	w, err := s.resolveWindow(ctx, merchantID, window)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, merchantID, dimCancellations, w, func() (*analytics.CancellationStats, error) {
		current, previous, err := s.loadWindowPair(ctx, merchantID, w)
		if err != nil {
			return nil, err
		}
		return cancellationStats(current, previous), nil
	})
}

// PopularTimeSlots ranks the window's slots and weekdays by bookings.
func (s *AnalyticsService) PopularTimeSlots(ctx context.Context, merchantID uuid.UUID, window string) (*analytics.PopularTimeSlots, error) {
	w, err := s.resolveWindow(ctx, merchantID, window)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, merchantID, dimTimeSlots, w, func() (*analytics.PopularTimeSlots, error) {
		txs, err := s.repo.FindByMerchant(ctx, merchantID, w)
		if err != nil {
			return nil, s.unavailable(err)
		}
		return popularTimeSlots(txs), nil
	})
}

// RepeatCustomers summarizes customers with more than one confirmed booking
// in the window.
func (s *AnalyticsService) RepeatCustomers(ctx context.Context, merchantID uuid.UUID, window string) (*analytics.RepeatCustomerStats, error) {
	w, err := s.resolveWindow(ctx, merchantID, window)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, merchantID, dimRepeat, w, func() (*analytics.RepeatCustomerStats, error) {
		txs, err := s.repo.FindByMerchant(ctx, merchantID, w)
		if err != nil {
			return nil, s.unavailable(err)
		}
		return repeatCustomerStats(txs), nil
	})
}

// Combined fans the three dashboard panels out in parallel. Any analyzer
// failure aborts the whole call; a partial response is never returned.
func (s *AnalyticsService) Combined(ctx context.Context, merchantID uuid.UUID, window string) (*analytics.CombinedAnalytics, error) {
	if _, err := s.resolveWindow(ctx, merchantID, window); err != nil {
		return nil, err
	}

	out := &analytics.CombinedAnalytics{}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	g.Go(func() error {
		slots, err := s.PopularTimeSlots(gctx, merchantID, window)
		if err == nil {
			out.TimeSlots = *slots
		}
		return err
	})
	g.Go(func() error {
		cancellations, err := s.Cancellations(gctx, merchantID, window)
		if err == nil {
			out.Cancellations = *cancellations
		}
		return err
	})
	g.Go(func() error {
		repeat, err := s.RepeatCustomers(gctx, merchantID, window)
		if err == nil {
			out.RepeatCustomers = *repeat
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// InvalidateMerchant drops the merchant's cached responses. The transaction
// ingestion path calls this after every write.
func (s *AnalyticsService) InvalidateMerchant(ctx context.Context, merchantID uuid.UUID) error {
	return s.cache.InvalidateMerchant(ctx, merchantID.String())
}

// resolveWindow validates the window value and checks the merchant exists.
func (s *AnalyticsService) resolveWindow(ctx context.Context, merchantID uuid.UUID, window string) (booking.Window, error) {
	w, err := booking.ParseWindow(window, s.now())
	if err != nil {
		return booking.Window{}, err
	}
	if err := s.ensureMerchant(ctx, merchantID); err != nil {
		return booking.Window{}, err
	}
	return w, nil
}

func (s *AnalyticsService) ensureMerchant(ctx context.Context, merchantID uuid.UUID) error {
	exists, err := s.repo.HasMerchant(ctx, merchantID)
	if err != nil {
		return s.unavailable(err)
	}
	if !exists {
		return shared.NewDomainError(shared.ErrCodeNotFound, "merchant not found")
	}
	return nil
}

// loadWindowPair fetches the window and its predecessor concurrently.
func (s *AnalyticsService) loadWindowPair(ctx context.Context, merchantID uuid.UUID, w booking.Window) (current, previous []booking.Transaction, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.repo.FindByMerchant(gctx, merchantID, w)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.repo.FindByMerchant(gctx, merchantID, w.Previous())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, s.unavailable(err)
	}
	return current, previous, nil
}

// unavailable converts a repository failure into the source-unavailable
// domain error. Domain errors pass through untouched.
func (s *AnalyticsService) unavailable(err error) error {
	if domainErr, ok := err.(*shared.DomainError); ok {
		return domainErr
	}
	s.logger.Error("transaction source unavailable", zap.Error(err))
	return shared.NewDomainError(shared.ErrCodeSourceUnavailable, "transaction source unavailable")
}

// cached consults the response cache before computing, and stores the result
// after. Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *AnalyticsService, merchantID uuid.UUID, dimension string, w booking.Window, compute func() (T, error)) (T, error) {
	var zero T
	key := fmt.Sprintf("%s:%s:%s", merchantID, w.Key(), dimension)

	payload, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		var out T
		if err := json.Unmarshal(payload, &out); err == nil {
			return out, nil
		}
		s.logger.Warn("dropping undecodable cache entry", zap.String("key", key))
	}

	out, err := compute()
	if err != nil {
		return zero, err
	}

	if payload, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, merchantID.String(), key, payload, s.ttl); err != nil {
			s.logger.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}
