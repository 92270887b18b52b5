package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appanalytics "github.com/studiobook/backend/internal/application/analytics"
	"github.com/studiobook/backend/internal/domain/shared"
)

// AnalyticsHandler serves the merchant analytics read API
type AnalyticsHandler struct {
	BaseHandler
	service         *appanalytics.AnalyticsService
	defaultPageSize int
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(service *appanalytics.AnalyticsService, defaultPageSize int) *AnalyticsHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	return &AnalyticsHandler{service: service, defaultPageSize: defaultPageSize}
}

// RegisterRoutes registers analytics routes on the given router group
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	merchants := rg.Group("/merchants/:merchantId")
	{
		merchants.GET("/stats", h.GetStats)
		merchants.GET("/analytics", h.GetCombined)

		analytics := merchants.Group("/analytics")
		{
			analytics.GET("/studios", h.GetStudios)
			analytics.GET("/customers", h.ListCustomers)
			analytics.GET("/customers/:customerId", h.GetCustomerDetail)
			analytics.GET("/projections", h.GetProjections)
			analytics.GET("/revenue-breakdown", h.GetRevenueBreakdown)
			analytics.GET("/cancellations", h.GetCancellations)
			analytics.GET("/time-slots", h.GetTimeSlots)
			analytics.GET("/repeat-customers", h.GetRepeatCustomers)
		}
	}
}

// merchantID parses the merchant ID path parameter
func (h *AnalyticsHandler) merchantID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("merchantId"))
	if err != nil {
		h.ValidationError(c, "merchantId must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// window returns the requested window key, defaulting to the current month.
// The value itself is validated by the service.
func (h *AnalyticsHandler) window(c *gin.Context) string {
	return c.DefaultQuery("window", "current_month")
}

// listFilter parses pagination query parameters. Range checks happen in the
// domain filter so out-of-range values reject instead of silently clamping.
func (h *AnalyticsHandler) listFilter(c *gin.Context) (shared.Filter, bool) {
	filter := shared.Filter{
		Page:   1,
		Limit:  h.defaultPageSize,
		Search: c.Query("search"),
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			h.ValidationError(c, "page must be an integer")
			return shared.Filter{}, false
		}
		filter.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.ValidationError(c, "limit must be an integer")
			return shared.Filter{}, false
		}
		filter.Limit = limit
	}
	return filter, true
}

// GetStats returns the merchant dashboard stats for a window
func (h *AnalyticsHandler) GetStats(c *gin.Context) {
	merchantID, ok := h.merchantID(c)
	if !ok {
		return
	}

	stats, err := h.service.MerchantStats(c.Request.Context(), merchantID, h.window(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// GetCombined returns time-slot, cancellation and repeat-customer analytics
// in a single response
func (h *AnalyticsHandler) GetCombined(c *gin.Context) {
	merchantID, ok := h.merchantID(c)
	if !ok {
		return
	}

	combined, err := h.service.Combined(c.Request.Context(), merchantID, h.window(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, combined)
}

// GetStudios returns per-studio analytics rows for a window
func (h *AnalyticsHandler) GetStudios(c *gin.Context) {
	merchantID, ok := h.merchantID(c)
	if !ok {
		return
	}

	rows, err := h.service.StudioAnalytics(c.Request.Context(), merchantID, h.window(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// ListCustomers returns a paginated, sortable customer analytics list
func (h *AnalyticsHandler) ListCustomers(c *gin.Context) {
	merchantID, ok := h.merchantID(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.service.CustomerAnalytics(c.Request.Context(), merchantID, filter, c.Query("sortBy"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.Limit, page.Pages)
}

// GetCustomerDetail returns one customer's booking history and preferences
func (h *AnalyticsHandler) GetCustomerDetail(c *gin.Context) {
	merchantID, ok := h.merchantID(c)
	if !ok {
		return
	}
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		h.ValidationError(c, "customerId must be a valid UUID")
		return
	}

	detail, err := h.service.CustomerDetail(c.Request.Context(), merchantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// GetProjections returns the revenue forecast
func (h *AnalyticsHandler) GetProjections(c *gin.Context) {
	merchantID, ok := h.merchantID(c)
	if !ok {
		return
	}

	projections, err := h.service.Projections(c.Request.Context(), merchantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, projections)
}

// GetRevenueBreakdown returns revenue grouped by studio, item, day and hour
func (h *AnalyticsHandler) GetRevenueBreakdown(c *gin.Context) {
	merchantID, ok := h.merchantID(c)
	if !ok {
		return
	}

	breakdown, err := h.service.RevenueBreakdown(c.Request.Context(), merchantID, h.window(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breakdown)
}

// GetCancellations returns cancellation stats for a window
func (h *AnalyticsHandler) GetCancellations(c *gin.Context) {
	merchantID, ok := h.merchantID(c)
	if !ok {
		return
	}

	stats, err := h.service.Cancellations(c.Request.Context(), merchantID, h.window(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// GetTimeSlots returns popular time slot and day-of-week analytics
func (h *AnalyticsHandler) GetTimeSlots(c *gin.Context) {
	merchantID, ok := h.merchantID(c)
	if !ok {
		return
	}

	slots, err := h.service.PopularTimeSlots(c.Request.Context(), merchantID, h.window(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, slots)
}

// GetRepeatCustomers returns repeat customer stats for a window
func (h *AnalyticsHandler) GetRepeatCustomers(c *gin.Context) {
	merchantID, ok := h.merchantID(c)
	if !ok {
		return
	}

	stats, err := h.service.RepeatCustomers(c.Request.Context(), merchantID, h.window(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
