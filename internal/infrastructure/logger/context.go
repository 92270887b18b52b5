package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// MerchantIDKey is the context key for the merchant being queried
	MerchantIDKey contextKey = "merchant_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns a no-op logger if
// not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID adds request ID to context and returns enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enrichedLogger := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// WithMerchantID adds the queried merchant to context and returns enriched
// logger
func WithMerchantID(ctx context.Context, logger *zap.Logger, merchantID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, MerchantIDKey, merchantID)
	enrichedLogger := logger.With(zap.String("merchant_id", merchantID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetMerchantID retrieves the queried merchant from context
func GetMerchantID(ctx context.Context) string {
	if merchantID, ok := ctx.Value(MerchantIDKey).(string); ok {
		return merchantID
	}
	return ""
}
