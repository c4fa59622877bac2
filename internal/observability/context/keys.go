package context

import "context"

type contextKey string

const (
	requestIDKey contextKey = "observability_request_id"
	referenceKey contextKey = "observability_payment_reference"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}

// WithReference tags the context with the payment correlation reference so
// webhook processing logs can be joined with the originating checkout.
func WithReference(ctx context.Context, reference string) context.Context {
	if ctx == nil || reference == "" {
		return ctx
	}
	return context.WithValue(ctx, referenceKey, reference)
}

func ReferenceFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(referenceKey).(string)
	return value
}
