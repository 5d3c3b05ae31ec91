package kit

import "context"

type contextKey string

const (
	UploaderKey  contextKey = "kit_uploader"
	TransportKey contextKey = "kit_transport" // "http", "mcp_stdio"
	RequestIDKey contextKey = "kit_request_id"
)

// WithUploader tags the context with the identity that supplied a dataset.
func WithUploader(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UploaderKey, id)
}
func GetUploader(ctx context.Context) string {
	v, _ := ctx.Value(UploaderKey).(string)
	return v
}

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return "http"
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}
