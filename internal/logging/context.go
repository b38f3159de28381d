package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext returns the logger carried by ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent tags every log line from ctx with the subsystem name
// (router, httpapi, omnibox, ...).
func WithComponent(ctx context.Context, component string) context.Context {
	return withField(ctx, "component", component)
}

// WithRequestID tags log lines with a protocol request id. Empty ids leave
// ctx unchanged.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withField(ctx, "request_id", requestID)
}

// WithEngine tags log lines with the engine key a request resolved to.
func WithEngine(ctx context.Context, engine string) context.Context {
	return withField(ctx, "engine", engine)
}

func withField(ctx context.Context, key, value string) context.Context {
	if value == "" {
		return ctx
	}
	return WithContext(ctx, FromContext(ctx).With().Str(key, value).Logger())
}
