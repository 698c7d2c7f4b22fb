package obs

import "context"

type ctxKey int

const routePatternKey ctxKey = iota

// WithRoutePattern stores the matched chi route pattern on the context so
// metrics, tracing and logs can label by route instead of raw path.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routePatternKey, pattern)
}

// RoutePatternFromContext returns the stored pattern, or "".
func RoutePatternFromContext(ctx context.Context) string {
	pattern, _ := ctx.Value(routePatternKey).(string)
	return pattern
}
