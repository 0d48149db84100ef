// Package middleware provides HTTP middleware for anchor servers.
//
// Both middlewares have the func(http.Handler) http.Handler shape, so they
// plug straight into a chi router:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry())
//	r.Use(middleware.NewMetrics(middleware.WithRegistry(reg)).Handler)
//
// # OpenTelemetry Middleware
//
// OpenTelemetry starts a server span for every request, named after the
// method and the matched chi route pattern. The span travels in the request
// context, so handlers (and the hydration matcher) create child spans:
//
//	func page(w http.ResponseWriter, r *http.Request) {
//	    if span := middleware.SpanFromContext(r.Context()); span != nil {
//	        span.SetAttributes(attribute.Int("anchor.items", 3))
//	    }
//	}
//
// # Prometheus Metrics
//
// Metrics collects, per route pattern:
//   - anchor_http_requests_total: requests by route, method and status class
//   - anchor_http_request_duration_seconds: latency histogram
//   - anchor_http_requests_in_flight: requests currently being served
//
// Route patterns rather than raw paths keep label cardinality bounded.
package middleware
