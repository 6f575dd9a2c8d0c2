// Package middleware provides HTTP middleware for observability.
//
// The middleware follows the net/http convention func(http.Handler)
// http.Handler and is meant to be installed on the server router through
// server.WithMiddleware. Route labels come from the chi route pattern, so
// cardinality stays bounded regardless of the request path.
//
// # Prometheus
//
//	reg := prometheus.NewRegistry()
//	srv := server.New(cfg, d, server.WithMiddleware(
//	    middleware.Prometheus(middleware.WithRegistry(reg)),
//	))
//
// Metrics collected:
//   - monolith_http_requests_total: Counter by method, route and status
//   - monolith_http_request_duration_seconds: Histogram by method and route
//
// Websocket upgrades are counted with status 101 once the handler returns,
// which is right after the session has been handed to the dispatcher.
//
// # OpenTelemetry
//
//	srv := server.New(cfg, d, server.WithMiddleware(
//	    middleware.OpenTelemetry(middleware.WithTracerProvider(tp)),
//	))
//
// Each request gets a server span named after its method and route. The
// span is stored in the request context for handlers.
package middleware
