package middleware

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// routePattern returns the matched chi pattern, or "unmatched" for requests
// no route handled. It must be called after the next handler ran.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// statusOf returns the response status. A hijacked websocket upgrade never
// calls WriteHeader on the wrapper, so it is reported as 101.
func statusOf(ww middleware.WrapResponseWriter, r *http.Request) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	if websocket.IsWebSocketUpgrade(r) {
		return http.StatusSwitchingProtocols
	}
	return http.StatusOK
}

func statusLabel(code int) string {
	return strconv.Itoa(code)
}
