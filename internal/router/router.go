package router

import (
    "github.com/labstack/echo/v4"

    "github.com/reservahub/event-booking/internal/handler"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the operator session endpoints.  Register,
// login, refresh and logout live under /v1/auth; /v1/me requires a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(jwtAuth(jwtSecret))
    auth.Use(requireStaff())
    auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated read endpoints: event
// availability, voucher lookup and the printable voucher document.
func RegisterPublic(e *echo.Echo, b *handler.BookingHandler, v *handler.VoucherHandler) {
    e.GET("/v1/events/:event_id/availability", b.Availability)
    e.GET("/v1/vouchers/:code", v.Lookup)
    e.GET("/v1/vouchers/:code/document", v.Document)
}
