package router

import (
    "github.com/labstack/echo/v4"

    "github.com/reservahub/event-booking/internal/handler"
)

// RegisterBookings registers the admission endpoints under /v1.  Both
// ADMIN and STAFF operators may admit, amend and cancel bookings.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        jwtAuth(jwtSecret),
        requireStaff(),
    )

    g.POST("/bookings", b.CreateBooking)
    g.GET("/events/:event_id/bookings", b.ListEventBookings)
    g.GET("/events/:event_id/bookings/:reservation_id", b.GetBooking)
    g.PATCH("/events/:event_id/bookings/:reservation_id", b.UpdateBooking)
    g.PUT("/events/:event_id/bookings/:reservation_id/status", b.SetStatus)
    g.DELETE("/events/:event_id/bookings/:reservation_id", b.DeleteBooking)
}
