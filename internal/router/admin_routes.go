package router

import (
    "github.com/labstack/echo/v4"

    "github.com/reservahub/event-booking/internal/handler"
    "github.com/reservahub/event-booking/internal/middleware"
)

// jwtAuth and requireStaff keep the middleware construction in one
// place so every protected group uses the same chain.
func jwtAuth(secret string) echo.MiddlewareFunc { return middleware.JWTAuth(secret) }

func requireStaff() echo.MiddlewareFunc { return middleware.RequireRole("ADMIN", "STAFF") }

func requireAdmin() echo.MiddlewareFunc { return middleware.RequireRole("ADMIN") }

// RegisterAdmin registers ADMIN-scoped catalogue management under /v1:
// venues, events (single and bulk) and reservation records.
func RegisterAdmin(e *echo.Echo, v *handler.VenueHandler, ev *handler.EventHandler, r *handler.ReservationHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        jwtAuth(jwtSecret),
        requireAdmin(),
    )

    // ---- Venues ----
    g.POST("/venues", v.CreateVenue)
    g.PUT("/venues/:id", v.UpdateVenue)
    g.PATCH("/venues/:id", v.UpdateVenue)

    // ---- Events ----
    g.POST("/events", ev.CreateEvent)
    g.POST("/events/bulk", ev.BulkCreateEvents)
    g.DELETE("/events/:id", ev.DeleteEvent)

    // ---- Reservations ----
    g.POST("/reservations", r.CreateReservation)
    g.PUT("/reservations/:id", r.UpdateReservation)
    g.PATCH("/reservations/:id", r.UpdateReservation)

    // Reads are open to both roles.
    staff := e.Group(
        "/v1",
        jwtAuth(jwtSecret),
        requireStaff(),
    )
    staff.GET("/venues", v.ListVenues)
    staff.GET("/venues/:id", v.GetVenue)
    staff.GET("/events", ev.ListEvents)
    staff.GET("/events/:id", ev.GetEvent)
    staff.GET("/reservations", r.ListReservations)
    staff.GET("/reservations/:id", r.GetReservation)
}
