package handler

import (
    "context"
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/reservahub/event-booking/internal/booking"
    "github.com/reservahub/event-booking/internal/model"
    "github.com/reservahub/event-booking/internal/queue"
    queue_publisher "github.com/reservahub/event-booking/internal/service"
)

// BookingHandler exposes the admission engine over HTTP.  It does no
// rule evaluation of its own; it binds requests, calls the engine and
// maps its errors to status codes.
type BookingHandler struct {
    Engine *booking.Engine
    Store  booking.Store
    Ledger *booking.Ledger

    // Publish is invoked after a successful admission.  Nil disables
    // event publishing.
    Publish func(ctx context.Context, ev queue.BookingCreatedEvent) error
}

func NewBookingHandler(e *booking.Engine, s booking.Store, l *booking.Ledger) *BookingHandler {
    if e == nil || s == nil || l == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Engine: e, Store: s, Ledger: l, Publish: queue_publisher.PublishBookingCreated}
}

type createBookingReq struct {
    EventID       uint64 `json:"event_id" validate:"required,gt=0"`
    ReservationID uint64 `json:"reservation_id" validate:"required,gt=0"`
    Quantity      int    `json:"quantity" validate:"required,gt=0"`
    Notes         string `json:"notes"`
    Voucher       string `json:"voucher"`
}

type updateBookingReq struct {
    Notes    *string `json:"notes"`
    Quantity *int    `json:"quantity"`
    Status   *string `json:"status"`
}

type statusReq struct {
    Status string `json:"status" validate:"required"`
}

// CreateBooking handles POST /v1/bookings.  The full rule pipeline
// runs inside one transaction; on success a booking.created event is
// published best-effort.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    var req createBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    b, err := h.Engine.CreateBooking(c.Request().Context(), booking.CreateBookingInput{
        EventID:       req.EventID,
        ReservationID: req.ReservationID,
        Quantity:      req.Quantity,
        Notes:         req.Notes,
        Voucher:       strings.ToUpper(strings.TrimSpace(req.Voucher)),
    })
    if err != nil {
        return respondEngineError(c, err)
    }

    if h.Publish != nil {
        go h.publishCreated(b)
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": b})
}

// publishCreated loads the joined context and emits the domain event.
// Failures are logged and otherwise ignored; the booking is committed
// regardless.
func (h *BookingHandler) publishCreated(b *model.Booking) {
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    det, err := h.Store.DetailByPair(ctx, b.EventID, b.ReservationID)
    if err != nil {
        log.Printf("booking.created: load detail failed: %v", err)
        return
    }
    _ = h.Publish(ctx, queue.BookingCreatedEvent{
        BookingID:     det.Booking.ID,
        EventID:       det.Event.ID,
        EventName:     det.Event.Name,
        EventDate:     det.Event.Date.Format(model.DateLayout),
        EventTime:     det.Event.StartTime,
        VenueName:     det.Venue.Name,
        ReservationID: det.Reservation.ID,
        BookingRef:    det.Reservation.BookingRef,
        GuestName:     det.Reservation.GuestName,
        Quantity:      det.Booking.Quantity,
        Voucher:       det.Booking.Voucher,
        CreatedAt:     det.Booking.CreatedAt.UTC().Format(time.RFC3339),
    })
}

// GetBooking handles GET /v1/events/:event_id/bookings/:reservation_id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
    eventID, ok := pathID(c, "event_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    reservationID, ok := pathID(c, "reservation_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    det, err := h.Engine.Lookup(c.Request().Context(), eventID, reservationID)
    if err != nil {
        return respondEngineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": det})
}

// ListEventBookings handles GET /v1/events/:event_id/bookings.
func (h *BookingHandler) ListEventBookings(c echo.Context) error {
    eventID, ok := pathID(c, "event_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    if _, _, err := h.Store.EventWithVenue(c.Request().Context(), eventID); err != nil {
        return respondEngineError(c, err)
    }
    items, err := h.Store.BookingsByEvent(c.Request().Context(), eventID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Availability handles GET /v1/events/:event_id/availability.
func (h *BookingHandler) Availability(c echo.Context) error {
    eventID, ok := pathID(c, "event_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    ctx := c.Request().Context()
    _, venue, err := h.Store.EventWithVenue(ctx, eventID)
    if err != nil {
        return respondEngineError(c, err)
    }
    occ, err := h.Ledger.Occupancy(ctx, eventID, 0)
    if err != nil {
        return respondEngineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "event_id":  eventID,
        "capacity":  venue.Capacity,
        "occupied":  occ,
        "remaining": venue.Capacity - occ,
    })
}

// UpdateBooking handles PATCH /v1/events/:event_id/bookings/:reservation_id.
// Only fields present in the body are written.
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
    eventID, ok := pathID(c, "event_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    reservationID, ok := pathID(c, "reservation_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req updateBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    upd := booking.BookingUpdate{Notes: req.Notes, Quantity: req.Quantity}
    if req.Status != nil {
        s := model.BookingStatus(strings.ToUpper(strings.TrimSpace(*req.Status)))
        upd.Status = &s
    }
    b, err := h.Engine.UpdateBooking(c.Request().Context(), eventID, reservationID, upd)
    if err != nil {
        return respondEngineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": b})
}

// SetStatus handles PUT /v1/events/:event_id/bookings/:reservation_id/status.
// Any status may move to any other.
func (h *BookingHandler) SetStatus(c echo.Context) error {
    eventID, ok := pathID(c, "event_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    reservationID, ok := pathID(c, "reservation_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req statusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    status := model.BookingStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
    if err := h.Engine.SetStatus(c.Request().Context(), eventID, reservationID, status); err != nil {
        return respondEngineError(c, err)
    }
    b, err := h.Store.Booking(c.Request().Context(), eventID, reservationID)
    if err != nil {
        return respondEngineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": b})
}

// DeleteBooking handles DELETE /v1/events/:event_id/bookings/:reservation_id.
// Hard delete for administrative cleanup; cancellation is a status
// change, not a delete.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
    eventID, ok := pathID(c, "event_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    reservationID, ok := pathID(c, "reservation_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    if err := h.Engine.DeleteBooking(c.Request().Context(), eventID, reservationID); err != nil {
        return respondEngineError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
