package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/reservahub/event-booking/internal/model"
    "github.com/reservahub/event-booking/internal/repository"
)

// ReservationHandler exposes CRUD over guest stays.
type ReservationHandler struct {
    Reservations *repository.ReservationRepo
}

func NewReservationHandler(r *repository.ReservationRepo) *ReservationHandler {
    if r == nil {
        panic("nil repository passed to NewReservationHandler")
    }
    return &ReservationHandler{Reservations: r}
}

type reservationReq struct {
    BookingRef string `json:"booking_ref" validate:"required"`
    UnitCode   string `json:"unit_code" validate:"required"`
    GuestName  string `json:"guest_name" validate:"required"`
    Phone      string `json:"phone"`
    Email      string `json:"email" validate:"omitempty,email"`
    CheckIn    string `json:"check_in" validate:"required"`  // YYYY-MM-DD
    CheckOut   string `json:"check_out" validate:"required"` // YYYY-MM-DD
    GuestCount int    `json:"guest_count" validate:"required,gt=0"`
}

func (req *reservationReq) toModel() (*model.Reservation, string) {
    checkIn, err := time.Parse(model.DateLayout, req.CheckIn)
    if err != nil {
        return nil, "check_in must be YYYY-MM-DD"
    }
    checkOut, err := time.Parse(model.DateLayout, req.CheckOut)
    if err != nil {
        return nil, "check_out must be YYYY-MM-DD"
    }
    if !checkOut.After(checkIn) {
        return nil, "check_out must be after check_in"
    }
    return &model.Reservation{
        BookingRef: strings.TrimSpace(req.BookingRef),
        UnitCode:   strings.ToUpper(strings.TrimSpace(req.UnitCode)),
        GuestName:  strings.TrimSpace(req.GuestName),
        Phone:      strings.TrimSpace(req.Phone),
        Email:      strings.ToLower(strings.TrimSpace(req.Email)),
        CheckIn:    checkIn,
        CheckOut:   checkOut,
        GuestCount: req.GuestCount,
    }, ""
}

// CreateReservation handles POST /v1/reservations.  A unit already
// held over an overlapping window yields 409.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
    var req reservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    res, msg := req.toModel()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    if err := h.Reservations.Create(c.Request().Context(), res); err != nil {
        if err == repository.ErrUnitOverlap {
            return c.JSON(http.StatusConflict, echo.Map{"error": "unit already reserved for an overlapping window"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": res})
}

// GetReservation handles GET /v1/reservations/:id.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    res, err := h.Reservations.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrReservationNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch reservation failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// ListReservations handles GET /v1/reservations.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
    items, err := h.Reservations.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// UpdateReservation handles PUT /v1/reservations/:id.
func (h *ReservationHandler) UpdateReservation(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req reservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    res, msg := req.toModel()
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    res.ID = id
    if err := h.Reservations.Update(c.Request().Context(), res); err != nil {
        switch err {
        case repository.ErrReservationNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        case repository.ErrUnitOverlap:
            return c.JSON(http.StatusConflict, echo.Map{"error": "unit already reserved for an overlapping window"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update reservation failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": res})
}
