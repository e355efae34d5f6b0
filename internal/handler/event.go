package handler

import (
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/reservahub/event-booking/internal/booking"
    "github.com/reservahub/event-booking/internal/model"
    "github.com/reservahub/event-booking/internal/repository"
)

// EventHandler exposes admin CRUD over events plus the bulk range
// provisioner.
type EventHandler struct {
    Events      *repository.EventRepo
    Provisioner *booking.Provisioner
}

func NewEventHandler(e *repository.EventRepo, p *booking.Provisioner) *EventHandler {
    if e == nil || p == nil {
        panic("nil dependency passed to NewEventHandler")
    }
    return &EventHandler{Events: e, Provisioner: p}
}

type eventReq struct {
    Name    string `json:"name" validate:"required"`
    Date    string `json:"date" validate:"required"` // YYYY-MM-DD
    Time    string `json:"time" validate:"required"` // HH:MM
    VenueID uint64 `json:"venue_id" validate:"required,gt=0"`
}

type bulkEventReq struct {
    Name      string `json:"name" validate:"required"`
    Time      string `json:"time" validate:"required"`
    VenueID   uint64 `json:"venue_id" validate:"required,gt=0"`
    StartDate string `json:"start_date" validate:"required"`
    EndDate   string `json:"end_date" validate:"required"`
}

// CreateEvent handles POST /v1/events.  A slot collision on
// (date, time, venue) yields 409.
func (h *EventHandler) CreateEvent(c echo.Context) error {
    var req eventReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if err := c.Validate(&req); err != nil {
        return err
    }
    date, err := time.Parse(model.DateLayout, req.Date)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    if _, err := time.Parse(model.TimeLayout, req.Time); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "time must be HH:MM"})
    }
    ev := model.Event{Name: req.Name, Date: date, StartTime: req.Time, VenueID: req.VenueID}
    if err := h.Events.Create(c.Request().Context(), &ev); err != nil {
        if err == repository.ErrSlotConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "an event already exists for this date, time and venue"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": ev})
}

// GetEvent handles GET /v1/events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    ev, err := h.Events.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrEventNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch event failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": ev})
}

// ListEvents handles GET /v1/events with optional venue_id, from and
// to query filters.
func (h *EventHandler) ListEvents(c echo.Context) error {
    var venueID uint64
    if s := c.QueryParam("venue_id"); s != "" {
        id, ok := parseQueryID(s)
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue_id"})
        }
        venueID = id
    }
    from, ok := parseQueryDate(c.QueryParam("from"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
    }
    to, ok := parseQueryDate(c.QueryParam("to"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
    }
    items, err := h.Events.List(c.Request().Context(), venueID, from, to)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list events failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// DeleteEvent handles DELETE /v1/events/:id.  Events carrying
// non-cancelled bookings cannot be removed.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    err := h.Events.Delete(c.Request().Context(), id)
    if err != nil {
        switch err {
        case repository.ErrEventNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        case repository.ErrEventHasBookings:
            return c.JSON(http.StatusConflict, echo.Map{"error": "event has non-cancelled bookings"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// BulkCreateEvents handles POST /v1/events/bulk.  One event is created
// per day of the inclusive range; days whose slot is taken are skipped
// silently and only the created events are returned.
func (h *EventHandler) BulkCreateEvents(c echo.Context) error {
    var req bulkEventReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if err := c.Validate(&req); err != nil {
        return err
    }
    start, err := time.Parse(model.DateLayout, req.StartDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
    }
    end, err := time.Parse(model.DateLayout, req.EndDate)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
    }
    created, err := h.Provisioner.CreateEventsInRange(c.Request().Context(), booking.ProvisionInput{
        Name:      req.Name,
        StartTime: req.Time,
        VenueID:   req.VenueID,
        StartDate: start,
        EndDate:   end,
    })
    if err != nil {
        return respondEngineError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"items": created, "count": len(created)})
}

func parseQueryID(s string) (uint64, bool) {
    n, err := strconv.ParseUint(s, 10, 64)
    return n, err == nil && n > 0
}

func parseQueryDate(s string) (*time.Time, bool) {
    if s == "" {
        return nil, true
    }
    t, err := time.Parse(model.DateLayout, s)
    if err != nil {
        return nil, false
    }
    return &t, true
}
