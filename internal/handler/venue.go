package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/reservahub/event-booking/internal/model"
    "github.com/reservahub/event-booking/internal/repository"
)

// VenueHandler exposes admin CRUD over venues.
type VenueHandler struct {
    Venues *repository.VenueRepo
}

func NewVenueHandler(v *repository.VenueRepo) *VenueHandler {
    if v == nil {
        panic("nil repository passed to NewVenueHandler")
    }
    return &VenueHandler{Venues: v}
}

type venueReq struct {
    Name     string `json:"name" validate:"required"`
    Capacity int    `json:"capacity" validate:"required,gt=0"`
}

// CreateVenue handles POST /v1/venues.
func (h *VenueHandler) CreateVenue(c echo.Context) error {
    var req venueReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if err := c.Validate(&req); err != nil {
        return err
    }
    v := model.Venue{Name: req.Name, Capacity: req.Capacity}
    if err := h.Venues.Create(c.Request().Context(), &v); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create venue failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": v})
}

// GetVenue handles GET /v1/venues/:id.
func (h *VenueHandler) GetVenue(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
    }
    v, err := h.Venues.GetByID(c.Request().Context(), id)
    if err != nil {
        if err == repository.ErrVenueNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch venue failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": v})
}

// ListVenues handles GET /v1/venues.
func (h *VenueHandler) ListVenues(c echo.Context) error {
    items, err := h.Venues.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list venues failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// UpdateVenue handles PUT /v1/venues/:id.  Capacity changes do not
// touch existing bookings; future admissions are checked against the
// new capacity.
func (h *VenueHandler) UpdateVenue(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
    }
    var req venueReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if err := c.Validate(&req); err != nil {
        return err
    }
    v := model.Venue{ID: id, Name: req.Name, Capacity: req.Capacity}
    if err := h.Venues.Update(c.Request().Context(), &v); err != nil {
        if err == repository.ErrVenueNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update venue failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": v})
}
