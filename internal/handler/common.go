package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/reservahub/event-booking/internal/booking"
)

// getUserID extracts the user_id set by the JWT middleware and converts
// it to uint64.  JWT numeric claims decode as float64.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    n, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || n == 0 {
        return 0, false
    }
    return n, true
}

// respondEngineError translates admission engine errors into HTTP
// responses.  Validation failures map to 400, missing entities to 404,
// rule violations to 422 with their stable code, slot and voucher
// collisions to 409 and anything else to 500.
func respondEngineError(c echo.Context, err error) error {
    var verr *booking.ValidationError
    if errors.As(err, &verr) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error(), "field": verr.Field})
    }
    var nfe *booking.NotFoundError
    if errors.As(err, &nfe) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": nfe.Error()})
    }
    var rerr *booking.RuleError
    if errors.As(err, &rerr) {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{
            "error": rerr.Message,
            "code":  string(rerr.Code),
        })
    }
    if errors.Is(err, booking.ErrSlotTaken) || errors.Is(err, booking.ErrVoucherTaken) {
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    c.Logger().Errorf("booking engine: %v", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
