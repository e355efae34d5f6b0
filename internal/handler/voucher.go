package handler

import (
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/reservahub/event-booking/internal/booking"
)

// VoucherHandler resolves voucher codes to bookings and renders the
// printable voucher document.
type VoucherHandler struct {
    Engine *booking.Engine
}

func NewVoucherHandler(e *booking.Engine) *VoucherHandler {
    if e == nil {
        panic("nil engine passed to NewVoucherHandler")
    }
    return &VoucherHandler{Engine: e}
}

// Lookup handles GET /v1/vouchers/:code.  The code is matched
// case-insensitively.
func (h *VoucherHandler) Lookup(c echo.Context) error {
    det, err := h.Engine.LookupByVoucher(c.Request().Context(), c.Param("code"))
    if err != nil {
        return respondEngineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": det})
}

// Document handles GET /v1/vouchers/:code/document and streams the
// voucher as an inline PDF.
func (h *VoucherHandler) Document(c echo.Context) error {
    code := c.Param("code")
    doc, err := h.Engine.RenderVoucherDocument(c.Request().Context(), code)
    if err != nil {
        return respondEngineError(c, err)
    }
    c.Response().Header().Set(echo.HeaderContentDisposition,
        fmt.Sprintf("inline; filename=%q", "voucher-"+code+".pdf"))
    return c.Blob(http.StatusOK, "application/pdf", doc)
}
