package handler

import (
    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate on bound request structs.
type RequestValidator struct {
    validate *validator.Validate
}

// NewRequestValidator returns a validator ready to be assigned to
// echo.Echo.Validator.
func NewRequestValidator() *RequestValidator {
    return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i interface{}) error {
    if err := v.validate.Struct(i); err != nil {
        return echo.NewHTTPError(400, err.Error())
    }
    return nil
}
