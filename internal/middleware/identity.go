package middleware

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID returns a string identifier for the authenticated
// operator, or "anon" when the request carries no identity.  JWTAuth
// stores the subject claim under "user_id"; the claim decodes as a
// float64 for numeric subjects, so both forms are handled.
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return fmt.Sprintf("%.0f", v)
    case uint64:
        return fmt.Sprintf("%d", v)
    }
    return "anon"
}
