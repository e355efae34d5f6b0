package booking

import (
    "math"
    "time"
)

// Tier derives the maximum number of concurrent non-cancelled
// bookings a reservation is entitled to from its stay span.  Stays of
// a week or longer get three slots, three nights or longer two, and
// everything shorter a single slot.  A same-day or inverted window
// still counts as a one-day stay.
func Tier(checkIn, checkOut time.Time) int {
    days := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
    if days < 1 {
        days = 1
    }
    switch {
    case days >= 7:
        return 3
    case days >= 3:
        return 2
    default:
        return 1
    }
}
