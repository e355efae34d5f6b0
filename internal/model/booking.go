package model

import "time"

// BookingStatus enumerates the states a booking can be in.  There is
// deliberately no transition table: any status may move to any other
// through the status endpoint.  Occupancy counts every status except
// CANCELLED.
type BookingStatus string

const (
    StatusActive    BookingStatus = "ACTIVE"    // booking counts toward occupancy and tier limits
    StatusCompleted BookingStatus = "COMPLETED" // guests attended the event
    StatusCancelled BookingStatus = "CANCELLED" // released; does not count toward occupancy
    StatusNoShow    BookingStatus = "NO_SHOW"   // guests did not attend; still counts toward occupancy
)

// ValidStatus reports whether s is one of the four known states.
func ValidStatus(s BookingStatus) bool {
    switch s {
    case StatusActive, StatusCompleted, StatusCancelled, StatusNoShow:
        return true
    }
    return false
}

// Booking links one event to one reservation, carrying the number of
// guests attending and an optional voucher code.  Bookings are
// created exclusively through the admission engine.
//
// Fields:
//  ID            – surrogate primary key.
//  EventID       – event being attended.
//  ReservationID – guest stay the booking belongs to.
//  Quantity      – guests attending, 1..reservation.guest_count.
//  Notes         – free-text operator notes.
//  Status        – current state, see BookingStatus.
//  Voucher       – unique printable voucher code ("VX" + 6 chars).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Booking struct {
    ID            uint64        // bookings.id
    EventID       uint64        // bookings.event_id
    ReservationID uint64        // bookings.reservation_id
    Quantity      int           // bookings.quantity
    Notes         string        // bookings.notes
    Status        BookingStatus // bookings.status
    Voucher       string        // bookings.voucher (unique)
    CreatedAt     time.Time     // bookings.created_at
    UpdatedAt     time.Time     // bookings.updated_at
}
