package model

import "time"

// Reservation is a guest stay record.  It is owned by the
// reservation-management surface; the booking engine reads it for the
// guest count, the guest name and the check-in/check-out span that
// drives the booking tier.
//
// Fields:
//  ID         – primary key identifier.
//  BookingRef – external booking reference (channel manager / PMS).
//  UnitCode   – venue unit code ("coduh"); no two reservations may
//               share a unit code with overlapping stay windows.
//  GuestName  – primary guest name.
//  Phone      – contact phone number.
//  Email      – contact e-mail.
//  CheckIn    – stay start date (inclusive).
//  CheckOut   – stay end date (exclusive).
//  GuestCount – number of guests covered by the stay, >= 1.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
    ID         uint64    // reservations.id
    BookingRef string    // reservations.booking_ref
    UnitCode   string    // reservations.unit_code
    GuestName  string    // reservations.guest_name
    Phone      string    // reservations.phone
    Email      string    // reservations.email
    CheckIn    time.Time // reservations.check_in (date only)
    CheckOut   time.Time // reservations.check_out (date only)
    GuestCount int       // reservations.guest_count
    CreatedAt  time.Time // reservations.created_at
    UpdatedAt  time.Time // reservations.updated_at
}
