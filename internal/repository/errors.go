// Package repository implements MySQL persistence for the booking
// service.  Sentinel errors defined here let handlers distinguish
// failure scenarios without inspecting SQL errors: not-found values
// map to 404 responses and conflict values to 409.
package repository

import "errors"

// ErrVenueNotFound indicates the venue row does not exist.
var ErrVenueNotFound = errors.New("venue not found")

// ErrEventNotFound indicates the event row does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrReservationNotFound indicates the reservation row does not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrSlotConflict indicates an event already occupies the same
// (date, time, venue) slot.
var ErrSlotConflict = errors.New("event slot already taken")

// ErrUnitOverlap indicates another reservation holds the same unit
// code over an overlapping stay window.
var ErrUnitOverlap = errors.New("unit already reserved for an overlapping period")

// ErrEventHasBookings indicates an event cannot be deleted because it
// still carries non-cancelled bookings.
var ErrEventHasBookings = errors.New("event still has non-cancelled bookings")
