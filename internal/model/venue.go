package model

import "time"

// Venue represents a bookable location (restaurant) with a fixed
// guest capacity.  Events are scheduled at venues and the capacity
// bounds the summed quantity of all non-cancelled bookings of any
// single event.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the venue.
//  Capacity  – maximum simultaneous guest units for one event.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Venue struct {
    ID        uint64    // venues.id
    Name      string    // venues.name
    Capacity  int       // venues.capacity
    CreatedAt time.Time // venues.created_at
    UpdatedAt time.Time // venues.updated_at
}
