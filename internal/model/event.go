package model

import "time"

// DateLayout is the canonical wire and storage format for calendar
// dates.  Event dates and reservation check-in/check-out windows are
// date-only values; times of day are carried separately.
const DateLayout = "2006-01-02"

// TimeLayout is the canonical format for an event's time of day.
const TimeLayout = "15:04"

// Event is a scheduled occurrence at a venue on a specific date and
// time of day.  The tuple (date, start_time, venue) is unique among
// events; the repository enforces it at creation together with a DB
// unique key.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – event name shown to guests.
//  Date      – calendar day of the event (UTC midnight).
//  StartTime – time of day in "HH:MM" form.
//  VenueID   – venue hosting the event.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Event struct {
    ID        uint64    // events.id
    Name      string    // events.name
    Date      time.Time // events.event_date (date only)
    StartTime string    // events.start_time ("HH:MM")
    VenueID   uint64    // events.venue_id
    CreatedAt time.Time // events.created_at
    UpdatedAt time.Time // events.updated_at
}
