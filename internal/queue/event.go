// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// BookingCreatedEvent is published when an admission succeeds.  It
// carries enough context for downstream consumers to log or notify
// without querying the primary database.
type BookingCreatedEvent struct {
    BookingID     uint64 `json:"booking_id"`
    EventID       uint64 `json:"event_id"`
    EventName     string `json:"event_name"`
    EventDate     string `json:"event_date"`
    EventTime     string `json:"event_time"`
    VenueName     string `json:"venue_name"`
    ReservationID uint64 `json:"reservation_id"`
    BookingRef    string `json:"booking_ref"`
    GuestName     string `json:"guest_name"`
    Quantity      int    `json:"quantity"`
    Voucher       string `json:"voucher"`
    CreatedAt     string `json:"created_at"`
}
