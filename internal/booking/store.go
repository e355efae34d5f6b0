package booking

import (
    "context"
    "time"

    "github.com/reservahub/event-booking/internal/model"
)

// Reader is the read-only view of booking storage.  It is implemented
// both by the plain store (queries against the pool) and by the
// transactional view handed to WithinTx, so the same rule evaluation
// works inside and outside a transaction.
type Reader interface {
    // Venue returns a venue by id or a NotFoundError.
    Venue(ctx context.Context, id uint64) (*model.Venue, error)
    // EventWithVenue returns an event joined with its venue, or a
    // NotFoundError when either is missing.
    EventWithVenue(ctx context.Context, eventID uint64) (*model.Event, *model.Venue, error)
    // Reservation returns a reservation by id or a NotFoundError.
    Reservation(ctx context.Context, id uint64) (*model.Reservation, error)
    // FindEvent returns the event occupying the (date, time, venue)
    // slot, or nil when the slot is free.
    FindEvent(ctx context.Context, date time.Time, startTime string, venueID uint64) (*model.Event, error)
    // SumQuantity returns the summed quantity of all non-cancelled
    // bookings of the event.  When excludeReservationID is non-zero
    // that reservation's own bookings are left out of the sum, which
    // is how quantity updates re-validate against the other bookings.
    SumQuantity(ctx context.Context, eventID, excludeReservationID uint64) (int, error)
    // ActiveBooking returns the ACTIVE booking linking the pair, or
    // nil when there is none.
    ActiveBooking(ctx context.Context, eventID, reservationID uint64) (*model.Booking, error)
    // Booking returns the most recent booking for the pair regardless
    // of status, or a NotFoundError.  A pair accumulates rows over
    // time (cancel, then book again), so "the booking" is always the
    // latest row.
    Booking(ctx context.Context, eventID, reservationID uint64) (*model.Booking, error)
    // HasGuestNameConflict reports whether another reservation with
    // the same guest name holds a non-cancelled booking for the event.
    HasGuestNameConflict(ctx context.Context, eventID, reservationID uint64, guestName string) (bool, error)
    // HasSameDayConflict reports whether the reservation holds a
    // non-cancelled booking for a different event on the same
    // calendar date.
    HasSameDayConflict(ctx context.Context, reservationID, eventID uint64, date time.Time) (bool, error)
    // CountNonCancelled counts the reservation's non-cancelled
    // bookings across all events.
    CountNonCancelled(ctx context.Context, reservationID uint64) (int, error)
    // VoucherExists reports whether any booking carries the code.
    VoucherExists(ctx context.Context, code string) (bool, error)
}

// BookingUpdate carries a partial update for a booking.  Only non-nil
// fields are written, so the store can build a precise UPDATE
// statement and untouched columns keep their values.
type BookingUpdate struct {
    Notes    *string
    Quantity *int
    Status   *model.BookingStatus
}

// TxStore is the transactional view of booking storage.  Reads see
// the transaction's snapshot; EventForUpdate additionally locks the
// event row so concurrent admissions against the same event serialize
// before reading occupancy.
type TxStore interface {
    Reader
    // EventForUpdate behaves like EventWithVenue but acquires a row
    // lock on the event for the duration of the transaction.
    EventForUpdate(ctx context.Context, eventID uint64) (*model.Event, *model.Venue, error)
    // InsertBooking persists a new booking and populates its ID and
    // timestamps.  A voucher collision yields ErrVoucherTaken.
    InsertBooking(ctx context.Context, b *model.Booking) error
    // UpdateBooking applies the non-nil fields of upd to the pair's
    // latest booking row, leaving cancelled historical rows untouched.
    // Returns a NotFoundError when no row exists.
    UpdateBooking(ctx context.Context, eventID, reservationID uint64, upd BookingUpdate) error
    // UpdateStatus writes only the status column of the pair's latest
    // row.  Returns a NotFoundError when no row exists.
    UpdateStatus(ctx context.Context, eventID, reservationID uint64, status model.BookingStatus) error
    // DeleteBooking removes the pair's latest row unconditionally,
    // leaving historical rows in place.  Returns a NotFoundError when
    // no row exists.
    DeleteBooking(ctx context.Context, eventID, reservationID uint64) error
    // InsertEvent persists a new event and populates its ID.  A slot
    // collision yields ErrSlotTaken.
    InsertEvent(ctx context.Context, ev *model.Event) error
}

// Detail is a booking joined with its event, reservation and venue
// context.  It backs voucher lookup and document rendering.
type Detail struct {
    Booking     model.Booking     `json:"booking"`
    Event       model.Event       `json:"event"`
    Reservation model.Reservation `json:"reservation"`
    Venue       model.Venue       `json:"venue"`
}

// Store is the storage contract the engine runs against.  WithinTx
// executes fn inside a single serializable transaction; when fn
// returns an error nothing is persisted.
type Store interface {
    Reader
    WithinTx(ctx context.Context, fn func(tx TxStore) error) error
    // DetailByPair loads the joined context for one booking.
    DetailByPair(ctx context.Context, eventID, reservationID uint64) (*Detail, error)
    // DetailByVoucher loads the joined context by voucher code.
    DetailByVoucher(ctx context.Context, code string) (*Detail, error)
    // BookingsByEvent lists all bookings of an event, newest first.
    BookingsByEvent(ctx context.Context, eventID uint64) ([]model.Booking, error)
}
