package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/reservahub/event-booking/internal/booking"
    "github.com/reservahub/event-booking/internal/model"
)

// Store is the MySQL implementation of booking.Store.  Reads outside
// a transaction run against the pool; WithinTx opens a serializable
// transaction and hands the callback a view whose EventForUpdate
// locks the event row, so concurrent admissions against one event
// serialize before reading occupancy.
type Store struct {
    queries
    db *sql.DB
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store {
    return &Store{queries: queries{q: db}, db: db}
}

// WithinTx runs fn inside one serializable transaction.  When fn
// returns an error the transaction is rolled back and nothing is
// persisted.
func (s *Store) WithinTx(ctx context.Context, fn func(tx booking.TxStore) error) error {
    tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&txStore{queries: queries{q: tx}, tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// txStore is the transactional view handed to WithinTx callbacks.
type txStore struct {
    queries
    tx *sql.Tx
}

// runner abstracts *sql.DB and *sql.Tx so the same read queries serve
// both the pool and transactional views.
type runner interface {
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queries struct {
    q runner
}

const eventVenueCols = `e.id, e.name, e.event_date, e.start_time, e.venue_id, e.created_at, e.updated_at,
                        v.id, v.name, v.capacity, v.created_at, v.updated_at`

func scanEventVenue(row *sql.Row) (*model.Event, *model.Venue, error) {
    var ev model.Event
    var v model.Venue
    err := row.Scan(
        &ev.ID, &ev.Name, &ev.Date, &ev.StartTime, &ev.VenueID, &ev.CreatedAt, &ev.UpdatedAt,
        &v.ID, &v.Name, &v.Capacity, &v.CreatedAt, &v.UpdatedAt,
    )
    if err == sql.ErrNoRows {
        return nil, nil, &booking.NotFoundError{Entity: "event"}
    }
    if err != nil {
        return nil, nil, err
    }
    return &ev, &v, nil
}

// Venue returns a venue by id.
func (r queries) Venue(ctx context.Context, id uint64) (*model.Venue, error) {
    const q = `SELECT id, name, capacity, created_at, updated_at FROM venues WHERE id = ?`
    var v model.Venue
    err := r.q.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Name, &v.Capacity, &v.CreatedAt, &v.UpdatedAt)
    if err == sql.ErrNoRows {
        return nil, &booking.NotFoundError{Entity: "venue"}
    }
    if err != nil {
        return nil, err
    }
    return &v, nil
}

// EventWithVenue returns an event joined with its venue.
func (r queries) EventWithVenue(ctx context.Context, eventID uint64) (*model.Event, *model.Venue, error) {
    const q = `SELECT ` + eventVenueCols + `
               FROM events e JOIN venues v ON v.id = e.venue_id
               WHERE e.id = ?`
    return scanEventVenue(r.q.QueryRowContext(ctx, q, eventID))
}

// EventForUpdate locks the event row for the rest of the transaction
// before returning it with its venue.  The lock is what makes the
// occupancy read safe against concurrent admissions.
func (r *txStore) EventForUpdate(ctx context.Context, eventID uint64) (*model.Event, *model.Venue, error) {
    const q = `SELECT ` + eventVenueCols + `
               FROM events e JOIN venues v ON v.id = e.venue_id
               WHERE e.id = ?
               FOR UPDATE`
    return scanEventVenue(r.q.QueryRowContext(ctx, q, eventID))
}

// Reservation returns a reservation by id.
func (r queries) Reservation(ctx context.Context, id uint64) (*model.Reservation, error) {
    const q = `SELECT id, booking_ref, unit_code, guest_name, phone, email,
                      check_in, check_out, guest_count, created_at, updated_at
               FROM reservations WHERE id = ?`
    var res model.Reservation
    err := r.q.QueryRowContext(ctx, q, id).Scan(
        &res.ID, &res.BookingRef, &res.UnitCode, &res.GuestName, &res.Phone, &res.Email,
        &res.CheckIn, &res.CheckOut, &res.GuestCount, &res.CreatedAt, &res.UpdatedAt,
    )
    if err == sql.ErrNoRows {
        return nil, &booking.NotFoundError{Entity: "reservation"}
    }
    if err != nil {
        return nil, err
    }
    return &res, nil
}

// FindEvent returns the event occupying the slot, or nil when free.
func (r queries) FindEvent(ctx context.Context, date time.Time, startTime string, venueID uint64) (*model.Event, error) {
    const q = `SELECT id, name, event_date, start_time, venue_id, created_at, updated_at
               FROM events WHERE event_date = ? AND start_time = ? AND venue_id = ?`
    var ev model.Event
    err := r.q.QueryRowContext(ctx, q, date.Format(model.DateLayout), startTime, venueID).Scan(
        &ev.ID, &ev.Name, &ev.Date, &ev.StartTime, &ev.VenueID, &ev.CreatedAt, &ev.UpdatedAt,
    )
    if err == sql.ErrNoRows {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &ev, nil
}

// SumQuantity sums quantities of the event's non-cancelled bookings,
// optionally excluding one reservation's own rows.
func (r queries) SumQuantity(ctx context.Context, eventID, excludeReservationID uint64) (int, error) {
    q := `SELECT COALESCE(SUM(quantity), 0) FROM bookings WHERE event_id = ? AND status <> 'CANCELLED'`
    args := []any{eventID}
    if excludeReservationID != 0 {
        q += ` AND reservation_id <> ?`
        args = append(args, excludeReservationID)
    }
    var sum int
    if err := r.q.QueryRowContext(ctx, q, args...).Scan(&sum); err != nil {
        return 0, err
    }
    return sum, nil
}

const bookingCols = `id, event_id, reservation_id, quantity, notes, status, voucher, created_at, updated_at`

func scanBooking(row *sql.Row) (*model.Booking, error) {
    var b model.Booking
    var voucherCode sql.NullString
    err := row.Scan(&b.ID, &b.EventID, &b.ReservationID, &b.Quantity, &b.Notes,
        &b.Status, &voucherCode, &b.CreatedAt, &b.UpdatedAt)
    if err != nil {
        return nil, err
    }
    b.Voucher = voucherCode.String
    return &b, nil
}

// ActiveBooking returns the ACTIVE booking for the pair, or nil.
func (r queries) ActiveBooking(ctx context.Context, eventID, reservationID uint64) (*model.Booking, error) {
    const q = `SELECT ` + bookingCols + ` FROM bookings
               WHERE event_id = ? AND reservation_id = ? AND status = 'ACTIVE'
               ORDER BY id DESC LIMIT 1`
    b, err := scanBooking(r.q.QueryRowContext(ctx, q, eventID, reservationID))
    if err == sql.ErrNoRows {
        return nil, nil
    }
    return b, err
}

// Booking returns the latest booking for the pair regardless of status.
func (r queries) Booking(ctx context.Context, eventID, reservationID uint64) (*model.Booking, error) {
    const q = `SELECT ` + bookingCols + ` FROM bookings
               WHERE event_id = ? AND reservation_id = ?
               ORDER BY id DESC LIMIT 1`
    b, err := scanBooking(r.q.QueryRowContext(ctx, q, eventID, reservationID))
    if err == sql.ErrNoRows {
        return nil, &booking.NotFoundError{Entity: "booking"}
    }
    return b, err
}

// HasGuestNameConflict reports whether another reservation with the
// same guest name already holds a non-cancelled booking for the event.
// Guest identity is the name string, matching the legacy contract.
func (r queries) HasGuestNameConflict(ctx context.Context, eventID, reservationID uint64, guestName string) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM bookings b
                   JOIN reservations res ON res.id = b.reservation_id
                   WHERE b.event_id = ? AND b.status <> 'CANCELLED'
                     AND b.reservation_id <> ? AND res.guest_name = ?)`
    var exists bool
    err := r.q.QueryRowContext(ctx, q, eventID, reservationID, guestName).Scan(&exists)
    return exists, err
}

// HasSameDayConflict reports whether the reservation holds a
// non-cancelled booking for a different event on the same date.
func (r queries) HasSameDayConflict(ctx context.Context, reservationID, eventID uint64, date time.Time) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM bookings b
                   JOIN events e ON e.id = b.event_id
                   WHERE b.reservation_id = ? AND b.status <> 'CANCELLED'
                     AND b.event_id <> ? AND e.event_date = ?)`
    var exists bool
    err := r.q.QueryRowContext(ctx, q, reservationID, eventID, date.Format(model.DateLayout)).Scan(&exists)
    return exists, err
}

// CountNonCancelled counts the reservation's non-cancelled bookings
// across all events.
func (r queries) CountNonCancelled(ctx context.Context, reservationID uint64) (int, error) {
    const q = `SELECT COUNT(*) FROM bookings WHERE reservation_id = ? AND status <> 'CANCELLED'`
    var n int
    err := r.q.QueryRowContext(ctx, q, reservationID).Scan(&n)
    return n, err
}

// VoucherExists reports whether any booking carries the code.
func (r queries) VoucherExists(ctx context.Context, code string) (bool, error) {
    const q = `SELECT EXISTS(SELECT 1 FROM bookings WHERE voucher = ?)`
    var exists bool
    err := r.q.QueryRowContext(ctx, q, code).Scan(&exists)
    return exists, err
}

// InsertBooking persists a new booking and reads back the row to
// populate ID and timestamps.  A duplicate voucher surfaces as
// booking.ErrVoucherTaken so the engine can retry with a fresh code.
func (r *txStore) InsertBooking(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings (event_id, reservation_id, quantity, notes, status, voucher)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.tx.ExecContext(ctx, q, b.EventID, b.ReservationID, b.Quantity, b.Notes, b.Status, b.Voucher)
    if err != nil {
        if isDuplicateKey(err) && strings.Contains(strings.ToLower(err.Error()), "voucher") {
            return booking.ErrVoucherTaken
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    const sel = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
    fresh, err := scanBooking(r.tx.QueryRowContext(ctx, sel, b.ID))
    if err != nil {
        return err
    }
    *b = *fresh
    return nil
}

// UpdateBooking writes only the non-nil fields of upd.  The SET list
// is built per present field so untouched columns keep their values.
// A pair may carry cancelled historical rows alongside the live one,
// so the write is resolved to the latest row's id first; keying the
// UPDATE by the pair would rewrite the history too.
func (r *txStore) UpdateBooking(ctx context.Context, eventID, reservationID uint64, upd booking.BookingUpdate) error {
    b, err := r.Booking(ctx, eventID, reservationID)
    if err != nil {
        return err
    }
    sets := make([]string, 0, 3)
    args := make([]any, 0, 4)
    if upd.Notes != nil {
        sets = append(sets, "notes = ?")
        args = append(args, *upd.Notes)
    }
    if upd.Quantity != nil {
        sets = append(sets, "quantity = ?")
        args = append(args, *upd.Quantity)
    }
    if upd.Status != nil {
        sets = append(sets, "status = ?")
        args = append(args, string(*upd.Status))
    }
    if len(sets) == 0 {
        return nil
    }
    q := `UPDATE bookings SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
    args = append(args, b.ID)
    _, err = r.tx.ExecContext(ctx, q, args...)
    return err
}

// UpdateStatus writes only the status column of the pair's latest row.
func (r *txStore) UpdateStatus(ctx context.Context, eventID, reservationID uint64, status model.BookingStatus) error {
    b, err := r.Booking(ctx, eventID, reservationID)
    if err != nil {
        return err
    }
    const q = `UPDATE bookings SET status = ? WHERE id = ?`
    _, err = r.tx.ExecContext(ctx, q, string(status), b.ID)
    return err
}

// DeleteBooking removes the pair's latest row unconditionally.
// Cancelled historical rows stay in place.
func (r *txStore) DeleteBooking(ctx context.Context, eventID, reservationID uint64) error {
    b, err := r.Booking(ctx, eventID, reservationID)
    if err != nil {
        return err
    }
    const q = `DELETE FROM bookings WHERE id = ?`
    _, err = r.tx.ExecContext(ctx, q, b.ID)
    return err
}

// InsertEvent persists a new event; the DB unique key on
// (event_date, start_time, venue_id) backs the slot invariant.
func (r *txStore) InsertEvent(ctx context.Context, ev *model.Event) error {
    const q = `INSERT INTO events (name, event_date, start_time, venue_id) VALUES (?, ?, ?, ?)`
    res, err := r.tx.ExecContext(ctx, q, ev.Name, ev.Date.Format(model.DateLayout), ev.StartTime, ev.VenueID)
    if err != nil {
        if isDuplicateKey(err) {
            return booking.ErrSlotTaken
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    ev.ID = uint64(id)
    const sel = `SELECT id, name, event_date, start_time, venue_id, created_at, updated_at
                 FROM events WHERE id = ?`
    return r.tx.QueryRowContext(ctx, sel, ev.ID).Scan(
        &ev.ID, &ev.Name, &ev.Date, &ev.StartTime, &ev.VenueID, &ev.CreatedAt, &ev.UpdatedAt,
    )
}

const detailCols = `b.id, b.event_id, b.reservation_id, b.quantity, b.notes, b.status, b.voucher, b.created_at, b.updated_at,
                    e.id, e.name, e.event_date, e.start_time, e.venue_id, e.created_at, e.updated_at,
                    res.id, res.booking_ref, res.unit_code, res.guest_name, res.phone, res.email,
                    res.check_in, res.check_out, res.guest_count, res.created_at, res.updated_at,
                    v.id, v.name, v.capacity, v.created_at, v.updated_at`

const detailJoins = ` FROM bookings b
                      JOIN events e ON e.id = b.event_id
                      JOIN reservations res ON res.id = b.reservation_id
                      JOIN venues v ON v.id = e.venue_id`

func scanDetail(row *sql.Row) (*booking.Detail, error) {
    var det booking.Detail
    var voucherCode sql.NullString
    err := row.Scan(
        &det.Booking.ID, &det.Booking.EventID, &det.Booking.ReservationID, &det.Booking.Quantity,
        &det.Booking.Notes, &det.Booking.Status, &voucherCode, &det.Booking.CreatedAt, &det.Booking.UpdatedAt,
        &det.Event.ID, &det.Event.Name, &det.Event.Date, &det.Event.StartTime, &det.Event.VenueID,
        &det.Event.CreatedAt, &det.Event.UpdatedAt,
        &det.Reservation.ID, &det.Reservation.BookingRef, &det.Reservation.UnitCode, &det.Reservation.GuestName,
        &det.Reservation.Phone, &det.Reservation.Email, &det.Reservation.CheckIn, &det.Reservation.CheckOut,
        &det.Reservation.GuestCount, &det.Reservation.CreatedAt, &det.Reservation.UpdatedAt,
        &det.Venue.ID, &det.Venue.Name, &det.Venue.Capacity, &det.Venue.CreatedAt, &det.Venue.UpdatedAt,
    )
    if err == sql.ErrNoRows {
        return nil, &booking.NotFoundError{Entity: "booking"}
    }
    if err != nil {
        return nil, err
    }
    det.Booking.Voucher = voucherCode.String
    return &det, nil
}

// DetailByPair loads the joined context for one booking.
func (s *Store) DetailByPair(ctx context.Context, eventID, reservationID uint64) (*booking.Detail, error) {
    q := `SELECT ` + detailCols + detailJoins + `
          WHERE b.event_id = ? AND b.reservation_id = ?
          ORDER BY b.id DESC LIMIT 1`
    return scanDetail(s.db.QueryRowContext(ctx, q, eventID, reservationID))
}

// DetailByVoucher loads the joined context by voucher code.
func (s *Store) DetailByVoucher(ctx context.Context, code string) (*booking.Detail, error) {
    q := `SELECT ` + detailCols + detailJoins + ` WHERE b.voucher = ?`
    return scanDetail(s.db.QueryRowContext(ctx, q, code))
}

// BookingsByEvent lists all bookings of an event, newest first.
func (s *Store) BookingsByEvent(ctx context.Context, eventID uint64) ([]model.Booking, error) {
    const q = `SELECT ` + bookingCols + ` FROM bookings WHERE event_id = ? ORDER BY id DESC`
    rows, err := s.db.QueryContext(ctx, q, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    for rows.Next() {
        var b model.Booking
        var voucherCode sql.NullString
        if err := rows.Scan(&b.ID, &b.EventID, &b.ReservationID, &b.Quantity, &b.Notes,
            &b.Status, &voucherCode, &b.CreatedAt, &b.UpdatedAt); err != nil {
            return nil, err
        }
        b.Voucher = voucherCode.String
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// isDuplicateKey reports whether err is a MySQL duplicate-key error
// (error 1062).
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(err.Error(), "1062")
}
