package booking

import (
    "context"
    "errors"
    "strings"

    "github.com/reservahub/event-booking/internal/model"
    "github.com/reservahub/event-booking/internal/voucher"
)

// maxVoucherAttempts bounds voucher code generation.  Collisions are
// rare at 36^6 codes, but the loop must terminate.
const maxVoucherAttempts = 20

// Engine runs the admission pipeline and owns every write to the
// bookings table.  All rule evaluation and the final insert happen in
// one serializable transaction with the event row locked, so two
// concurrent admissions against the same event cannot both pass the
// capacity check on stale occupancy.
type Engine struct {
    store Store
}

// NewEngine returns an Engine over the given store.
func NewEngine(store Store) *Engine {
    if store == nil {
        panic("nil store passed to NewEngine")
    }
    return &Engine{store: store}
}

// CreateBookingInput is the request payload for CreateBooking.
// Voucher may carry a pre-assigned code; when empty a fresh unique
// code is generated.
type CreateBookingInput struct {
    EventID       uint64
    ReservationID uint64
    Quantity      int
    Notes         string
    Voucher       string
}

// CreateBooking admits a reservation to an event.  Checks run in
// order and the first failure wins: event exists, reservation exists,
// quantity within the stay's guest count, quantity within remaining
// venue capacity, no active duplicate for the pair, no other booking
// under the same guest name, no other booking on the same calendar
// date, and the stay's tier limit not yet reached.  On success the
// booking is persisted as ACTIVE with a unique voucher code.
func (e *Engine) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
    if in.EventID == 0 {
        return nil, validationErr("event_id", "must be a positive integer")
    }
    if in.ReservationID == 0 {
        return nil, validationErr("reservation_id", "must be a positive integer")
    }
    if in.Quantity < 1 {
        return nil, validationErr("quantity", "must be at least 1")
    }
    if in.Voucher != "" && !voucher.CodePattern.MatchString(in.Voucher) {
        return nil, validationErr("voucher", "must match %s", voucher.CodePattern.String())
    }

    var created *model.Booking
    err := e.store.WithinTx(ctx, func(tx TxStore) error {
        ev, venue, err := tx.EventForUpdate(ctx, in.EventID)
        if err != nil {
            return err
        }
        res, err := tx.Reservation(ctx, in.ReservationID)
        if err != nil {
            return err
        }
        if in.Quantity > res.GuestCount {
            return ruleErr(CodeQuantityExceedsGuests,
                "quantity %d exceeds the reservation's %d guests", in.Quantity, res.GuestCount)
        }
        occ, err := tx.SumQuantity(ctx, ev.ID, 0)
        if err != nil {
            return err
        }
        if in.Quantity > venue.Capacity-occ {
            return ruleErr(CodeCapacityExceeded,
                "event has %d of %d places left", venue.Capacity-occ, venue.Capacity)
        }
        if dup, err := tx.ActiveBooking(ctx, ev.ID, res.ID); err != nil {
            return err
        } else if dup != nil {
            return ruleErr(CodeDuplicateActive,
                "reservation %d already holds an active booking for this event", res.ID)
        }
        // Guest identity is compared by name, matching the legacy
        // behaviour; two guests sharing a name block each other.
        if conflict, err := tx.HasGuestNameConflict(ctx, ev.ID, res.ID, res.GuestName); err != nil {
            return err
        } else if conflict {
            return ruleErr(CodeGuestAlreadyBooked,
                "a booking under guest %q already exists for this event", res.GuestName)
        }
        if conflict, err := tx.HasSameDayConflict(ctx, res.ID, ev.ID, ev.Date); err != nil {
            return err
        } else if conflict {
            return ruleErr(CodeSameDayBooking,
                "reservation %d is already booked into another event on %s",
                res.ID, ev.Date.Format(model.DateLayout))
        }
        count, err := tx.CountNonCancelled(ctx, res.ID)
        if err != nil {
            return err
        }
        if limit := Tier(res.CheckIn, res.CheckOut); count >= limit {
            return ruleErr(CodeTierLimitReached,
                "stay allows at most %d bookings", limit)
        }

        b := &model.Booking{
            EventID:       ev.ID,
            ReservationID: res.ID,
            Quantity:      in.Quantity,
            Notes:         strings.TrimSpace(in.Notes),
            Status:        model.StatusActive,
        }
        if in.Voucher != "" {
            b.Voucher = in.Voucher
            if err := tx.InsertBooking(ctx, b); err != nil {
                return err
            }
        } else if err := e.insertWithFreshVoucher(ctx, tx, b); err != nil {
            return err
        }
        created = b
        return nil
    })
    if err != nil {
        return nil, err
    }
    return created, nil
}

// insertWithFreshVoucher generates a code, checks it against existing
// vouchers and inserts.  The unique key on the voucher column is the
// authoritative guard: a concurrent commit of the same code surfaces
// as ErrVoucherTaken and the loop tries again with a new one.
func (e *Engine) insertWithFreshVoucher(ctx context.Context, tx TxStore, b *model.Booking) error {
    for attempt := 0; attempt < maxVoucherAttempts; attempt++ {
        code, err := voucher.NewCode()
        if err != nil {
            return err
        }
        taken, err := tx.VoucherExists(ctx, code)
        if err != nil {
            return err
        }
        if taken {
            continue
        }
        b.Voucher = code
        err = tx.InsertBooking(ctx, b)
        if err == nil {
            return nil
        }
        if !errors.Is(err, ErrVoucherTaken) {
            return err
        }
    }
    return ErrVoucherExhausted
}

// UpdateBooking applies a partial update to the booking identified by
// the (event, reservation) pair.  A quantity change re-runs the guest
// count and capacity checks against the other bookings' occupancy.
// A status carried through this path is an unvalidated field write
// beyond enum membership, matching the legacy contract.
func (e *Engine) UpdateBooking(ctx context.Context, eventID, reservationID uint64, upd BookingUpdate) (*model.Booking, error) {
    if eventID == 0 || reservationID == 0 {
        return nil, validationErr("id", "event_id and reservation_id must be positive integers")
    }
    if upd.Notes == nil && upd.Quantity == nil && upd.Status == nil {
        return nil, validationErr("body", "no fields to update")
    }
    if upd.Quantity != nil && *upd.Quantity < 1 {
        return nil, validationErr("quantity", "must be at least 1")
    }
    if upd.Status != nil && !model.ValidStatus(*upd.Status) {
        return nil, validationErr("status", "unknown status %q", string(*upd.Status))
    }

    err := e.store.WithinTx(ctx, func(tx TxStore) error {
        ev, venue, err := tx.EventForUpdate(ctx, eventID)
        if err != nil {
            return err
        }
        if _, err := tx.Booking(ctx, eventID, reservationID); err != nil {
            return err
        }
        if upd.Quantity != nil {
            res, err := tx.Reservation(ctx, reservationID)
            if err != nil {
                return err
            }
            if *upd.Quantity > res.GuestCount {
                return ruleErr(CodeQuantityExceedsGuests,
                    "quantity %d exceeds the reservation's %d guests", *upd.Quantity, res.GuestCount)
            }
            occ, err := tx.SumQuantity(ctx, ev.ID, reservationID)
            if err != nil {
                return err
            }
            if *upd.Quantity > venue.Capacity-occ {
                return ruleErr(CodeCapacityExceeded,
                    "event has %d of %d places left", venue.Capacity-occ, venue.Capacity)
            }
        }
        return tx.UpdateBooking(ctx, eventID, reservationID, upd)
    })
    if err != nil {
        return nil, err
    }
    return e.store.Booking(ctx, eventID, reservationID)
}

// SetStatus moves the booking to the given status.  Any status may
// move to any other; there is deliberately no transition graph.
func (e *Engine) SetStatus(ctx context.Context, eventID, reservationID uint64, status model.BookingStatus) error {
    if eventID == 0 || reservationID == 0 {
        return validationErr("id", "event_id and reservation_id must be positive integers")
    }
    if !model.ValidStatus(status) {
        return validationErr("status", "unknown status %q", string(status))
    }
    return e.store.WithinTx(ctx, func(tx TxStore) error {
        return tx.UpdateStatus(ctx, eventID, reservationID, status)
    })
}

// DeleteBooking removes the booking row unconditionally.  It exists
// for administrative cleanup and bypasses every business rule.
func (e *Engine) DeleteBooking(ctx context.Context, eventID, reservationID uint64) error {
    if eventID == 0 || reservationID == 0 {
        return validationErr("id", "event_id and reservation_id must be positive integers")
    }
    return e.store.WithinTx(ctx, func(tx TxStore) error {
        return tx.DeleteBooking(ctx, eventID, reservationID)
    })
}

// Lookup returns the booking for the pair joined with its event,
// reservation and venue.
func (e *Engine) Lookup(ctx context.Context, eventID, reservationID uint64) (*Detail, error) {
    if eventID == 0 || reservationID == 0 {
        return nil, validationErr("id", "event_id and reservation_id must be positive integers")
    }
    return e.store.DetailByPair(ctx, eventID, reservationID)
}

// LookupByVoucher returns the booking carrying the code joined with
// its context.  Read-only; no rules are evaluated.
func (e *Engine) LookupByVoucher(ctx context.Context, code string) (*Detail, error) {
    code = strings.ToUpper(strings.TrimSpace(code))
    if !voucher.CodePattern.MatchString(code) {
        return nil, validationErr("voucher", "must match %s", voucher.CodePattern.String())
    }
    return e.store.DetailByVoucher(ctx, code)
}

// RenderVoucherDocument renders the printable PDF for the booking
// carrying the code.
func (e *Engine) RenderVoucherDocument(ctx context.Context, code string) ([]byte, error) {
    det, err := e.LookupByVoucher(ctx, code)
    if err != nil {
        return nil, err
    }
    return voucher.Render(voucher.Document{
        Code:           det.Booking.Voucher,
        ReservationRef: det.Reservation.BookingRef,
        GuestName:      det.Reservation.GuestName,
        EventName:      det.Event.Name,
        EventDate:      det.Event.Date.Format(model.DateLayout),
        EventTime:      det.Event.StartTime,
        VenueName:      det.Venue.Name,
        Quantity:       det.Booking.Quantity,
        Status:         string(det.Booking.Status),
    }), nil
}
