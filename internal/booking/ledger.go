package booking

import (
    "context"

    "github.com/reservahub/event-booking/internal/model"
)

// CapacityReader is the slice of Reader the ledger needs.  Both Store
// and TxStore satisfy it, so the same arithmetic serves the public
// availability endpoint and the locked read inside the admission
// transaction.
type CapacityReader interface {
    EventWithVenue(ctx context.Context, eventID uint64) (*model.Event, *model.Venue, error)
    SumQuantity(ctx context.Context, eventID, excludeReservationID uint64) (int, error)
}

// Ledger computes event occupancy against venue capacity.  Occupancy
// is derived, never stored: the sum of quantities over the event's
// non-cancelled bookings.
type Ledger struct {
    r CapacityReader
}

// NewLedger returns a Ledger reading through r.
func NewLedger(r CapacityReader) *Ledger { return &Ledger{r: r} }

// Occupancy returns the summed booked quantity for the event.  When
// excludeReservationID is non-zero that reservation's own bookings
// are excluded, which re-validation of a quantity change relies on.
func (l *Ledger) Occupancy(ctx context.Context, eventID, excludeReservationID uint64) (int, error) {
    if _, _, err := l.r.EventWithVenue(ctx, eventID); err != nil {
        return 0, err
    }
    return l.r.SumQuantity(ctx, eventID, excludeReservationID)
}

// Remaining returns the free capacity of the event's venue after
// current occupancy.
func (l *Ledger) Remaining(ctx context.Context, eventID uint64) (int, error) {
    _, venue, err := l.r.EventWithVenue(ctx, eventID)
    if err != nil {
        return 0, err
    }
    occ, err := l.r.SumQuantity(ctx, eventID, 0)
    if err != nil {
        return 0, err
    }
    return venue.Capacity - occ, nil
}
