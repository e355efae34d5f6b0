package booking

import (
    "context"
    "fmt"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/reservahub/event-booking/internal/model"
    "github.com/reservahub/event-booking/internal/voucher"
)

// newFixture builds a store with one venue (capacity 10), one event on
// March 10 and one week-long reservation for four guests.
func newFixture() *memStore {
    s := newMemStore()
    s.addVenue(1, "Main Hall", 10)
    s.addEvent(1, "Wine Tasting", day(2026, time.March, 10), "19:00", 1)
    s.addReservation(1, "Alice Martin", 4, day(2026, time.March, 8), day(2026, time.March, 15))
    return s
}

func TestCreateBookingSuccess(t *testing.T) {
    s := newFixture()
    e := NewEngine(s)

    b, err := e.CreateBooking(context.Background(), CreateBookingInput{
        EventID: 1, ReservationID: 1, Quantity: 2, Notes: "  window table  ",
    })
    require.NoError(t, err)
    assert.Equal(t, model.StatusActive, b.Status)
    assert.Equal(t, 2, b.Quantity)
    assert.Equal(t, "window table", b.Notes)
    assert.Regexp(t, voucher.CodePattern, b.Voucher)
    assert.NotZero(t, b.ID)
}

func TestCreateBookingValidation(t *testing.T) {
    e := NewEngine(newFixture())
    ctx := context.Background()

    _, err := e.CreateBooking(ctx, CreateBookingInput{ReservationID: 1, Quantity: 1})
    var verr *ValidationError
    require.ErrorAs(t, err, &verr)
    assert.Equal(t, "event_id", verr.Field)

    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, Quantity: 1})
    require.ErrorAs(t, err, &verr)
    assert.Equal(t, "reservation_id", verr.Field)

    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 0})
    require.ErrorAs(t, err, &verr)
    assert.Equal(t, "quantity", verr.Field)

    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1, Voucher: "bad"})
    require.ErrorAs(t, err, &verr)
    assert.Equal(t, "voucher", verr.Field)
}

func TestCreateBookingMissingEntities(t *testing.T) {
    e := NewEngine(newFixture())
    ctx := context.Background()

    var nfe *NotFoundError
    _, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 99, ReservationID: 1, Quantity: 1})
    require.ErrorAs(t, err, &nfe)
    assert.Equal(t, "event", nfe.Entity)

    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 99, Quantity: 1})
    require.ErrorAs(t, err, &nfe)
    assert.Equal(t, "reservation", nfe.Entity)
}

func TestCreateBookingQuantityExceedsGuests(t *testing.T) {
    e := NewEngine(newFixture())

    _, err := e.CreateBooking(context.Background(), CreateBookingInput{
        EventID: 1, ReservationID: 1, Quantity: 5, // reservation covers 4 guests
    })
    var rerr *RuleError
    require.ErrorAs(t, err, &rerr)
    assert.Equal(t, CodeQuantityExceedsGuests, rerr.Code)
}

func TestCreateBookingCapacityBoundary(t *testing.T) {
    s := newFixture()
    s.addReservation(2, "Bruno Costa", 8, day(2026, time.March, 9), day(2026, time.March, 12))
    e := NewEngine(s)
    ctx := context.Background()

    // 8 of 10 places taken.
    _, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 2, Quantity: 8})
    require.NoError(t, err)

    // 3 more would overflow.
    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 3})
    var rerr *RuleError
    require.ErrorAs(t, err, &rerr)
    assert.Equal(t, CodeCapacityExceeded, rerr.Code)

    // An exact fit is admitted.
    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 2})
    require.NoError(t, err)
}

func TestCreateBookingDuplicateActive(t *testing.T) {
    e := NewEngine(newFixture())
    ctx := context.Background()

    _, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1})
    require.NoError(t, err)

    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1})
    var rerr *RuleError
    require.ErrorAs(t, err, &rerr)
    assert.Equal(t, CodeDuplicateActive, rerr.Code)
}

func TestCreateBookingAllowedAgainAfterCancel(t *testing.T) {
    s := newFixture()
    e := NewEngine(s)
    ctx := context.Background()

    first, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1})
    require.NoError(t, err)
    require.NoError(t, e.SetStatus(ctx, 1, 1, model.StatusCancelled))

    // The cancelled row stays behind as history; a new admission for
    // the same pair must still succeed.
    second, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1})
    require.NoError(t, err)
    assert.NotEqual(t, first.ID, second.ID)

    occ, err := s.SumQuantity(ctx, 1, 0)
    require.NoError(t, err)
    assert.Equal(t, 1, occ)
}

// TestSetStatusLeavesCancelledHistory cancels a booking, admits the
// pair again and then completes the live one.  Only the latest row may
// change: flipping the cancelled row too would put its quantity back
// into occupancy.
func TestSetStatusLeavesCancelledHistory(t *testing.T) {
    s := newFixture()
    e := NewEngine(s)
    ctx := context.Background()

    _, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 4})
    require.NoError(t, err)
    require.NoError(t, e.SetStatus(ctx, 1, 1, model.StatusCancelled))
    live, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1})
    require.NoError(t, err)

    require.NoError(t, e.SetStatus(ctx, 1, 1, model.StatusCompleted))

    occ, err := s.SumQuantity(ctx, 1, 0)
    require.NoError(t, err)
    assert.Equal(t, 1, occ)

    all, err := s.BookingsByEvent(ctx, 1)
    require.NoError(t, err)
    require.Len(t, all, 2)
    for _, b := range all {
        if b.ID == live.ID {
            assert.Equal(t, model.StatusCompleted, b.Status)
        } else {
            assert.Equal(t, model.StatusCancelled, b.Status)
        }
    }
}

// TestUpdateBookingLeavesCancelledHistory grows the live booking of a
// pair that carries a cancelled row and checks the history keeps its
// own quantity and status.
func TestUpdateBookingLeavesCancelledHistory(t *testing.T) {
    s := newFixture()
    e := NewEngine(s)
    ctx := context.Background()

    old, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 2})
    require.NoError(t, err)
    require.NoError(t, e.SetStatus(ctx, 1, 1, model.StatusCancelled))
    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1})
    require.NoError(t, err)

    q := 3
    b, err := e.UpdateBooking(ctx, 1, 1, BookingUpdate{Quantity: &q})
    require.NoError(t, err)
    assert.Equal(t, 3, b.Quantity)

    occ, err := s.SumQuantity(ctx, 1, 0)
    require.NoError(t, err)
    assert.Equal(t, 3, occ)

    all, err := s.BookingsByEvent(ctx, 1)
    require.NoError(t, err)
    require.Len(t, all, 2)
    for _, row := range all {
        if row.ID == old.ID {
            assert.Equal(t, model.StatusCancelled, row.Status)
            assert.Equal(t, 2, row.Quantity)
        }
    }
}

// TestDeleteBookingLeavesCancelledHistory removes the pair's live row
// and checks the cancelled one survives the delete.
func TestDeleteBookingLeavesCancelledHistory(t *testing.T) {
    s := newFixture()
    e := NewEngine(s)
    ctx := context.Background()

    old, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 2})
    require.NoError(t, err)
    require.NoError(t, e.SetStatus(ctx, 1, 1, model.StatusCancelled))
    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1})
    require.NoError(t, err)

    require.NoError(t, e.DeleteBooking(ctx, 1, 1))

    all, err := s.BookingsByEvent(ctx, 1)
    require.NoError(t, err)
    require.Len(t, all, 1)
    assert.Equal(t, old.ID, all[0].ID)
    assert.Equal(t, model.StatusCancelled, all[0].Status)

    occ, err := s.SumQuantity(ctx, 1, 0)
    require.NoError(t, err)
    assert.Equal(t, 0, occ)
}

func TestCreateBookingGuestNameConflict(t *testing.T) {
    s := newFixture()
    // Different stay, same guest name.
    s.addReservation(2, "Alice Martin", 2, day(2026, time.March, 9), day(2026, time.March, 11))
    e := NewEngine(s)
    ctx := context.Background()

    _, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1})
    require.NoError(t, err)

    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 2, Quantity: 1})
    var rerr *RuleError
    require.ErrorAs(t, err, &rerr)
    assert.Equal(t, CodeGuestAlreadyBooked, rerr.Code)
}

func TestCreateBookingSameDayConflict(t *testing.T) {
    s := newFixture()
    s.addEvent(2, "Jazz Night", day(2026, time.March, 10), "21:30", 1)
    e := NewEngine(s)
    ctx := context.Background()

    _, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1})
    require.NoError(t, err)

    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 2, ReservationID: 1, Quantity: 1})
    var rerr *RuleError
    require.ErrorAs(t, err, &rerr)
    assert.Equal(t, CodeSameDayBooking, rerr.Code)
}

func TestCreateBookingTierLimit(t *testing.T) {
    s := newFixture()
    // Two-night stay: one booking slot.
    s.addReservation(2, "Carla Nunes", 2, day(2026, time.March, 9), day(2026, time.March, 11))
    s.addEvent(2, "Jazz Night", day(2026, time.March, 11), "21:30", 1)
    e := NewEngine(s)
    ctx := context.Background()

    _, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 2, Quantity: 1})
    require.NoError(t, err)

    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 2, ReservationID: 2, Quantity: 1})
    var rerr *RuleError
    require.ErrorAs(t, err, &rerr)
    assert.Equal(t, CodeTierLimitReached, rerr.Code)
}

func TestCreateBookingSuppliedVoucher(t *testing.T) {
    s := newFixture()
    s.addReservation(2, "Bruno Costa", 2, day(2026, time.March, 9), day(2026, time.March, 11))
    s.addEvent(2, "Jazz Night", day(2026, time.March, 11), "21:30", 1)
    e := NewEngine(s)
    ctx := context.Background()

    b, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1, Voucher: "VXAAA111"})
    require.NoError(t, err)
    assert.Equal(t, "VXAAA111", b.Voucher)

    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 2, ReservationID: 2, Quantity: 1, Voucher: "VXAAA111"})
    assert.ErrorIs(t, err, ErrVoucherTaken)
}

func TestUpdateBooking(t *testing.T) {
    s := newFixture()
    s.addReservation(2, "Bruno Costa", 8, day(2026, time.March, 9), day(2026, time.March, 12))
    e := NewEngine(s)
    ctx := context.Background()

    _, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 2, Quantity: 7})
    require.NoError(t, err)
    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 2})
    require.NoError(t, err)

    notes := "anniversary"
    b, err := e.UpdateBooking(ctx, 1, 1, BookingUpdate{Notes: &notes})
    require.NoError(t, err)
    assert.Equal(t, "anniversary", b.Notes)
    assert.Equal(t, 2, b.Quantity)

    // 7 places taken by the other stay: growing to 4 overflows.
    q := 4
    _, err = e.UpdateBooking(ctx, 1, 1, BookingUpdate{Quantity: &q})
    var rerr *RuleError
    require.ErrorAs(t, err, &rerr)
    assert.Equal(t, CodeCapacityExceeded, rerr.Code)

    // Growing to 3 exactly fills the venue.
    q = 3
    b, err = e.UpdateBooking(ctx, 1, 1, BookingUpdate{Quantity: &q})
    require.NoError(t, err)
    assert.Equal(t, 3, b.Quantity)

    // Beyond the stay's guest count.
    q = 5
    _, err = e.UpdateBooking(ctx, 1, 1, BookingUpdate{Quantity: &q})
    require.ErrorAs(t, err, &rerr)
    assert.Equal(t, CodeQuantityExceedsGuests, rerr.Code)

    var verr *ValidationError
    _, err = e.UpdateBooking(ctx, 1, 1, BookingUpdate{})
    require.ErrorAs(t, err, &verr)
    assert.Equal(t, "body", verr.Field)

    var nfe *NotFoundError
    _, err = e.UpdateBooking(ctx, 1, 42, BookingUpdate{Notes: &notes})
    assert.ErrorAs(t, err, &nfe)
}

func TestSetStatusFreesCapacity(t *testing.T) {
    s := newFixture()
    s.addReservation(2, "Bruno Costa", 10, day(2026, time.March, 9), day(2026, time.March, 12))
    e := NewEngine(s)
    ctx := context.Background()

    _, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 2, Quantity: 10})
    require.NoError(t, err)

    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1})
    var rerr *RuleError
    require.ErrorAs(t, err, &rerr)
    assert.Equal(t, CodeCapacityExceeded, rerr.Code)

    require.NoError(t, e.SetStatus(ctx, 1, 2, model.StatusCancelled))

    _, err = e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 1})
    assert.NoError(t, err)
}

func TestSetStatusValidation(t *testing.T) {
    e := NewEngine(newFixture())
    ctx := context.Background()

    var verr *ValidationError
    err := e.SetStatus(ctx, 1, 1, model.BookingStatus("ARCHIVED"))
    require.ErrorAs(t, err, &verr)
    assert.Equal(t, "status", verr.Field)

    var nfe *NotFoundError
    err = e.SetStatus(ctx, 1, 1, model.StatusNoShow)
    assert.ErrorAs(t, err, &nfe)
}

func TestLookupByVoucher(t *testing.T) {
    e := NewEngine(newFixture())
    ctx := context.Background()

    b, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 2})
    require.NoError(t, err)

    det, err := e.LookupByVoucher(ctx, "  "+strings.ToLower(b.Voucher)+" ")
    require.NoError(t, err)
    assert.Equal(t, b.ID, det.Booking.ID)
    assert.Equal(t, "Wine Tasting", det.Event.Name)
    assert.Equal(t, "Alice Martin", det.Reservation.GuestName)
    assert.Equal(t, "Main Hall", det.Venue.Name)

    var nfe *NotFoundError
    _, err = e.LookupByVoucher(ctx, "VXZZZZZZ")
    assert.ErrorAs(t, err, &nfe)

    var verr *ValidationError
    _, err = e.LookupByVoucher(ctx, "nonsense!")
    assert.ErrorAs(t, err, &verr)
}

func TestRenderVoucherDocument(t *testing.T) {
    e := NewEngine(newFixture())
    ctx := context.Background()

    b, err := e.CreateBooking(ctx, CreateBookingInput{EventID: 1, ReservationID: 1, Quantity: 2})
    require.NoError(t, err)

    doc, err := e.RenderVoucherDocument(ctx, b.Voucher)
    require.NoError(t, err)
    assert.True(t, len(doc) > 0)
    assert.Equal(t, "%PDF-1.4", string(doc[:8]))
    assert.Contains(t, string(doc), b.Voucher)
    assert.Contains(t, string(doc), "Alice Martin")
}

// TestConcurrentAdmissions hammers one event with 100 parallel
// admissions against 10 places.  Exactly ten must win and the ledger
// must end exactly full.
func TestConcurrentAdmissions(t *testing.T) {
    s := newMemStore()
    s.addVenue(1, "Main Hall", 10)
    s.addEvent(1, "Wine Tasting", day(2026, time.March, 10), "19:00", 1)
    for i := uint64(1); i <= 100; i++ {
        s.addReservation(i, fmt.Sprintf("Guest %03d", i), 2,
            day(2026, time.March, 8), day(2026, time.March, 12))
    }
    e := NewEngine(s)

    var wg sync.WaitGroup
    errs := make([]error, 100)
    for i := 0; i < 100; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, errs[i] = e.CreateBooking(context.Background(), CreateBookingInput{
                EventID: 1, ReservationID: uint64(i + 1), Quantity: 1,
            })
        }(i)
    }
    wg.Wait()

    won, lost := 0, 0
    for _, err := range errs {
        if err == nil {
            won++
            continue
        }
        var rerr *RuleError
        require.ErrorAs(t, err, &rerr)
        require.Equal(t, CodeCapacityExceeded, rerr.Code)
        lost++
    }
    assert.Equal(t, 10, won)
    assert.Equal(t, 90, lost)

    occ, err := s.SumQuantity(context.Background(), 1, 0)
    require.NoError(t, err)
    assert.Equal(t, 10, occ)
}
