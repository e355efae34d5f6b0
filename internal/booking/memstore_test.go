package booking

import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/reservahub/event-booking/internal/model"
)

// memData is the transactional view of the in-memory store.  Calls
// arrive already serialized under memStore.mu, so methods mutate the
// maps directly.
type memData struct {
    venues       map[uint64]*model.Venue
    events       map[uint64]*model.Event
    reservations map[uint64]*model.Reservation
    bookings     map[uint64]*model.Booking

    nextEventID   uint64
    nextBookingID uint64
}

func newMemData() *memData {
    return &memData{
        venues:       make(map[uint64]*model.Venue),
        events:       make(map[uint64]*model.Event),
        reservations: make(map[uint64]*model.Reservation),
        bookings:     make(map[uint64]*model.Booking),
    }
}

func sameDay(a, b time.Time) bool {
    ay, am, ad := a.Date()
    by, bm, bd := b.Date()
    return ay == by && am == bm && ad == bd
}

func (m *memData) Venue(_ context.Context, id uint64) (*model.Venue, error) {
    v, ok := m.venues[id]
    if !ok {
        return nil, &NotFoundError{Entity: "venue"}
    }
    cp := *v
    return &cp, nil
}

func (m *memData) EventWithVenue(_ context.Context, eventID uint64) (*model.Event, *model.Venue, error) {
    ev, ok := m.events[eventID]
    if !ok {
        return nil, nil, &NotFoundError{Entity: "event"}
    }
    v, ok := m.venues[ev.VenueID]
    if !ok {
        return nil, nil, &NotFoundError{Entity: "venue"}
    }
    evCp, vCp := *ev, *v
    return &evCp, &vCp, nil
}

func (m *memData) Reservation(_ context.Context, id uint64) (*model.Reservation, error) {
    r, ok := m.reservations[id]
    if !ok {
        return nil, &NotFoundError{Entity: "reservation"}
    }
    cp := *r
    return &cp, nil
}

func (m *memData) FindEvent(_ context.Context, date time.Time, startTime string, venueID uint64) (*model.Event, error) {
    for _, ev := range m.events {
        if ev.VenueID == venueID && ev.StartTime == startTime && sameDay(ev.Date, date) {
            cp := *ev
            return &cp, nil
        }
    }
    return nil, nil
}

func (m *memData) SumQuantity(_ context.Context, eventID, excludeReservationID uint64) (int, error) {
    sum := 0
    for _, b := range m.bookings {
        if b.EventID != eventID || b.Status == model.StatusCancelled {
            continue
        }
        if excludeReservationID != 0 && b.ReservationID == excludeReservationID {
            continue
        }
        sum += b.Quantity
    }
    return sum, nil
}

func (m *memData) ActiveBooking(_ context.Context, eventID, reservationID uint64) (*model.Booking, error) {
    for _, b := range m.bookings {
        if b.EventID == eventID && b.ReservationID == reservationID && b.Status == model.StatusActive {
            cp := *b
            return &cp, nil
        }
    }
    return nil, nil
}

// latest returns the pair's most recent row, mirroring the SQL
// store's ORDER BY id DESC reads.  Returns the map's own pointer.
func (m *memData) latest(eventID, reservationID uint64) *model.Booking {
    var out *model.Booking
    for _, b := range m.bookings {
        if b.EventID == eventID && b.ReservationID == reservationID {
            if out == nil || b.ID > out.ID {
                out = b
            }
        }
    }
    return out
}

func (m *memData) Booking(_ context.Context, eventID, reservationID uint64) (*model.Booking, error) {
    b := m.latest(eventID, reservationID)
    if b == nil {
        return nil, &NotFoundError{Entity: "booking"}
    }
    cp := *b
    return &cp, nil
}

func (m *memData) HasGuestNameConflict(_ context.Context, eventID, reservationID uint64, guestName string) (bool, error) {
    for _, b := range m.bookings {
        if b.EventID != eventID || b.ReservationID == reservationID || b.Status == model.StatusCancelled {
            continue
        }
        if r, ok := m.reservations[b.ReservationID]; ok && r.GuestName == guestName {
            return true, nil
        }
    }
    return false, nil
}

func (m *memData) HasSameDayConflict(_ context.Context, reservationID, eventID uint64, date time.Time) (bool, error) {
    for _, b := range m.bookings {
        if b.ReservationID != reservationID || b.EventID == eventID || b.Status == model.StatusCancelled {
            continue
        }
        if ev, ok := m.events[b.EventID]; ok && sameDay(ev.Date, date) {
            return true, nil
        }
    }
    return false, nil
}

func (m *memData) CountNonCancelled(_ context.Context, reservationID uint64) (int, error) {
    n := 0
    for _, b := range m.bookings {
        if b.ReservationID == reservationID && b.Status != model.StatusCancelled {
            n++
        }
    }
    return n, nil
}

func (m *memData) VoucherExists(_ context.Context, code string) (bool, error) {
    for _, b := range m.bookings {
        if b.Voucher == code {
            return true, nil
        }
    }
    return false, nil
}

func (m *memData) EventForUpdate(ctx context.Context, eventID uint64) (*model.Event, *model.Venue, error) {
    return m.EventWithVenue(ctx, eventID)
}

func (m *memData) InsertBooking(ctx context.Context, b *model.Booking) error {
    if taken, _ := m.VoucherExists(ctx, b.Voucher); taken {
        return ErrVoucherTaken
    }
    m.nextBookingID++
    b.ID = m.nextBookingID
    b.CreatedAt = time.Now().UTC()
    b.UpdatedAt = b.CreatedAt
    cp := *b
    m.bookings[b.ID] = &cp
    return nil
}

func (m *memData) UpdateBooking(ctx context.Context, eventID, reservationID uint64, upd BookingUpdate) error {
    b := m.latest(eventID, reservationID)
    if b == nil {
        return &NotFoundError{Entity: "booking"}
    }
    if upd.Notes != nil {
        b.Notes = *upd.Notes
    }
    if upd.Quantity != nil {
        b.Quantity = *upd.Quantity
    }
    if upd.Status != nil {
        b.Status = *upd.Status
    }
    b.UpdatedAt = time.Now().UTC()
    return nil
}

func (m *memData) UpdateStatus(ctx context.Context, eventID, reservationID uint64, status model.BookingStatus) error {
    s := status
    return m.UpdateBooking(ctx, eventID, reservationID, BookingUpdate{Status: &s})
}

func (m *memData) DeleteBooking(_ context.Context, eventID, reservationID uint64) error {
    b := m.latest(eventID, reservationID)
    if b == nil {
        return &NotFoundError{Entity: "booking"}
    }
    delete(m.bookings, b.ID)
    return nil
}

func (m *memData) InsertEvent(ctx context.Context, ev *model.Event) error {
    if existing, _ := m.FindEvent(ctx, ev.Date, ev.StartTime, ev.VenueID); existing != nil {
        return ErrSlotTaken
    }
    m.nextEventID++
    ev.ID = m.nextEventID
    ev.CreatedAt = time.Now().UTC()
    ev.UpdatedAt = ev.CreatedAt
    cp := *ev
    m.events[ev.ID] = &cp
    return nil
}

// memStore wraps memData behind a mutex.  WithinTx holds the lock for
// the whole callback, which gives the same serialization guarantee the
// SQL store gets from serializable transactions and row locks.
type memStore struct {
    mu   sync.Mutex
    data *memData
}

func newMemStore() *memStore { return &memStore{data: newMemData()} }

func (s *memStore) WithinTx(_ context.Context, fn func(tx TxStore) error) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    return fn(s.data)
}

func (s *memStore) Venue(ctx context.Context, id uint64) (*model.Venue, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.data.Venue(ctx, id)
}

func (s *memStore) EventWithVenue(ctx context.Context, eventID uint64) (*model.Event, *model.Venue, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.data.EventWithVenue(ctx, eventID)
}

func (s *memStore) Reservation(ctx context.Context, id uint64) (*model.Reservation, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.data.Reservation(ctx, id)
}

func (s *memStore) FindEvent(ctx context.Context, date time.Time, startTime string, venueID uint64) (*model.Event, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.data.FindEvent(ctx, date, startTime, venueID)
}

func (s *memStore) SumQuantity(ctx context.Context, eventID, excludeReservationID uint64) (int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.data.SumQuantity(ctx, eventID, excludeReservationID)
}

func (s *memStore) ActiveBooking(ctx context.Context, eventID, reservationID uint64) (*model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.data.ActiveBooking(ctx, eventID, reservationID)
}

func (s *memStore) Booking(ctx context.Context, eventID, reservationID uint64) (*model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.data.Booking(ctx, eventID, reservationID)
}

func (s *memStore) HasGuestNameConflict(ctx context.Context, eventID, reservationID uint64, guestName string) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.data.HasGuestNameConflict(ctx, eventID, reservationID, guestName)
}

func (s *memStore) HasSameDayConflict(ctx context.Context, reservationID, eventID uint64, date time.Time) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.data.HasSameDayConflict(ctx, reservationID, eventID, date)
}

func (s *memStore) CountNonCancelled(ctx context.Context, reservationID uint64) (int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.data.CountNonCancelled(ctx, reservationID)
}

func (s *memStore) VoucherExists(ctx context.Context, code string) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.data.VoucherExists(ctx, code)
}

func (s *memStore) DetailByPair(ctx context.Context, eventID, reservationID uint64) (*Detail, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, err := s.data.Booking(ctx, eventID, reservationID)
    if err != nil {
        return nil, err
    }
    return s.detail(b)
}

func (s *memStore) DetailByVoucher(_ context.Context, code string) (*Detail, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, b := range s.data.bookings {
        if b.Voucher == code {
            cp := *b
            return s.detail(&cp)
        }
    }
    return nil, &NotFoundError{Entity: "booking"}
}

func (s *memStore) detail(b *model.Booking) (*Detail, error) {
    ev, ok := s.data.events[b.EventID]
    if !ok {
        return nil, &NotFoundError{Entity: "event"}
    }
    v, ok := s.data.venues[ev.VenueID]
    if !ok {
        return nil, &NotFoundError{Entity: "venue"}
    }
    r, ok := s.data.reservations[b.ReservationID]
    if !ok {
        return nil, &NotFoundError{Entity: "reservation"}
    }
    return &Detail{Booking: *b, Event: *ev, Reservation: *r, Venue: *v}, nil
}

func (s *memStore) BookingsByEvent(_ context.Context, eventID uint64) ([]model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make([]model.Booking, 0)
    for _, b := range s.data.bookings {
        if b.EventID == eventID {
            out = append(out, *b)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
    return out, nil
}

// ---- fixture helpers ----

func (s *memStore) addVenue(id uint64, name string, capacity int) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.data.venues[id] = &model.Venue{ID: id, Name: name, Capacity: capacity}
}

func (s *memStore) addEvent(id uint64, name string, date time.Time, startTime string, venueID uint64) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.data.events[id] = &model.Event{ID: id, Name: name, Date: date, StartTime: startTime, VenueID: venueID}
    if id > s.data.nextEventID {
        s.data.nextEventID = id
    }
}

func (s *memStore) addReservation(id uint64, guestName string, guests int, checkIn, checkOut time.Time) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.data.reservations[id] = &model.Reservation{
        ID:         id,
        BookingRef: "REF-" + guestName,
        UnitCode:   "U1",
        GuestName:  guestName,
        CheckIn:    checkIn,
        CheckOut:   checkOut,
        GuestCount: guests,
    }
}

func day(y int, m time.Month, d int) time.Time {
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
