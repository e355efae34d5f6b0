package booking

import (
    "context"
    "strings"
    "time"

    "github.com/reservahub/event-booking/internal/model"
)

// Provisioner creates one event per calendar day over a date range,
// skipping days whose slot is already taken.  It is independent of
// the admission engine and touches only event storage.
type Provisioner struct {
    store Store
}

// NewProvisioner returns a Provisioner over the given store.
func NewProvisioner(store Store) *Provisioner {
    if store == nil {
        panic("nil store passed to NewProvisioner")
    }
    return &Provisioner{store: store}
}

// ProvisionInput is the request payload for CreateEventsInRange.
type ProvisionInput struct {
    Name      string
    StartTime string // "HH:MM"
    VenueID   uint64
    StartDate time.Time
    EndDate   time.Time
}

// CreateEventsInRange creates an event named in.Name at in.StartTime
// for every day of [StartDate, EndDate] (inclusive) at the venue,
// skipping days where one already exists for the same slot.  The
// whole range runs in one transaction and only the newly created
// events are returned; skipped days are not errors.
func (p *Provisioner) CreateEventsInRange(ctx context.Context, in ProvisionInput) ([]model.Event, error) {
    name := strings.TrimSpace(in.Name)
    if name == "" {
        return nil, validationErr("name", "is required")
    }
    if _, err := time.Parse(model.TimeLayout, in.StartTime); err != nil {
        return nil, validationErr("time", "must be in HH:MM form")
    }
    if in.VenueID == 0 {
        return nil, validationErr("venue_id", "must be a positive integer")
    }
    if in.EndDate.Before(in.StartDate) {
        return nil, validationErr("end_date", "must not be before start_date")
    }

    created := make([]model.Event, 0)
    err := p.store.WithinTx(ctx, func(tx TxStore) error {
        if _, err := tx.Venue(ctx, in.VenueID); err != nil {
            return err
        }
        for d := in.StartDate; !d.After(in.EndDate); d = d.AddDate(0, 0, 1) {
            existing, err := tx.FindEvent(ctx, d, in.StartTime, in.VenueID)
            if err != nil {
                return err
            }
            if existing != nil {
                continue
            }
            ev := model.Event{
                Name:      name,
                Date:      d,
                StartTime: in.StartTime,
                VenueID:   in.VenueID,
            }
            if err := tx.InsertEvent(ctx, &ev); err != nil {
                return err
            }
            created = append(created, ev)
        }
        return nil
    })
    if err != nil {
        return nil, err
    }
    return created, nil
}
