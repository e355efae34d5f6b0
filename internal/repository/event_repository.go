package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/reservahub/event-booking/internal/model"
)

// EventRepo provides CRUD operations for events.  The (date, time,
// venue) slot is unique among events: creation checks the slot and a
// DB unique key backs the check against concurrent inserts.
type EventRepo struct {
    db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventCols = `id, name, event_date, start_time, venue_id, created_at, updated_at`

func (r *EventRepo) scanOne(row *sql.Row) (*model.Event, error) {
    var ev model.Event
    err := row.Scan(&ev.ID, &ev.Name, &ev.Date, &ev.StartTime, &ev.VenueID, &ev.CreatedAt, &ev.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &ev, nil
}

// Create inserts an event.  Returns ErrSlotConflict when another
// event already occupies the same (date, time, venue) slot.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
    const q = `INSERT INTO events (name, event_date, start_time, venue_id) VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, ev.Name, ev.Date.Format(model.DateLayout), ev.StartTime, ev.VenueID)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrSlotConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    ev.ID = uint64(id)
    const sel = `SELECT ` + eventCols + ` FROM events WHERE id = ?`
    fresh, err := r.scanOne(r.db.QueryRowContext(ctx, sel, ev.ID))
    if err != nil {
        return err
    }
    *ev = *fresh
    return nil
}

// GetByID returns an event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
    const q = `SELECT ` + eventCols + ` FROM events WHERE id = ?`
    ev, err := r.scanOne(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrEventNotFound
    }
    return ev, err
}

// List returns events filtered by optional venue and date range,
// ordered by date then time.
func (r *EventRepo) List(ctx context.Context, venueID uint64, from, to *time.Time) ([]model.Event, error) {
    q := `SELECT ` + eventCols + ` FROM events`
    conds := make([]string, 0, 3)
    args := make([]any, 0, 3)
    if venueID != 0 {
        conds = append(conds, "venue_id = ?")
        args = append(args, venueID)
    }
    if from != nil {
        conds = append(conds, "event_date >= ?")
        args = append(args, from.Format(model.DateLayout))
    }
    if to != nil {
        conds = append(conds, "event_date <= ?")
        args = append(args, to.Format(model.DateLayout))
    }
    if len(conds) > 0 {
        q += " WHERE " + strings.Join(conds, " AND ")
    }
    q += " ORDER BY event_date, start_time"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Event, 0)
    for rows.Next() {
        var ev model.Event
        if err := rows.Scan(&ev.ID, &ev.Name, &ev.Date, &ev.StartTime, &ev.VenueID, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, ev)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Delete removes an event only when it carries no non-cancelled
// bookings; otherwise ErrEventHasBookings.  Runs in a transaction so
// the guard and the delete see the same state.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    var n int
    const guard = `SELECT COUNT(*) FROM bookings WHERE event_id = ? AND status <> 'CANCELLED'`
    if err := tx.QueryRowContext(ctx, guard, id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrEventHasBookings
    }
    res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return ErrEventNotFound
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
