package repository

import (
    "context"
    "database/sql"

    "github.com/reservahub/event-booking/internal/model"
)

// ReservationRepo provides CRUD operations for guest stays.  No two
// reservations may share a unit code over overlapping [check_in,
// check_out) windows; create and update run an overlap scan that
// excludes the row being updated.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = `id, booking_ref, unit_code, guest_name, phone, email,
                         check_in, check_out, guest_count, created_at, updated_at`

func scanReservation(row *sql.Row) (*model.Reservation, error) {
    var res model.Reservation
    err := row.Scan(&res.ID, &res.BookingRef, &res.UnitCode, &res.GuestName, &res.Phone, &res.Email,
        &res.CheckIn, &res.CheckOut, &res.GuestCount, &res.CreatedAt, &res.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &res, nil
}

// hasUnitOverlap reports whether another reservation (excluding
// excludeID) holds the unit code over a window intersecting
// [checkIn, checkOut).
func (r *ReservationRepo) hasUnitOverlap(ctx context.Context, res *model.Reservation, excludeID uint64) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM reservations
                   WHERE unit_code = ? AND id <> ?
                     AND check_in < ? AND check_out > ?)`
    var exists bool
    err := r.db.QueryRowContext(ctx, q, res.UnitCode, excludeID,
        res.CheckOut.Format(model.DateLayout), res.CheckIn.Format(model.DateLayout)).Scan(&exists)
    return exists, err
}

// Create inserts a reservation after the overlap scan.  Returns
// ErrUnitOverlap when the unit is taken for the window.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
    if overlap, err := r.hasUnitOverlap(ctx, res, 0); err != nil {
        return err
    } else if overlap {
        return ErrUnitOverlap
    }
    const q = `INSERT INTO reservations
               (booking_ref, unit_code, guest_name, phone, email, check_in, check_out, guest_count)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q, res.BookingRef, res.UnitCode, res.GuestName, res.Phone, res.Email,
        res.CheckIn.Format(model.DateLayout), res.CheckOut.Format(model.DateLayout), res.GuestCount)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
    fresh, err := scanReservation(r.db.QueryRowContext(ctx, sel, res.ID))
    if err != nil {
        return err
    }
    *res = *fresh
    return nil
}

// GetByID returns a reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
    res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, ErrReservationNotFound
    }
    return res, err
}

// List returns all reservations ordered by check-in descending.
func (r *ReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationCols + ` FROM reservations ORDER BY check_in DESC, id DESC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        var res model.Reservation
        if err := rows.Scan(&res.ID, &res.BookingRef, &res.UnitCode, &res.GuestName, &res.Phone, &res.Email,
            &res.CheckIn, &res.CheckOut, &res.GuestCount, &res.CreatedAt, &res.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update rewrites the reservation after re-running the overlap scan
// with the row itself excluded.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
    if _, err := r.GetByID(ctx, res.ID); err != nil {
        return err
    }
    if overlap, err := r.hasUnitOverlap(ctx, res, res.ID); err != nil {
        return err
    } else if overlap {
        return ErrUnitOverlap
    }
    const q = `UPDATE reservations
               SET booking_ref = ?, unit_code = ?, guest_name = ?, phone = ?, email = ?,
                   check_in = ?, check_out = ?, guest_count = ?
               WHERE id = ?`
    if _, err := r.db.ExecContext(ctx, q, res.BookingRef, res.UnitCode, res.GuestName, res.Phone, res.Email,
        res.CheckIn.Format(model.DateLayout), res.CheckOut.Format(model.DateLayout), res.GuestCount, res.ID); err != nil {
        return err
    }
    const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
    fresh, err := scanReservation(r.db.QueryRowContext(ctx, sel, res.ID))
    if err != nil {
        return err
    }
    *res = *fresh
    return nil
}
