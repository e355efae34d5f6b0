package repository

import (
    "context"
    "database/sql"

    "github.com/reservahub/event-booking/internal/model"
)

// VenueRepo provides CRUD operations for venues.  Venues are managed
// by administrators; the booking engine only ever reads them.
type VenueRepo struct {
    db *sql.DB
}

// NewVenueRepo returns a VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// Create inserts a venue and populates its ID and timestamps.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
    const q = `INSERT INTO venues (name, capacity) VALUES (?, ?)`
    res, err := r.db.ExecContext(ctx, q, v.Name, v.Capacity)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    v.ID = uint64(id)
    const sel = `SELECT id, name, capacity, created_at, updated_at FROM venues WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, v.ID).Scan(&v.ID, &v.Name, &v.Capacity, &v.CreatedAt, &v.UpdatedAt)
}

// GetByID returns a venue or ErrVenueNotFound.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
    const q = `SELECT id, name, capacity, created_at, updated_at FROM venues WHERE id = ?`
    var v model.Venue
    err := r.db.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Name, &v.Capacity, &v.CreatedAt, &v.UpdatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrVenueNotFound
    }
    if err != nil {
        return nil, err
    }
    return &v, nil
}

// List returns all venues ordered by name.
func (r *VenueRepo) List(ctx context.Context) ([]model.Venue, error) {
    const q = `SELECT id, name, capacity, created_at, updated_at FROM venues ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Venue, 0)
    for rows.Next() {
        var v model.Venue
        if err := rows.Scan(&v.ID, &v.Name, &v.Capacity, &v.CreatedAt, &v.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, v)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update rewrites name and capacity.  Returns ErrVenueNotFound when
// the row does not exist.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
    if _, err := r.GetByID(ctx, v.ID); err != nil {
        return err
    }
    const q = `UPDATE venues SET name = ?, capacity = ? WHERE id = ?`
    if _, err := r.db.ExecContext(ctx, q, v.Name, v.Capacity, v.ID); err != nil {
        return err
    }
    const sel = `SELECT id, name, capacity, created_at, updated_at FROM venues WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, v.ID).Scan(&v.ID, &v.Name, &v.Capacity, &v.CreatedAt, &v.UpdatedAt)
}
