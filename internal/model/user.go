package model

import "time"

// User is an operator account for the administrative API.  ADMIN
// manages venues, events and reservations; STAFF additionally handles
// day-to-day booking operations at the desk.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email (unique, lower-cased)
    PasswordHash string    // users.password_hash (bcrypt)
    Role         string    // users.role (ADMIN | STAFF)
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
