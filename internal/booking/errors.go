// Package booking implements the event-reservation admission engine:
// the rule pipeline deciding whether a guest stay may join an event,
// the capacity ledger, the stay-tier limits, voucher issuance and the
// bulk event provisioner.  All writes to the bookings table go through
// this package; handlers only translate its errors to HTTP responses.
package booking

import (
    "errors"
    "fmt"
)

// RuleCode identifies which business rule rejected an admission
// attempt.  Codes are stable and machine-readable so callers can
// explain the rejection to an end user.
type RuleCode string

const (
    CodeQuantityExceedsGuests RuleCode = "QUANTITY_EXCEEDS_GUESTS"
    CodeCapacityExceeded      RuleCode = "CAPACITY_EXCEEDED"
    CodeDuplicateActive       RuleCode = "DUPLICATE_ACTIVE_BOOKING"
    CodeGuestAlreadyBooked    RuleCode = "GUEST_ALREADY_BOOKED"
    CodeSameDayBooking        RuleCode = "RESERVATION_ALREADY_BOOKED_SAME_DAY"
    CodeTierLimitReached      RuleCode = "TIER_LIMIT_REACHED"
)

// RuleError is a business rule violation.  The pipeline stops at the
// first failing rule, so a response always carries exactly one code.
type RuleError struct {
    Code    RuleCode
    Message string
}

func (e *RuleError) Error() string { return string(e.Code) + ": " + e.Message }

func ruleErr(code RuleCode, format string, args ...any) *RuleError {
    return &RuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a referenced entity does not exist.
// Entity is one of "event", "reservation", "booking", "venue".
type NotFoundError struct {
    Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// ValidationError reports malformed input.  It is always raised
// before any storage access.
type ValidationError struct {
    Field   string
    Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

func validationErr(field, format string, args ...any) *ValidationError {
    return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ErrSlotTaken is returned when an event already exists for the same
// (date, time, venue) slot.
var ErrSlotTaken = errors.New("an event already exists for this date, time and venue")

// ErrVoucherTaken is returned by stores when an insert collides with
// the voucher uniqueness constraint.  The engine reacts by generating
// a fresh code and retrying.
var ErrVoucherTaken = errors.New("voucher code already taken")

// ErrVoucherExhausted is returned when voucher generation failed to
// find a free code within the bounded number of attempts.
var ErrVoucherExhausted = errors.New("could not generate a unique voucher code")
