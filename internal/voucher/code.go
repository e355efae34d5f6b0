// Package voucher produces booking voucher codes and renders the
// printable voucher document.
package voucher

import (
    "crypto/rand"
    "regexp"
)

// codeCharset is the alphabet of the random part of a voucher code.
const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// codeLength is the number of random characters after the prefix.
const codeLength = 6

// Prefix starts every voucher code.
const Prefix = "VX"

// CodePattern matches a well-formed voucher code.
var CodePattern = regexp.MustCompile(`^VX[A-Z0-9]{6}$`)

// NewCode returns a fresh voucher code of the form "VX" followed by
// six upper-case alphanumeric characters.  Uniqueness is not checked
// here; the caller verifies the code against storage and the bookings
// table carries a unique key as the authoritative guard.
func NewCode() (string, error) {
    buf := make([]byte, codeLength)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    out := make([]byte, 0, len(Prefix)+codeLength)
    out = append(out, Prefix...)
    for _, b := range buf {
        out = append(out, codeCharset[int(b)%len(codeCharset)])
    }
    return string(out), nil
}
