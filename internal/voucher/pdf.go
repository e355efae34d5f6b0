package voucher

import (
    "bytes"
    "fmt"
    "strings"
)

// Document carries the fields embedded in a printable voucher.
type Document struct {
    Code           string // voucher code, "VX" + 6 chars
    ReservationRef string // external reservation reference
    GuestName      string // primary guest name
    EventName      string // event display name
    EventDate      string // calendar date, "YYYY-MM-DD"
    EventTime      string // time of day, "HH:MM"
    VenueName      string // venue display name
    Quantity       int    // guests covered by the booking
    Status         string // booking status at render time
}

// Render assembles a minimal single-page PDF embedding the voucher
// fields.  The content stream is stored uncompressed so the document
// stays decodable with nothing but a byte scanner; byte layout beyond
// PDF well-formedness is not a compatibility surface.
func Render(d Document) []byte {
    content := contentStream(d)

    var buf bytes.Buffer
    buf.WriteString("%PDF-1.4\n")

    offsets := make([]int, 0, 5)
    writeObj := func(body string) {
        offsets = append(offsets, buf.Len())
        buf.WriteString(body)
    }

    writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
    writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
    writeObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] " +
        "/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n")
    writeObj("4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")
    writeObj(fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
        len(content), content))

    xref := buf.Len()
    buf.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)+1))
    buf.WriteString("0000000000 65535 f \n")
    for _, off := range offsets {
        buf.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
    }
    buf.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
        len(offsets)+1, xref))
    return buf.Bytes()
}

// contentStream lays the voucher fields out as one text block per
// line, title first, walking down the page.
func contentStream(d Document) string {
    lines := []struct {
        label string
        value string
    }{
        {"Voucher", d.Code},
        {"Reservation", d.ReservationRef},
        {"Guest", d.GuestName},
        {"Event", d.EventName},
        {"Date", d.EventDate},
        {"Time", d.EventTime},
        {"Venue", d.VenueName},
        {"Guests", fmt.Sprintf("%d", d.Quantity)},
        {"Status", d.Status},
    }

    var sb strings.Builder
    sb.WriteString("BT\n/F1 20 Tf\n72 770 Td\n")
    sb.WriteString(fmt.Sprintf("(%s) Tj\n", escapeText("Event Booking Voucher")))
    sb.WriteString("/F1 12 Tf\n0 -36 Td\n")
    for i, ln := range lines {
        if i > 0 {
            sb.WriteString("0 -20 Td\n")
        }
        sb.WriteString(fmt.Sprintf("(%s: %s) Tj\n", escapeText(ln.label), escapeText(ln.value)))
    }
    sb.WriteString("ET")
    return sb.String()
}

// escapeText escapes the three characters PDF string literals reserve.
func escapeText(s string) string {
    r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
    return r.Replace(s)
}
