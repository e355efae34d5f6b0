package voucher

import (
    "bytes"
    "fmt"
    "strconv"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func sampleDocument() Document {
    return Document{
        Code:           "VXAB12CD",
        ReservationRef: "REF-2041",
        GuestName:      "Alice Martin",
        EventName:      "Wine Tasting",
        EventDate:      "2026-03-10",
        EventTime:      "19:00",
        VenueName:      "Main Hall",
        Quantity:       2,
        Status:         "ACTIVE",
    }
}

func TestRenderWellFormed(t *testing.T) {
    out := Render(sampleDocument())

    assert.True(t, bytes.HasPrefix(out, []byte("%PDF-1.4\n")))
    assert.True(t, bytes.HasSuffix(out, []byte("%%EOF\n")))
    assert.Contains(t, string(out), "/Type /Catalog")
    assert.Contains(t, string(out), "/BaseFont /Helvetica")
    assert.Contains(t, string(out), "stream\n")
    assert.Contains(t, string(out), "endstream")
}

func TestRenderEmbedsFields(t *testing.T) {
    d := sampleDocument()
    s := string(Render(d))

    for _, want := range []string{
        "Voucher: VXAB12CD",
        "Reservation: REF-2041",
        "Guest: Alice Martin",
        "Event: Wine Tasting",
        "Date: 2026-03-10",
        "Time: 19:00",
        "Venue: Main Hall",
        "Guests: 2",
        "Status: ACTIVE",
    } {
        assert.Contains(t, s, want)
    }
}

func TestRenderXrefOffsets(t *testing.T) {
    out := Render(sampleDocument())
    s := string(out)

    xref := strings.Index(s, "xref\n")
    require.Greater(t, xref, 0)

    // startxref points at the xref table.
    start := strings.Index(s, "startxref\n")
    require.Greater(t, start, 0)
    rest := s[start+len("startxref\n"):]
    declared, err := strconv.Atoi(strings.SplitN(rest, "\n", 2)[0])
    require.NoError(t, err)
    assert.Equal(t, xref, declared)

    // Every in-use entry points at the matching "N 0 obj" header.
    lines := strings.Split(s[xref:], "\n")
    require.GreaterOrEqual(t, len(lines), 8)
    for i, ln := range lines[3:8] { // entries for objects 1..5
        off, err := strconv.Atoi(strings.Fields(ln)[0])
        require.NoError(t, err)
        want := fmt.Sprintf("%d 0 obj", i+1)
        assert.True(t, strings.HasPrefix(s[off:], want), "object %d offset", i+1)
    }
}

func TestRenderEscapesReservedCharacters(t *testing.T) {
    d := sampleDocument()
    d.GuestName = `Alice (Ali) \ Martin`
    s := string(Render(d))

    assert.Contains(t, s, `Guest: Alice \(Ali\) \\ Martin`)
    assert.NotContains(t, s, "Guest: Alice (Ali)")
}

func TestRenderDeterministic(t *testing.T) {
    d := sampleDocument()
    assert.Equal(t, Render(d), Render(d))
}
