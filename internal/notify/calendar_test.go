package notify_test

import (
	"strings"
	"testing"
	"time"

	"github.com/hireloop-dev/hireloop/internal/notify"
)

func invite() notify.CalendarInvite {
	return notify.CalendarInvite{
		EventID:     5,
		Start:       time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC),
		Organizer:   "mark@example.com",
		Summary:     "Interview: Backend Engineer",
		Description: "Technical interview, round 2",
		Location:    "Room 2B",
	}
}

func TestCalendarUIDIsStableAcrossRenders(t *testing.T) {
	first := invite().UID()
	second := invite().UID()

	if first != second {
		t.Fatalf("UID not stable: %q vs %q", first, second)
	}
	if !strings.HasSuffix(first, "@hireloop") {
		t.Fatalf("UID = %q, want @hireloop suffix", first)
	}
}

func TestCalendarUIDChangesWithTimeRange(t *testing.T) {
	a := invite()
	b := invite()
	b.Start = b.Start.Add(time.Hour)

	if a.UID() == b.UID() {
		t.Fatalf("UID should change when the time range changes")
	}
}

func TestCalendarICSStructure(t *testing.T) {
	ics := invite().ICS()

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:REQUEST",
		"UID:" + invite().UID(),
		"DTSTART:20260910T140000Z",
		"DTEND:20260910T150000Z",
		"ORGANIZER;CN=mark@example.com:mailto:mark@example.com",
		"SUMMARY:Interview: Backend Engineer",
		"LOCATION:Room 2B",
		"TRIGGER:-PT1H",
		"END:VCALENDAR",
	} {
		if !strings.Contains(ics, want) {
			t.Fatalf("ICS missing %q:\n%s", want, ics)
		}
	}

	if !strings.Contains(ics, "\r\n") {
		t.Fatalf("ICS must use CRLF line endings")
	}
}

func TestCalendarICSEscapesSpecialCharacters(t *testing.T) {
	c := invite()
	c.Description = "Bring ID; arrive early, please"

	ics := c.ICS()

	if !strings.Contains(ics, "DESCRIPTION:Bring ID\\; arrive early\\, please") {
		t.Fatalf("special characters not escaped:\n%s", ics)
	}
}
