package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// calendarNamespace seeds the deterministic invite UIDs. Never change it:
// calendar clients match updates to earlier invites by UID.
var calendarNamespace = uuid.MustParse("9a3c6b1e-4f2d-4c8a-9b57-1d0e8f6a2c43")

// CalendarInvite is the structured calendar payload attached to interview
// scheduling mail.
type CalendarInvite struct {
	EventID     uint
	Start       time.Time
	End         time.Time
	Organizer   string
	Summary     string
	Description string
	Location    string
}

// UID derives the invite identifier from the event id and its time range, so
// re-sending the same event produces the same UID and clients update the
// existing entry instead of duplicating it.
func (c CalendarInvite) UID() string {
	name := fmt.Sprintf("%d|%d|%d", c.EventID, c.Start.Unix(), c.End.Unix())
	return uuid.NewSHA1(calendarNamespace, []byte(name)).String() + "@hireloop"
}

// ICS renders the invite as an iCalendar document with a single one-hour
// reminder. METHOD:REQUEST makes resends update semantics, not new entries.
func (c CalendarInvite) ICS() string {
	var b strings.Builder

	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:-//hireloop//recruitment//EN")
	writeLine("METHOD:REQUEST")
	writeLine("BEGIN:VEVENT")
	writeLine("UID:" + c.UID())
	writeLine("DTSTAMP:" + icsTime(time.Now().UTC()))
	writeLine("DTSTART:" + icsTime(c.Start.UTC()))
	writeLine("DTEND:" + icsTime(c.End.UTC()))
	if c.Organizer != "" {
		writeLine("ORGANIZER;CN=" + icsEscape(c.Organizer) + ":mailto:" + c.Organizer)
	}
	writeLine("SUMMARY:" + icsEscape(c.Summary))
	if c.Description != "" {
		writeLine("DESCRIPTION:" + icsEscape(c.Description))
	}
	if c.Location != "" {
		writeLine("LOCATION:" + icsEscape(c.Location))
	}
	writeLine("BEGIN:VALARM")
	writeLine("TRIGGER:-PT1H")
	writeLine("ACTION:DISPLAY")
	writeLine("DESCRIPTION:" + icsEscape(c.Summary))
	writeLine("END:VALARM")
	writeLine("END:VEVENT")
	writeLine("END:VCALENDAR")

	return b.String()
}

func icsTime(t time.Time) string {
	return t.Format("20060102T150405Z")
}

func icsEscape(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}
