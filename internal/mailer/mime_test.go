package mailer

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/hireloop-dev/hireloop/internal/notify"
)

func plainMessage() *notify.MailMessage {
	return &notify.MailMessage{
		Subject:  "Application received: Backend Engineer",
		Greeting: "Hello,",
		Lines: []string{
			"We received your application for Backend Engineer.",
		},
		Action: &notify.MailAction{Label: "View application", URL: "/applications/9"},
	}
}

func TestBuildMIMEPlainText(t *testing.T) {
	raw := string(BuildMIME("no-reply@hireloop.dev", "priya@example.com", plainMessage()))

	for _, want := range []string{
		"From: no-reply@hireloop.dev\r\n",
		"To: priya@example.com\r\n",
		"Subject: Application received: Backend Engineer\r\n",
		"Content-Type: text/plain; charset=utf-8\r\n",
		"Hello,\r\n",
		"View application: /applications/9\r\n",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}

	if strings.Contains(raw, "multipart/mixed") {
		t.Fatalf("plain message should not be multipart:\n%s", raw)
	}
}

func TestBuildMIMEWithCalendarAttachment(t *testing.T) {
	message := plainMessage()
	message.Calendar = &notify.CalendarInvite{
		EventID: 5,
		Start:   time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		End:     time.Date(2026, 9, 10, 15, 0, 0, 0, time.UTC),
		Summary: "Interview: Backend Engineer",
	}

	raw := string(BuildMIME("no-reply@hireloop.dev", "priya@example.com", message))

	for _, want := range []string{
		"multipart/mixed",
		"Content-Type: text/calendar; method=REQUEST; charset=utf-8",
		`Content-Disposition: attachment; filename="invite.ics"`,
		"Content-Transfer-Encoding: base64",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}

	// The attachment must decode back to the invite.
	start := strings.Index(raw, "Content-Transfer-Encoding: base64\r\n\r\n")
	if start < 0 {
		t.Fatalf("no base64 section found")
	}
	encoded := raw[start+len("Content-Transfer-Encoding: base64\r\n\r\n"):]
	end := strings.Index(encoded, "\r\n--"+mimeBoundary)
	if end < 0 {
		t.Fatalf("attachment not terminated by boundary")
	}
	encoded = strings.ReplaceAll(encoded[:end], "\r\n", "")

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("attachment is not valid base64: %v", err)
	}
	if !strings.Contains(string(decoded), "BEGIN:VCALENDAR") {
		t.Fatalf("decoded attachment is not an ICS document:\n%s", decoded)
	}
	if !strings.Contains(string(decoded), "SUMMARY:Interview: Backend Engineer") {
		t.Fatalf("decoded attachment missing summary:\n%s", decoded)
	}
}

func TestWrapBase64Width(t *testing.T) {
	wrapped := wrapBase64(strings.Repeat("A", 200))

	for i, line := range strings.Split(wrapped, "\r\n") {
		if len(line) > 76 {
			t.Fatalf("line %d is %d chars, want <= 76", i, len(line))
		}
	}
}
