package models

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Phone Screen", "phone-screen"},
		{"  Final Round  ", "final-round"},
		{"On-site / Panel", "on-site-panel"},
		{"HR Chat!", "hr-chat"},
	}

	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Fatalf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestApplicationStatusValidation(t *testing.T) {
	for _, status := range ApplicationStatuses {
		if !IsValidApplicationStatus(status) {
			t.Fatalf("%q should be valid", status)
		}
	}
	for _, status := range []string{"", "hired", "NEW", "in_progress"} {
		if IsValidApplicationStatus(status) {
			t.Fatalf("%q should be invalid", status)
		}
	}
}

func TestApplicationTerminality(t *testing.T) {
	for _, status := range ApplicationStatuses {
		app := Application{Status: status}
		want := status == ApplicationStatusWithdrawn
		if got := app.IsTerminal(); got != want {
			t.Fatalf("IsTerminal() with status %q = %v, want %v", status, got, want)
		}
	}
}

func TestJobIsActiveDerivesFromStatus(t *testing.T) {
	cases := map[string]bool{
		JobStatusDraft:  false,
		JobStatusActive: true,
		JobStatusClosed: false,
	}

	for status, want := range cases {
		job := Job{Status: status}
		if got := job.IsActive(); got != want {
			t.Fatalf("IsActive() with status %q = %v, want %v", status, got, want)
		}
	}
}

func TestEventTypeValidation(t *testing.T) {
	for _, eventType := range EventTypes {
		if !IsValidEventType(eventType) {
			t.Fatalf("%q should be valid", eventType)
		}
	}
	if IsValidEventType("standup") {
		t.Fatalf("standup should be invalid")
	}
}

func TestEventStatusValidation(t *testing.T) {
	for _, status := range EventStatuses {
		if !IsValidEventStatus(status) {
			t.Fatalf("%q should be valid", status)
		}
	}
	for _, status := range []string{"", "on-hold", "SCHEDULED"} {
		if IsValidEventStatus(status) {
			t.Fatalf("%q should be invalid", status)
		}
	}
}

func TestEventCancellationIsTerminalOnly(t *testing.T) {
	for _, status := range []string{
		EventStatusScheduled,
		EventStatusConfirmed,
		EventStatusCompleted,
		EventStatusRescheduled,
	} {
		if (Event{Status: status}).IsCancelled() {
			t.Fatalf("%q should not read as cancelled", status)
		}
	}
	if !(Event{Status: EventStatusCancelled}).IsCancelled() {
		t.Fatalf("cancelled should read as cancelled")
	}
}
