package notify

import (
	"fmt"

	"github.com/hireloop-dev/hireloop/internal/models"
)

func eventURL(id uint) string {
	return fmt.Sprintf("/events/%d", id)
}

func eventNoun(eventType string) string {
	switch eventType {
	case models.EventTypeInterview:
		return "interview"
	case models.EventTypeTest:
		return "assessment"
	case models.EventTypeMeeting:
		return "meeting"
	default:
		return "event"
	}
}

func eventPlace(event models.Event) string {
	if event.Location != "" {
		return event.Location
	}
	if event.MeetingLink != "" {
		return event.MeetingLink
	}
	return ""
}

// EventScheduled tells the candidate an interview/test/meeting was scheduled.
// Interview mail carries a calendar invite.
type EventScheduled struct {
	Event     models.Event
	Job       models.Job
	Organizer string
}

func (n EventScheduled) Type() string { return "event.scheduled" }

func (n EventScheduled) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast, ChannelMail}
}

func (n EventScheduled) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("event %d has no job", n.Event.ID)
	}
	return &DatabasePayload{
		Title:     fmt.Sprintf("%s scheduled", titleCase(eventNoun(n.Event.Type))),
		Message:   fmt.Sprintf("A %s for %s was scheduled for %s.", eventNoun(n.Event.Type), n.Job.Title, formatDateTime(n.Event.StartsAt)),
		ActionURL: eventURL(n.Event.ID),
		Fields: map[string]interface{}{
			"event_id":  n.Event.ID,
			"job_id":    n.Job.ID,
			"type":      n.Event.Type,
			"starts_at": n.Event.StartsAt,
			"ends_at":   n.Event.EndsAt,
			"place":     eventPlace(n.Event),
		},
	}, nil
}

func (n EventScheduled) Mail() (*MailMessage, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("event %d has no job", n.Event.ID)
	}

	lines := []string{
		fmt.Sprintf("A %s for %s has been scheduled.", eventNoun(n.Event.Type), n.Job.Title),
		"When: " + formatTimeRange(n.Event.StartsAt, n.Event.EndsAt),
	}
	if place := eventPlace(n.Event); place != "" {
		lines = append(lines, "Where: "+place)
	}
	if n.Event.Notes != "" {
		lines = append(lines, "Notes: "+n.Event.Notes)
	}

	msg := &MailMessage{
		Subject:  fmt.Sprintf("%s scheduled: %s", titleCase(eventNoun(n.Event.Type)), n.Job.Title),
		Greeting: "Hello,",
		Lines:    lines,
		Action:   &MailAction{Label: "View details", URL: eventURL(n.Event.ID)},
	}

	if n.Event.Type == models.EventTypeInterview {
		msg.Calendar = &CalendarInvite{
			EventID:     n.Event.ID,
			Start:       n.Event.StartsAt,
			End:         n.Event.EndsAt,
			Organizer:   n.Organizer,
			Summary:     fmt.Sprintf("Interview: %s", n.Job.Title),
			Description: n.Event.Notes,
			Location:    eventPlace(n.Event),
		}
	}

	return msg, nil
}

func (n EventScheduled) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("event %d has no job", n.Event.ID)
	}
	return &BroadcastPayload{
		Event: "event.scheduled",
		Data: map[string]interface{}{
			"event_id":  n.Event.ID,
			"job_title": n.Job.Title,
			"type":      n.Event.Type,
			"starts_at": n.Event.StartsAt,
		},
	}, nil
}

// EventStatusUpdated reports a lifecycle transition with human-readable
// labels captured at call time.
type EventStatusUpdated struct {
	Event     models.Event
	Job       models.Job
	OldStatus string
	NewStatus string
	UpdatedBy string
}

func (n EventStatusUpdated) Type() string { return "event.status_updated" }

func (n EventStatusUpdated) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast}
}

func (n EventStatusUpdated) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("event %d has no job", n.Event.ID)
	}
	return &DatabasePayload{
		Title:     fmt.Sprintf("%s %s", titleCase(eventNoun(n.Event.Type)), n.NewStatus),
		Message:   fmt.Sprintf("The %s for %s on %s is now %s.", eventNoun(n.Event.Type), n.Job.Title, formatDate(n.Event.StartsAt), n.NewStatus),
		ActionURL: eventURL(n.Event.ID),
		Fields: map[string]interface{}{
			"event_id":   n.Event.ID,
			"job_id":     n.Job.ID,
			"old_status": n.OldStatus,
			"new_status": n.NewStatus,
			"updated_by": n.UpdatedBy,
		},
	}, nil
}

func (n EventStatusUpdated) Mail() (*MailMessage, error) { return nil, nil }

func (n EventStatusUpdated) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("event %d has no job", n.Event.ID)
	}
	return &BroadcastPayload{
		Event: "event.status_updated",
		Data: map[string]interface{}{
			"event_id":   n.Event.ID,
			"job_title":  n.Job.Title,
			"old_status": n.OldStatus,
			"new_status": n.NewStatus,
		},
	}, nil
}

// EventCancelled is a first-class cancellation notice; its recipients and
// message differ from the generic status update.
type EventCancelled struct {
	Event  models.Event
	Job    models.Job
	Reason string
}

func (n EventCancelled) Type() string { return "event.cancelled" }

func (n EventCancelled) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast, ChannelMail}
}

func (n EventCancelled) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("event %d has no job", n.Event.ID)
	}
	return &DatabasePayload{
		Title:     fmt.Sprintf("%s cancelled", titleCase(eventNoun(n.Event.Type))),
		Message:   fmt.Sprintf("The %s for %s on %s was cancelled.", eventNoun(n.Event.Type), n.Job.Title, formatDate(n.Event.StartsAt)),
		ActionURL: eventURL(n.Event.ID),
		Fields: map[string]interface{}{
			"event_id": n.Event.ID,
			"job_id":   n.Job.ID,
			"reason":   n.Reason,
		},
	}, nil
}

func (n EventCancelled) Mail() (*MailMessage, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("event %d has no job", n.Event.ID)
	}
	lines := []string{
		fmt.Sprintf("The %s for %s scheduled for %s has been cancelled.", eventNoun(n.Event.Type), n.Job.Title, formatDateTime(n.Event.StartsAt)),
	}
	if n.Reason != "" {
		lines = append(lines, "Reason: "+n.Reason)
	}
	lines = append(lines, "The hiring team will contact you if a replacement is scheduled.")
	return &MailMessage{
		Subject:  fmt.Sprintf("%s cancelled: %s", titleCase(eventNoun(n.Event.Type)), n.Job.Title),
		Greeting: "Hello,",
		Lines:    lines,
	}, nil
}

func (n EventCancelled) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("event %d has no job", n.Event.ID)
	}
	return &BroadcastPayload{
		Event: "event.cancelled",
		Data: map[string]interface{}{
			"event_id":  n.Event.ID,
			"job_title": n.Job.Title,
			"reason":    n.Reason,
		},
	}, nil
}

// InterviewReminder fires shortly before an upcoming event starts.
type InterviewReminder struct {
	Event models.Event
	Job   models.Job
}

func (n InterviewReminder) Type() string { return "event.reminder" }

func (n InterviewReminder) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast}
}

func (n InterviewReminder) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("event %d has no job", n.Event.ID)
	}
	message := fmt.Sprintf("Your %s for %s starts at %s.", eventNoun(n.Event.Type), n.Job.Title, n.Event.StartsAt.Format("15:04 MST"))
	if place := eventPlace(n.Event); place != "" {
		message += " " + place
	}
	return &DatabasePayload{
		Title:     "Upcoming " + eventNoun(n.Event.Type),
		Message:   message,
		ActionURL: eventURL(n.Event.ID),
		Fields: map[string]interface{}{
			"event_id":  n.Event.ID,
			"job_id":    n.Job.ID,
			"starts_at": n.Event.StartsAt,
		},
	}, nil
}

func (n InterviewReminder) Mail() (*MailMessage, error) { return nil, nil }

func (n InterviewReminder) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("event %d has no job", n.Event.ID)
	}
	return &BroadcastPayload{
		Event: "event.reminder",
		Data: map[string]interface{}{
			"event_id":  n.Event.ID,
			"job_title": n.Job.Title,
			"starts_at": n.Event.StartsAt,
		},
	}, nil
}
