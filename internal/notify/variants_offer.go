package notify

import (
	"fmt"
	"time"

	"github.com/hireloop-dev/hireloop/internal/models"
)

// JobOfferSent informs the candidate an offer is waiting for them.
type JobOfferSent struct {
	Application models.Application
	Job         models.Job
	SalaryMin   int64
	SalaryMax   int64
	ExpiresAt   *time.Time
}

func (n JobOfferSent) Type() string { return "offer.sent" }

func (n JobOfferSent) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast, ChannelMail}
}

func (n JobOfferSent) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	fields := map[string]interface{}{
		"application_id": n.Application.ID,
		"job_id":         n.Job.ID,
		"salary_min":     n.SalaryMin,
		"salary_max":     n.SalaryMax,
	}
	if n.ExpiresAt != nil {
		fields["expires_at"] = *n.ExpiresAt
	}
	return &DatabasePayload{
		Title:     "Job offer",
		Message:   fmt.Sprintf("You received an offer for %s.", n.Job.Title),
		ActionURL: applicationURL(n.Application.ID),
		Fields:    fields,
	}, nil
}

func (n JobOfferSent) Mail() (*MailMessage, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	lines := []string{
		fmt.Sprintf("Great news: you received an offer for %s.", n.Job.Title),
		"Compensation: " + formatSalaryRange(n.SalaryMin, n.SalaryMax),
	}
	if n.ExpiresAt != nil {
		lines = append(lines, fmt.Sprintf("This offer is valid until %s.", formatDate(*n.ExpiresAt)))
	}
	return &MailMessage{
		Subject:  fmt.Sprintf("Job offer: %s", n.Job.Title),
		Greeting: "Congratulations!",
		Lines:    lines,
		Action:   &MailAction{Label: "Review offer", URL: applicationURL(n.Application.ID)},
	}, nil
}

func (n JobOfferSent) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &BroadcastPayload{
		Event: "offer.sent",
		Data: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_title":      n.Job.Title,
		},
	}, nil
}

// JobOfferAccepted tells the manager the candidate took the offer.
type JobOfferAccepted struct {
	Application models.Application
	Job         models.Job
	Candidate   models.User
}

func (n JobOfferAccepted) Type() string { return "offer.accepted" }

func (n JobOfferAccepted) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast}
}

func (n JobOfferAccepted) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &DatabasePayload{
		Title:     "Offer accepted",
		Message:   fmt.Sprintf("%s accepted the offer for %s.", n.Candidate.Name, n.Job.Title),
		ActionURL: manageApplicationURL(n.Application.ID),
		Fields: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_id":         n.Job.ID,
			"candidate":      n.Candidate.Name,
		},
	}, nil
}

func (n JobOfferAccepted) Mail() (*MailMessage, error) { return nil, nil }

func (n JobOfferAccepted) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &BroadcastPayload{
		Event: "offer.accepted",
		Data: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_title":      n.Job.Title,
			"candidate":      n.Candidate.Name,
		},
	}, nil
}

// JobOfferDeclined tells the manager the candidate turned the offer down.
type JobOfferDeclined struct {
	Application models.Application
	Job         models.Job
	Candidate   models.User
	Reason      string
}

func (n JobOfferDeclined) Type() string { return "offer.declined" }

func (n JobOfferDeclined) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast}
}

func (n JobOfferDeclined) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &DatabasePayload{
		Title:     "Offer declined",
		Message:   fmt.Sprintf("%s declined the offer for %s.", n.Candidate.Name, n.Job.Title),
		ActionURL: manageApplicationURL(n.Application.ID),
		Fields: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_id":         n.Job.ID,
			"candidate":      n.Candidate.Name,
			"reason":         n.Reason,
		},
	}, nil
}

func (n JobOfferDeclined) Mail() (*MailMessage, error) { return nil, nil }

func (n JobOfferDeclined) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &BroadcastPayload{
		Event: "offer.declined",
		Data: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_title":      n.Job.Title,
			"candidate":      n.Candidate.Name,
		},
	}, nil
}

// JobOfferExpiring nudges the candidate before a pending offer lapses.
type JobOfferExpiring struct {
	Application   models.Application
	Job           models.Job
	DaysRemaining int
}

func (n JobOfferExpiring) Type() string { return "offer.expiring" }

func (n JobOfferExpiring) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelMail}
}

func (n JobOfferExpiring) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &DatabasePayload{
		Title:     "Offer expiring soon",
		Message:   fmt.Sprintf("Your offer for %s expires in %s.", n.Job.Title, pluralDays(n.DaysRemaining)),
		ActionURL: applicationURL(n.Application.ID),
		Fields: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_id":         n.Job.ID,
			"days_remaining": n.DaysRemaining,
		},
	}, nil
}

func (n JobOfferExpiring) Mail() (*MailMessage, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &MailMessage{
		Subject:  fmt.Sprintf("Your offer for %s expires in %s", n.Job.Title, pluralDays(n.DaysRemaining)),
		Greeting: "Hello,",
		Lines: []string{
			fmt.Sprintf("A reminder that your offer for %s expires in %s.", n.Job.Title, pluralDays(n.DaysRemaining)),
			"Please accept or decline it before then.",
		},
		Action: &MailAction{Label: "Review offer", URL: applicationURL(n.Application.ID)},
	}, nil
}

func (n JobOfferExpiring) Broadcast() (*BroadcastPayload, error) { return nil, nil }
