package notify

import (
	"fmt"

	"github.com/hireloop-dev/hireloop/internal/models"
)

// JobPublished confirms to the posting manager that a job went live.
type JobPublished struct {
	Job models.Job
}

func (n JobPublished) Type() string { return "job.published" }

func (n JobPublished) Channels() []Channel {
	return []Channel{ChannelDatabase}
}

func (n JobPublished) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("job is missing")
	}
	return &DatabasePayload{
		Title:     "Job published",
		Message:   fmt.Sprintf("%s is now live and accepting applications.", n.Job.Title),
		ActionURL: jobURL(n.Job.ID),
		Fields: map[string]interface{}{
			"job_id": n.Job.ID,
			"salary": formatSalaryRange(n.Job.SalaryMin, n.Job.SalaryMax),
		},
	}, nil
}

func (n JobPublished) Mail() (*MailMessage, error) { return nil, nil }

func (n JobPublished) Broadcast() (*BroadcastPayload, error) { return nil, nil }

// JobPostingExpiring warns managers the posting closes soon.
type JobPostingExpiring struct {
	Job           models.Job
	DaysRemaining int
}

func (n JobPostingExpiring) Type() string { return "job.expiring" }

func (n JobPostingExpiring) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelMail}
}

func (n JobPostingExpiring) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("job is missing")
	}
	return &DatabasePayload{
		Title:     "Job posting expiring",
		Message:   fmt.Sprintf("The posting for %s expires in %s.", n.Job.Title, pluralDays(n.DaysRemaining)),
		ActionURL: jobURL(n.Job.ID),
		Fields: map[string]interface{}{
			"job_id":         n.Job.ID,
			"days_remaining": n.DaysRemaining,
		},
	}, nil
}

func (n JobPostingExpiring) Mail() (*MailMessage, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("job is missing")
	}
	return &MailMessage{
		Subject:  fmt.Sprintf("Posting for %s expires in %s", n.Job.Title, pluralDays(n.DaysRemaining)),
		Greeting: "Hello,",
		Lines: []string{
			fmt.Sprintf("The job posting for %s will expire in %s.", n.Job.Title, pluralDays(n.DaysRemaining)),
			"Extend the posting if you are still hiring for this role.",
		},
		Action: &MailAction{Label: "Manage posting", URL: jobURL(n.Job.ID)},
	}, nil
}

func (n JobPostingExpiring) Broadcast() (*BroadcastPayload, error) { return nil, nil }

// JobPostingExpired tells managers the posting was closed automatically.
type JobPostingExpired struct {
	Job models.Job
}

func (n JobPostingExpired) Type() string { return "job.expired" }

func (n JobPostingExpired) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelMail}
}

func (n JobPostingExpired) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("job is missing")
	}
	return &DatabasePayload{
		Title:     "Job posting expired",
		Message:   fmt.Sprintf("The posting for %s has expired and was closed.", n.Job.Title),
		ActionURL: jobURL(n.Job.ID),
		Fields: map[string]interface{}{
			"job_id": n.Job.ID,
		},
	}, nil
}

func (n JobPostingExpired) Mail() (*MailMessage, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("job is missing")
	}
	return &MailMessage{
		Subject:  fmt.Sprintf("Posting expired: %s", n.Job.Title),
		Greeting: "Hello,",
		Lines: []string{
			fmt.Sprintf("The job posting for %s reached its expiry date and was closed.", n.Job.Title),
			"Re-publish the posting to continue accepting applications.",
		},
		Action: &MailAction{Label: "Manage posting", URL: jobURL(n.Job.ID)},
	}, nil
}

func (n JobPostingExpired) Broadcast() (*BroadcastPayload, error) { return nil, nil }

// JobApplicationQuota notifies managers a posting crossed an application
// volume threshold.
type JobApplicationQuota struct {
	Job   models.Job
	Count int64
}

func (n JobApplicationQuota) Type() string { return "job.application_quota" }

func (n JobApplicationQuota) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast}
}

func (n JobApplicationQuota) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("job is missing")
	}
	return &DatabasePayload{
		Title:     "Application milestone",
		Message:   fmt.Sprintf("%s has received %d applications.", n.Job.Title, n.Count),
		ActionURL: jobURL(n.Job.ID),
		Fields: map[string]interface{}{
			"job_id": n.Job.ID,
			"count":  n.Count,
		},
	}, nil
}

func (n JobApplicationQuota) Mail() (*MailMessage, error) { return nil, nil }

func (n JobApplicationQuota) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("job is missing")
	}
	return &BroadcastPayload{
		Event: "job.application_quota",
		Data: map[string]interface{}{
			"job_id":    n.Job.ID,
			"job_title": n.Job.Title,
			"count":     n.Count,
		},
	}, nil
}
