package notify

import (
	"fmt"

	"github.com/hireloop-dev/hireloop/internal/models"
)

func applicationURL(id uint) string {
	return fmt.Sprintf("/applications/%d", id)
}

func manageApplicationURL(id uint) string {
	return fmt.Sprintf("/manage/applications/%d", id)
}

func jobURL(id uint) string {
	return fmt.Sprintf("/jobs/%d", id)
}

// ApplicationSubmitted informs a job's manager that a candidate applied.
type ApplicationSubmitted struct {
	Application models.Application
	Job         models.Job
	Candidate   models.User
}

func (n ApplicationSubmitted) Type() string { return "application.submitted" }

func (n ApplicationSubmitted) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast}
}

func (n ApplicationSubmitted) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &DatabasePayload{
		Title:     "New application",
		Message:   fmt.Sprintf("%s applied for %s.", n.Candidate.Name, n.Job.Title),
		ActionURL: manageApplicationURL(n.Application.ID),
		Fields: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_id":         n.Job.ID,
			"candidate":      n.Candidate.Name,
		},
	}, nil
}

func (n ApplicationSubmitted) Mail() (*MailMessage, error) { return nil, nil }

func (n ApplicationSubmitted) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &BroadcastPayload{
		Event: "application.submitted",
		Data: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_id":         n.Job.ID,
			"job_title":      n.Job.Title,
			"candidate":      n.Candidate.Name,
		},
	}, nil
}

// ApplicationReceived confirms to the candidate that the application went in.
type ApplicationReceived struct {
	Application models.Application
	Job         models.Job
}

func (n ApplicationReceived) Type() string { return "application.received" }

func (n ApplicationReceived) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelMail}
}

func (n ApplicationReceived) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &DatabasePayload{
		Title:     "Application received",
		Message:   fmt.Sprintf("Your application for %s was received.", n.Job.Title),
		ActionURL: applicationURL(n.Application.ID),
		Fields: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_id":         n.Job.ID,
		},
	}, nil
}

func (n ApplicationReceived) Mail() (*MailMessage, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &MailMessage{
		Subject:  fmt.Sprintf("Application received: %s", n.Job.Title),
		Greeting: "Hello,",
		Lines: []string{
			fmt.Sprintf("We received your application for %s.", n.Job.Title),
			"The hiring team will review it and keep you posted here.",
		},
		Action: &MailAction{Label: "View application", URL: applicationURL(n.Application.ID)},
	}, nil
}

func (n ApplicationReceived) Broadcast() (*BroadcastPayload, error) { return nil, nil }

// ApplicationStageUpdated tells the candidate their application moved to a
// different hiring stage. Stage names are snapshots taken at transition time.
type ApplicationStageUpdated struct {
	Application models.Application
	Job         models.Job
	OldStage    string
	NewStage    string
	UpdatedBy   string
}

func (n ApplicationStageUpdated) Type() string { return "application.stage_updated" }

func (n ApplicationStageUpdated) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast}
}

func (n ApplicationStageUpdated) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	message := fmt.Sprintf("Your application for %s moved to %s.", n.Job.Title, n.NewStage)
	if n.OldStage != "" {
		message = fmt.Sprintf("Your application for %s moved from %s to %s.", n.Job.Title, n.OldStage, n.NewStage)
	}
	return &DatabasePayload{
		Title:     "Application stage updated",
		Message:   message,
		ActionURL: applicationURL(n.Application.ID),
		Fields: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_id":         n.Job.ID,
			"old_stage":      n.OldStage,
			"new_stage":      n.NewStage,
			"updated_by":     n.UpdatedBy,
		},
	}, nil
}

func (n ApplicationStageUpdated) Mail() (*MailMessage, error) { return nil, nil }

func (n ApplicationStageUpdated) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &BroadcastPayload{
		Event: "application.stage_updated",
		Data: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_title":      n.Job.Title,
			"old_stage":      n.OldStage,
			"new_stage":      n.NewStage,
		},
	}, nil
}

// ApplicationStatusUpdated tells the candidate their application status
// changed. Old and new values are display strings captured at call time.
type ApplicationStatusUpdated struct {
	Application models.Application
	Job         models.Job
	OldStatus   string
	NewStatus   string
	UpdatedBy   string
}

func (n ApplicationStatusUpdated) Type() string { return "application.status_updated" }

func (n ApplicationStatusUpdated) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast}
}

func (n ApplicationStatusUpdated) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &DatabasePayload{
		Title:     "Application status updated",
		Message:   fmt.Sprintf("Your application for %s is now %q.", n.Job.Title, n.NewStatus),
		ActionURL: applicationURL(n.Application.ID),
		Fields: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_id":         n.Job.ID,
			"old_status":     n.OldStatus,
			"new_status":     n.NewStatus,
			"updated_by":     n.UpdatedBy,
		},
	}, nil
}

func (n ApplicationStatusUpdated) Mail() (*MailMessage, error) { return nil, nil }

func (n ApplicationStatusUpdated) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &BroadcastPayload{
		Event: "application.status_updated",
		Data: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_title":      n.Job.Title,
			"old_status":     n.OldStatus,
			"new_status":     n.NewStatus,
		},
	}, nil
}

// ApplicationAccepted congratulates the candidate.
type ApplicationAccepted struct {
	Application models.Application
	Job         models.Job
}

func (n ApplicationAccepted) Type() string { return "application.accepted" }

func (n ApplicationAccepted) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast, ChannelMail}
}

func (n ApplicationAccepted) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &DatabasePayload{
		Title:     "Application accepted",
		Message:   fmt.Sprintf("Congratulations! Your application for %s was accepted.", n.Job.Title),
		ActionURL: applicationURL(n.Application.ID),
		Fields: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_id":         n.Job.ID,
		},
	}, nil
}

func (n ApplicationAccepted) Mail() (*MailMessage, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &MailMessage{
		Subject:  fmt.Sprintf("Congratulations! %s", n.Job.Title),
		Greeting: "Congratulations!",
		Lines: []string{
			fmt.Sprintf("Your application for %s was accepted.", n.Job.Title),
			"The hiring team will reach out with next steps shortly.",
		},
		Action: &MailAction{Label: "View application", URL: applicationURL(n.Application.ID)},
	}, nil
}

func (n ApplicationAccepted) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &BroadcastPayload{
		Event: "application.accepted",
		Data: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_title":      n.Job.Title,
		},
	}, nil
}

// ApplicationRejected informs the candidate of a rejection.
type ApplicationRejected struct {
	Application models.Application
	Job         models.Job
}

func (n ApplicationRejected) Type() string { return "application.rejected" }

func (n ApplicationRejected) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelMail}
}

func (n ApplicationRejected) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &DatabasePayload{
		Title:     "Application update",
		Message:   fmt.Sprintf("Your application for %s was not successful this time.", n.Job.Title),
		ActionURL: applicationURL(n.Application.ID),
		Fields: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_id":         n.Job.ID,
		},
	}, nil
}

func (n ApplicationRejected) Mail() (*MailMessage, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &MailMessage{
		Subject:  fmt.Sprintf("Update on your application for %s", n.Job.Title),
		Greeting: "Hello,",
		Lines: []string{
			fmt.Sprintf("Thank you for your interest in %s.", n.Job.Title),
			"After careful consideration the team decided not to move forward with your application.",
			"We encourage you to apply for future openings that match your profile.",
		},
	}, nil
}

func (n ApplicationRejected) Broadcast() (*BroadcastPayload, error) { return nil, nil }

// CandidateWithdrawal alerts the job's manager(s) that a candidate withdrew.
type CandidateWithdrawal struct {
	Application models.Application
	Job         models.Job
	Candidate   models.User
	Reason      string
}

func (n CandidateWithdrawal) Type() string { return "application.withdrawn" }

func (n CandidateWithdrawal) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelBroadcast, ChannelMail}
}

func (n CandidateWithdrawal) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &DatabasePayload{
		Title:     "Candidate withdrew",
		Message:   fmt.Sprintf("%s withdrew their application for %s.", n.Candidate.Name, n.Job.Title),
		ActionURL: manageApplicationURL(n.Application.ID),
		Fields: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_id":         n.Job.ID,
			"candidate":      n.Candidate.Name,
			"reason":         n.Reason,
		},
	}, nil
}

func (n CandidateWithdrawal) Mail() (*MailMessage, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	lines := []string{
		fmt.Sprintf("%s has withdrawn their application for %s.", n.Candidate.Name, n.Job.Title),
	}
	if n.Reason != "" {
		lines = append(lines, fmt.Sprintf("Stated reason: %s", n.Reason))
	}
	return &MailMessage{
		Subject:  fmt.Sprintf("Candidate withdrawal: %s", n.Job.Title),
		Greeting: "Hello,",
		Lines:    lines,
		Action:   &MailAction{Label: "View application", URL: manageApplicationURL(n.Application.ID)},
	}, nil
}

func (n CandidateWithdrawal) Broadcast() (*BroadcastPayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &BroadcastPayload{
		Event: "application.withdrawn",
		Data: map[string]interface{}{
			"application_id": n.Application.ID,
			"job_title":      n.Job.Title,
			"candidate":      n.Candidate.Name,
			"reason":         n.Reason,
		},
	}, nil
}

// ApplicationNoteAdded tells a manager a colleague left a note on an
// application.
type ApplicationNoteAdded struct {
	Application models.Application
	Job         models.Job
	Author      string
	Note        string
}

func (n ApplicationNoteAdded) Type() string { return "application.note_added" }

func (n ApplicationNoteAdded) Channels() []Channel {
	return []Channel{ChannelDatabase}
}

func (n ApplicationNoteAdded) Database() (*DatabasePayload, error) {
	if n.Job.ID == 0 {
		return nil, danglingf("application %d has no job", n.Application.ID)
	}
	return &DatabasePayload{
		Title:     "New note on application",
		Message:   fmt.Sprintf("%s left a note on an application for %s.", n.Author, n.Job.Title),
		ActionURL: manageApplicationURL(n.Application.ID),
		Fields: map[string]interface{}{
			"application_id": n.Application.ID,
			"author":         n.Author,
			"note":           n.Note,
		},
	}, nil
}

func (n ApplicationNoteAdded) Mail() (*MailMessage, error) { return nil, nil }

func (n ApplicationNoteAdded) Broadcast() (*BroadcastPayload, error) { return nil, nil }
