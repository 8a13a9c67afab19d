package notify

import (
	"fmt"

	"github.com/hireloop-dev/hireloop/internal/models"
)

// CompanyRegistered welcomes a newly registered company account.
type CompanyRegistered struct {
	Company models.Company
}

func (n CompanyRegistered) Type() string { return "company.registered" }

func (n CompanyRegistered) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelMail}
}

func (n CompanyRegistered) Database() (*DatabasePayload, error) {
	if n.Company.ID == 0 {
		return nil, danglingf("company is missing")
	}
	return &DatabasePayload{
		Title:   "Welcome to Hireloop",
		Message: fmt.Sprintf("%s was registered and is awaiting approval.", n.Company.Name),
		Fields: map[string]interface{}{
			"company_id": n.Company.ID,
		},
	}, nil
}

func (n CompanyRegistered) Mail() (*MailMessage, error) {
	if n.Company.ID == 0 {
		return nil, danglingf("company is missing")
	}
	return &MailMessage{
		Subject:  "Welcome to Hireloop",
		Greeting: "Welcome!",
		Lines: []string{
			fmt.Sprintf("%s has been registered on Hireloop.", n.Company.Name),
			"Our team will review the registration; you will be notified once it is approved.",
		},
	}, nil
}

func (n CompanyRegistered) Broadcast() (*BroadcastPayload, error) { return nil, nil }

// CompanyApproved tells company managers their account can post jobs.
type CompanyApproved struct {
	Company models.Company
}

func (n CompanyApproved) Type() string { return "company.approved" }

func (n CompanyApproved) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelMail}
}

func (n CompanyApproved) Database() (*DatabasePayload, error) {
	if n.Company.ID == 0 {
		return nil, danglingf("company is missing")
	}
	return &DatabasePayload{
		Title:   "Company approved",
		Message: fmt.Sprintf("%s was approved. You can now publish job postings.", n.Company.Name),
		Fields: map[string]interface{}{
			"company_id": n.Company.ID,
		},
	}, nil
}

func (n CompanyApproved) Mail() (*MailMessage, error) {
	if n.Company.ID == 0 {
		return nil, danglingf("company is missing")
	}
	return &MailMessage{
		Subject:  "Your company was approved",
		Greeting: "Hello,",
		Lines: []string{
			fmt.Sprintf("%s has been approved on Hireloop.", n.Company.Name),
			"You can now publish job postings and receive applications.",
		},
	}, nil
}

func (n CompanyApproved) Broadcast() (*BroadcastPayload, error) { return nil, nil }

// ProfileIncomplete reminds a candidate to finish their profile.
type ProfileIncomplete struct {
	CompletionPercent int
	MissingFields     []string
}

func (n ProfileIncomplete) Type() string { return "account.profile_incomplete" }

func (n ProfileIncomplete) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelMail}
}

func (n ProfileIncomplete) Database() (*DatabasePayload, error) {
	return &DatabasePayload{
		Title:     "Complete your profile",
		Message:   fmt.Sprintf("Your profile is %d%% complete. Complete it to improve your chances.", n.CompletionPercent),
		ActionURL: "/profile",
		Fields: map[string]interface{}{
			"completion_percent": n.CompletionPercent,
			"missing_fields":     n.MissingFields,
		},
	}, nil
}

func (n ProfileIncomplete) Mail() (*MailMessage, error) {
	lines := []string{
		fmt.Sprintf("Your Hireloop profile is %d%% complete.", n.CompletionPercent),
		"Recruiters are more likely to shortlist complete profiles.",
	}
	return &MailMessage{
		Subject:  "Complete your Hireloop profile",
		Greeting: "Hello,",
		Lines:    lines,
		Action:   &MailAction{Label: "Complete profile", URL: "/profile"},
	}, nil
}

func (n ProfileIncomplete) Broadcast() (*BroadcastPayload, error) { return nil, nil }

// PasswordChanged confirms a security-sensitive account change.
type PasswordChanged struct{}

func (n PasswordChanged) Type() string { return "account.password_changed" }

func (n PasswordChanged) Channels() []Channel {
	return []Channel{ChannelDatabase, ChannelMail}
}

func (n PasswordChanged) Database() (*DatabasePayload, error) {
	return &DatabasePayload{
		Title:   "Password changed",
		Message: "Your account password was changed.",
	}, nil
}

func (n PasswordChanged) Mail() (*MailMessage, error) {
	return &MailMessage{
		Subject:  "Your password was changed",
		Greeting: "Hello,",
		Lines: []string{
			"The password for your Hireloop account was just changed.",
			"If this was not you, reset your password immediately and contact support.",
		},
	}, nil
}

func (n PasswordChanged) Broadcast() (*BroadcastPayload, error) { return nil, nil }

// ReviewSubmitted tells company managers a candidate reviewed the company.
type ReviewSubmitted struct {
	Company  models.Company
	Reviewer string
	Rating   int
}

func (n ReviewSubmitted) Type() string { return "company.review_submitted" }

func (n ReviewSubmitted) Channels() []Channel {
	return []Channel{ChannelDatabase}
}

func (n ReviewSubmitted) Database() (*DatabasePayload, error) {
	if n.Company.ID == 0 {
		return nil, danglingf("company is missing")
	}
	return &DatabasePayload{
		Title:   "New company review",
		Message: fmt.Sprintf("%s left a %d-star review for %s.", n.Reviewer, n.Rating, n.Company.Name),
		Fields: map[string]interface{}{
			"company_id": n.Company.ID,
			"reviewer":   n.Reviewer,
			"rating":     n.Rating,
		},
	}, nil
}

func (n ReviewSubmitted) Mail() (*MailMessage, error) { return nil, nil }

func (n ReviewSubmitted) Broadcast() (*BroadcastPayload, error) { return nil, nil }
