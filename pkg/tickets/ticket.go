package tickets

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/onboardkit/pkg/tier"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Ticket is a support request as stored by the ticket service.
type Ticket struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customerId"`
	TenantID    string    `json:"tenantId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Severity    string    `json:"severity"`
	Status      Status    `json:"status"`
	Requester   string    `json:"requester,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTicket is the body of a create request.
type NewTicket struct {
	CustomerID  string `json:"customerId"`
	TenantID    string `json:"tenantId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity"`
	Requester   string `json:"requester,omitempty"`
}

func (n NewTicket) validate() error {
	switch {
	case strings.TrimSpace(n.CustomerID) == "":
		return fmt.Errorf("%w: customer is required", ErrInvalidTicket)
	case strings.TrimSpace(n.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidTicket)
	case n.Severity == "":
		return fmt.Errorf("%w: severity is required", ErrInvalidTicket)
	}
	return nil
}

// Allowance summarizes what a tier still permits in the current period.
type Allowance struct {
	Tier      string     `json:"tier"`
	Included  tier.Quota `json:"included"`
	Used      int        `json:"used"`
	Remaining tier.Quota `json:"remaining"`
	Severity  []string   `json:"severityLevels"`
}

// Check reports whether another ticket of severity fits the allowance.
func (a Allowance) Check(severity string) error {
	if !slices.Contains(a.Severity, severity) {
		return fmt.Errorf("%w: %s does not include severity %s", ErrSeverityNotCovered, a.Tier, severity)
	}
	if !a.Remaining.IsUnlimited() && a.Remaining <= 0 {
		return fmt.Errorf("%w: %d of %s used", ErrQuotaExceeded, a.Used, a.Included)
	}
	return nil
}

// AllowanceFor counts the tickets created on or after since against t.
func AllowanceFor(t tier.Tier, list []Ticket, since time.Time) Allowance {
	used := 0
	for _, tk := range list {
		if !tk.CreatedAt.Before(since) {
			used++
		}
	}
	remaining := tier.Unlimited
	if !t.SupportRequestsIncluded.IsUnlimited() {
		remaining = tier.Quota(max(int(t.SupportRequestsIncluded)-used, 0))
	}
	return Allowance{
		Tier:      t.Key,
		Included:  t.SupportRequestsIncluded,
		Used:      used,
		Remaining: remaining,
		Severity:  slices.Clone(t.SeverityLevels),
	}
}

// PeriodStart is the first instant of the calendar year containing now, in
// now's location. Included support requests reset yearly.
func PeriodStart(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}
