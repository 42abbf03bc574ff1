package crm

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/onboardkit/pkg/onboarding"
	"github.com/dmitrymomot/onboardkit/pkg/tier"
)

// Customer is a CRM record.
type Customer struct {
	ID           string                     `json:"id"`
	CompanyName  string                     `json:"companyName"`
	ContactName  string                     `json:"contactName,omitempty"`
	ContactEmail string                     `json:"contactEmail,omitempty"`
	TenantID     string                     `json:"tenantId,omitempty"`
	Tier         string                     `json:"tier"`
	Language     string                     `json:"language,omitempty"`
	Tenants      []onboarding.TenantRecord  `json:"tenants,omitempty"`
	Contacts     []onboarding.ContactRecord `json:"contacts,omitempty"`
	Notes        string                     `json:"notes,omitempty"`
	CreatedAt    time.Time                  `json:"createdAt"`
	UpdatedAt    time.Time                  `json:"updatedAt"`

	// ETag of the stored document; set by the repository, never persisted.
	ETag string `json:"-"`
}

// ApplyTier switches the customer to t and truncates tenants and contacts to
// its limits.
func (c *Customer) ApplyTier(t tier.Tier) {
	c.Tier = t.Key
	c.Tenants = tier.Truncate(c.Tenants, t.TenantsLimit)
	c.Contacts = tier.Truncate(c.Contacts, t.AuthorizedContactsLimit)
}

// FormData prefills the onboarding form from the record.
func (c Customer) FormData() onboarding.FormData {
	return onboarding.FormData{
		CompanyName:   c.CompanyName,
		ContactName:   c.ContactName,
		ContactEmail:  c.ContactEmail,
		TenantID:      c.TenantID,
		SelectedTier:  c.Tier,
		EmailContacts: append([]onboarding.ContactRecord(nil), c.Contacts...),
		Tenants:       append([]onboarding.TenantRecord(nil), c.Tenants...),
		To:            c.ContactEmail,
		Language:      c.Language,
		AuthorizedContacts: onboarding.AuthorizedContacts{
			Checked: len(c.Contacts) > 0,
		},
	}
}

func (c Customer) validate(catalog *tier.Catalog) error {
	if strings.TrimSpace(c.CompanyName) == "" {
		return fmt.Errorf("%w: company name is required", ErrInvalidCustomer)
	}
	if _, err := catalog.Get(c.Tier); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCustomer, err)
	}
	return nil
}
