package onboarding

import (
	"fmt"

	"github.com/dmitrymomot/onboardkit/pkg/sanitizer"
	"github.com/dmitrymomot/onboardkit/pkg/validator"
)

// Normalize returns a copy with whitespace trimmed, emails lowercased and
// header-bound fields collapsed to a single line. Notes keep their line
// breaks. Links that are not absolute http(s) URLs are blanked so the
// renderers omit them.
func (d FormData) Normalize() FormData {
	line := func(s string) string { return sanitizer.Apply(s, sanitizer.StripControl, sanitizer.SingleLine) }

	d.CompanyName = line(d.CompanyName)
	d.ContactName = line(d.ContactName)
	d.ContactEmail = sanitizer.NormalizeEmail(d.ContactEmail)
	d.SelectedTier = sanitizer.Trim(d.SelectedTier)
	d.TenantID = sanitizer.Trim(d.TenantID)
	d.To = line(d.To)
	d.Cc = line(d.Cc)
	d.Subject = line(d.Subject)
	d.GDAP.Link = sanitizer.HTTPURL(d.GDAP.Link)
	d.RBAC.TenantID = sanitizer.Trim(d.RBAC.TenantID)
	d.AdditionalNotes = sanitizer.Apply(d.AdditionalNotes, sanitizer.NormalizeNewlines, sanitizer.StripControl)
	d.Language = sanitizer.Trim(d.Language)

	if d.EmailContacts != nil {
		contacts := make([]ContactRecord, len(d.EmailContacts))
		for i, c := range d.EmailContacts {
			c.Name = line(c.Name)
			c.FirstName = line(c.FirstName)
			c.LastName = line(c.LastName)
			c.Email = sanitizer.NormalizeEmail(c.Email)
			contacts[i] = c
		}
		d.EmailContacts = contacts
	}
	if d.Tenants != nil {
		tenants := make([]TenantRecord, len(d.Tenants))
		for i, t := range d.Tenants {
			t.ID = sanitizer.Trim(t.ID)
			t.CompanyName = line(t.CompanyName)
			t.TenantDomain = sanitizer.Trim(t.TenantDomain)
			t.MicrosoftTenantDomain = sanitizer.Trim(t.MicrosoftTenantDomain)
			t.GDAPLink = sanitizer.HTTPURL(t.GDAPLink)
			tenants[i] = t
		}
		d.Tenants = tenants
	}
	return d
}

// Validate checks the shape of the input at the API and CLI boundary.
// Tier existence is not checked here; rendering reports unknown tiers.
// Free-text optional fields (tenant IDs, domains, links) are never rejected.
func (d FormData) Validate(languages ...string) error {
	rules := validator.Each(
		[]validator.Rule{
			validator.Required("companyName", d.CompanyName),
			validator.MaxLen("companyName", d.CompanyName, 200),
			validator.Required("selectedTier", d.SelectedTier),
			validator.ValidEmail("contactEmail", d.ContactEmail),
			validator.ValidEmailList("to", d.To),
			validator.ValidEmailList("cc", d.Cc),
			validator.MaxLen("subject", d.Subject, 255),
			validator.MaxLen("additionalNotes", d.AdditionalNotes, 10000),
		},
		validator.When(d.Language != "" && len(languages) > 0, validator.OneOf("language", d.Language, languages...)),
	)
	for i, c := range d.EmailContacts {
		rules = append(rules, validator.ValidEmail(fmt.Sprintf("emailContacts[%d].email", i), c.Email))
	}

	return validator.Apply(rules...)
}
