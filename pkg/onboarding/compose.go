package onboarding

import (
	"strings"

	"github.com/dmitrymomot/onboardkit/pkg/i18n"
	"github.com/dmitrymomot/onboardkit/pkg/tier"
)

// Compose resolves the tier and builds the ordered, localized section list.
// It fails only when the selected tier is not in the catalog.
func (e *Engine) Compose(data FormData) (Email, error) {
	t, err := e.catalog.Get(data.SelectedTier)
	if err != nil {
		return Email{}, err
	}

	c := composer{
		tr:      e.translator,
		lang:    e.language(data.Language),
		data:    data,
		tier:    t,
		tenants: tier.Truncate(data.Tenants, t.TenantsLimit),
	}

	sections := []Section{c.intro(), c.tierSummary()}
	if len(c.tenants) > 0 {
		sections = append(sections, c.tenantList())
	}
	if data.AuthorizedContacts.Checked {
		sections = append(sections, c.contacts())
	}
	if strings.TrimSpace(data.MeetingDate) != "" {
		sections = append(sections, c.meeting())
	}
	if data.GDAP.Checked {
		sections = append(sections, c.gdap())
	}
	if data.RBAC.Checked {
		sections = append(sections, c.rbac())
	}
	if data.ConditionalAccess.Checked {
		sections = append(sections, c.conditionalAccess())
	}
	if strings.TrimSpace(data.AdditionalNotes) != "" {
		sections = append(sections, c.notes())
	}
	sections = append(sections, c.closing())

	return Email{
		Language: c.lang,
		Subject:  e.subject(data, t, c.lang),
		Tier:     t,
		Sections: sections,
	}, nil
}

func (e *Engine) subject(data FormData, t tier.Tier, lang string) string {
	if data.Subject != "" {
		return data.Subject
	}
	return e.translator.T(lang, "subject", "company", data.CompanyName, "tier", t.Name)
}

type composer struct {
	tr      *i18n.Translator
	lang    string
	data    FormData
	tier    tier.Tier
	tenants []TenantRecord
}

func (c composer) t(key string, kv ...any) string {
	return c.tr.T(c.lang, key, kv...)
}

func (c composer) intro() Section {
	name := c.data.ContactName
	if name == "" {
		name = c.data.CompanyName
	}

	s := Section{Kind: SectionIntro}
	if c.data.CurrentDate != "" {
		s.Blocks = append(s.Blocks, paragraph(c.data.CurrentDate))
	}
	support := c.tr.Translate(c.lang, i18n.SupportTypeKey, i18n.Replacements{
		"tier":     c.tier.Key,
		"tierName": c.tier.Name,
		"company":  c.data.CompanyName,
	})
	s.Blocks = append(s.Blocks,
		paragraph(c.t("greeting", "name", name)),
		paragraph(c.t("intro", "senderCompany", c.data.SenderCompany, "company", c.data.CompanyName, "tier", c.tier.Name)),
		paragraph(support+" "+c.t("nextSteps")),
	)
	return s
}

func (c composer) tierSummary() Section {
	facts := []string{
		c.t("tier.hours", "hours", c.tier.SupportHours),
		c.t("tier.requests", "requests", c.tier.SupportRequestsIncluded.String()),
		c.t("tier.severities", "levels", strings.Join(c.tier.SeverityLevels, ", ")),
		c.t("tier.tenants", "limit", c.tier.TenantsLimit.String()),
	}
	if c.tier.CriticalSituation {
		facts = append(facts, c.t("tier.critical"))
	}

	t := c.tier
	s := Section{
		Kind:  SectionTier,
		Title: c.t("tier.header", "tier", t.Name),
		Tier:  &t,
	}
	if narrative := tier.Narrative(t.Key, c.lang); len(narrative) > 0 {
		s.Blocks = append(s.Blocks, bullets(narrative...))
	}
	s.Blocks = append(s.Blocks, bullets(facts...))
	return s
}

func (c composer) tenantList() Section {
	s := Section{
		Kind:   SectionTenants,
		Title:  c.t("tenants.header"),
		Blocks: []Block{paragraph(c.t("tenants.intro"))},
	}
	for _, tn := range c.tenants {
		var details []string
		if tn.TenantDomain != "" {
			details = append(details, c.t("tenants.domain", "domain", tn.TenantDomain))
		}
		if tn.MicrosoftTenantDomain != "" {
			details = append(details, c.t("tenants.microsoftDomain", "domain", tn.MicrosoftTenantDomain))
		}
		if tn.ID != "" {
			details = append(details, c.t("tenants.id", "id", tn.ID))
		}
		if tn.ImplementationDeadline != nil && !tn.ImplementationDeadline.IsZero() {
			details = append(details, c.t("tenants.deadline", "date", tn.ImplementationDeadline.String()))
		}
		if tn.HasAzure {
			details = append(details, c.t("tenants.azure"))
		}

		name := tn.CompanyName
		if name == "" {
			name = tn.TenantDomain
		}
		s.Blocks = append(s.Blocks, paragraph(name))
		if len(details) > 0 {
			s.Blocks = append(s.Blocks, bullets(details...))
		}
	}
	return s
}

func (c composer) contacts() Section {
	limit := c.tier.AuthorizedContactsLimit
	s := Section{
		Kind:  SectionContacts,
		Title: c.t("contacts.header"),
		Blocks: []Block{
			paragraph(c.t("contacts.intro", "company", c.data.CompanyName, "limit", limit.String())),
		},
	}
	if roles := c.data.AuthorizedContacts.Roles; roles != "" {
		s.Blocks = append(s.Blocks, paragraph(c.t("contacts.roles", "roles", roles)))
	}
	s.Blocks = append(s.Blocks, Block{
		Kind: BlockContacts,
		Table: &ContactTable{
			Columns: []string{
				"#",
				c.t("contacts.name"),
				c.t("contacts.email"),
				c.t("contacts.phone"),
				c.t("contacts.jobTitle"),
			},
			Contacts: tier.Truncate(c.data.EmailContacts, limit),
			Limit:    limit,
			Note:     c.t("contacts.more", "limit", limit.String()),
		},
	})
	return s
}

func (c composer) meeting() Section {
	return Section{
		Kind:   SectionMeeting,
		Title:  c.t("meeting.header"),
		Blocks: []Block{paragraph(c.t("meeting.body", "date", c.data.MeetingDate))},
	}
}

func (c composer) gdap() Section {
	g := c.data.GDAP
	s := Section{
		Kind:   SectionGDAP,
		Title:  c.t("gdap.header"),
		Blocks: []Block{paragraph(c.t("gdap.intro"))},
	}
	if g.Deadline != "" {
		s.Blocks = append(s.Blocks, paragraph(c.t("gdap.deadline", "deadline", g.Deadline)))
	}
	if g.Roles != "" {
		s.Blocks = append(s.Blocks, paragraph(c.t("gdap.roles", "roles", g.Roles)))
	}
	if g.Link != "" {
		s.Blocks = append(s.Blocks, Block{
			Kind: BlockLink,
			Link: Link{Text: c.t("gdap.link", "link", g.Link), URL: g.Link},
		})
	}

	var links []Link
	for _, tn := range c.tenants {
		if tn.GDAPLink == "" {
			continue
		}
		name := tn.CompanyName
		if name == "" {
			name = tn.TenantDomain
		}
		links = append(links, Link{Text: name + ": " + tn.GDAPLink, URL: tn.GDAPLink})
	}
	if len(links) > 0 {
		s.Blocks = append(s.Blocks,
			paragraph(c.t("gdap.tenantLinks")),
			Block{Kind: BlockLinks, Links: links},
		)
	}
	return s
}

func (c composer) rbac() Section {
	r := c.data.RBAC
	s := Section{
		Kind:   SectionRBAC,
		Title:  c.t("rbac.header"),
		Blocks: []Block{paragraph(c.t("rbac.intro"))},
	}
	if r.Groups != "" {
		s.Blocks = append(s.Blocks, paragraph(c.t("rbac.groups", "groups", r.Groups)))
	}

	var scopes []string
	if r.Azure {
		scopes = append(scopes, c.t("rbac.azure"))
	}
	if r.M365 {
		scopes = append(scopes, c.t("rbac.m365"))
	}
	if len(scopes) > 0 {
		s.Blocks = append(s.Blocks, bullets(scopes...))
	}

	tenantID := c.data.scriptTenantID()
	if tenantID != "" {
		s.Blocks = append(s.Blocks, paragraph(c.t("rbac.tenant", "tenantId", tenantID)))
	}
	if r.IncludeScript {
		s.Blocks = append(s.Blocks,
			paragraph(c.t("rbac.script")),
			Block{Kind: BlockCode, Text: RBACScript(tenantID)},
		)
	}
	return s
}

func (c composer) conditionalAccess() Section {
	ca := c.data.ConditionalAccess
	s := Section{
		Kind:   SectionConditionalAccess,
		Title:  c.t("conditionalAccess.header"),
		Blocks: []Block{paragraph(c.t("conditionalAccess.intro"))},
	}

	var items []string
	for _, f := range []struct {
		on  bool
		key string
	}{
		{ca.MFA, "conditionalAccess.mfa"},
		{ca.Location, "conditionalAccess.location"},
		{ca.Device, "conditionalAccess.device"},
		{ca.SignIn, "conditionalAccess.signIn"},
	} {
		if f.on {
			items = append(items, c.t(f.key))
		}
	}
	if len(items) > 0 {
		s.Blocks = append(s.Blocks, bullets(items...))
	}
	return s
}

func (c composer) notes() Section {
	return Section{
		Kind:   SectionNotes,
		Title:  c.t("notes.header"),
		Blocks: []Block{{Kind: BlockRaw, Text: c.data.AdditionalNotes}},
	}
}

func (c composer) closing() Section {
	signature := []string{c.t("closing.regards")}
	for _, line := range []string{c.data.SenderName, c.data.SenderTitle, c.data.SenderCompany, c.data.SenderContact} {
		if line != "" {
			signature = append(signature, line)
		}
	}
	return Section{
		Kind: SectionClosing,
		Blocks: []Block{
			paragraph(c.t("closing.body")),
			{Kind: BlockSignature, Items: signature},
		},
	}
}
