package onboarding

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the calendar date format used across onboarding input.
const DateLayout = "2006-01-02"

// Date is a calendar date that decodes from "2006-01-02" or RFC 3339.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected %s", s, DateLayout)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	if node.Value == "" || node.Tag == "!!null" {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(node.Value)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// TenantRecord is a Microsoft tenant covered by the agreement.
type TenantRecord struct {
	ID                     string `json:"id,omitempty" yaml:"id,omitempty"`
	CompanyName            string `json:"companyName" yaml:"companyName"`
	TenantDomain           string `json:"tenantDomain,omitempty" yaml:"tenantDomain,omitempty"`
	MicrosoftTenantDomain  string `json:"microsoftTenantDomain,omitempty" yaml:"microsoftTenantDomain,omitempty"`
	ImplementationDeadline *Date  `json:"implementationDeadline,omitempty" yaml:"implementationDeadline,omitempty"`
	HasAzure               bool   `json:"hasAzure" yaml:"hasAzure"`
	GDAPLink               string `json:"gdapLink,omitempty" yaml:"gdapLink,omitempty"`
}

// ContactRecord is a person authorized to open support requests.
type ContactRecord struct {
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	FirstName     string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	Email         string `json:"email,omitempty" yaml:"email,omitempty"`
	BusinessPhone string `json:"businessPhone,omitempty" yaml:"businessPhone,omitempty"`
	MobilePhone   string `json:"mobilePhone,omitempty" yaml:"mobilePhone,omitempty"`
	TeamsAddress  string `json:"teamsAddress,omitempty" yaml:"teamsAddress,omitempty"`
	JobTitle      string `json:"jobTitle,omitempty" yaml:"jobTitle,omitempty"`
}

// DisplayName returns Name, or "First Last" when Name is empty.
func (c ContactRecord) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Phone prefers the business number.
func (c ContactRecord) Phone() string {
	if c.BusinessPhone != "" {
		return c.BusinessPhone
	}
	return c.MobilePhone
}

type GDAP struct {
	Checked  bool   `json:"checked" yaml:"checked"`
	Deadline string `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Roles    string `json:"roles,omitempty" yaml:"roles,omitempty"`
	Link     string `json:"link,omitempty" yaml:"link,omitempty"`
}

type RBAC struct {
	Checked       bool   `json:"checked" yaml:"checked"`
	Groups        string `json:"groups,omitempty" yaml:"groups,omitempty"`
	TenantID      string `json:"tenantId,omitempty" yaml:"tenantId,omitempty"`
	Azure         bool   `json:"azure" yaml:"azure"`
	M365          bool   `json:"m365" yaml:"m365"`
	IncludeScript bool   `json:"includeScript" yaml:"includeScript"`
}

type ConditionalAccess struct {
	Checked  bool `json:"checked" yaml:"checked"`
	MFA      bool `json:"mfa" yaml:"mfa"`
	Location bool `json:"location" yaml:"location"`
	Device   bool `json:"device" yaml:"device"`
	SignIn   bool `json:"signIn" yaml:"signIn"`
}

type AuthorizedContacts struct {
	Checked bool   `json:"checked" yaml:"checked"`
	Roles   string `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// FormData is the complete input of one render. Optional fields may be
// empty; renderers omit or blank them rather than failing.
type FormData struct {
	CompanyName        string             `json:"companyName" yaml:"companyName"`
	ContactName        string             `json:"contactName,omitempty" yaml:"contactName,omitempty"`
	ContactEmail       string             `json:"contactEmail,omitempty" yaml:"contactEmail,omitempty"`
	ProposedDate       string             `json:"proposedDate,omitempty" yaml:"proposedDate,omitempty"`
	TenantID           string             `json:"tenantId,omitempty" yaml:"tenantId,omitempty"`
	SelectedTier       string             `json:"selectedTier" yaml:"selectedTier"`
	EmailContacts      []ContactRecord    `json:"emailContacts,omitempty" yaml:"emailContacts,omitempty"`
	Tenants            []TenantRecord     `json:"tenants,omitempty" yaml:"tenants,omitempty"`
	To                 string             `json:"to,omitempty" yaml:"to,omitempty"`
	Cc                 string             `json:"cc,omitempty" yaml:"cc,omitempty"`
	Subject            string             `json:"subject,omitempty" yaml:"subject,omitempty"`
	GDAP               GDAP               `json:"gdap" yaml:"gdap"`
	RBAC               RBAC               `json:"rbac" yaml:"rbac"`
	ConditionalAccess  ConditionalAccess  `json:"conditionalAccess" yaml:"conditionalAccess"`
	AuthorizedContacts AuthorizedContacts `json:"authorizedContacts" yaml:"authorizedContacts"`
	MeetingDate        string             `json:"meetingDate,omitempty" yaml:"meetingDate,omitempty"`
	AdditionalNotes    string             `json:"additionalNotes,omitempty" yaml:"additionalNotes,omitempty"`
	SenderName         string             `json:"senderName,omitempty" yaml:"senderName,omitempty"`
	SenderTitle        string             `json:"senderTitle,omitempty" yaml:"senderTitle,omitempty"`
	SenderCompany      string             `json:"senderCompany,omitempty" yaml:"senderCompany,omitempty"`
	SenderContact      string             `json:"senderContact,omitempty" yaml:"senderContact,omitempty"`
	CurrentDate        string             `json:"currentDate,omitempty" yaml:"currentDate,omitempty"`
	Language           string             `json:"language,omitempty" yaml:"language,omitempty"`
}

// scriptTenantID picks the tenant used in the RBAC script.
func (d FormData) scriptTenantID() string {
	switch {
	case d.RBAC.TenantID != "":
		return d.RBAC.TenantID
	case d.TenantID != "":
		return d.TenantID
	}
	for _, t := range d.Tenants {
		if t.ID != "" {
			return t.ID
		}
	}
	return ""
}
