package onboarding

import "github.com/dmitrymomot/onboardkit/pkg/tier"

// SectionKind identifies a logical part of the onboarding email.
type SectionKind string

const (
	SectionIntro             SectionKind = "intro"
	SectionTier              SectionKind = "tier"
	SectionTenants           SectionKind = "tenants"
	SectionContacts          SectionKind = "contacts"
	SectionMeeting           SectionKind = "meeting"
	SectionGDAP              SectionKind = "gdap"
	SectionRBAC              SectionKind = "rbac"
	SectionConditionalAccess SectionKind = "conditional_access"
	SectionNotes             SectionKind = "notes"
	SectionClosing           SectionKind = "closing"
)

// BlockKind identifies the content type of a Block.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockBullets   BlockKind = "bullets"
	BlockLink      BlockKind = "link"
	BlockLinks     BlockKind = "links"
	BlockContacts  BlockKind = "contacts"
	BlockCode      BlockKind = "code"
	BlockSignature BlockKind = "signature"
	BlockRaw       BlockKind = "raw"
)

// Link is text containing URL. Formatters render URL as a hyperlink where
// they can.
type Link struct {
	Text string
	URL  string
}

// ContactTable is a fill-in table of authorized contacts. Known contacts
// prefill the first rows. Each formatter caps the number of rows it prints
// and shows Note when Limit exceeds that cap.
type ContactTable struct {
	Columns  []string
	Contacts []ContactRecord
	Limit    tier.Quota
	Note     string
}

// Block is one piece of section content. Only the fields relevant to Kind
// are set.
type Block struct {
	Kind  BlockKind
	Text  string
	Items []string
	Link  Link
	Links []Link
	Table *ContactTable
}

// Section is one localized part of the email. It is the shared intermediate
// consumed by both RenderText and RenderHTML.
type Section struct {
	Kind   SectionKind
	Title  string
	Blocks []Block
	// Tier is set on the tier summary section only.
	Tier *tier.Tier
}

// Email is a composed, localized email ready for formatting.
type Email struct {
	Language string
	Subject  string
	Tier     tier.Tier
	Sections []Section
}

// Kinds lists the section kinds in order.
func (e Email) Kinds() []SectionKind {
	kinds := make([]SectionKind, len(e.Sections))
	for i, s := range e.Sections {
		kinds[i] = s.Kind
	}
	return kinds
}

// Has reports whether the email contains a section of kind.
func (e Email) Has(kind SectionKind) bool {
	for _, s := range e.Sections {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

func paragraph(text string) Block {
	return Block{Kind: BlockParagraph, Text: text}
}

func bullets(items ...string) Block {
	return Block{Kind: BlockBullets, Items: items}
}
