package onboarding

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// MaxHTMLContactRows caps the contact table in HTML output.
const MaxHTMLContactRows = 20

const fallbackTierColor = "#4a5568"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

const emailStyles = `body{margin:0;padding:0;background:#f5f6f8;font-family:Segoe UI,Arial,Helvetica,sans-serif;font-size:14px;line-height:1.5;color:#1f2933}
.container{max-width:720px;margin:0 auto;padding:24px;background:#ffffff}
.section{margin:0 0 24px 0}
h2{font-size:16px;margin:0 0 12px 0;padding-bottom:4px;border-bottom:1px solid #d9dde3;color:#102a43}
p{margin:0 0 12px 0}
ul{margin:0 0 12px 0;padding-left:20px}
a{color:#0b5cad}
.tier-header{width:100%;border-collapse:collapse;margin:0 0 12px 0}
.tier-header td{padding:12px 16px;font-size:18px;font-weight:bold;color:#1f2933}
.tier-platinum td,.tier-gold td,.tier-silver td{color:#1f2933}
.tier-bronze td{color:#ffffff}
table.contacts{width:100%;border-collapse:collapse;margin:0 0 12px 0}
table.contacts th,table.contacts td{border:1px solid #bcccdc;padding:6px 8px;text-align:left;font-size:13px}
table.contacts th{background:#f0f4f8}
.code-block{font-family:Consolas,Courier New,monospace;font-size:12px;background:#f4f4f4;border:1px solid #d9dde3;padding:12px;margin:0 0 12px 0;white-space:pre;overflow-x:auto}
.code-block pre{margin:0;font-family:inherit}
.note{font-size:13px;color:#52606d}
.notes{white-space:pre-wrap}
.signature{margin-top:12px}`

// RenderHTML formats a composed email as a self-contained HTML document.
func RenderHTML(ctx context.Context, e Email) (string, error) {
	var sb strings.Builder
	if err := EmailDocument(e).Render(ctx, &sb); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return sb.String(), nil
}

// EmailDocument is the templ component for the full HTML email: the head
// with inline styles, one SectionComponent per section and the closing tags.
func EmailDocument(e Email) templ.Component {
	parts := make([]templ.Component, 0, len(e.Sections)+2)
	parts = append(parts, documentHead(e.Language, e.Subject))
	for _, s := range e.Sections {
		parts = append(parts, SectionComponent(s))
	}
	parts = append(parts, templ.Raw("</div>\n</body>\n</html>\n"))
	return templ.Join(parts...)
}

func documentHead(lang, title string) templ.Component {
	return markup(func(hw *htmlWriter) {
		hw.raw("<!DOCTYPE html>\n<html lang=\"")
		hw.text(lang)
		hw.raw("\">\n<head>\n<meta charset=\"utf-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n<title>")
		hw.text(title)
		hw.raw("</title>\n<style>\n")
		hw.raw(emailStyles)
		hw.raw("\n</style>\n</head>\n<body>\n<div class=\"container\">\n")
	})
}

// SectionComponent renders one section as a div carrying
// data-section="<kind>", its heading and its blocks.
func SectionComponent(s Section) templ.Component {
	parts := make([]templ.Component, 0, len(s.Blocks)+3)
	parts = append(parts, sectionOpen(s.Kind))
	switch {
	case s.Tier != nil:
		parts = append(parts, tierHeader(s.Title, s.Tier.CSSClass(), s.Tier.Color))
	case s.Title != "":
		parts = append(parts, heading(s.Title))
	}
	for _, b := range s.Blocks {
		parts = append(parts, BlockComponent(b))
	}
	parts = append(parts, templ.Raw("</div>\n"))
	return templ.Join(parts...)
}

func sectionOpen(kind SectionKind) templ.Component {
	return markup(func(hw *htmlWriter) {
		hw.raw(`<div class="section section-` + strings.ReplaceAll(string(kind), "_", "-") + `" data-section="`)
		hw.text(string(kind))
		hw.raw("\">\n")
	})
}

// tierHeader is a one-cell table strip in the tier color. Colors that are
// not hex fall back to grey.
func tierHeader(title, class, color string) templ.Component {
	if !hexColor.MatchString(color) {
		color = fallbackTierColor
	}
	return markup(func(hw *htmlWriter) {
		hw.raw(`<table class="tier-header ` + templ.EscapeString(class) +
			`" role="presentation" width="100%" cellpadding="0" cellspacing="0" border="0"><tr><td bgcolor="` +
			color + `" style="background-color:` + color + `;">`)
		hw.text(title)
		hw.raw("</td></tr></table>\n")
	})
}

func heading(title string) templ.Component {
	return markup(func(hw *htmlWriter) {
		hw.raw("<h2>")
		hw.text(title)
		hw.raw("</h2>\n")
	})
}

// BlockComponent renders one content block. Unknown kinds render nothing.
func BlockComponent(b Block) templ.Component {
	switch b.Kind {
	case BlockParagraph:
		return paragraphHTML(b.Text)
	case BlockRaw:
		return notes(b.Text)
	case BlockLink:
		return linkParagraph(b.Link)
	case BlockBullets:
		return bulletList(b.Items)
	case BlockLinks:
		return linkList(b.Links)
	case BlockCode:
		return codeBlock(b.Text)
	case BlockSignature:
		return signature(b.Items)
	case BlockContacts:
		if b.Table != nil {
			return contactTable(*b.Table)
		}
	}
	return templ.NopComponent
}

func paragraphHTML(text string) templ.Component {
	return markup(func(hw *htmlWriter) {
		hw.raw("<p>")
		hw.text(text)
		hw.raw("</p>\n")
	})
}

// notes keeps the author's line breaks.
func notes(text string) templ.Component {
	return markup(func(hw *htmlWriter) {
		hw.raw(`<p class="notes">`)
		hw.raw(strings.ReplaceAll(templ.EscapeString(text), "\n", "<br>\n"))
		hw.raw("</p>\n")
	})
}

func linkParagraph(l Link) templ.Component {
	return markup(func(hw *htmlWriter) {
		hw.raw("<p>")
		hw.link(l)
		hw.raw("</p>\n")
	})
}

func bulletList(items []string) templ.Component {
	return markup(func(hw *htmlWriter) {
		hw.raw("<ul>\n")
		for _, item := range items {
			hw.raw("<li>")
			hw.text(item)
			hw.raw("</li>\n")
		}
		hw.raw("</ul>\n")
	})
}

func linkList(links []Link) templ.Component {
	return markup(func(hw *htmlWriter) {
		hw.raw("<ul>\n")
		for _, l := range links {
			hw.raw("<li>")
			hw.link(l)
			hw.raw("</li>\n")
		}
		hw.raw("</ul>\n")
	})
}

func codeBlock(code string) templ.Component {
	return markup(func(hw *htmlWriter) {
		hw.raw(`<div class="code-block"><pre>`)
		hw.text(code)
		hw.raw("</pre></div>\n")
	})
}

func signature(lines []string) templ.Component {
	return markup(func(hw *htmlWriter) {
		hw.raw(`<p class="signature">`)
		for i, line := range lines {
			if i > 0 {
				hw.raw("<br>\n")
			}
			hw.text(line)
		}
		hw.raw("</p>\n")
	})
}

// contactTable writes min(Limit, MaxHTMLContactRows) rows. Unknown
// contacts leave non-breaking-space cells for manual fill-in.
func contactTable(t ContactTable) templ.Component {
	return markup(func(hw *htmlWriter) {
		hw.raw(`<table class="contacts" role="presentation" width="100%" cellpadding="0" cellspacing="0">` + "\n<tr>")
		for _, col := range t.Columns {
			hw.raw("<th>")
			hw.text(col)
			hw.raw("</th>")
		}
		hw.raw("</tr>\n")

		cell := func(v string) {
			hw.raw("<td>")
			if v == "" {
				hw.raw("&nbsp;")
			} else {
				hw.text(v)
			}
			hw.raw("</td>")
		}

		rows := t.Limit.Cap(MaxHTMLContactRows)
		for i := range rows {
			hw.raw(`<tr class="contact-row">`)
			cell(strconv.Itoa(i + 1))
			var c ContactRecord
			if i < len(t.Contacts) {
				c = t.Contacts[i]
			}
			cell(c.DisplayName())
			cell(c.Email)
			cell(c.Phone())
			cell(c.JobTitle)
			hw.raw("</tr>\n")
		}
		hw.raw("</table>\n")

		if t.Limit.Exceeds(MaxHTMLContactRows) {
			hw.raw(`<p class="note"><em>`)
			hw.text(t.Note)
			hw.raw("</em></p>\n")
		}
	})
}

// markup adapts a writer callback to a templ.Component.
func markup(fn func(hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		fn(hw)
		return hw.err
	})
}

// htmlWriter records the first write error and skips later writes.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// link renders l.Text with the first occurrence of l.URL as an anchor.
func (h *htmlWriter) link(l Link) {
	before, after, found := strings.Cut(l.Text, l.URL)
	if !found || l.URL == "" {
		h.text(l.Text)
		return
	}
	h.text(before)
	h.raw(`<a href="`)
	h.text(string(templ.URL(l.URL)))
	h.raw(`">`)
	h.text(l.URL)
	h.raw("</a>")
	h.text(after)
}
