package onboarding

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxTextContactRows caps the contact table in plain-text output.
const MaxTextContactRows = 10

// RenderText formats a composed email as plain text.
// Section titles are upper-cased for the email language and underlined.
func RenderText(e Email) string {
	upper := cases.Upper(language.Make(e.Language))

	var parts []string
	for _, s := range e.Sections {
		var b strings.Builder
		if s.Title != "" {
			title := upper.String(s.Title)
			b.WriteString(title)
			b.WriteByte('\n')
			b.WriteString(strings.Repeat("-", utf8.RuneCountInString(title)))
			b.WriteString("\n\n")
		}
		blocks := make([]string, 0, len(s.Blocks))
		for _, blk := range s.Blocks {
			if out := textBlock(blk); out != "" {
				blocks = append(blocks, out)
			}
		}
		b.WriteString(strings.Join(blocks, "\n\n"))
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n\n") + "\n"
}

func textBlock(b Block) string {
	switch b.Kind {
	case BlockParagraph, BlockCode, BlockRaw:
		return b.Text
	case BlockLink:
		return b.Link.Text
	case BlockBullets:
		return textList(b.Items)
	case BlockLinks:
		items := make([]string, len(b.Links))
		for i, l := range b.Links {
			items[i] = l.Text
		}
		return textList(items)
	case BlockSignature:
		return strings.Join(b.Items, "\n")
	case BlockContacts:
		if b.Table == nil {
			return ""
		}
		return textContactTable(*b.Table)
	default:
		return ""
	}
}

func textList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

// textContactTable draws a pipe table with min(Limit, MaxTextContactRows)
// numbered rows, followed by the note when the plan allows more contacts.
func textContactTable(t ContactTable) string {
	rows := t.Limit.Cap(MaxTextContactRows)

	cells := make([][]string, 0, rows+1)
	cells = append(cells, t.Columns)
	for i := range rows {
		row := []string{strconv.Itoa(i + 1), "", "", "", ""}
		if i < len(t.Contacts) {
			c := t.Contacts[i]
			row[1], row[2], row[3], row[4] = c.DisplayName(), c.Email, c.Phone(), c.JobTitle
		}
		cells = append(cells, row)
	}

	widths := make([]int, len(t.Columns))
	for _, row := range cells {
		for j, cell := range row {
			widths[j] = max(widths[j], utf8.RuneCountInString(cell))
		}
	}
	for j := 1; j < len(widths); j++ {
		widths[j] = max(widths[j], 12)
	}

	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for j, cell := range row {
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[j]-utf8.RuneCountInString(cell)))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(cells[0])
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
	for _, row := range cells[1:] {
		writeRow(row)
	}

	out := strings.TrimSuffix(b.String(), "\n")
	if t.Limit.Exceeds(MaxTextContactRows) {
		out += "\n\n" + t.Note
	}
	return out
}
