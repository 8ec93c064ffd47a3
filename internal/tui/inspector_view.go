package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/md-rashed-zaman/opscal/internal/inspector"
	"github.com/md-rashed-zaman/opscal/internal/model"
)

const popoverWidth = 44

// popoverSize estimates the rendered footprint before placement so the
// popover can be flipped and clamped against the viewport.
func popoverSize(event model.Event) inspector.Size {
	lines := 5 // title, code, time, owner, help
	if event.EventType != "" {
		lines++
	}
	if event.PlatformProvider != "" || event.Address != "" {
		lines++
	}
	if event.Instructions != "" {
		lines++
	}
	if n := len(event.Organizers); n > 0 {
		lines += 1 + n
	}
	if n := len(event.Attendees); n > 0 {
		lines += 1 + n
	}
	// Border and padding from popoverStyle.
	return inspector.Size{W: popoverWidth + 4, H: lines + 2}
}

func renderPopoverContent(event model.Event) string {
	var b strings.Builder

	title := event.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(modalTitleStyle.Render(title))
	if event.Code != "" {
		b.WriteString("  " + helpStyle.Render(event.Code))
	}
	b.WriteString("\n")

	switch inspector.Categorize(event) {
	case inspector.CategoryAvailable:
		b.WriteString(availableCellStyle.Render(" open slot "))
	case inspector.CategoryEmployee:
		b.WriteString(employeeCellStyle.Render(" employee booking "))
	case inspector.CategoryCustomer:
		b.WriteString(customerCellStyle.Render(" customer booking "))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s – %s (%s)\n",
		event.FromTs.Format("Mon 02 Jan 15:04"),
		event.ToTs.Format("15:04"),
		event.Timezone))

	if event.EventType != "" {
		b.WriteString(fieldLabelStyle.Render("Type  ") + string(event.EventType) + "\n")
	}
	if event.EventType == model.EventVirtual && event.PlatformProvider != "" {
		b.WriteString(fieldLabelStyle.Render("Via   ") + event.PlatformProvider + "\n")
	} else if event.Address != "" {
		b.WriteString(fieldLabelStyle.Render("Where ") + event.Address + "\n")
	}
	if event.Instructions != "" {
		b.WriteString(fieldLabelStyle.Render("Notes ") + event.Instructions + "\n")
	}

	if len(event.Organizers) > 0 {
		b.WriteString(fieldLabelStyle.Render("Organizers") + "\n")
		for _, org := range event.Organizers {
			b.WriteString("  " + org.Name + "\n")
		}
	}
	if len(event.Attendees) > 0 {
		b.WriteString(fieldLabelStyle.Render("Attendees") + "\n")
		for _, att := range event.Attendees {
			b.WriteString(fmt.Sprintf("  %s (%s)\n", att.PersonEntityID, att.RSVPStatus))
		}
	}

	b.WriteString(helpStyle.Render("e edit · d delete · esc close"))
	return popoverStyle.Width(popoverWidth).Render(b.String())
}

// overlay paints block on top of base at (x, y). Lines of base beyond
// the block are kept as-is; ANSI sequences inside the overlaid region
// are discarded with it.
func overlay(base, block string, x, y int) string {
	baseLines := strings.Split(base, "\n")
	blockLines := strings.Split(block, "\n")

	for i, bl := range blockLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		line := baseLines[row]
		prefix := truncateANSI(line, x)
		pad := x - lipgloss.Width(prefix)
		if pad < 0 {
			pad = 0
		}
		suffixStart := x + lipgloss.Width(bl)
		suffix := skipANSI(line, suffixStart)
		baseLines[row] = prefix + strings.Repeat(" ", pad) + bl + suffix
	}
	return strings.Join(baseLines, "\n")
}

// truncateANSI keeps the first width visible columns of a styled line,
// dropping any escape sequences after the cut.
func truncateANSI(s string, width int) string {
	return ansiSlice(s, 0, width)
}

// skipANSI drops the first width visible columns and returns the rest,
// unstyled.
func skipANSI(s string, width int) string {
	return ansiSlice(s, width, -1)
}

// ansiSlice extracts visible columns [from, to) of a styled line as
// plain text. to < 0 means to the end.
func ansiSlice(s string, from, to int) string {
	var b strings.Builder
	col := 0
	inEscape := false
	for _, r := range s {
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if col >= from && (to < 0 || col < to) {
			b.WriteRune(r)
		}
		col++
	}
	return b.String()
}
