package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/md-rashed-zaman/opscal/internal/dragstate"
	"github.com/md-rashed-zaman/opscal/internal/inspector"
	"github.com/md-rashed-zaman/opscal/internal/timegrid"
)

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	switch m.mode {
	case modeEditor:
		if m.form != nil {
			return m.renderEditor()
		}
	case modeConfirmDelete:
		return m.renderConfirm()
	}

	base := m.renderGridScreen()
	if m.mode == modeInspector && m.popover != nil {
		block := renderPopoverContent(m.popover.event)
		return overlay(base, block, m.popover.pos.X, m.popover.pos.Y)
	}
	return base
}

func (m Model) renderGridScreen() string {
	l := computeLayout(m.width, m.height, m.slotOffset)
	var b strings.Builder

	b.WriteString(m.renderTitleBar(l))
	b.WriteString("\n")
	b.WriteString(m.renderDayHeaders(l))
	b.WriteString("\n")

	grid := m.cal.Grid()
	days := m.cal.WeekDays()
	slots := timegrid.Slots()
	selFrom, selTo, selecting := m.cal.Drag.Selection()
	moveDest, moving := m.cal.Drag.MovePreview()

	sidebar := m.renderSidebarLines(l.rows)

	for row := 0; row < l.rows; row++ {
		slotIdx := l.slotOffset + row
		slot := slots[slotIdx]

		b.WriteString(padTo(sidebar[row], sidebarWidth))
		b.WriteString(m.renderSlotLabel(slot))

		for day := 0; day < timegrid.WorkDays; day++ {
			cell := dragstate.Cell{Day: day, Slot: slotIdx}
			text := padTo("", l.colWidth)

			events := grid.At(days[day], slot)
			if len(events) > 0 {
				e := events[0]
				label := e.Title
				if label == "" {
					label = e.Code
				}
				if len(events) > 1 {
					label = fmt.Sprintf("%s +%d", label, len(events)-1)
				}
				style := employeeCellStyle
				switch inspector.Categorize(e) {
				case inspector.CategoryAvailable:
					style = availableCellStyle
				case inspector.CategoryCustomer:
					style = customerCellStyle
				}
				text = style.Render(padTo(" "+label, l.colWidth))
			}

			if selecting && cellInRange(cell, selFrom, selTo) {
				text = dragSelectStyle.Render(padTo(" +", l.colWidth))
			}
			if moving && cell == moveDest {
				text = movePreviewStyle.Render(padTo(" ◆", l.colWidth))
			}

			b.WriteString(text)
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderTitleBar(l layout) string {
	days := m.cal.WeekDays()
	weekLabel := fmt.Sprintf("%s – %s",
		days[0].Format("Mon 02 Jan"),
		days[timegrid.WorkDays-1].Format("Mon 02 Jan 2006"))

	left := titleStyle.Render("opscal") + " " + headerStyle.Render(weekLabel)

	status := ""
	switch {
	case m.errText != "":
		status = errorStyle.Render(m.errText)
	case m.cal.Saving():
		status = savingStyle.Render("saving…")
	case m.cal.Loading():
		status = statusStyle.Render("loading…")
	default:
		status = statusStyle.Render(m.cal.Session().Name)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + status
}

func (m Model) renderDayHeaders(l layout) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", sidebarWidth+gutterWidth))

	today := m.now().In(m.cal.Location())
	for _, day := range m.cal.WeekDays() {
		style := dayHeaderStyle
		if timegrid.DayKey(day) == timegrid.DayKey(today) {
			style = todayHeaderStyle
		}
		b.WriteString(style.Width(l.colWidth).Render(day.Format("Mon 02")))
	}
	return b.String()
}

func (m Model) renderSlotLabel(slot timegrid.SlotTime) string {
	if slot.Minute == 0 {
		return hourRuleStyle.Render(padTo(fmt.Sprintf(" %02d:00", slot.Hour), gutterWidth))
	}
	return slotLabelStyle.Render(padTo(fmt.Sprintf("   :%02d", slot.Minute), gutterWidth))
}

func (m Model) renderSidebarLines(rows int) []string {
	lines := make([]string, rows)
	dir := m.cal.Directory()
	for i := 0; i < rows; i++ {
		e, ok := m.sidebarEntryAt(i)
		if !ok {
			lines[i] = ""
			continue
		}
		switch {
		case e.header:
			key := "e"
			if e.label == "Customers" {
				key = "c"
			}
			lines[i] = sidebarTitleStyle.Render(e.label) + helpStyle.Render(" ("+key+")")
		default:
			mark := "[ ]"
			style := personStyle
			if dir.IsSelected(e.personID) {
				mark = "[x]"
				style = personSelectedStyle
			}
			line := fmt.Sprintf(" %s %s", mark, e.label)
			if i == m.sidebarCursor {
				style = personCursorStyle
			}
			lines[i] = style.Render(truncate(line, sidebarWidth-1))
		}
	}
	return lines
}

func (m Model) renderHelpBar() string {
	return helpStyle.Render(" drag: create/move · click event: inspect · ←/→ week · t today · r reload · q quit")
}

func (m Model) renderConfirm() string {
	event, _ := m.cal.EventByID(m.deleteID)
	label := event.Title
	if label == "" {
		label = m.deleteID
	}
	body := modalTitleStyle.Render("Delete event") + "\n\n" +
		fmt.Sprintf("Delete %q? This cannot be undone.\n\n", label)
	if m.errText != "" {
		body += errorStyle.Render(m.errText) + "\n\n"
	}
	body += helpStyle.Render("y delete · n keep")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(body))
}

func cellInRange(c, from, to dragstate.Cell) bool {
	after := c.Day > from.Day || (c.Day == from.Day && c.Slot >= from.Slot)
	before := c.Day < to.Day || (c.Day == to.Day && c.Slot <= to.Slot)
	return after && before
}

func padTo(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return truncate(s, width)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width {
		runes = runes[:width]
	}
	return string(runes)
}
