package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/md-rashed-zaman/opscal/internal/editor"
	"github.com/md-rashed-zaman/opscal/internal/model"
)

const timeLayout = "2006-01-02 15:04"

// Ordered focus stops inside the editor modal. The organizer list sits
// after the text inputs in the tab cycle.
const (
	fieldTitle = iota
	fieldFrom
	fieldTo
	fieldPlatform
	fieldAddress
	fieldInstructions
	textFieldCount
)

// editorForm wraps the headless form with text inputs and a focus
// cycle for the modal.
type editorForm struct {
	form      *editor.Form
	inputs    [textFieldCount]textinput.Model
	employees []model.Person // organizer candidates
	people    []model.Person // attendee candidates, directory order

	focus int // text inputs, then organizer rows, then attendee rows
}

func newEditorForm(form *editor.Form, employees, people []model.Person) *editorForm {
	e := &editorForm{form: form, employees: employees, people: people}

	mk := func(placeholder string, width int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = 200
		in.Width = width
		return in
	}
	e.inputs[fieldTitle] = mk("Title", 40)
	e.inputs[fieldFrom] = mk(timeLayout, 20)
	e.inputs[fieldTo] = mk(timeLayout, 20)
	e.inputs[fieldPlatform] = mk("Platform (virtual)", 24)
	e.inputs[fieldAddress] = mk("Address (onsite)", 40)
	e.inputs[fieldInstructions] = mk("Instructions", 40)

	e.inputs[fieldTitle].SetValue(form.Title)
	if !form.From.IsZero() {
		e.inputs[fieldFrom].SetValue(form.From.Format(timeLayout))
	}
	if !form.To.IsZero() {
		e.inputs[fieldTo].SetValue(form.To.Format(timeLayout))
	}
	e.inputs[fieldPlatform].SetValue(form.PlatformProvider)
	e.inputs[fieldAddress].SetValue(form.Address)
	e.inputs[fieldInstructions].SetValue(form.Instructions)

	e.inputs[fieldTitle].Focus()
	return e
}

func (e *editorForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (e *editorForm) totalStops() int {
	return textFieldCount + len(e.employees) + len(e.people)
}

func (e *editorForm) cycleFocus(delta int) {
	for i := range e.inputs {
		e.inputs[i].Blur()
	}
	e.focus = (e.focus + delta + e.totalStops()) % e.totalStops()
	if e.focus < textFieldCount {
		e.inputs[e.focus].Focus()
	}
}

// focusedPerson resolves a non-input focus stop to the person it
// toggles and which list they came from.
func (e *editorForm) focusedPerson() (p model.Person, organizer, ok bool) {
	idx := e.focus - textFieldCount
	if idx < 0 {
		return model.Person{}, false, false
	}
	if idx < len(e.employees) {
		return e.employees[idx], true, true
	}
	idx -= len(e.employees)
	if idx < len(e.people) {
		return e.people[idx], false, true
	}
	return model.Person{}, false, false
}

// flush copies the inputs back into the headless form, parsing the
// timestamps in the form's timezone.
func (e *editorForm) flush() {
	f := e.form
	f.Title = strings.TrimSpace(e.inputs[fieldTitle].Value())
	f.PlatformProvider = strings.TrimSpace(e.inputs[fieldPlatform].Value())
	f.Address = strings.TrimSpace(e.inputs[fieldAddress].Value())
	f.Instructions = strings.TrimSpace(e.inputs[fieldInstructions].Value())

	loc, err := time.LoadLocation(f.Timezone)
	if err != nil || f.Timezone == "" {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(timeLayout, strings.TrimSpace(e.inputs[fieldFrom].Value()), loc); err == nil {
		f.From = t
	} else {
		f.From = time.Time{}
	}
	if t, err := time.ParseInLocation(timeLayout, strings.TrimSpace(e.inputs[fieldTo].Value()), loc); err == nil {
		f.To = t
	} else {
		f.To = time.Time{}
	}
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.form
	if e == nil {
		m.mode = modeGrid
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.mode = modeGrid
		m.form = nil
		return m, nil

	case "tab", "down":
		e.cycleFocus(1)
		return m, nil

	case "shift+tab", "up":
		e.cycleFocus(-1)
		return m, nil

	case "ctrl+t":
		if e.form.EventType == model.EventOnsite {
			e.form.EventType = model.EventVirtual
		} else {
			e.form.EventType = model.EventOnsite
		}
		return m, nil

	case "ctrl+a":
		e.form.Available = !e.form.Available
		return m, nil

	case " ":
		if p, organizer, ok := e.focusedPerson(); ok {
			if organizer {
				e.form.ToggleOrganizer(p)
			} else {
				e.form.ToggleAttendee(p)
			}
			return m, nil
		}

	case "enter":
		e.flush()
		event, err := e.form.Submit()
		if err != nil {
			return m, nil
		}
		return m, m.saveCmd(e.form.Mode, event)
	}

	if e.focus < textFieldCount {
		var cmd tea.Cmd
		e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) renderEditor() string {
	e := m.form
	f := e.form

	title := "New event"
	if f.Mode == editor.ModeEdit {
		title = "Edit event"
	}

	var b strings.Builder
	b.WriteString(modalTitleStyle.Render(title))
	b.WriteString("\n\n")

	field := func(label string, idx int, errKey string) {
		b.WriteString(fieldLabelStyle.Render(fmt.Sprintf("%-13s", label)))
		b.WriteString(e.inputs[idx].View())
		if msg, ok := f.Errors[errKey]; ok {
			b.WriteString("  " + fieldErrorStyle.Render(msg))
		}
		b.WriteString("\n")
	}

	field("Title", fieldTitle, "title")
	field("From", fieldFrom, "from")
	field("To", fieldTo, "to")

	b.WriteString(fieldLabelStyle.Render(fmt.Sprintf("%-13s", "Type")))
	b.WriteString(string(f.EventType))
	b.WriteString(helpStyle.Render("  (ctrl+t toggles)"))
	b.WriteString("\n")

	if f.EventType == model.EventVirtual {
		field("Platform", fieldPlatform, "platform_provider")
	} else {
		field("Address", fieldAddress, "address")
	}
	field("Instructions", fieldInstructions, "instructions")

	b.WriteString(fieldLabelStyle.Render(fmt.Sprintf("%-13s", "Availability")))
	if f.Available {
		b.WriteString("open slot")
	} else {
		b.WriteString("booked")
	}
	b.WriteString(helpStyle.Render("  (ctrl+a toggles)"))
	b.WriteString("\n\n")

	b.WriteString(fieldLabelStyle.Render("Organizers"))
	if msg, ok := f.Errors["organizers"]; ok {
		b.WriteString("  " + fieldErrorStyle.Render(msg))
	}
	b.WriteString("\n")
	for i, emp := range e.employees {
		mark := "[ ]"
		for _, org := range f.Organizers {
			if org.EmployeeID == emp.ID {
				mark = "[x]"
			}
		}
		line := fmt.Sprintf("%s %s", mark, emp.Name)
		if emp.ID == f.CurrentUserID() {
			line += helpStyle.Render(" (you)")
		}
		if e.focus == textFieldCount+i {
			line = personCursorStyle.Render(line)
		}
		b.WriteString("  " + line + "\n")
	}

	b.WriteString(fieldLabelStyle.Render("Attendees") + "\n")
	for i, p := range e.people {
		mark := "[ ]"
		for _, att := range f.Attendees {
			if att.PersonEntityID == p.ID {
				mark = "[x]"
			}
		}
		line := fmt.Sprintf("%s %s", mark, p.Name)
		if e.focus == textFieldCount+len(e.employees)+i {
			line = personCursorStyle.Render(line)
		}
		b.WriteString("  " + line + "\n")
	}

	if f.SubmitErr != "" {
		b.WriteString("\n" + errorStyle.Render(f.SubmitErr) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter save · tab next field · space toggle person · esc cancel"))

	modal := modalStyle.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
