package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joshiujjwal/lab37hw/internal/api"
	"github.com/joshiujjwal/lab37hw/internal/state"
)

// Focus indices 0-2 are the fixed fields; ingredient cells follow, three
// per row.
const (
	focusTitle = iota
	focusYield
	focusInstructions
	fixedFields
)

type ingredientRow [3]textinput.Model

// formView edits a state.Draft. Widget values are copied into the draft
// after every keystroke so the draft is always what gets validated.
type formView struct {
	draft        state.Draft
	title        textinput.Model
	yield        textinput.Model
	instructions textarea.Model
	rows         []ingredientRow
	focus        int
	width        int

	errs   state.ValidationErrors
	alert  string
	saving bool
}

func newFormView(draft state.Draft, width int) formView {
	f := formView{
		draft: draft,
		title: newFormInput("Recipe title", draft.Title),
		yield: newFormInput("e.g. 4 servings", draft.YieldAmount),
	}

	ta := textarea.New()
	ta.Placeholder = "One step per line"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(6)
	ta.SetValue(draft.Instructions)
	f.instructions = ta

	for _, ing := range draft.Ingredients {
		f.rows = append(f.rows, newIngredientRow(ing))
	}
	f.resize(width)
	f.setFocus(focusTitle)
	return f
}

func newFormInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.SetValue(value)
	return ti
}

func newIngredientRow(ing api.Ingredient) ingredientRow {
	row := ingredientRow{
		newFormInput("name", ing.Name),
		newFormInput("qty", ing.Quantity.String()),
		newFormInput("unit", ing.Unit),
	}
	row[state.FieldName].Width = 24
	row[state.FieldQuantity].Width = 8
	row[state.FieldUnit].Width = 10
	return row
}

func (f *formView) resize(width int) {
	if width <= 0 {
		width = 80
	}
	f.width = width
	inner := maxInt(width-8, 20)
	f.title.Width = inner
	f.yield.Width = inner
	f.instructions.SetWidth(inner)
}

func (f *formView) fieldCount() int {
	return fixedFields + 3*len(f.rows)
}

// cell maps a focus index past the fixed fields to its row and column.
func (f *formView) cell(i int) (int, state.IngredientField) {
	i -= fixedFields
	return i / 3, state.IngredientField(i % 3)
}

func (f *formView) setFocus(i int) {
	n := f.fieldCount()
	i = ((i % n) + n) % n

	f.title.Blur()
	f.yield.Blur()
	f.instructions.Blur()
	for r := range f.rows {
		for c := range f.rows[r] {
			f.rows[r][c].Blur()
		}
	}

	f.focus = i
	switch i {
	case focusTitle:
		f.title.Focus()
	case focusYield:
		f.yield.Focus()
	case focusInstructions:
		f.instructions.Focus()
	default:
		r, c := f.cell(i)
		f.rows[r][c].Focus()
	}
}

func (f *formView) addRow() {
	f.draft.AddIngredient()
	f.rows = append(f.rows, newIngredientRow(api.Ingredient{}))
	f.setFocus(fixedFields + 3*(len(f.rows)-1))
}

func (f *formView) removeFocusedRow() {
	if f.focus < fixedFields {
		return
	}
	r, _ := f.cell(f.focus)
	if err := f.draft.RemoveIngredient(r); err != nil {
		return
	}
	f.rows = append(f.rows[:r], f.rows[r+1:]...)
	f.setFocus(minInt(f.focus, f.fieldCount()-1))
}

func (f *formView) update(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.NextField):
		f.setFocus(f.focus + 1)
		return nil
	case key.Matches(msg, keys.PrevField):
		f.setFocus(f.focus - 1)
		return nil
	case key.Matches(msg, keys.AddIngredient):
		f.addRow()
		return nil
	case key.Matches(msg, keys.DelIngredient):
		f.removeFocusedRow()
		return nil
	}

	if msg.String() == "enter" && f.focus != focusInstructions {
		f.setFocus(f.focus + 1)
		return nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case focusTitle:
		f.title, cmd = f.title.Update(msg)
		f.draft.Title = f.title.Value()
	case focusYield:
		f.yield, cmd = f.yield.Update(msg)
		f.draft.YieldAmount = f.yield.Value()
	case focusInstructions:
		f.instructions, cmd = f.instructions.Update(msg)
		f.draft.Instructions = f.instructions.Value()
	default:
		r, c := f.cell(f.focus)
		before := f.rows[r][c].Value()
		f.rows[r][c], cmd = f.rows[r][c].Update(msg)
		if value := f.rows[r][c].Value(); value != before {
			_ = f.draft.SetIngredient(r, c, value)
		}
	}
	return cmd
}

// snapshot returns a copy of the draft that later edits cannot reach.
func (f *formView) snapshot() state.Draft {
	d := f.draft
	d.Ingredients = append([]api.Ingredient(nil), f.draft.Ingredients...)
	return d
}

func (m Model) renderForm() string {
	f := m.form
	if f == nil {
		return ""
	}
	styles := m.theme.Styles()
	label := styles.MutedText
	errStyle := styles.DangerText

	heading := "Create New Recipe"
	if !f.draft.IsNew() {
		heading = "Edit Recipe"
	}

	field := func(name, title, view string, focused bool) string {
		var b strings.Builder
		marker := "  "
		if focused {
			marker = styles.AccentText.Render("> ")
		}
		b.WriteString(marker + label.Render(title) + "\n")
		b.WriteString("  " + view)
		if msg := f.errs.For(name); msg != "" {
			b.WriteString("\n  " + errStyle.Render(title+" "+msg))
		}
		return b.String()
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(heading))
	b.WriteString("\n\n")
	b.WriteString(field("title", "Title", f.title.View(), f.focus == focusTitle))
	b.WriteString("\n\n")
	b.WriteString(field("yield_amount", "Yield", f.yield.View(), f.focus == focusYield))
	b.WriteString("\n\n")
	b.WriteString(field("instructions", "Instructions", f.instructions.View(), f.focus == focusInstructions))
	b.WriteString("\n\n")

	b.WriteString(label.Render("Ingredients"))
	b.WriteString("\n")
	if len(f.rows) == 0 {
		b.WriteString(styles.FaintText.Render("  No ingredients. Press ctrl+n to add one."))
		b.WriteString("\n")
	}
	for r, row := range f.rows {
		marker := "  "
		if f.focus >= fixedFields {
			if fr, _ := f.cell(f.focus); fr == r {
				marker = styles.AccentText.Render("> ")
			}
		}
		cells := make([]string, len(row))
		for c := range row {
			cells[c] = row[c].View()
		}
		b.WriteString(marker)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells[0], "  ", cells[1], "  ", cells[2]))
		b.WriteString("\n")
		for c := range row {
			name := fmt.Sprintf("ingredients[%d].%s", r, state.IngredientField(c))
			if msg := f.errs.For(name); msg != "" {
				b.WriteString("    " + errStyle.Render(fmt.Sprintf("%s %s", state.IngredientField(c), msg)) + "\n")
			}
		}
	}

	if f.alert != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(f.alert))
		b.WriteString("\n")
	}
	if f.saving {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Saving..."))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
