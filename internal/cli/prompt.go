package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Prompt styles
var (
	promptLabelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	promptActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	promptErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	promptDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InstancePromptModel - Interactive item count and capacity entry
// =============================================================================

// promptField is one numeric input line.
type promptField struct {
	Label   string
	Value   string
	Integer bool
}

// InstancePromptModel is the bubbletea model that asks for the number of items
// and the capacity when neither a flag nor the config supplies them.
type InstancePromptModel struct {
	Fields    []promptField
	Cursor    int
	Err       string
	Done      bool
	Cancelled bool
}

// NewInstancePromptModel creates a prompt for the fields that are still missing.
func NewInstancePromptModel(needCount, needCapacity bool) InstancePromptModel {
	var fields []promptField
	if needCount {
		fields = append(fields, promptField{Label: "Items", Integer: true})
	}
	if needCapacity {
		fields = append(fields, promptField{Label: "Capacity"})
	}
	return InstancePromptModel{Fields: fields}
}

func (m InstancePromptModel) Init() tea.Cmd {
	return nil
}

func (m InstancePromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Fields) == 0 {
		return m, nil
	}
	f := &m.Fields[m.Cursor]
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Cancelled = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if f.Value != "" {
			f.Value = f.Value[:len(f.Value)-1]
		}
	case tea.KeyUp, tea.KeyShiftTab:
		if m.Cursor > 0 {
			m.Cursor--
		}
	case tea.KeyEnter, tea.KeyTab, tea.KeyDown:
		if err := f.check(); err != nil {
			m.Err = err.Error()
			return m, nil
		}
		m.Err = ""
		if m.Cursor < len(m.Fields)-1 {
			m.Cursor++
			return m, nil
		}
		if key.Type == tea.KeyEnter {
			m.Done = true
			return m, tea.Quit
		}
	case tea.KeyRunes:
		for _, r := range key.Runes {
			if (r >= '0' && r <= '9') || (r == '.' && !f.Integer && !strings.Contains(f.Value, ".")) {
				f.Value += string(r)
			}
		}
	}
	return m, nil
}

func (f promptField) check() error {
	if f.Integer {
		n, err := strconv.Atoi(f.Value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive whole number", strings.ToLower(f.Label))
		}
		return nil
	}
	x, err := strconv.ParseFloat(f.Value, 64)
	if err != nil || x <= 0 {
		return fmt.Errorf("%s must be a positive number", strings.ToLower(f.Label))
	}
	return nil
}

func (m InstancePromptModel) View() string {
	if m.Done || m.Cancelled {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("New Instance"))
	b.WriteString("\n")
	b.WriteString(promptDimStyle.Render("⏎ next  ↑ back  esc cancel"))
	b.WriteString("\n\n")

	for i, f := range m.Fields {
		value := f.Value
		if i == m.Cursor {
			b.WriteString(promptActiveStyle.Render("▸ "))
			value += "█"
		} else {
			b.WriteString("  ")
		}
		b.WriteString(promptLabelStyle.Render(f.Label))
		b.WriteString(StyleValue.Render(value))
		b.WriteString("\n")
	}
	if m.Err != "" {
		b.WriteString("\n")
		b.WriteString(promptErrorStyle.Render(m.Err))
		b.WriteString("\n")
	}
	return b.String()
}

// Values returns the entered count and capacity. Fields the prompt did not
// ask for are returned as zero.
func (m InstancePromptModel) Values() (count int, capacity float64) {
	for _, f := range m.Fields {
		if f.Integer {
			count, _ = strconv.Atoi(f.Value)
		} else {
			capacity, _ = strconv.ParseFloat(f.Value, 64)
		}
	}
	return count, capacity
}

// =============================================================================
// Helpers
// =============================================================================

// interactive reports whether stdin is a terminal.
func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// promptInstance runs the prompt for missing values. It returns ok=false when
// the user cancels.
func promptInstance(needCount, needCapacity bool) (count int, capacity float64, ok bool, err error) {
	final, err := tea.NewProgram(NewInstancePromptModel(needCount, needCapacity)).Run()
	if err != nil {
		return 0, 0, false, fmt.Errorf("prompt: %w", err)
	}
	m := final.(InstancePromptModel)
	if m.Cancelled || !m.Done {
		return 0, 0, false, nil
	}
	count, capacity = m.Values()
	return count, capacity, true, nil
}
