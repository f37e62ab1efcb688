package cli

import (
	"errors"

	"github.com/alexanderramin/polymath/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// errNoPrompt is returned when a command needs an answer but the session
// is not interactive.
var errNoPrompt = errors.New("confirmation required: rerun interactively or pass the flag shown in --help")

// Prompter asks the user questions. Implementations block until answered.
type Prompter interface {
	Confirm(title, description string) (bool, error)
	Input(title string, secret bool) (string, error)
}

// HuhPrompter asks questions with huh forms on the terminal.
type HuhPrompter struct{}

func (HuhPrompter) Confirm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)).WithTheme(polymathHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}

func (HuhPrompter) Input(title string, secret bool) (string, error) {
	var value string
	input := huh.NewInput().Title(title).Value(&value)
	if secret {
		input = input.EchoMode(huh.EchoModePassword)
	}
	err := huh.NewForm(huh.NewGroup(input)).
		WithTheme(polymathHuhTheme()).WithShowHelp(false).Run()
	return value, err
}

// polymathHuhTheme returns a huh theme using the formatter palette.
func polymathHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirm asks app.Prompter, or fails when there is none.
func confirm(app *App, title, description string) (bool, error) {
	if app.Prompter == nil {
		return false, errNoPrompt
	}
	return app.Prompter.Confirm(title, description)
}
