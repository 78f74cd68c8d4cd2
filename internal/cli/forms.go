package cli

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/alexanderramin/tinytrail/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const minPasswordLength = 6

// tinytrailHuhTheme returns the prompt theme matching the formatter palette.
func tinytrailHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func usernameInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Username").
		Value(value).
		Validate(validateRequired("username"))
}

func passwordInput(value *string, minLen int) *huh.Input {
	return huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(value).
		Validate(validatePassword(minLen))
}

// loginForm asks for whichever of username and password is still empty.
func loginForm(username, password *string) *huh.Form {
	var fields []huh.Field
	if *username == "" {
		fields = append(fields, usernameInput(username))
	}
	if *password == "" {
		fields = append(fields, passwordInput(password, 1))
	}
	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(tinytrailHuhTheme()).
		WithShowHelp(false)
}

// registerPasswordForm asks for a new password twice.
func registerPasswordForm(password *string) *huh.Form {
	var confirm string
	return huh.NewForm(
		huh.NewGroup(
			passwordInput(password, minPasswordLength),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm).
				Validate(func(s string) error {
					if s != *password {
						return errors.New("passwords do not match")
					}
					return nil
				}),
		),
	).WithTheme(tinytrailHuhTheme()).WithShowHelp(false)
}

func validatePassword(minLen int) func(string) error {
	return func(s string) error {
		if s == "" {
			return errors.New("password is required")
		}
		if len(s) < minLen {
			return fmt.Errorf("password must be at least %d characters", minLen)
		}
		return nil
	}
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validateEmail(s string) error {
	if _, err := mail.ParseAddress(s); err != nil {
		return errors.New("email address is not valid")
	}
	return nil
}
