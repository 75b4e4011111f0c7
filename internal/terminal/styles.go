package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/debitum/internal/calculator"
)

// Styles colors the terminal output. Balances follow their treatment:
// green when the person owes the user, red when the user owes the person.
type Styles struct {
	Header     lipgloss.Style
	OwedToUser lipgloss.Style
	OwedByUser lipgloss.Style
	Selected   lipgloss.Style
	Muted      lipgloss.Style
	Error      lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Header:     lipgloss.NewStyle().Bold(true),
		OwedToUser: lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		OwedByUser: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Selected:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Amount renders a formatted amount in the style of its treatment.
func (s Styles) Amount(f calculator.Formatted) string {
	if f.Treatment == calculator.OwedByUser {
		return s.OwedByUser.Render(f.Text)
	}
	return s.OwedToUser.Render(f.Text)
}
