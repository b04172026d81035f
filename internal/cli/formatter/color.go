package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/plancraft/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill returns a colored indicator for a catalogued plan status.
// Plans found only on disk have no status and render as "● on disk".
func StatusPill(status domain.PlanStatus) string {
	switch status {
	case domain.PlanFinalized:
		return StyleGreen.Render("✔ Finalized")
	case domain.PlanInProgress:
		return StyleBlue.Render("● In progress")
	case domain.PlanCancelled:
		return StyleYellow.Render("○ Cancelled")
	case domain.PlanFailed:
		return StyleRed.Render("✖ Failed")
	case "":
		return StyleDim.Render("● on disk")
	default:
		return StyleDim.Render(string(status))
	}
}

// OutcomeLabel renders a run outcome for history listings.
func OutcomeLabel(outcome domain.RunOutcome) string {
	text := strings.ReplaceAll(string(outcome), "_", " ")
	switch outcome {
	case domain.OutcomeSaved:
		return StyleGreen.Render(text)
	case domain.OutcomeRunning:
		return StyleBlue.Render(text)
	case domain.OutcomeCancelled:
		return StyleYellow.Render(text)
	case domain.OutcomeInvalid, domain.OutcomeNoQuestions, domain.OutcomeFailed:
		return StyleRed.Render(text)
	default:
		return StyleDim.Render(text)
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
