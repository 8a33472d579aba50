package cli

import (
	"fmt"
	"strings"

	"github.com/medsift/medsift/internal/model"
)

// RenderResult formats a pipeline result for the terminal.
func RenderResult(result model.PipelineResult) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Extracted amounts"))
	b.WriteString("\n")
	b.WriteString(statusLine(result))
	b.WriteString("\n")

	if result.Currency != nil {
		b.WriteString(fmt.Sprintf("Currency: %s\n", BoldStyle.Render(string(*result.Currency))))
	}

	if len(result.Amounts) == 0 {
		b.WriteString(SubtleStyle.Render("No amounts found."))
		b.WriteString("\n")
		return b.String()
	}

	for _, amount := range result.Amounts {
		b.WriteString(fmt.Sprintf("  %-24s %12s   %s\n",
			amount.Type.String(),
			amount.Value.String(),
			SubtleStyle.Render(fmt.Sprintf("confidence %.2f", amount.Confidence))))
	}

	for _, note := range result.Notes {
		b.WriteString(SubtleStyle.Render("note: " + note))
		b.WriteString("\n")
	}

	return b.String()
}

func statusLine(result model.PipelineResult) string {
	label := fmt.Sprintf("Status: %s", result.Status)
	if result.Reason != nil {
		label += fmt.Sprintf(" (%s)", *result.Reason)
	}

	switch result.Status {
	case model.StatusOK:
		return SuccessStyle.Render(label)
	case model.StatusLowConfidence:
		return WarningStyle.Render(label)
	case model.StatusError:
		return ErrorStyle.Render(label)
	default:
		return SubtleStyle.Render(label)
	}
}
