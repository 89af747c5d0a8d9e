package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/waymark/pkg/domain"
)

var statusMarks = map[domain.StepStatus]string{
	domain.StatusComplete: "[x]",
	domain.StatusActive:   "[>]",
	domain.StatusPending:  "[ ]",
	domain.StatusLocked:   "[-]",
}

// ChecklistMarkdown formats an evaluation as a markdown checklist.
// Routes come from steps; the evaluation only carries ids and statuses.
func ChecklistMarkdown(eval *domain.Evaluation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Onboarding %d%%\n\n", eval.ProgressPercent)
	fmt.Fprintf(&sb, "%s\n\n", progressBar(eval.ProgressPercent, 20))

	for _, s := range eval.Steps {
		title := s.Title
		if title == "" {
			title = string(s.ID)
		}
		switch s.Status {
		case domain.StatusActive:
			fmt.Fprintf(&sb, "- %s **%s** `%s`\n", statusMarks[s.Status], title, s.Route)
		case domain.StatusLocked:
			fmt.Fprintf(&sb, "- %s ~~%s~~\n", statusMarks[s.Status], title)
		default:
			fmt.Fprintf(&sb, "- %s %s\n", statusMarks[s.Status], title)
		}
	}

	if eval.AllComplete {
		sb.WriteString("\nAll steps complete.\n")
	} else {
		fmt.Fprintf(&sb, "\n%d of %d complete. Next: `%s`\n", eval.CompletedCount, eval.TotalSteps, eval.CurrentStepID)
	}
	return sb.String()
}

// PrintChecklist writes a colored plain-text checklist to w. It is used when
// the output is not a terminal or markdown rendering is disabled.
func PrintChecklist(w io.Writer, eval *domain.Evaluation) {
	out := termenv.NewOutput(w)
	colors := map[domain.StepStatus]string{
		domain.StatusComplete: "#22c55e",
		domain.StatusActive:   "#eab308",
		domain.StatusPending:  "#38bdf8",
		domain.StatusLocked:   "#6b7280",
	}

	fmt.Fprintf(w, "%s %d%%\n", progressBar(eval.ProgressPercent, 20), eval.ProgressPercent)
	for _, s := range eval.Steps {
		line := fmt.Sprintf("%s %-14s %-8s %s", statusMarks[s.Status], s.ID, s.Status, s.Route)
		styled := out.String(line).Foreground(out.Color(colors[s.Status]))
		if s.Status == domain.StatusActive {
			styled = styled.Bold()
		}
		fmt.Fprintln(w, strings.TrimRight(styled.String(), " "))
	}
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
