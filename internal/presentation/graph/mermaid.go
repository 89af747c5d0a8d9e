package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/waymark/pkg/domain"
)

// statusClasses maps each status to its Mermaid class definition.
// Text is forced black for contrast on both light and dark themes.
var statusClasses = []struct {
	status domain.StepStatus
	def    string
}{
	{domain.StatusComplete, "fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000"},
	{domain.StatusActive, "fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000"},
	{domain.StatusPending, "fill:#e1f5fe,stroke:#01579b,stroke-width:1px,color:#000"},
	{domain.StatusLocked, "fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4 2,color:#616161"},
}

// GenerateMermaid renders the step dependency graph as a Mermaid flowchart.
// Root steps (no prerequisites) are drawn as stadiums, others as rectangles.
// When eval is non-nil each step is styled by its status.
func GenerateMermaid(steps []domain.StepDefinition, eval *domain.Evaluation) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, step := range steps {
		safeID := sanitizeMermaidID(string(step.ID))

		opener, closer := "[", "]"
		if len(step.DependsOn) == 0 {
			opener, closer = "([", "])"
		}

		label := escapeLabel(step.Title)
		if label == "" {
			label = string(step.ID)
		}
		if step.Route != "" {
			label += " <br/> " + escapeLabel(step.Route)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, dep := range step.DependsOn {
			fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(string(dep)), safeID)
		}
	}

	if eval != nil {
		sb.WriteString("\n    %% Status Overlay\n")
		for _, c := range statusClasses {
			fmt.Fprintf(&sb, "    classDef %s %s;\n", c.status, c.def)
		}
		for _, step := range steps {
			if status := eval.Status(step.ID); status != "" {
				fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(string(step.ID)), status)
			}
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
