package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

// RouteReport describes a planned route as markdown.
func RouteReport(route *domain.Route) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Route %dx%d\n\n", route.Rows, route.Cols)
	fmt.Fprintf(&sb, "`%s`\n\n", route.String())

	if len(route.Stops) > 0 {
		sb.WriteString("| # | Target | Hops | Status |\n|---|---|---|---|\n")
		skipped := domain.NewPointSet(route.Skipped...)
		for i, stop := range route.Stops {
			status := "delivered"
			if skipped.Includes(stop.Value) {
				status = "skipped"
			}
			fmt.Fprintf(&sb, "| %d | %s | %d | %s |\n", i+1, stop.Value, stop.Step, status)
		}
		sb.WriteString("\n")
	}

	if len(route.Notices) > 0 {
		sb.WriteString("## Notices\n\n")
		for _, n := range route.Notices {
			fmt.Fprintf(&sb, "- **%s**: %s\n", n.Policy, n.Message)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "%d steps, %d drops.\n", len(route.Steps), route.Drops())
	return sb.String()
}
