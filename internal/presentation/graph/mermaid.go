package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/courier/internal/runtime"
	"github.com/aretw0/courier/pkg/domain"
)

// RouteOverlay contains dynamic session data to visualize on the graph.
type RouteOverlay struct {
	Current domain.Point
	// Delivered is the number of direction codes already delivered.
	Delivered int
}

// GenerateMermaid produces a Mermaid flowchart of a planned route.
// It applies semantic styling:
// - Origin: ((Circle))
// - Target: [Rectangle]
// - Skipped target: [/Parallelogram/] reached by a dotted edge
// Each edge is labelled with the leg's direction codes. With an overlay the
// legs already fully delivered and the courier's position are highlighted.
func GenerateMermaid(route *domain.Route, overlay *RouteOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", nodeID(domain.Origin), domain.Origin))

	skipped := domain.NewPointSet(route.Skipped...)
	declared := map[string]bool{nodeID(domain.Origin): true}

	var visited []string
	delivered := 0
	cursor := domain.Origin
	for _, stop := range route.Stops {
		id := nodeID(stop.Value)
		from := nodeID(cursor)

		if skipped.Includes(stop.Value) {
			if !declared[id] {
				sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", id, stop.Value))
				declared[id] = true
			}
			sb.WriteString(fmt.Sprintf("    %s -. \"out of grid\" .-> %s\n", from, id))
			continue
		}

		if !declared[id] {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, stop.Value))
			declared[id] = true
		}

		leg := domain.JoinDirections(stepDirections(runtime.WalkSteps(cursor, stop.Value, stop.Step)))
		if leg == "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, id))
		} else {
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", from, leg, id))
		}

		delivered += len(leg)
		if overlay != nil && delivered <= overlay.Delivered {
			visited = append(visited, id)
		}
		cursor = stop.Value
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, id := range visited {
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
		}

		current := nodeID(overlay.Current)
		if declared[current] {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", current))
		}
	}

	return sb.String()
}

func stepDirections(steps []domain.RouteStep) []domain.Direction {
	dirs := make([]domain.Direction, len(steps))
	for i, s := range steps {
		dirs[i] = s.Direction
	}
	return dirs
}

// nodeID maps a point to a Mermaid-safe identifier.
func nodeID(p domain.Point) string {
	return strings.ReplaceAll(fmt.Sprintf("p_%d_%d", p.X, p.Y), "-", "m")
}
