package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/courier/internal/compiler"
	"github.com/aretw0/courier/internal/runtime"
	"github.com/aretw0/courier/pkg/domain"
)

// Report is the pre-flight analysis of a simulation input.
type Report struct {
	Rows       int             `json:"rows" yaml:"rows"`
	Cols       int             `json:"cols" yaml:"cols"`
	Points     []domain.Point  `json:"points" yaml:"points"`
	OutOfGrid  []domain.Point  `json:"out_of_grid,omitempty" yaml:"out_of_grid,omitempty"`
	Duplicates []domain.Point  `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Notices    []domain.Notice `json:"notices,omitempty" yaml:"notices,omitempty"`
}

// Clean reports whether the input plays back without any anomaly.
func (r *Report) Clean() bool {
	return len(r.OutOfGrid) == 0 && len(r.Duplicates) == 0 && len(r.Notices) == 0
}

// Err summarizes the anomalies as an error, or returns nil for a clean report.
func (r *Report) Err() error {
	if r.Clean() {
		return nil
	}

	var errors []string
	for _, n := range r.Notices {
		errors = append(errors, n.Message)
	}
	for _, p := range r.OutOfGrid {
		errors = append(errors, fmt.Sprintf("Target %s outside %dx%d grid", p, r.Rows, r.Cols))
	}
	for _, p := range r.Duplicates {
		errors = append(errors, fmt.Sprintf("Duplicate target %s is visited once", p))
	}
	return fmt.Errorf("found %d issues:\n- %s", len(errors), strings.Join(errors, "\n- "))
}

// ValidateInput parses input and checks every target against its grid
// without planning or playing the route. A parse failure is returned as
// error; anomalies the engine tolerates are listed in the Report.
func ValidateInput(parser *compiler.Parser, input string) (*Report, error) {
	in, err := parser.Parse(input)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Rows:    in.Rows,
		Cols:    in.Cols,
		Points:  in.Points,
		Notices: in.Notices,
	}

	grid := runtime.Generate(in.Rows, in.Cols)
	seen := make(map[domain.Point]int)
	for _, p := range in.Points {
		seen[p]++
		if seen[p] == 2 {
			report.Duplicates = append(report.Duplicates, p)
		}
		if seen[p] > 1 {
			continue
		}

		if !runtime.ContainsPoint(grid, p) {
			report.OutOfGrid = append(report.OutOfGrid, p)
		}
	}
	return report, nil
}
