package puzzle

import (
	"fmt"
	"strings"

	"github.com/ironsheep/picross-capture/internal/domain"
)

// Report is the outcome of a consistency check.
type Report struct {
	Side     int      `json:"side"`
	Rows     int      `json:"rows"`
	Cols     int      `json:"cols"`
	RowSum   int      `json:"row_sum"`
	ColSum   int      `json:"col_sum"`
	Problems []string `json:"problems,omitempty"`
}

// OK reports whether the puzzle passed every check.
func (r Report) OK() bool {
	return len(r.Problems) == 0
}

// String renders the report for an operator.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "side %d: %d rows, %d columns, row sum %d, column sum %d",
		r.Side, r.Rows, r.Cols, r.RowSum, r.ColSum)
	for _, p := range r.Problems {
		b.WriteString("\n  - ")
		b.WriteString(p)
	}
	return b.String()
}

// Err returns a *domain.ConsistencyError when the report has problems.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return &domain.ConsistencyError{Problems: r.Problems}
}

// Verify checks the line counts and the clue sums independently. A report
// may carry several problems; none of them is corrected.
func Verify(spec domain.PuzzleSpec) Report {
	r := Report{
		Side:   spec.Side,
		Rows:   len(spec.Rows),
		Cols:   len(spec.Cols),
		RowSum: spec.RowSum(),
		ColSum: spec.ColSum(),
	}
	if r.Rows != spec.Side {
		r.Problems = append(r.Problems, fmt.Sprintf("expected %d rows, found %d", spec.Side, r.Rows))
	}
	if r.Cols != spec.Side {
		r.Problems = append(r.Problems, fmt.Sprintf("expected %d columns, found %d", spec.Side, r.Cols))
	}
	if r.RowSum != r.ColSum {
		r.Problems = append(r.Problems, fmt.Sprintf("row sum %d differs from column sum %d", r.RowSum, r.ColSum))
	}
	return r
}
