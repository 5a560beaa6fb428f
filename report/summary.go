package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aquasecurity/table"
	"github.com/fatih/color"
)

// Outcome of a single sample in a validation run.
type Outcome int

const (
	Passed Outcome = iota
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	default:
		return "skipped"
	}
}

type SummaryRow struct {
	Sample     string
	Outcome    Outcome
	MLST       float64
	CgMLST     float64
	Unparsable int
}

// Summary collects one row per sample for the terminal table.
type Summary struct {
	Rows []SummaryRow
	// MeanNulls is the average number of null calls per sample.
	MeanNulls float64
}

func (s *Summary) Add(r SummaryRow) { s.Rows = append(s.Rows, r) }

// Count returns the number of rows with outcome o.
func (s *Summary) Count(o Outcome) int {
	var n int
	for _, r := range s.Rows {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

func percent(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Render draws the table to w.
func (s *Summary) Render(w io.Writer) {
	t := table.New(w)
	t.SetHeaders("Sample", "Outcome", "MLST (%)", "cgMLST (%)", "Unparsable")
	t.SetHeaderStyle(table.StyleBold)
	t.SetDividers(table.UnicodeRoundedDividers)
	t.SetAlignment(table.AlignLeft, table.AlignLeft, table.AlignRight, table.AlignRight, table.AlignRight)

	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	for _, r := range s.Rows {
		outcome := r.Outcome.String()
		switch r.Outcome {
		case Passed:
			outcome = green(outcome)
		case Failed:
			outcome = red(outcome)
		}
		if r.Outcome == Skipped {
			t.AddRow(r.Sample, outcome, "", "", "")
			continue
		}
		t.AddRow(r.Sample, outcome, percent(r.MLST), percent(r.CgMLST), strconv.Itoa(r.Unparsable))
	}
	t.SetFooters("Total", strconv.Itoa(len(s.Rows)),
		strconv.Itoa(s.Count(Passed))+" passed",
		strconv.Itoa(s.Count(Failed))+" failed",
		strconv.Itoa(s.Count(Skipped))+" skipped")
	t.Render()
	fmt.Fprintf(w, "Mean null alleles per sample: %s\n", percent(s.MeanNulls))
}
