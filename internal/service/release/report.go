package release

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Status is the outcome of a stage.
type Status string

// Stage outcomes shown in the summary.
const (
	StatusDone    Status = "done"
	StatusWarning Status = "warning"
	StatusAborted Status = "aborted"
	StatusSkipped Status = "skipped"
	StatusManual  Status = "manual"
)

// entry is one summary row.
type entry struct {
	stage  string
	status Status
	detail string
}

// report collects stage outcomes for the final summary.
type report struct {
	entries []entry
}

func newReport() *report {
	return &report{
		entries: make([]entry, 0, 5), //nolint:mnd // One row per stage.
	}
}

func (r *report) add(stage string, status Status, detail string) {
	r.entries = append(r.entries, entry{
		stage:  stage,
		status: status,
		detail: detail,
	})
}

// skipRest marks stages that never ran.
func (r *report) skipRest(rest []stage) {
	for _, s := range rest {
		r.add(s.name, StatusSkipped, "")
	}
}

// statuses returns the recorded status per stage name.
func (r *report) statuses() map[string]Status {
	result := make(map[string]Status, len(r.entries))
	for _, e := range r.entries {
		result[e.stage] = e.status
	}

	return result
}

// render draws the summary table.
func (r *report) render() string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Stage", "Status", "Details"})

	for i, e := range r.entries {
		t.AppendRow(table.Row{i + 1, e.stage, string(e.status), e.detail})
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})

	return t.Render()
}
