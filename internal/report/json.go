package report

import (
	"encoding/json"
	"time"

	"github.com/dusk-indust/snipaudit/internal/orchestrator"
)

// RunExport is the top-level JSON export structure.
type RunExport struct {
	RunID      string         `json:"runId"`
	ExportedAt string         `json:"exportedAt"`
	Agents     int            `json:"agents"`
	Succeeded  int            `json:"succeeded"`
	Failed     int            `json:"failed"`
	Results    []ResultExport `json:"results"`
}

// ResultExport describes one slot's outcome.
type ResultExport struct {
	Index  int    `json:"index"`
	OK     bool   `json:"ok"`
	Report string `json:"report,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// Export builds a RunExport from a ResultSet.
func Export(runID string, rs orchestrator.ResultSet, now time.Time) *RunExport {
	export := &RunExport{
		RunID:      runID,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Agents:     len(rs),
		Succeeded:  rs.Succeeded(),
		Failed:     rs.Failed(),
		Results:    make([]ResultExport, 0, len(rs)),
	}
	for i, res := range rs {
		re := ResultExport{Index: i, OK: res.OK()}
		if res.OK() {
			re.Report = res.Report
		} else if res.Err != nil {
			re.Error = res.Err.Error()
			re.Kind = res.Err.Kind.String()
		}
		export.Results = append(export.Results, re)
	}
	return export
}

// JSON writes the export of rs as indented JSON.
func (r *Reporter) JSON(runID string, rs orchestrator.ResultSet, now time.Time) error {
	out, err := json.MarshalIndent(Export(runID, rs, now), "", "  ")
	if err != nil {
		return err
	}
	_, err = r.w.Write(append(out, '\n'))
	return err
}
