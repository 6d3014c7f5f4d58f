package api

// Simple, non-streaming report handed to the presentation layer

// Series holds the aggregated values of one algorithm, aligned by index with
// FamilyReport.Params.
type Series struct {
	Algorithm string    `json:"algorithm"`
	Values    []float64 `json:"values"`
	StdDevs   []float64 `json:"std_devs"`

	// Number of sentinel samples behind each value
	Timeouts []int `json:"timeouts"`
	Faults   []int `json:"faults"`
}

// FamilyReport is everything needed to draw one grouped bar chart
type FamilyReport struct {
	Family string `json:"family"`
	Metric string `json:"metric"`
	Unit   string `json:"unit"`
	Trials int    `json:"trials"`

	Title    string `json:"title"`
	XLabel   string `json:"x_label"`
	YLabel   string `json:"y_label"`
	LogScale bool   `json:"log_scale"`

	Params []int    `json:"params"`
	Series []Series `json:"series"`

	StartTime  string `json:"start_time"`
	FinishTime string `json:"finish_time"`
}

// Report is the complete result of one invocation of the harness
type Report struct {
	RunID string `json:"run_id"`

	Families []FamilyReport `json:"families"`

	// Execution metadata
	StartTime   string `json:"start_time"`
	FinishTime  string `json:"finish_time"`
	TotalTimeMs int64  `json:"total_time_ms"`

	// System information
	SystemInfo *string `json:"system_info,omitempty"`
}
