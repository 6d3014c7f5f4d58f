package api

import "time"

// MsgType is a message type for streamed progress events
type MsgType string

// Streaming message type constants
const (
	StartFamilyMsg  MsgType = "family_start"
	ReachParamMsg   MsgType = "param_reach"
	FinishResultMsg MsgType = "result_finish"
	FinishFamilyMsg MsgType = "family_finish"
)

// Header is the common header for all streamed messages
type Header struct {
	RunID   string  `json:"run_id"`
	MsgType MsgType `json:"msg_type"`
}

// StartFamily message sent when a family run begins
type StartFamily struct {
	Header
	Family      string   `json:"family"`
	Metric      string   `json:"metric"`
	Trials      int      `json:"trials"`
	Params      []int    `json:"params"`
	Algorithms  []string `json:"algorithms"`
	TimeoutMs   int64    `json:"timeout_ms"`
	StartedTime string   `json:"started_time"`
}

// ReachParam message sent when the driver moves on to the next parameter
type ReachParam struct {
	Header
	Family string `json:"family"`
	Param  int    `json:"param"`
}

// FinishResult message sent when one (algorithm, parameter) pair is aggregated
type FinishResult struct {
	Header
	Family    string    `json:"family"`
	Algorithm string    `json:"algorithm"`
	Param     int       `json:"param"`
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"std_dev"`
	Samples   []float64 `json:"samples"`
	Timeouts  int       `json:"timeouts"`
	Faults    int       `json:"faults"`
}

// FinishFamily message sent when a family run completes
type FinishFamily struct {
	Header
	Report FamilyReport `json:"report"`
}

// Helper function to create a header
func NewHeader(runID string, msgType MsgType) Header {
	return Header{
		RunID:   runID,
		MsgType: msgType,
	}
}

// Helper functions to create specific streaming message types
func NewStartFamily(runID, family, metric string, trials int, params []int, algorithms []string, timeout time.Duration) StartFamily {
	return StartFamily{
		Header:      NewHeader(runID, StartFamilyMsg),
		Family:      family,
		Metric:      metric,
		Trials:      trials,
		Params:      params,
		Algorithms:  algorithms,
		TimeoutMs:   timeout.Milliseconds(),
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewReachParam(runID, family string, param int) ReachParam {
	return ReachParam{
		Header: NewHeader(runID, ReachParamMsg),
		Family: family,
		Param:  param,
	}
}

func NewFinishResult(runID, family, algorithm string, param int, mean, stdDev float64, samples []float64, timeouts, faults int) FinishResult {
	return FinishResult{
		Header:    NewHeader(runID, FinishResultMsg),
		Family:    family,
		Algorithm: algorithm,
		Param:     param,
		Mean:      mean,
		StdDev:    stdDev,
		Samples:   samples,
		Timeouts:  timeouts,
		Faults:    faults,
	}
}

func NewFinishFamily(runID string, report FamilyReport) FinishFamily {
	return FinishFamily{
		Header: NewHeader(runID, FinishFamilyMsg),
		Report: report,
	}
}
