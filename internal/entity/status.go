package entity

import "time"

type LoopState string

const (
	LoopIdle    LoopState = "idle"
	LoopRunning LoopState = "running"
)

type AlertOutcome string

const (
	AlertLaunched    AlertOutcome = "launched"
	AlertUnavailable AlertOutcome = "unavailable"
	AlertFailed      AlertOutcome = "failed"
)

const (
	StatusIdle           = "Idle"
	StatusScanning       = "Scanning..."
	StatusCaptureError   = "Camera error"
	StatusNetworkError   = "Network error"
	StatusSMSUnavailable = "SMS not available"
	StatusAlertFailed    = "Alert failed"
)

// Status is what the monitor currently displays. It is republished every
// time the text, the loop state or the drowsy counter changes.
type Status struct {
	Text        string       `json:"text"`
	Verdict     Verdict      `json:"verdict,omitempty"`
	State       LoopState    `json:"state"`
	Contact     Contact      `json:"contact,omitempty"`
	DrowsyCount int          `json:"drowsy_count"`
	Alert       AlertOutcome `json:"alert,omitempty"`
	Tick        uint64       `json:"tick"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
