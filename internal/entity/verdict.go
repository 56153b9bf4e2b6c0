package entity

type Verdict string

const (
	VerdictDrowsy Verdict = "Drowsy"
	VerdictAwake  Verdict = "Awake"
)

func (v Verdict) IsDrowsy() bool {
	return v == VerdictDrowsy
}

// DetectionResult is the body returned by the detection service.
type DetectionResult struct {
	Status         Verdict `json:"status"`
	ProcessingTime float64 `json:"processing_time,omitempty"`
	Error          string  `json:"error,omitempty"`
}
