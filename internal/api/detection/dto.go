package detection

// DetectResponse is the body of a successful /detect-video call.
type DetectResponse struct {
	Status         string  `json:"status"`
	ProcessingTime float64 `json:"processing_time"`
}

const HealthMessage = "Detection service is running!"
