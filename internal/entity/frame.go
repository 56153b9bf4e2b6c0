package entity

import "time"

// Frame points at a captured still image on local disk. A frame is consumed
// by a single upload; nothing removes the file afterwards.
type Frame struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	MimeType   string    `json:"mime_type"`
	CapturedAt time.Time `json:"captured_at"`
}
