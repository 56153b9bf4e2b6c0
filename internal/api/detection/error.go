package detection

import (
	"DrowsyGuard/pkg/response"
	"net/http"
)

var (
	ErrNoFrame         = response.NewError(http.StatusBadRequest, "No video frame provided")
	ErrUnreadableImage = response.NewError(http.StatusBadRequest, "Failed to read image")
)
