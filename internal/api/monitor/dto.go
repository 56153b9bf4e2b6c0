package monitor

import "DrowsyGuard/internal/entity"

type StartMonitorRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=32"`
}

type StatusResponse struct {
	Data entity.Status `json:"data"`
}
