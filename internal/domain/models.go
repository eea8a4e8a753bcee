package domain

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Status is the UP/DOWN classification of a probe cycle.
type Status string

const (
	StatusUp   Status = "UP"
	StatusDown Status = "DOWN"
)

// HealthReport is the payload served by GET /health. The client passes it
// through unmodified.
type HealthReport struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Timezone  string `json:"timezone"`
}

// ProbeOutcome is what one probe cycle reports to POST /status.
// ResponseTimeMS is the raw elapsed time of the health call in milliseconds.
type ProbeOutcome struct {
	Status         Status  `json:"status"`
	ResponseTimeMS float64 `json:"response_time_ms"`
}

func (o ProbeOutcome) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Status,
			validation.Required,
			validation.In(StatusUp, StatusDown),
		),
		validation.Field(&o.ResponseTimeMS,
			validation.Min(0.0),
		),
	)
}

// StatusResponse is the body returned by POST /status. Only Logs is consumed
// by the probe client; the rest mirrors the health payload.
type StatusResponse struct {
	Status    string     `json:"status"`
	Timestamp string     `json:"timestamp"`
	Timezone  string     `json:"timezone"`
	Logs      []LogEntry `json:"logs"`
}
