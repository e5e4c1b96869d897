package dto

import "time"

type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now(),
	}
}

type PayloadResponse struct {
	Ok      bool        `json:"ok"`
	Details string      `json:"details"`
	Payload interface{} `json:"payload"`
}

func NewPayloadResponse(details string, payload interface{}) PayloadResponse {
	return PayloadResponse{
		Ok:      true,
		Details: details,
		Payload: payload,
	}
}
