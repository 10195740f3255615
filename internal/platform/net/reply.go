package net

import (
	"net/http"

	perr "bandwatch/internal/platform/errors"
)

// Wire is a common envelope used by transports
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// envelope stamps the shared status fields
func envelope(status, reqID string) Wire {
	return Wire{Status: status, RequestID: reqID}
}

func dataEnvelope(status int, data any, reqID string) (int, Wire) {
	w := envelope(http.StatusText(status), reqID)
	w.StatusCode = status
	w.Data = data
	return status, w
}

// OK builds a 200 envelope
func OK(data any, reqID string) (int, Wire) {
	return dataEnvelope(http.StatusOK, data, reqID)
}

// Created builds a 201 envelope
func Created(data any, reqID string) (int, Wire) {
	return dataEnvelope(http.StatusCreated, data, reqID)
}

// NoContent builds a 204 envelope
func NoContent(reqID string) (int, Wire) {
	return dataEnvelope(http.StatusNoContent, nil, reqID)
}

// Error builds an error envelope, nil errors degrade to a plain 200
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	status := perr.HTTPStatus(err)
	from := perr.WireFrom(err)

	w := envelope(http.StatusText(status), reqID)
	w.StatusCode = status
	w.Code = from.Code
	w.Error = from.Message
	return status, w
}
