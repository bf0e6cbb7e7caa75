package domain

import (
	"encoding/json"
	"errors"
)

// Request is the boundary envelope sent by a caller.
type Request struct {
	RequestID string          `json:"request_id"`
	Command   string          `json:"command"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Response is the terminal envelope for a request. Exactly one of Data or
// Error is set.
type Response struct {
	RequestID string          `json:"request_id"`
	OK        bool            `json:"ok"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     *ErrorBody      `json:"error,omitempty"`
	ElapsedMS int64           `json:"elapsed_ms"`
}

// ErrorBody is the wire form of an error.
type ErrorBody struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Offset    *int   `json:"offset,omitempty"`
	Retryable bool   `json:"retryable"`
}

// NewErrorBody renders err for the wire.
func NewErrorBody(err error) *ErrorBody {
	body := &ErrorBody{
		Kind:      ErrorKind(err),
		Message:   err.Error(),
		Retryable: Retryable(err),
	}
	if off, ok := ErrorOffset(err); ok {
		body.Offset = &off
	}
	return body
}

// Err turns a failed response back into an error.
func (r *Response) Err() error {
	if r.OK || r.Error == nil {
		return nil
	}
	return errors.New(r.Error.Kind + ": " + r.Error.Message)
}

// StreamEntry is one key/value pair of an iterated section.
type StreamEntry struct {
	Key   string `json:"key"`
	Value Node   `json:"value"`
}

// StreamFrame is an intermediate frame of a streamed response. A header
// frame has Stream set; batch frames carry Entries. The terminal Response
// follows the last frame.
type StreamFrame struct {
	RequestID string        `json:"request_id"`
	Stream    bool          `json:"stream,omitempty"`
	Command   string        `json:"command,omitempty"`
	Section   string        `json:"section,omitempty"`
	Batch     int           `json:"batch,omitempty"`
	Entries   []StreamEntry `json:"entries,omitempty"`
}

// StreamSummary is the Data of the terminal response of a stream.
type StreamSummary struct {
	Section string `json:"section"`
	Count   int    `json:"count"`
	Batches int    `json:"batches"`
}
