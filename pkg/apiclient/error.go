package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/smarttech/storefront/pkg/errors"
)

const (
	networkErrorMessage   = "Network error - Unable to connect to the server"
	cancelledMessage      = "Request cancelled"
	requestFailedMessage  = "Request failed"
	unknownErrorMessage   = "Unknown error"
	invalidPayloadMessage = "invalid response payload"
)

// Error is the normalized failure for a backend call. Status 0 means no response
// was received.
type Error struct {
	Status  int
	Message string

	canceled bool
	cause    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// IsNetwork reports whether the backend was unreachable.
func (e *Error) IsNetwork() bool {
	return e != nil && e.Status == 0 && !e.canceled
}

// IsCanceled reports whether the caller's context ended before a response arrived.
func (e *Error) IsCanceled() bool {
	return e != nil && e.canceled
}

// Code maps the status onto the shared error taxonomy.
func (e *Error) Code() pkgerrors.Code {
	if e == nil {
		return pkgerrors.CodeInternal
	}
	return pkgerrors.CodeForStatus(e.Status)
}

// AsError unwraps err to *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or -1 when err is not an *Error.
func StatusOf(err error) int {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Status
	}
	return -1
}

// parseErrorMessage extracts the server message from an error body. FastAPI style
// `detail` (string or validation list) wins, then an `error.message` envelope, then a
// top level `message`.
func parseErrorMessage(raw []byte, fallback string) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		if fallback != "" {
			return fallback
		}
		return unknownErrorMessage
	}
	if msg := detailMessage(body["detail"]); msg != "" {
		return msg
	}
	if rawEnvelope, ok := body["error"]; ok {
		var envelope struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(rawEnvelope, &envelope) == nil && strings.TrimSpace(envelope.Message) != "" {
			return envelope.Message
		}
	}
	if rawMsg, ok := body["message"]; ok {
		var msg string
		if json.Unmarshal(rawMsg, &msg) == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return requestFailedMessage
}

func detailMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if json.Unmarshal(raw, &text) == nil {
		return strings.TrimSpace(text)
	}
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return ""
	}
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		var entry struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(item, &entry) == nil && entry.Msg != "" {
			msgs = append(msgs, entry.Msg)
			continue
		}
		if json.Unmarshal(item, &text) == nil && text != "" {
			msgs = append(msgs, text)
		}
	}
	return strings.Join(msgs, "; ")
}
