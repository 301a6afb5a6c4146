package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrQueuedOffline marks a mutation that was handed to the offline queue
// instead of failing outright. Callers should treat it as "saved, will sync",
// not as an error surfaced to the operator.
var ErrQueuedOffline = errors.New("request queued for offline sync")

// QueuedError carries the queued mutation's ID so callers can show or track
// the pending sync. It unwraps to ErrQueuedOffline.
type QueuedError struct {
	MutationID string
}

func (e *QueuedError) Error() string {
	return fmt.Sprintf("request queued for offline sync (mutation %s)", e.MutationID)
}

func (e *QueuedError) Unwrap() error { return ErrQueuedOffline }

// APIError is the single normalized failure shape produced for every non-2xx
// response and every transport failure, regardless of which of the server's
// error conventions produced it.
type APIError struct {
	StatusCode  int
	Code        string
	Message     string
	FieldErrors map[string][]string
	// Extra carries custom top-level payload fields the server attached
	// beyond the recognized error keys.
	Extra map[string]any
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api error: %s", e.Message)
	}
	return fmt.Sprintf("api error [%d]: %s", e.StatusCode, e.Message)
}

// IsValidation reports whether the failure carries field-level errors.
func (e *APIError) IsValidation() bool {
	return len(e.FieldErrors) > 0 && e.StatusCode >= 400 && e.StatusCode < 500
}

// AsAPIError unwraps err to an *APIError if there is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// reserved top-level keys that are never treated as field errors
var reservedErrorKeys = map[string]bool{
	"error":            true,
	"detail":           true,
	"message":          true,
	"non_field_errors": true,
	"code":             true,
	"status_code":      true,
}

// normalizeError folds the server's heterogeneous error shapes into one
// APIError. The primary message is chosen by priority: explicit "error", then
// "detail", then "message", then the first "non_field_errors" entry, then the
// first field-level error. Anything else falls back to a generic message for
// the status class.
func normalizeError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload map[string]json.RawMessage
	if len(body) > 0 {
		_ = json.Unmarshal(body, &payload)
	}

	var fieldErrs map[string][]string
	var firstField string
	for key, raw := range payload {
		if reservedErrorKeys[key] {
			continue
		}
		if msgs, ok := decodeMessageList(raw); ok {
			if fieldErrs == nil {
				fieldErrs = make(map[string][]string)
			}
			fieldErrs[key] = msgs
			if firstField == "" || key < firstField {
				firstField = key
			}
			continue
		}
		var extra any
		if err := json.Unmarshal(raw, &extra); err == nil {
			if apiErr.Extra == nil {
				apiErr.Extra = make(map[string]any)
			}
			apiErr.Extra[key] = extra
		}
	}
	apiErr.FieldErrors = fieldErrs

	if code, ok := decodeString(payload["code"]); ok {
		apiErr.Code = code
	}

	switch {
	case hasString(payload, "error"):
		apiErr.Message, _ = decodeString(payload["error"])
	case hasString(payload, "detail"):
		apiErr.Message, _ = decodeString(payload["detail"])
	case hasString(payload, "message"):
		apiErr.Message, _ = decodeString(payload["message"])
	default:
		if msgs, ok := decodeMessages(payload["non_field_errors"]); ok && len(msgs) > 0 {
			apiErr.Message = msgs[0]
		} else if firstField != "" {
			apiErr.Message = fieldErrs[firstField][0]
		}
	}

	if apiErr.Message == "" {
		if statusCode >= http.StatusInternalServerError {
			apiErr.Message = "server error, please try again later"
		} else {
			apiErr.Message = "request failed"
		}
	}

	return apiErr
}

func networkError() *APIError {
	return &APIError{
		Code:    "network_error",
		Message: "network error, please check your connection and try again",
	}
}

func hasString(payload map[string]json.RawMessage, key string) bool {
	_, ok := decodeString(payload[key])
	return ok
}

func decodeString(raw json.RawMessage) (string, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

// decodeMessages accepts either a single string or a list of strings, the
// two shapes the server uses for non_field_errors.
func decodeMessages(raw json.RawMessage) ([]string, bool) {
	if raw == nil {
		return nil, false
	}
	if list, ok := decodeMessageList(raw); ok {
		return list, true
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}, true
	}
	return nil, false
}

// decodeMessageList accepts only a list of strings. Field-level errors always
// arrive as lists; scalar custom fields stay passthrough.
func decodeMessageList(raw json.RawMessage) ([]string, bool) {
	if raw == nil {
		return nil, false
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list, true
	}
	return nil, false
}
