package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
)

// ErrUnauthorized is surfaced on any 401 response. The gateway never retries
// and never touches the session; the caller routes the user back to login.
var ErrUnauthorized = errors.New("authentication required")

// APIError is a non-2xx response from the platform, carrying any field-level
// validation messages the server returned.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api error (status %d)", e.StatusCode)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "; %s: %s", name, strings.Join(e.Fields[name], ", "))
		}
	}
	return b.String()
}

// Is makes a 401 APIError match ErrUnauthorized under errors.Is.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// FieldError returns the first message for a named field, or "".
func (e *APIError) FieldError(name string) string {
	if msgs, ok := e.Fields[name]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// IsValidation reports whether the error is a 4xx validation failure with
// field-level messages.
func (e *APIError) IsValidation() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && len(e.Fields) > 0
}

// parseAPIError builds an APIError from a response body. The platform
// answers either {"detail": "..."}, {"non_field_errors": [...]}, or a map of
// field name to message list.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	for name, raw := range payload {
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			if name == "detail" {
				apiErr.Detail = single
				continue
			}
			addFieldError(apiErr, name, []string{single})
			continue
		}

		var many []string
		if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
			if name == "non_field_errors" {
				apiErr.Detail = many[0]
				continue
			}
			addFieldError(apiErr, name, many)
		}
	}

	return apiErr
}

func addFieldError(e *APIError, name string, msgs []string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[name] = append(e.Fields[name], msgs...)
}

// classifyTransportError categorizes a failed outgoing request for metrics.
func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		if netErr.Op == "dial" {
			return "connection_refused"
		}
		return "network"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns"
	}
	return "other"
}
