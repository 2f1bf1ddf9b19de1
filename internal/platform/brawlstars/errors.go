package brawlstars

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is a non-2xx answer from the API. Body holds the upstream error
// document when it is JSON so it can be forwarded as details.
type HTTPError struct {
	StatusCode int
	Reason     string
	Message    string
	Body       json.RawMessage
}

type errorBody struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func newHTTPError(status int, raw []byte) *HTTPError {
	e := &HTTPError{StatusCode: status}
	if json.Valid(raw) && len(raw) > 0 {
		e.Body = json.RawMessage(raw)
		var eb errorBody
		if err := json.Unmarshal(raw, &eb); err == nil {
			e.Reason = strings.TrimSpace(eb.Reason)
			e.Message = strings.TrimSpace(eb.Message)
		}
	} else if msg := strings.TrimSpace(string(raw)); msg != "" {
		if len(msg) > 512 {
			msg = msg[:512] + "..."
		}
		e.Message = msg
	}
	return e
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "brawlstars: <nil error>"
	}
	detail := e.Reason
	if e.Message != "" {
		if detail != "" {
			detail += ": "
		}
		detail += e.Message
	}
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("brawlstars http %d: %s", e.StatusCode, detail)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e != nil && e.StatusCode == http.StatusNotFound
}

func (e *HTTPError) ErrorCode() string {
	if e != nil && e.StatusCode == http.StatusNotFound {
		return "not_found"
	}
	return "upstream_error"
}

// Details returns what may be forwarded to callers: the upstream JSON body, or nil.
func (e *HTTPError) Details() any {
	if e == nil || len(e.Body) == 0 {
		return nil
	}
	return e.Body
}
