package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brawltrack-backend/internal/platform/apierr"
	"github.com/yungbote/brawltrack-backend/internal/platform/httpx"
)

// ErrorCodeKey is the gin context key holding the code of an error response,
// read by the logging and metrics middleware.
const ErrorCodeKey = "error_code"

// ErrorEnvelope is the body of every error response.
type ErrorEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type errorCoder interface {
	ErrorCode() string
}

type detailer interface {
	Details() any
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	abort(c, status, ErrorEnvelope{Message: msg, Code: code})
}

// RespondErr maps err onto a status and envelope. Errors that carry no status
// become a 500 with a generic message.
func RespondErr(c *gin.Context, err error) {
	status, env := Envelope(err)
	abort(c, status, env)
}

// RespondUpstreamErr is RespondErr for calls into the game API: failures
// without their own message are reported as msg, and upstream error documents
// are forwarded as details.
func RespondUpstreamErr(c *gin.Context, err error, msg string) {
	status, env := Envelope(err)
	if _, ok := apierr.As(err); !ok {
		env.Message = msg
		if env.Code == "internal_error" {
			env.Code = "upstream_failed"
			if httpx.IsTransient(err) {
				env.Code = "upstream_unavailable"
			}
		}
	}
	abort(c, status, env)
}

func abort(c *gin.Context, status int, env ErrorEnvelope) {
	if env.Code != "" {
		c.Set(ErrorCodeKey, env.Code)
	}
	c.AbortWithStatusJSON(status, env)
}

func Envelope(err error) (int, ErrorEnvelope) {
	if err == nil {
		return http.StatusInternalServerError, ErrorEnvelope{Message: "unknown error", Code: "internal_error"}
	}
	if ae, ok := apierr.As(err); ok {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		code := ae.Code
		if code == "" {
			code = codeForStatus(status)
		}
		return status, ErrorEnvelope{Message: ae.Error(), Code: code, Details: ae.Details}
	}

	status := httpx.StatusOf(err, http.StatusInternalServerError)
	env := ErrorEnvelope{Code: codeForStatus(status)}

	var ec errorCoder
	known := errors.As(err, &ec)
	if known {
		env.Code = ec.ErrorCode()
	}
	var d detailer
	if errors.As(err, &d) {
		env.Details = d.Details()
	}
	if status >= 500 && !known {
		env.Message = "internal server error"
	} else {
		env.Message = err.Error()
	}
	return status, env
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "rate_limited"
	}
	if status >= 500 {
		return "internal_error"
	}
	return "error"
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
