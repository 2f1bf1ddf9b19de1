package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brawltrack-backend/internal/platform/apierr"
)

type statusErr struct {
	status int
	code   string
}

func (e statusErr) Error() string       { return fmt.Sprintf("status %d", e.status) }
func (e statusErr) HTTPStatusCode() int { return e.status }
func (e statusErr) ErrorCode() string   { return e.code }
func (e statusErr) Details() any        { return map[string]string{"field": "bad"} }

func TestEnvelope(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "api error",
			err:        apierr.New(http.StatusConflict, "duplicate_account", errors.New("exists")),
			wantStatus: http.StatusConflict,
			wantCode:   "duplicate_account",
			wantMsg:    "exists",
		},
		{
			name:       "wrapped api error",
			err:        fmt.Errorf("outer: %w", apierr.New(http.StatusNotFound, "", errors.New("gone"))),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
			wantMsg:    "gone",
		},
		{
			name:       "status coder",
			err:        statusErr{status: http.StatusBadRequest, code: "validation_failed"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_failed",
			wantMsg:    "status 400",
		},
		{
			name:       "plain error hides internals",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
			wantMsg:    "internal server error",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := Envelope(tc.err)
			if status != tc.wantStatus || env.Code != tc.wantCode || env.Message != tc.wantMsg {
				t.Fatalf("got (%d, %+v), want (%d, %s, %s)", status, env, tc.wantStatus, tc.wantCode, tc.wantMsg)
			}
		})
	}
}

func TestRespondUpstreamErr(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondUpstreamErr(c, context.DeadlineExceeded, "Error fetching player data")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	want := `{"message":"Error fetching player data","code":"upstream_unavailable"}`
	if rec.Body.String() != want {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
