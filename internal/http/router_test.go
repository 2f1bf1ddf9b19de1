package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/brawltrack-backend/internal/data/repos"
	"github.com/yungbote/brawltrack-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/brawltrack-backend/internal/http/handlers"
	httpMW "github.com/yungbote/brawltrack-backend/internal/http/middleware"
	"github.com/yungbote/brawltrack-backend/internal/observability"
	"github.com/yungbote/brawltrack-backend/internal/platform/authtoken"
	"github.com/yungbote/brawltrack-backend/internal/platform/brawlstars"
	"github.com/yungbote/brawltrack-backend/internal/platform/passhash"
	"github.com/yungbote/brawltrack-backend/internal/platform/ratelimit"
	"github.com/yungbote/brawltrack-backend/internal/services"
	"github.com/yungbote/brawltrack-backend/internal/services/aggregate"
)

type testServer struct {
	engine        *gin.Engine
	upstreamCalls *int32
}

func newTestServer(t *testing.T, apiKey string, loginLimit int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.EscapedPath()
		switch {
		case path == "/brawlers":
			_, _ = w.Write([]byte(`{"items":[{"id":16000000,"name":"SHELLY"}]}`))
		case strings.HasSuffix(path, "%23XYZ"):
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"reason":"notFound","message":"Not found with tag #XYZ"}`))
		default:
			tag := path[strings.LastIndex(path, "%23")+3:]
			_, _ = w.Write([]byte(`{"tag":"#` + tag + `","name":"player-` + tag + `"}`))
		}
	}))
	t.Cleanup(upstream.Close)

	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	metrics := observability.NewMetrics()

	client, err := brawlstars.New(log, brawlstars.Config{APIKey: apiKey, BaseURL: upstream.URL, Timeout: 2 * time.Second}, metrics)
	if err != nil {
		t.Fatalf("brawlstars.New: %v", err)
	}
	issuer, err := authtoken.NewIssuer("router-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	accounts := repos.NewAccountRepo(db, log)
	tokens := repos.NewAccountTokenRepo(db, log)
	guard := services.NewCredentialGuard(passhash.New(bcrypt.MinCost))
	accountSvc := services.NewAccountService(db, log, guard, accounts)
	authSvc := services.NewAuthService(db, log, guard, issuer, accounts, tokens)
	dashSvc := services.NewDashboardService(log, accounts, client, aggregate.New(log, metrics, 4))

	engine := NewRouter(RouterConfig{
		Log:               log,
		Metrics:           metrics,
		LoginLimiter:      ratelimit.NewLocal(loginLimit, time.Minute),
		Upstream:          client,
		HealthHandler:     httpH.NewHealthHandler(db, client),
		AuthHandler:       httpH.NewAuthHandler(authSvc, accountSvc),
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, authSvc),
		UserHandler:       httpH.NewUserHandler(accountSvc, dashSvc),
		BrawlStarsHandler: httpH.NewBrawlStarsHandler(client),
	})
	return &testServer{engine: engine, upstreamCalls: &calls}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

type accountBody struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	PlayerTags []string `json:"player_tags"`
	ClubTags   []string `json:"club_tags"`
}

type loginBody struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	User        accountBody `json:"user"`
}

type errorBody struct {
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details"`
}

func registerAndLogin(t *testing.T, s *testServer, email, password string, playerTags ...string) loginBody {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/user/register", "", map[string]any{
		"email":       email,
		"password":    password,
		"player_tags": playerTags,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": email, "password": password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
	return decode[loginBody](t, rec)
}

func TestHealthcheckAndMetrics(t *testing.T) {
	s := newTestServer(t, "k3y", 10)
	rec := s.do(t, http.MethodGet, "/healthcheck", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("healthcheck: %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" || rec.Header().Get("X-Trace-Id") == "" {
		t.Fatalf("expected trace headers, got %v", rec.Header())
	}
	if rec := s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": "nobody@b.com", "password": "pw"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("login: %d", rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatalf("metrics: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `brawltrack_api_errors_total{code="invalid_credentials",route="/api/user/login"} 1`) {
		t.Fatalf("expected error counter by code, got:\n%s", rec.Body.String())
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	s := newTestServer(t, "k3y", 10)

	rec := s.do(t, http.MethodPost, "/api/user/register", "", map[string]string{"email": "a@b.com", "password": "hunter22"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "$2a$") {
		t.Fatalf("register response leaks the secret: %s", rec.Body.String())
	}
	created := decode[accountBody](t, rec)

	rec = s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": "a@b.com", "password": "hunter23"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d", rec.Code)
	}
	wrongPassword := decode[errorBody](t, rec)
	rec = s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": "nobody@b.com", "password": "hunter22"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email: status %d", rec.Code)
	}
	if unknown := decode[errorBody](t, rec); unknown.Code != wrongPassword.Code || unknown.Message != wrongPassword.Message {
		t.Fatalf("unknown email and wrong password should look the same: %+v vs %+v", unknown, wrongPassword)
	}
	if wrongPassword.Code != "invalid_credentials" {
		t.Fatalf("unexpected code %q", wrongPassword.Code)
	}

	rec = s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": "a@b.com", "password": "hunter22"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
	login := decode[loginBody](t, rec)
	if login.AccessToken == "" || login.User.ID != created.ID {
		t.Fatalf("unexpected login body: %+v", login)
	}

	rec = s.do(t, http.MethodPost, "/api/user/register", "", map[string]string{"email": "a@b.com", "password": "other"})
	if rec.Code != http.StatusConflict || decode[errorBody](t, rec).Code != "duplicate_account" {
		t.Fatalf("duplicate: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestRegisterValidationDetails(t *testing.T) {
	s := newTestServer(t, "k3y", 10)
	rec := s.do(t, http.MethodPost, "/api/user/register", "", map[string]string{"email": "not-an-email"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	body := decode[errorBody](t, rec)
	if body.Code != "validation_failed" {
		t.Fatalf("unexpected code %q", body.Code)
	}
	var fields map[string]string
	if err := json.Unmarshal(body.Details, &fields); err != nil {
		t.Fatalf("details: %v", err)
	}
	if fields["email"] == "" || fields["password"] == "" {
		t.Fatalf("expected email and password details, got %v", fields)
	}
}

func TestAccountRoutesRequireOwner(t *testing.T) {
	s := newTestServer(t, "k3y", 10)
	alice := registerAndLogin(t, s, "alice@b.com", "pw")
	bob := registerAndLogin(t, s, "bob@b.com", "pw")

	if rec := s.do(t, http.MethodGet, "/api/user/"+alice.User.ID, "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/user/"+alice.User.ID, bob.AccessToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("other account: status %d", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/api/user/"+alice.User.ID, alice.AccessToken, nil)
	if rec.Code != http.StatusOK || decode[accountBody](t, rec).Email != "alice@b.com" {
		t.Fatalf("own account: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateAndDashboard(t *testing.T) {
	s := newTestServer(t, "k3y", 10)
	me := registerAndLogin(t, s, "dash@b.com", "pw")

	rec := s.do(t, http.MethodPatch, "/api/user/"+me.User.ID, me.AccessToken, map[string]any{
		"playerTags": []string{"#abc", "XYZ", "qrs", "ABC"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}
	updated := decode[accountBody](t, rec)
	if strings.Join(updated.PlayerTags, ",") != "ABC,XYZ,QRS" {
		t.Fatalf("unexpected tags %v", updated.PlayerTags)
	}

	rec = s.do(t, http.MethodGet, "/api/user/"+me.User.ID+"/dashboard", me.AccessToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: status %d body %s", rec.Code, rec.Body.String())
	}
	dash := decode[struct {
		Players []aggregate.Record `json:"players"`
		Clubs   []aggregate.Record `json:"clubs"`
	}](t, rec)
	if len(dash.Players) != 2 || len(dash.Clubs) != 0 {
		t.Fatalf("unexpected dashboard: %+v", dash)
	}
	for _, r := range dash.Players {
		if r.Tag == "XYZ" {
			t.Fatalf("failed lookup should be omitted")
		}
	}

	rec = s.do(t, http.MethodPut, "/api/user/"+me.User.ID, me.AccessToken, map[string]string{"password": "new-pw"})
	if rec.Code != http.StatusOK {
		t.Fatalf("password update: status %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": "dash@b.com", "password": "pw"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("old password still accepted: %d", rec.Code)
	}
	if rec := s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": "dash@b.com", "password": "new-pw"}); rec.Code != http.StatusOK {
		t.Fatalf("new password rejected: %d", rec.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t, "k3y", 10)
	me := registerAndLogin(t, s, "logout@b.com", "pw")

	if rec := s.do(t, http.MethodPost, "/api/user/logout", me.AccessToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("logout: status %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/user/"+me.User.ID, me.AccessToken, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token accepted: status %d", rec.Code)
	}
}

func TestBrawlStarsPassthrough(t *testing.T) {
	s := newTestServer(t, "k3y", 10)

	rec := s.do(t, http.MethodGet, "/api/brawlstars/player/ABC", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != `{"tag":"#ABC","name":"player-ABC"}` {
		t.Fatalf("player: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodGet, "/api/brawlstars/club/%23CLUB", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"#CLUB"`) {
		t.Fatalf("club: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = s.do(t, http.MethodGet, "/api/brawlstars/brawlers", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "SHELLY") {
		t.Fatalf("brawlers: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/brawlstars/player/XYZ", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing player: status %d body %s", rec.Code, rec.Body.String())
	}
	body := decode[errorBody](t, rec)
	if body.Message != "Error fetching player data" || !strings.Contains(string(body.Details), "notFound") {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestMissingUpstreamCredential(t *testing.T) {
	s := newTestServer(t, "", 10)
	me := registerAndLogin(t, s, "nokey@b.com", "pw", "ABC")

	paths := []struct {
		path  string
		token string
	}{
		{path: "/api/brawlstars/player/ABC"},
		{path: "/api/brawlstars/club/ABC"},
		{path: "/api/brawlstars/brawlers"},
		{path: "/api/user/" + me.User.ID + "/dashboard", token: me.AccessToken},
	}
	for _, p := range paths {
		rec := s.do(t, http.MethodGet, p.path, p.token, nil)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: status %d", p.path, rec.Code)
		}
		body := decode[errorBody](t, rec)
		if body.Code != "upstream_not_configured" || body.Message != brawlstars.ErrNotConfigured.Error() {
			t.Fatalf("%s: unexpected body %+v", p.path, body)
		}
	}
	if got := atomic.LoadInt32(s.upstreamCalls); got != 0 {
		t.Fatalf("expected 0 upstream calls, got %d", got)
	}
}

func TestLoginRateLimit(t *testing.T) {
	s := newTestServer(t, "k3y", 2)
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": "x@y.com", "password": "pw"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status %d", i+1, rec.Code)
		}
	}
	rec := s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"email": "x@y.com", "password": "pw"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	retry := rec.Header().Get("Retry-After")
	if retry == "" {
		t.Fatalf("expected Retry-After header")
	}
	body := decode[errorBody](t, rec)
	var details struct {
		RetryAfterSeconds int `json:"retry_after_seconds"`
	}
	if err := json.Unmarshal(body.Details, &details); err != nil {
		t.Fatalf("decode details %s: %v", body.Details, err)
	}
	if body.Code != "rate_limited" || details.RetryAfterSeconds <= 0 || strconv.Itoa(details.RetryAfterSeconds) != retry {
		t.Fatalf("unexpected body %+v (Retry-After %s)", body, retry)
	}
	if !strings.Contains(body.Message, "try again in "+retry+"s") {
		t.Fatalf("unexpected message %q", body.Message)
	}
}
