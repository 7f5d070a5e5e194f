package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"induslink-backend/config"
	"induslink-backend/internal/auth"
	"induslink-backend/internal/db"
	"induslink-backend/internal/mw"
	"induslink-backend/internal/notification"
	"induslink-backend/internal/store"
	"induslink-backend/internal/verify"
)

var testDBSeq atomic.Int64

func itoa(n int) string { return strconv.Itoa(n) }

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = 0
	// Generous limits so tests never trip the per-IP limiter
	cfg.Server.RateLimitPerSec = 10000
	cfg.Server.RateLimitBurst = 10000
	cfg.Server.CacheTTLSeconds = 300
	cfg.Auth.JWTSecret = "api-test-secret"
	cfg.Auth.SessionCookie = "induslink_session"
	cfg.Auth.TokenTTL = 7 * 24 * time.Hour
	cfg.Auth.BCryptCost = 4
	cfg.Admin.Key = "test-admin-key"
	return cfg
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	cfg := testConfig()
	appStore := store.NewGormStore(gormDB)
	notifier := notification.NewService(gormDB, nil)
	engine := verify.NewEngine(gormDB, notifier)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	sessions := mw.NewSessionAuth(gormDB, tokens, cfg.Auth.SessionCookie)

	return &testServer{
		router: NewRouter(cfg, appStore, engine, notifier, sessions),
		db:     gormDB,
		cfg:    cfg,
	}
}

type testRequest struct {
	method   string
	path     string
	body     any
	cookie   string
	adminKey string
}

func (ts *testServer) do(t *testing.T, req testRequest) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.method, req.path, reader)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.cookie != "" {
		httpReq.AddCookie(&http.Cookie{Name: ts.cfg.Auth.SessionCookie, Value: req.cookie})
	}
	if req.adminKey != "" {
		httpReq.Header.Set("X-Admin-Key", req.adminKey)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, httpReq)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// register creates an account through the public endpoint and returns its
// session token from the Set-Cookie header.
func (ts *testServer) register(t *testing.T, role, email string) string {
	t.Helper()

	payload := map[string]any{
		"name":     "Test " + role,
		"email":    email,
		"phone":    "9876543210",
		"password": "secret123",
	}
	if role == "supplier" {
		payload["companyName"] = "Acme Machines"
	}

	w := ts.do(t, testRequest{method: http.MethodPost, path: "/api/auth/register-" + role, body: payload})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == ts.cfg.Auth.SessionCookie {
			return c.Value
		}
	}
	t.Fatalf("registration response carried no session cookie")
	return ""
}
