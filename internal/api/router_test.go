package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zenbild/backend/internal/app"
	iauth "github.com/zenbild/backend/internal/auth"
	"github.com/zenbild/backend/internal/database"
	"github.com/zenbild/backend/internal/models"
	"github.com/zenbild/backend/internal/services"
	"github.com/zenbild/backend/pkg/mail"
)

type stubMailer struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (m *stubMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *stubMailer) lastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.messages)
	body := m.messages[len(m.messages)-1].Body
	idx := strings.Index(body, "token=")
	require.GreaterOrEqual(t, idx, 0)
	token := body[idx+len("token="):]
	if end := strings.IndexAny(token, " \n"); end >= 0 {
		token = token[:end]
	}
	return token
}

type testServer struct {
	router *gin.Engine
	mailer *stubMailer
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	jwtService, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "router-test-secret", Issuer: "zenbild"})
	require.NoError(t, err)

	mailer := &stubMailer{}
	flow, err := services.NewMagicLinkService(db, mailer, "https://app.zenbild.test")
	require.NoError(t, err)

	cfg := &app.Config{}
	router, err := NewRouter(db, jwtService, flow, cfg)
	require.NoError(t, err)

	return &testServer{router: router, mailer: mailer, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, email string) *http.Cookie {
	t.Helper()

	w := s.do(t, http.MethodPost, "/auth/magic/request", gin.H{"email": email, "create_if_missing": true}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	token := s.mailer.lastToken(t)
	w = s.do(t, http.MethodPost, "/auth/magic/consume?token="+token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == iauth.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, w.Body.String())
	return envelope.Data
}

func TestLoginFlowEndToEnd(t *testing.T) {
	server := newTestServer(t)

	// Mixed-case request resolves to one normalised account.
	w := server.do(t, http.MethodPost, "/auth/magic/request", gin.H{"email": "  Builder@Example.COM ", "create_if_missing": true}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"created":true`)

	token := server.mailer.lastToken(t)
	w = server.do(t, http.MethodPost, "/auth/magic/consume?token="+token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"ok":true`)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == iauth.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)

	var user models.User
	require.NoError(t, server.db.Where("email = ?", "builder@example.com").First(&user).Error)

	// Replaying the same token fails.
	w = server.do(t, http.MethodPost, "/auth/magic/consume?token="+token, nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "already used")
}

func TestMagicRequestUserNotFound(t *testing.T) {
	server := newTestServer(t)

	w := server.do(t, http.MethodPost, "/auth/magic/request", gin.H{"email": "ghost@example.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"ok":false`)
	require.Contains(t, w.Body.String(), "user_not_found")
}

func TestMagicRequestValidation(t *testing.T) {
	server := newTestServer(t)

	w := server.do(t, http.MethodPost, "/auth/magic/request", gin.H{"email": "not-an-email"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = server.do(t, http.MethodPost, "/auth/magic/consume", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "missing token")

	w = server.do(t, http.MethodPost, "/auth/magic/consume?token=bogus", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "invalid or expired")
}

func TestAPIRequiresSession(t *testing.T) {
	server := newTestServer(t)

	w := server.do(t, http.MethodGet, "/api/projects", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectCRUDOverHTTP(t *testing.T) {
	server := newTestServer(t)
	cookie := server.login(t, "owner@example.com")

	var owner models.User
	require.NoError(t, server.db.Where("email = ?", "owner@example.com").First(&owner).Error)

	w := server.do(t, http.MethodPost, "/api/projects", gin.H{
		"title":    "Reforma Vila Nova",
		"currency": "BRL",
		"owner_id": owner.ID,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	project := decodeData(t, w)
	projectID := project["id"].(string)
	require.Equal(t, "planning", project["status"])

	w = server.do(t, http.MethodGet, "/api/projects", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = server.do(t, http.MethodGet, "/api/projects/"+projectID, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = server.do(t, http.MethodPut, "/api/projects/"+projectID, gin.H{"status": "active"}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "active", decodeData(t, w)["status"])

	// Closed enums are rejected at the boundary.
	w = server.do(t, http.MethodPut, "/api/projects/"+projectID, gin.H{"status": "demolished"}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = server.do(t, http.MethodGet, "/api/projects/"+uuid.NewString(), nil, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestNestedResourcesOverHTTP(t *testing.T) {
	server := newTestServer(t)
	cookie := server.login(t, "owner@example.com")

	var owner models.User
	require.NoError(t, server.db.Where("email = ?", "owner@example.com").First(&owner).Error)

	w := server.do(t, http.MethodPost, "/api/projects", gin.H{
		"title": "Casa Nova", "currency": "BRL", "owner_id": owner.ID,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	projectID := decodeData(t, w)["id"].(string)

	// Participant
	w = server.do(t, http.MethodPost, "/api/projects/"+projectID+"/participants", gin.H{
		"role": "foreman", "name": "Seu Jorge", "can_post": true,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	senderID := decodeData(t, w)["id"].(string)

	// Message from that participant
	w = server.do(t, http.MethodPost, "/api/projects/"+projectID+"/messages", gin.H{
		"sender_id": senderID, "type": "text", "transcript": "Laje concluída",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	messageID := decodeData(t, w)["id"].(string)

	// Sender from another project is a 404
	w = server.do(t, http.MethodPost, "/api/projects/"+projectID+"/messages", gin.H{
		"sender_id": uuid.NewString(), "type": "text",
	}, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Annotation on the message
	w = server.do(t, http.MethodPost, "/api/messages/"+messageID+"/annotations", gin.H{
		"area": "laje", "percent_complete": 100,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = server.do(t, http.MethodPost, "/api/messages/"+messageID+"/annotations", gin.H{
		"percent_complete": 150,
	}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Daily log
	w = server.do(t, http.MethodPost, "/api/projects/"+projectID+"/daily-logs", gin.H{
		"date": "2026-03-10", "score_schedule": 80, "score_budget": 75,
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	w = server.do(t, http.MethodGet, "/api/projects/"+projectID+"/daily-logs", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	// Milestone and payment
	w = server.do(t, http.MethodPost, "/api/projects/"+projectID+"/milestones", gin.H{
		"name": "Fundação", "amount": 15000, "due_date": "2026-04-01",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	milestoneID := decodeData(t, w)["id"].(string)

	w = server.do(t, http.MethodPost, "/api/projects/"+projectID+"/payments", gin.H{
		"milestone_id": milestoneID, "provider": "pix",
	}, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	// Milestone from another project is invisible
	w = server.do(t, http.MethodPost, "/api/projects/"+projectID+"/payments", gin.H{
		"milestone_id": uuid.NewString(), "provider": "pix",
	}, cookie)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Unknown provider rejected
	w = server.do(t, http.MethodPost, "/api/projects/"+projectID+"/payments", gin.H{
		"milestone_id": milestoneID, "provider": "paypal",
	}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	server := newTestServer(t)

	w := server.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ok")

	w = server.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	server := newTestServer(t)

	w := server.do(t, http.MethodGet, "/nope", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "not found")
}
