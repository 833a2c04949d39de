package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/signature-campaign/internal/entity"
	"github.com/xavierca1/signature-campaign/internal/infra/filestore"
	"github.com/xavierca1/signature-campaign/internal/infra/mail"
	"github.com/xavierca1/signature-campaign/internal/infra/queue"
	"github.com/xavierca1/signature-campaign/internal/infra/roster"
	"github.com/xavierca1/signature-campaign/internal/pkg/logger"
	"github.com/xavierca1/signature-campaign/internal/usecase"
)

const admin = "admin@x.com"

type MockMailTransport struct {
	mock.Mock
}

func (m *MockMailTransport) Send(ctx context.Context, msg mail.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

type testServer struct {
	router    http.Handler
	transport *MockMailTransport
	repo      *filestore.SignatureRepository
}

func newTestServer(t *testing.T, hr ...string) *testServer {
	t.Helper()

	repo, err := filestore.NewSignatureRepository(t.TempDir(), nil)
	require.NoError(t, err)
	tmpl, err := mail.NewApprovalTemplate()
	require.NoError(t, err)

	provider := roster.Static{R: entity.NewRoster(
		[]entity.Person{{Name: "Alice", Email: "a@x.com"}, {Name: "Bob", Email: "b@x.com"}},
		peopleOf(hr),
		nil,
	)}

	log := logger.Nop()
	pub := queue.NoopPublisher{}
	transport := new(MockMailTransport)
	tracker := usecase.NewCampaignTracker(repo, provider, usecase.NewNotificationGate())

	sigs := NewSignatureHandler(
		usecase.NewSaveSignatureUseCase(repo, tracker, pub, log),
		usecase.NewListSignaturesUseCase(repo),
		usecase.NewClearSignaturesUseCase(repo, tracker, pub, log),
		log,
	)
	notify := NewNotificationHandler(
		usecase.NewNotifyApproversUseCase(tracker, transport, tmpl, pub, log, admin, "Trip", "http://localhost:5173", time.Second),
		log,
	)
	campaign := NewCampaignHandler(
		usecase.NewCampaignStatusUseCase(tracker),
		usecase.NewResolveRoleUseCase(provider),
		provider,
		log,
	)

	r := chi.NewRouter()
	r.Post("/api/save-signature", sigs.Save)
	r.Get("/api/signatures", sigs.List)
	r.Delete("/api/clear-signatures", sigs.Clear)
	r.Post("/api/send-email", notify.SendEmail)
	r.Get("/api/campaign/status", campaign.Status)
	r.Get("/api/roster", campaign.Roster)
	r.Post("/api/resolve-role", campaign.ResolveRole)
	r.Get("/health", NewHealthHandler(repo, nil, provider).Handle)

	return &testServer{router: r, transport: transport, repo: repo}
}

func peopleOf(emails []string) []entity.Person {
	out := make([]entity.Person, 0, len(emails))
	for _, e := range emails {
		out = append(out, entity.Person{Email: e})
	}
	return out
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) sign(t *testing.T, email string) map[string]interface{} {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/save-signature",
		`{"email":"`+email+`","name":"","signature":"data:image/png;base64,AAA=","timestamp":"2026-03-01T10:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSaveSignatureHandler(t *testing.T) {
	s := newTestServer(t, "hr@x.com")

	body := s.sign(t, "A@x.com")
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["isNew"])
	assert.Equal(t, "Signature saved successfully", body["message"])

	body = s.sign(t, "a@x.com")
	assert.Equal(t, false, body["isNew"])
	assert.Equal(t, "Signature updated successfully", body["message"])
	campaign := body["campaign"].(map[string]interface{})
	assert.Equal(t, float64(1), campaign["signedCount"])
	assert.Equal(t, float64(2), campaign["rosterCount"])
	assert.Equal(t, false, campaign["isComplete"])
}

func TestSaveSignatureHandlerRejectsBadPayloads(t *testing.T) {
	s := newTestServer(t, "hr@x.com")

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"email":`},
		{"missing email", `{"signature":"img"}`},
		{"missing signature", `{"email":"a@x.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/save-signature", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestListSignaturesStripsID(t *testing.T) {
	s := newTestServer(t, "hr@x.com")

	rec := s.do(t, http.MethodGet, "/api/signatures", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	s.sign(t, "a@x.com")
	s.sign(t, "b@x.com")

	rec = s.do(t, http.MethodGet, "/api/signatures", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "a@x.com", list[0]["email"])
	assert.Equal(t, "data:image/png;base64,AAA=", list[0]["signature"])
	assert.NotContains(t, list[0], "id")
	assert.NotContains(t, list[0], "ID")
}

func TestClearSignaturesHandler(t *testing.T) {
	s := newTestServer(t, "hr@x.com")
	s.sign(t, "a@x.com")
	s.sign(t, "b@x.com")

	rec := s.do(t, http.MethodDelete, "/api/clear-signatures", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["deletedCount"])

	rec = s.do(t, http.MethodGet, "/api/signatures", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSendEmailHandler(t *testing.T) {
	s := newTestServer(t, "hr@x.com")
	s.transport.On("Send", mock.Anything, mock.Anything).Return("<id@x.com>", nil).Once()
	payload := `{"signatures":[{"email":"a@x.com"}],"requestedBy":"` + admin + `"}`

	rec := s.do(t, http.MethodPost, "/api/send-email", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "NotComplete", decode(t, rec)["reason"])

	s.sign(t, "a@x.com")
	s.sign(t, "b@x.com")

	rec = s.do(t, http.MethodPost, "/api/send-email", `{"signatures":[{}],"requestedBy":"a@x.com"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized", decode(t, rec)["reason"])

	rec = s.do(t, http.MethodPost, "/api/send-email", payload)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]interface{}{
		"hr":    []interface{}{"hr@x.com"},
		"board": []interface{}{},
	}, body["recipients"])

	rec = s.do(t, http.MethodPost, "/api/send-email", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "AlreadySent", decode(t, rec)["reason"])

	s.transport.AssertNumberOfCalls(t, "Send", 1)
}

func TestSendEmailHandlerReadsTriggerFromHeader(t *testing.T) {
	s := newTestServer(t, "hr@x.com")
	s.transport.On("Send", mock.Anything, mock.Anything).Return("<id@x.com>", nil)
	s.sign(t, "a@x.com")
	s.sign(t, "b@x.com")

	rec := s.do(t, http.MethodPost, "/api/send-email", `{"signatures":[{}]}`, UserEmailHeader, "Admin@X.com")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSendEmailHandlerErrors(t *testing.T) {
	t.Run("empty signatures", func(t *testing.T) {
		s := newTestServer(t, "hr@x.com")
		rec := s.do(t, http.MethodPost, "/api/send-email", `{"signatures":[],"requestedBy":"`+admin+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, usecase.CodeValidation, decode(t, rec)["code"])
	})

	t.Run("no HR configured", func(t *testing.T) {
		s := newTestServer(t)
		s.sign(t, "a@x.com")
		s.sign(t, "b@x.com")

		rec := s.do(t, http.MethodPost, "/api/send-email", `{"signatures":[{}],"requestedBy":"`+admin+`"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, usecase.CodeConfiguration, body["code"])
		assert.Contains(t, body["error"], "No HR emails configured")
		s.transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("transport failure", func(t *testing.T) {
		s := newTestServer(t, "hr@x.com")
		s.transport.On("Send", mock.Anything, mock.Anything).Return("", errors.New("535 authentication failed"))
		s.sign(t, "a@x.com")
		s.sign(t, "b@x.com")

		rec := s.do(t, http.MethodPost, "/api/send-email", `{"signatures":[{}],"requestedBy":"`+admin+`"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, usecase.CodeTransport, body["code"])
		assert.Contains(t, body["error"], "535 authentication failed")
	})
}

func TestCampaignStatusHandler(t *testing.T) {
	s := newTestServer(t, "hr@x.com")
	s.sign(t, "a@x.com")

	rec := s.do(t, http.MethodGet, "/api/campaign/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(50), body["percent"])
	assert.Len(t, body["signed"], 1)
	assert.Len(t, body["pending"], 1)
}

func TestRosterHandler(t *testing.T) {
	s := newTestServer(t, "hr@x.com")

	rec := s.do(t, http.MethodGet, "/api/roster", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RosterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Employees, 2)
	require.Len(t, resp.HRBoard.HR, 1)
	assert.Equal(t, entity.RoleHR, resp.HRBoard.HR[0].Role)
	assert.Empty(t, resp.HRBoard.Board)
}

func TestResolveRoleHandler(t *testing.T) {
	s := newTestServer(t, "hr@x.com")

	rec := s.do(t, http.MethodPost, "/api/resolve-role", `{"email":"HR@x.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hr", decode(t, rec)["role"])

	rec = s.do(t, http.MethodPost, "/api/resolve-role", `{"email":"a@x.com","name":"alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "employee", decode(t, rec)["role"])

	rec = s.do(t, http.MethodPost, "/api/resolve-role", `{"email":"stranger@x.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, usecase.CodeNotFound, decode(t, rec)["code"])
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, "hr@x.com")

	rec := s.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Dependencies["store"])
	assert.Equal(t, "not configured", resp.Dependencies["rabbitmq"])
	assert.Equal(t, "healthy", resp.Dependencies["roster"])
}

type closedBroker struct{}

func (closedBroker) IsClosed() bool { return true }

func TestHealthHandlerDegraded(t *testing.T) {
	h := NewHealthHandler(nil, closedBroker{}, roster.Static{})

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.True(t, strings.HasPrefix(resp.Dependencies["rabbitmq"], "unhealthy"))
	assert.Equal(t, "unhealthy: no HR recipients", resp.Dependencies["roster"])
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/save-signature", nil)
	req.RemoteAddr = "1.2.3.4:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
