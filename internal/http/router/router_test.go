package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/consulting-marketplace/internal/config"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/http/middleware"
	"github.com/ignatzorin/consulting-marketplace/internal/infrastructure/gateway"
	"github.com/ignatzorin/consulting-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/consulting-marketplace/internal/service"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/notify"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testAPI struct {
	t       *testing.T
	engine  *gin.Engine
	tokens  *service.TokenManager
	gateway *gateway.LedgerGateway
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:             "test",
		AllowedOrigins:  []string{"http://localhost:3000"},
		RateLimitLimit:  1000,
		RateLimitPeriod: time.Minute,
	}
	tokens := service.NewTokenManager(testSecret, time.Hour)
	notifications := service.NewNotificationService(memory.NewNotificationRepository())
	gw := gateway.NewLedgerGateway()

	limiterStore, err := middleware.NewLimiterStore("")
	require.NoError(t, err)

	h := NewHandlers(Deps{
		Store:         memory.NewStore(),
		Notifications: notifications,
		Dispatcher:    notify.NewSyncDispatcher(notifications),
		Gateway:       gw,
	})

	return &testAPI{
		t:       t,
		engine:  SetupRouter(cfg, h, tokens, limiterStore),
		tokens:  tokens,
		gateway: gw,
	}
}

func (a *testAPI) token(userID uuid.UUID, role string) string {
	token, err := a.tokens.GenerateAccess(userID, role)
	require.NoError(a.t, err)
	return token
}

func (a *testAPI) do(method, path, token string, body interface{}, headers ...string) (int, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

type idStatus struct {
	ID            uuid.UUID `json:"id"`
	Status        string    `json:"status"`
	AmountPaid    int64     `json:"amount_paid"`
	AmountPending int64     `json:"amount_pending"`
}

func TestAPI_EngagementLifecycle(t *testing.T) {
	api := newTestAPI(t)
	buyerID, consultantID := uuid.New(), uuid.New()
	buyer := api.token(buyerID, "buyer")
	consultant := api.token(consultantID, "consultant")

	code, env := api.do(http.MethodPost, "/api/jobs", buyer, map[string]interface{}{
		"title":       "Финансовая модель",
		"category":    "finance",
		"description": "Построить модель на 3 года",
		"budget_min":  30000,
		"budget_max":  60000,
	})
	require.Equal(t, http.StatusCreated, code)
	var job idStatus
	decode(t, env, &job)
	assert.Equal(t, "open", job.Status)

	code, env = api.do(http.MethodPost, "/api/jobs/"+job.ID.String()+"/proposals", consultant, map[string]interface{}{
		"bid_amount":    45000,
		"delivery_time": "2 недели",
		"cover_letter":  "Делал такие модели для ритейла",
	})
	require.Equal(t, http.StatusCreated, code)
	var prop idStatus
	decode(t, env, &prop)

	code, env = api.do(http.MethodPost, "/api/proposals/"+prop.ID.String()+"/accept", buyer, nil)
	require.Equal(t, http.StatusCreated, code)
	var accepted struct {
		Proposal idStatus `json:"proposal"`
		Order    idStatus `json:"order"`
	}
	decode(t, env, &accepted)
	assert.Equal(t, "accepted", accepted.Proposal.Status)
	assert.Equal(t, "in_progress", accepted.Order.Status)
	assert.Equal(t, int64(45000), accepted.Order.AmountPending)
	orderPath := "/api/orders/" + accepted.Order.ID.String()

	code, env = api.do(http.MethodPost, "/api/proposals/"+prop.ID.String()+"/accept", buyer, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)

	code, _ = api.do(http.MethodPost, orderPath+"/confirm-completion", buyer, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env = api.do(http.MethodPost, orderPath+"/request-completion", consultant, map[string]string{"message": "Модель готова"})
	require.Equal(t, http.StatusOK, code)
	var o idStatus
	decode(t, env, &o)
	assert.Equal(t, "pending_completion", o.Status)

	code, env = api.do(http.MethodPost, orderPath+"/confirm-completion", buyer, nil)
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &o)
	assert.Equal(t, "completed", o.Status)

	code, env = api.do(http.MethodPost, orderPath+"/payments", buyer, map[string]int64{"amount": 20000}, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &o)
	assert.Equal(t, int64(20000), o.AmountPaid)

	code, env = api.do(http.MethodPost, orderPath+"/payments", buyer, map[string]int64{"amount": 20000}, "Idempotency-Key", "k-1")
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &o)
	assert.Equal(t, int64(20000), o.AmountPaid)

	code, env = api.do(http.MethodPost, orderPath+"/payments", buyer, map[string]int64{"amount": 30000})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)

	code, env = api.do(http.MethodPost, orderPath+"/payments", consultant, map[string]int64{"amount": 1000})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = api.do(http.MethodPost, orderPath+"/payments", buyer, map[string]interface{}{"amount": 25000, "idempotency_key": "k-2"})
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &o)
	assert.Equal(t, int64(45000), o.AmountPaid)
	assert.Equal(t, int64(0), o.AmountPending)
	assert.Equal(t, int64(45000), api.gateway.Received(consultantID))

	code, env = api.do(http.MethodGet, orderPath+"/payments", consultant, nil)
	require.Equal(t, http.StatusOK, code)
	var payments []struct {
		Amount         int64  `json:"amount"`
		IdempotencyKey string `json:"idempotency_key"`
	}
	decode(t, env, &payments)
	require.Len(t, payments, 2)
	assert.Equal(t, "k-1", payments[0].IdempotencyKey)

	code, env = api.do(http.MethodGet, "/api/notifications?limit=2", consultant, nil)
	require.Equal(t, http.StatusOK, code)
	var notes []struct {
		Event string `json:"event"`
	}
	decode(t, env, &notes)
	require.Len(t, notes, 2)
	assert.Equal(t, entity.EventPaymentReleased, notes[0].Event)

	code, env = api.do(http.MethodGet, "/api/jobs/"+job.ID.String(), consultant, nil)
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &job)
	assert.Equal(t, "completed", job.Status)
}

func TestAPI_AuthAndValidation(t *testing.T) {
	api := newTestAPI(t)
	consultant := api.token(uuid.New(), "consultant")
	stranger := api.token(uuid.New(), "buyer")

	code, env := api.do(http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	code, _ = api.do(http.MethodGet, "/api/orders", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = api.do(http.MethodPost, "/api/jobs", consultant, map[string]interface{}{
		"title": "x", "category": "y", "description": "z", "budget_min": 1, "budget_max": 2,
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(http.MethodGet, "/api/orders/not-a-uuid", stranger, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = api.do(http.MethodGet, "/api/orders/"+uuid.NewString(), stranger, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	code, _ = api.do(http.MethodPost, "/api/jobs", stranger, map[string]interface{}{"title": "без бюджета"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	api.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "marketplace_http_requests_total")
}

func TestAPI_CORSPreflight(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}
