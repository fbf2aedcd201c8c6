package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"booking-platform/internal/data/entity"
	"booking-platform/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSessions struct {
	sessions map[uuid.UUID]*entity.Session
	err      error
}

func (s *stubSessions) Create(context.Context, *entity.Session) error { return nil }

func (s *stubSessions) Revoke(context.Context, uuid.UUID) error { return nil }

func (s *stubSessions) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sessions[token], nil
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	role, _ := utils.GetRoleFromContext(r.Context())
	w.Header().Set("X-User", userID.String())
	w.Header().Set("X-Role", role)
	w.WriteHeader(http.StatusNoContent)
}

func TestAuthSessionAndAdmin(t *testing.T) {
	adminToken, customerToken := uuid.New(), uuid.New()
	adminID, customerID := uuid.New(), uuid.New()

	sessions := &stubSessions{sessions: map[uuid.UUID]*entity.Session{
		adminToken:    {UserID: adminID, Token: adminToken, Role: entity.RoleAdmin},
		customerToken: {UserID: customerID, Token: customerToken, Role: entity.RoleCustomer},
	}}

	log := zap.NewNop()
	authed := AuthSession(sessions, log)(http.HandlerFunc(whoAmI))
	admin := AuthSession(sessions, log)(Admin(log)(http.HandlerFunc(whoAmI)))

	tests := []struct {
		name    string
		handler http.Handler
		header  string
		status  int
		user    string
	}{
		{"missing header", authed, "", http.StatusUnauthorized, ""},
		{"wrong scheme", authed, "Basic " + customerToken.String(), http.StatusUnauthorized, ""},
		{"not a uuid", authed, "Bearer abc", http.StatusUnauthorized, ""},
		{"unknown session", authed, "Bearer " + uuid.NewString(), http.StatusUnauthorized, ""},
		{"customer", authed, "Bearer " + customerToken.String(), http.StatusNoContent, customerID.String()},
		{"lowercase scheme", authed, "bearer " + customerToken.String(), http.StatusNoContent, customerID.String()},
		{"customer on admin route", admin, "Bearer " + customerToken.String(), http.StatusForbidden, ""},
		{"admin", admin, "Bearer " + adminToken.String(), http.StatusNoContent, adminID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.user, rec.Header().Get("X-User"))
		})
	}
}

func TestAuthSession_StoreFailure(t *testing.T) {
	sessions := &stubSessions{err: errors.New("pool closed")}
	h := AuthSession(sessions, zap.NewNop())(http.HandlerFunc(whoAmI))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+uuid.NewString())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pool closed")
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Internal server error"}`, rec.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	called := false
	h := CORS()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/bookings", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)
}

func exhaust(t *testing.T, h http.Handler, userID uuid.UUID, n int) []int {
	t.Helper()

	codes := make([]int, 0, n)
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), userID, "customer"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	return codes
}

func TestRateLimit_Memory(t *testing.T) {
	mw, err := RateLimit("2-M", "bookings", nil, zap.NewNop())
	require.NoError(t, err)

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	ana, budi := uuid.New(), uuid.New()
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, exhaust(t, h, ana, 3))
	assert.Equal(t, []int{http.StatusCreated}, exhaust(t, h, budi, 1))
}

func TestRateLimit_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	mw, err := RateLimit("1-H", "bookings", client, zap.NewNop())
	require.NoError(t, err)

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	assert.Equal(t, []int{http.StatusCreated, http.StatusTooManyRequests}, exhaust(t, h, uuid.New(), 2))
}

func TestRateLimit_BadFormat(t *testing.T) {
	_, err := RateLimit("lots", "bookings", nil, zap.NewNop())
	assert.Error(t, err)
}
