package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"booking-platform/internal/data/entity"
	"booking-platform/internal/data/repository"
	"booking-platform/internal/dto/request"
	"booking-platform/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	users    *fakeUserRepo
	sessions map[uuid.UUID]*entity.Session
}

func (f *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *session
	f.sessions[session.Token] = &cp
	return nil
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil || !s.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	cp := *s
	cp.Role = f.users.users[s.UserID].Role
	return &cp, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[token]; ok {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

func newAuthFixture(t *testing.T) (AuthService, *fakeSessionRepo) {
	t.Helper()

	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)

	users := &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range []struct {
		email  string
		role   entity.UserRole
		active bool
	}{
		{"admin@example.com", entity.RoleAdmin, true},
		{"ana@example.com", entity.RoleCustomer, true},
		{"gone@example.com", entity.RoleCustomer, false},
	} {
		id := uuid.New()
		users.users[id] = &entity.User{
			Base:         entity.Base{ID: id},
			Name:         u.email,
			Email:        u.email,
			PasswordHash: hash,
			Role:         u.role,
			IsActive:     u.active,
		}
	}

	sessions := &fakeSessionRepo{users: users, sessions: make(map[uuid.UUID]*entity.Session)}
	repo := &repository.Repository{User: users, Session: sessions}
	config := &utils.Config{Session: utils.SessionConfig{ExpiryHours: 1}}

	return NewAuthService(repo, config, zap.NewNop()), sessions
}

func TestAuthService_LoginLogout(t *testing.T) {
	auth, sessions := newAuthFixture(t)
	ctx := context.Background()

	resp, err := auth.Login(ctx, &request.LoginRequest{Email: "Admin@Example.com", Password: "correct horse"}, "curl", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	token := uuid.MustParse(resp.Token)
	session, err := sessions.FindValidSession(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, resp.UserID, session.UserID.String())
	assert.Equal(t, entity.RoleAdmin, session.Role)
	require.NotNil(t, session.UserAgent)
	assert.Equal(t, "curl", *session.UserAgent)

	require.NoError(t, auth.Logout(ctx, resp.Token))

	session, err = sessions.FindValidSession(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestAuthService_LoginRejected(t *testing.T) {
	auth, _ := newAuthFixture(t)
	ctx := context.Background()

	dummy := auth.(*authService).dummyHash
	require.NotEmpty(t, dummy)
	assert.False(t, utils.CheckPasswordHash("correct horse", dummy))

	tests := []struct {
		name string
		req  request.LoginRequest
		want error
	}{
		{"wrong password", request.LoginRequest{Email: "ana@example.com", Password: "battery staple"}, ErrUnauthorized},
		{"unknown email", request.LoginRequest{Email: "nobody@example.com", Password: "correct horse"}, ErrUnauthorized},
		{"inactive user", request.LoginRequest{Email: "gone@example.com", Password: "correct horse"}, ErrUnauthorized},
		{"malformed email", request.LoginRequest{Email: "ana", Password: "correct horse"}, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Login(ctx, &tt.req, "", "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_LogoutBadToken(t *testing.T) {
	auth, _ := newAuthFixture(t)

	err := auth.Logout(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
