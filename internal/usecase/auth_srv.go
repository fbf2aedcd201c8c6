package usecase

import (
	"context"
	"time"

	"booking-platform/internal/data/entity"
	"booking-platform/internal/data/repository"
	"booking-platform/internal/dto/request"
	"booking-platform/internal/dto/response"
	"booking-platform/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest, userAgent, ipAddress string) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	config   *utils.Config
	log      *zap.Logger

	// dummyHash is compared against when the email is unknown, so a failed
	// login costs the same whether or not the account exists.
	dummyHash string
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	log = log.With(zap.String("service", "auth"))

	dummyHash, err := utils.HashPassword(uuid.NewString())
	if err != nil {
		log.Warn("Failed to prepare dummy password hash", zap.Error(err))
	}

	return &authService{
		users:     repo.User,
		sessions:  repo.Session,
		config:    config,
		log:       log,
		dummyHash: dummyHash,
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, userAgent, ipAddress string) (*response.AuthResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	// 2. Find user
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, persistence("find user", err)
	}

	// 3. Check password
	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	if !utils.CheckPasswordHash(req.Password, hash) || user == nil {
		s.log.Warn("Invalid credentials", zap.String("email", req.Email))
		return nil, ErrUnauthorized
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, ErrUnauthorized
	}

	// 4. Create session
	session, err := s.createSession(ctx, user.ID, userAgent, ipAddress)
	if err != nil {
		return nil, persistence("create session", err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenID, err := uuid.Parse(token)
	if err != nil {
		return ErrUnauthorized
	}

	if err := s.sessions.Revoke(ctx, tokenID); err != nil {
		return persistence("revoke session", err)
	}
	return nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, userAgent, ipAddress string) (*entity.Session, error) {
	now := time.Now()
	expiry := time.Duration(s.config.Session.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		UserAgent: optional(userAgent),
		IPAddress: optional(ipAddress),
		ExpiresAt: now.Add(expiry),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
