package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"medcare/config"
	"medcare/internal/domain"
	"medcare/internal/repository"
	"medcare/pkg/auth"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64           `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

type AuthServiceImpl struct {
	authRepo    repository.AuthRepository
	userRepo    repository.UserRepository
	doctorRepo  repository.DoctorRepository
	patientRepo repository.PatientRepository
	jwtConfig   config.JWTConfig
	logger      *zap.Logger
}

func NewAuthService(
	authRepo repository.AuthRepository,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	jwtConfig config.JWTConfig,
	logger *zap.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		authRepo:    authRepo,
		userRepo:    userRepo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
		jwtConfig:   jwtConfig,
		logger:      logger,
	}
}

// Register creates a patient or doctor account together with its profile.
func (s *AuthServiceImpl) Register(ctx context.Context, req domain.RegisterRequest) (int64, error) {
	reg, err := req.Parse()
	if err != nil {
		return 0, err
	}

	return createAccount(ctx, reg, s.userRepo, s.doctorRepo, s.patientRepo, s.logger)
}

func createAccount(
	ctx context.Context,
	reg domain.Registration,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	logger *zap.Logger,
) (int64, error) {
	account := reg.Account()

	if existing, err := userRepo.GetByEmail(ctx, account.Email); err == nil && existing != nil {
		return 0, fmt.Errorf("user with email %s: %w", account.Email, domain.ErrAlreadyExists)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Error("failed to look up user by email", zap.Error(err))
		return 0, err
	}

	hash, err := auth.HashPassword(account.Password)
	if err != nil {
		logger.Error("failed to hash password", zap.Error(err))
		return 0, err
	}

	user := domain.CreateUserDTO{
		Name:         account.Name,
		Email:        account.Email,
		Phone:        account.Phone,
		Address:      account.Address,
		DateOfBirth:  account.BirthDate(),
		Gender:       account.Gender,
		PasswordHash: hash,
		Role:         reg.Role(),
	}

	var id int64
	switch r := reg.(type) {
	case *domain.DoctorRegistration:
		id, err = doctorRepo.CreateWithUser(ctx, user, r.Profile())
	case *domain.PatientRegistration:
		id, err = patientRepo.CreateWithUser(ctx, user, r.Profile())
	default:
		return 0, domain.NewValidationError("role", "unsupported role")
	}
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			logger.Error("failed to create account", zap.String("role", string(reg.Role())), zap.Error(err))
		}
		return 0, err
	}

	logger.Info("account created", zap.Int64("userId", id), zap.String("role", string(reg.Role())))
	return id, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("login for unknown email", zap.String("email", dto.Email))
			return nil, domain.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user", zap.Error(err))
		return nil, err
	}

	ok, err := auth.VerifyPassword(dto.Password, user.PasswordHash)
	if err != nil || !ok {
		s.logger.Warn("password mismatch", zap.Int64("userId", user.ID), zap.Error(err))
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	return s.openSession(ctx, user, userAgent, ip)
}

func (s *AuthServiceImpl) RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error) {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		s.logger.Warn("refresh with unknown token", zap.Error(err))
		return nil, ErrInvalidToken
	}

	if session.ExpiresAt.Before(time.Now()) {
		if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session", zap.Error(err))
		}
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		s.logger.Error("session owner not found", zap.Int64("userId", session.UserID), zap.Error(err))
		return nil, ErrInvalidToken
	}

	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}

	if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
		s.logger.Warn("failed to delete rotated session", zap.Error(err))
	}

	return s.openSession(ctx, user, userAgent, ip)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		s.logger.Error("failed to look up session on logout", zap.Error(err))
		return err
	}

	if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
		s.logger.Error("failed to delete session", zap.Error(err))
		return err
	}

	return nil
}

func (s *AuthServiceImpl) ParseToken(ctx context.Context, tokenString string) (domain.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SigningKey), nil
	})
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || !claims.Role.IsValid() {
		return domain.Actor{}, ErrInvalidToken
	}

	return domain.Actor{UserID: claims.UserID, Role: claims.Role}, nil
}

func (s *AuthServiceImpl) openSession(ctx context.Context, user *domain.User, userAgent, ip string) (*domain.Tokens, error) {
	tokens, err := s.generateTokens(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to sign tokens", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	session := domain.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: tokens.RefreshToken,
		UserAgent:    userAgent,
		IP:           ip,
		ExpiresAt:    now.Add(s.jwtConfig.RefreshTokenTTL),
		CreatedAt:    now,
	}

	if err := s.authRepo.CreateSession(ctx, session); err != nil {
		s.logger.Error("failed to save session", zap.Error(err))
		return nil, err
	}

	return tokens, nil
}

func (s *AuthServiceImpl) generateTokens(userID int64, role domain.UserRole) (*domain.Tokens, error) {
	now := time.Now()

	accessToken, err := s.signToken(userID, role, now, s.jwtConfig.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := s.signToken(userID, role, now, s.jwtConfig.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &domain.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthServiceImpl) signToken(userID int64, role domain.UserRole, now time.Time, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Role:   role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.SigningKey))
}
