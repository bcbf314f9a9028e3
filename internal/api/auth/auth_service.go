package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	appMiddleware "github.com/FACorreiaa/go-skopje-guide/app/middleware"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*types.AuthResponse, error)
	Logout(ctx context.Context, userID int64) error
	GetProfile(ctx context.Context, userID int64) (*types.User, error)
}

type ServiceImpl struct {
	logger         *slog.Logger
	authRepository Repository
}

func NewServiceImpl(authRepository Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:         logger,
		authRepository: authRepository,
	}
}

func signAccessToken(u *types.User) (string, error) {
	now := time.Now()
	claims := appMiddleware.Claims{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(appMiddleware.JwtSecretKey)
}

func (s *ServiceImpl) issueTokens(ctx context.Context, u *types.User) (*types.AuthResponse, error) {
	accessToken, err := signAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	session, err := s.authRepository.CreateSession(ctx, u.ID, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: session.RefreshToken.String(),
		User:         *u,
	}, nil
}

func (s *ServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error) {
	if req.Username == "" || req.Email == "" {
		return nil, fmt.Errorf("username and email are required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.authRepository.CreateUser(ctx, req.Username, req.Email, string(hash))
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user registered", slog.Int64("userID", u.ID))
	return s.issueTokens(ctx, u)
}

func (s *ServiceImpl) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	u, passwordHash, err := s.authRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return nil, ErrUnknownCredentials
	}
	return s.issueTokens(ctx, u)
}

// Refresh exchanges a valid refresh token for a new access token and a
// rotated refresh token.
func (s *ServiceImpl) Refresh(ctx context.Context, refreshToken string) (*types.AuthResponse, error) {
	token, err := uuid.Parse(refreshToken)
	if err != nil {
		return nil, ErrUnknownCredentials
	}

	session, err := s.authRepository.GetSessionByRefreshToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, ErrUnknownCredentials
	}

	u, err := s.authRepository.GetUserByID(ctx, session.UserID)
	if err != nil {
		if types.IsNotFound(err) {
			return nil, ErrUnknownCredentials
		}
		return nil, err
	}

	rotated, err := s.authRepository.RotateSession(ctx, session.ID, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	accessToken, err := signAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &types.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: rotated.RefreshToken.String(),
		User:         *u,
	}, nil
}

func (s *ServiceImpl) Logout(ctx context.Context, userID int64) error {
	if err := s.authRepository.DeleteSessionsForUser(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear sessions", slog.Int64("userID", userID), slog.Any("error", err))
		return err
	}
	return nil
}

func (s *ServiceImpl) GetProfile(ctx context.Context, userID int64) (*types.User, error) {
	return s.authRepository.GetUserByID(ctx, userID)
}

// IsCredentialError reports whether err should surface as an
// authentication failure rather than a server error.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrUnknownCredentials)
}
