package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nileshk07/bloghub/internal/config"
	"github.com/nileshk07/bloghub/internal/domain"
	"github.com/nileshk07/bloghub/internal/repository"
	"gorm.io/gorm"
)

// AuthService issues, rotates and verifies the access/refresh token pair.
// Access tokens carry id/username/email and are signed with the access
// secret; refresh tokens carry the id only and use a separate secret.
type AuthService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg}
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) IssueAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(s.cfg.AccessTokenTTL).Unix(),
		"iat":      time.Now().Unix(),
		"jti":      uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.AccessTokenSecret))
}

func (s *AuthService) IssueRefreshToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"exp": time.Now().Add(s.cfg.RefreshTokenTTL).Unix(),
		"iat": time.Now().Unix(),
		"jti": uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.RefreshTokenSecret))
}

// RotateTokens issues a fresh pair and persists the refresh token onto the
// user row. Only the refresh token column is written.
func (s *AuthService) RotateTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	accessToken, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	refreshToken, err := s.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccessToken validates the signature and expiry and returns the
// user id from the subject claim.
func (s *AuthService) VerifyAccessToken(tokenString string) (uuid.UUID, error) {
	return s.verify(tokenString, s.cfg.AccessTokenSecret)
}

func (s *AuthService) VerifyRefreshToken(tokenString string) (uuid.UUID, error) {
	return s.verify(tokenString, s.cfg.RefreshTokenSecret)
}

func (s *AuthService) verify(tokenString, secret string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}

// Refresh exchanges a valid refresh token for a rotated pair. The token
// must match the authoritative copy stored on the user row.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, domain.ErrTokenInvalid
	}

	return s.RotateTokens(ctx, user.ID)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}
	return user, nil
}
