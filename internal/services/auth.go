package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/huangang/taskhub/backend/internal/config"
	"github.com/huangang/taskhub/backend/internal/models"
	"github.com/huangang/taskhub/backend/internal/store"
	"github.com/huangang/taskhub/backend/internal/utils"
	"github.com/huangang/taskhub/backend/pkg/logger"
)

type AuthService struct {
	store     store.Store
	jwtConfig *config.JWTConfig
}

func NewAuthService(st store.Store, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{
		store:     st,
		jwtConfig: jwtCfg,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthPayload is returned by register and login.
type AuthPayload struct {
	Token    string       `json:"token"`
	ExpireAt time.Time    `json:"expire_at"`
	User     *models.User `json:"user"`
}

// Register stores a new user and signs a credential for it. Any rejection by
// the store is reported as invalid input.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthPayload, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, newError(KindInvalidInput, "username, email and password are required")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	}
	if _, err := s.store.Users().Insert(ctx, user); err != nil {
		logger.Warnf("[Auth] register rejected for %s: %v", req.Email, err)
		return nil, newError(KindInvalidInput, "duplicate or invalid input")
	}

	logger.Info().Str("user_id", user.ID).Msg("user registered")
	return s.issue(user)
}

// Login fails with ErrInvalidCredentials both for an unknown email and for a
// wrong password.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthPayload, error) {
	user, err := s.store.Users().FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthPayload, error) {
	token, expireAt, err := s.SignCredential(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthPayload{Token: token, ExpireAt: expireAt, User: user}, nil
}

func (s *AuthService) SignCredential(userID string) (string, time.Time, error) {
	ttl := s.jwtConfig.TokenTTL()
	token, err := utils.GenerateToken(userID, ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, time.Now().Add(ttl), nil
}

// VerifyCredential resolves an Authorization header value to a user. It
// returns nil whenever no identity can be established.
func (s *AuthService) VerifyCredential(ctx context.Context, header string) *models.User {
	token := bearerToken(header)
	if token == "" {
		return nil
	}

	claims, err := utils.ParseToken(token)
	if err != nil {
		logger.Debug().Err(err).Msg("credential rejected")
		return nil
	}

	user, err := s.store.Users().FindByID(ctx, claims.UserID)
	if err != nil {
		logger.Debug().Err(err).Str("user_id", claims.UserID).Msg("credential user unavailable")
		return nil
	}
	return user
}

// bearerToken strips a case-insensitive "Bearer" scheme followed by any
// whitespace.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	const scheme = "bearer"
	if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) &&
		unicode.IsSpace(rune(header[len(scheme)])) {
		header = header[len(scheme):]
	} else if strings.EqualFold(header, scheme) {
		return ""
	}
	return strings.TrimSpace(header)
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.Users().FindAll(ctx)
}
