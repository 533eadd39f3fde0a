package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecofinds/models"
	"ecofinds/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	store    repository.Store
	tokens   *TokenManager
	logger   *zap.Logger
	hashCost int
}

func NewAuthService(store repository.Store, tokens *TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:    store,
		tokens:   tokens,
		logger:   logger,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, newError(ErrValidation, "Username, email and password are required")
	}

	exists, err := s.store.UserExists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, newError(ErrConflict, "User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// Lost a race against a concurrent registration.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "User already exists")
		}
		return nil, err
	}

	s.logger.Info("User registered", zap.Int("user_id", user.ID), zap.String("email", email))
	return s.respond(user.Public())
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrInvalidCredentials, "Invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, newError(ErrInvalidCredentials, "Invalid credentials")
	}

	s.logger.Info("User logged in", zap.Int("user_id", user.ID))
	return s.respond(user.Public())
}

// Verify decodes a bearer token into the user it was issued for.
func (s *AuthService) Verify(token string) (models.PublicUser, error) {
	return s.tokens.Verify(token)
}

func (s *AuthService) respond(user models.PublicUser) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}
