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

	"ordr/internal/platform/middleware"
	dErrors "ordr/pkg/domain-errors"
	"ordr/pkg/platform/audit"
	"ordr/pkg/platform/sentinel"
)

// confirmFailure is the single message returned for every confirmation
// failure mode, so callers cannot probe which check failed.
const confirmFailure = "user not exists, is already activated or passed key is wrong"

const tokenTTL = 24 * time.Hour

type Service struct {
	users      UserStore
	optIns     OptInStore
	signingKey []byte
	logger     *slog.Logger
	auditor    *audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditor(auditor *audit.Publisher) Option {
	return func(s *Service) { s.auditor = auditor }
}

func New(users UserStore, optIns OptInStore, signingKey string, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if optIns == nil {
		return nil, fmt.Errorf("opt-in store is required")
	}
	svc := &Service{
		users:      users,
		optIns:     optIns,
		signingKey: []byte(signingKey),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register creates an inactive account and a confirmation key. The key is
// returned so the caller (or a mail hook) can deliver it to the user.
func (s *Service) Register(ctx context.Context, username, email, password string) (string, error) {
	if username == "" || email == "" || password == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "username, email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     false,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return "", dErrors.New(dErrors.CodeConflict, "username already taken")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	key := uuid.New().String()
	if err := s.optIns.Create(ctx, OptIn{Username: username, Key: key}); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to store opt-in key")
	}

	s.emit(ctx, audit.EventUserRegistered, username)
	return key, nil
}

// Confirm activates an account given its opt-in key. Every failure mode -
// unknown user, already active, missing opt-in, wrong key - returns the same
// uniform not-found error.
func (s *Service) Confirm(ctx context.Context, username, key string) error {
	user, err := s.users.ByUsername(ctx, username)
	if err != nil {
		return dErrors.New(dErrors.CodeNotFound, confirmFailure)
	}
	if user.IsActive {
		return dErrors.New(dErrors.CodeNotFound, confirmFailure)
	}
	optIn, err := s.optIns.ByUsername(ctx, username)
	if err != nil {
		return dErrors.New(dErrors.CodeNotFound, confirmFailure)
	}
	if optIn.Key != key {
		return dErrors.New(dErrors.CodeNotFound, confirmFailure)
	}

	user.IsActive = true
	if err := s.users.Update(ctx, user); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to activate user")
	}
	if err := s.optIns.Delete(ctx, username); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to burn opt-in key")
	}

	s.emit(ctx, audit.EventUserActivated, username)
	return nil
}

// Login checks credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.ByUsername(ctx, username)
	if err != nil || !user.IsActive {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return token, nil
}

// EmailByUsername resolves a user's mail address; used when notifying
// dataset owners about reviewer changes.
func (s *Service) EmailByUsername(ctx context.Context, username string) (string, error) {
	user, err := s.users.ByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// ValidateToken implements middleware.JWTValidator.
func (s *Service) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	out := &middleware.JWTClaims{}
	if sub, ok := claims["sub"].(string); ok {
		out.UserID = sub
	}
	if username, ok := claims["username"].(string); ok {
		out.Username = username
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if out.Username == "" {
		return nil, fmt.Errorf("token missing username claim")
	}
	return out, nil
}

func (s *Service) emit(ctx context.Context, action, username string) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		Action:    action,
		Actor:     username,
		RequestID: middleware.GetRequestID(ctx),
	})
}
