package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"user_directory/internal/model"
	"user_directory/internal/repository"
	"user_directory/internal/utils"
)

// bcrypt only looks at the first 72 bytes and rejects longer input
const maxPasswordBytes = 72

// LoginResult is returned by a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// AuthService provides registration, login and token authentication
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Authenticate verifies a bearer token and re-reads the account it names, so a block
	// or delete takes effect on the very next request even though the token stays
	// cryptographically valid until it expires.
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// AuthOptions tunes account creation
type AuthOptions struct {
	InitialAdminEmail string
	BcryptCost        int
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	opts     AuthOptions
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, opts AuthOptions, log *slog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		opts:     opts,
		logger:   log.With(slog.String("component", "auth_service")),
		now:      time.Now,
	}
}

// Register creates a new active account
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password cannot be longer than %d bytes", ErrValidation, maxPasswordBytes)
	}
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check existing user: %w", ErrStoreFailure, err)
	}
	if existingUser != nil {
		return nil, ErrConflict
	}

	hashedPassword, err := utils.HashPasswordWithCost(password, s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleUser
	if s.opts.InitialAdminEmail != "" && email == s.opts.InitialAdminEmail {
		role = model.RoleAdmin
		s.logger.Info("registering initial admin", slog.String("email", email))
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		Status:       model.StatusActive,
		RegisteredAt: s.now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("%w: failed to create user: %w", ErrStoreFailure, err)
	}

	s.logger.Info("user registered", slog.Int("user_id", user.ID), slog.String("role", string(user.Role)))
	return user, nil
}

// Login authenticates an account and issues a token. The password is verified before
// the status so that a blocked account is only revealed to someone holding its password.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: error finding user by email: %w", ErrStoreFailure, err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if user.IsBlocked() {
		return nil, ErrAccountBlocked
	}

	now := s.now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("%w: failed to record login: %w", ErrStoreFailure, err)
	}
	user.LastLoginAt = &now

	token, err := s.jwtUtil.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user logged in", slog.Int("user_id", user.ID))
	return &LoginResult{Token: token, ExpiresAt: now.Add(s.jwtUtil.TTL()), User: user}, nil
}

// Authenticate resolves a bearer token to a live identity
func (s *authService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.jwtUtil.ValidateToken(token)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load token owner: %w", ErrStoreFailure, err)
	}
	if user == nil {
		s.logger.Debug("token owner no longer exists", slog.Int("user_id", claims.UserID))
		return nil, ErrUnauthenticated
	}
	if user.IsBlocked() {
		return nil, ErrAccountBlocked
	}

	if string(user.Role) != claims.Role {
		s.logger.Debug("role changed since token was issued",
			slog.Int("user_id", user.ID),
			slog.String("token_role", claims.Role),
			slog.String("current_role", string(user.Role)),
		)
	}

	// The live role wins over the claim so a demotion is also immediate.
	return &Identity{UserID: user.ID, Role: user.Role}, nil
}
