package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"newsdesk/internal/auth"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/ratelimit"
	"newsdesk/internal/repository"
)

// RegisterInput carries the fields of a registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// Session is the result of a successful login.
type Session struct {
	Token  string
	Claims *auth.Claims
	User   *model.User
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password, source string) (*Session, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	limiter    *ratelimit.LoginLimiter
	bcryptCost int
	log        zerolog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	limiter *ratelimit.LoginLimiter,
	bcryptCost int,
	log zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		limiter:    limiter,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new user with a hashed password. Self-registration
// may only pick reader or author.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	role := input.Role
	switch role {
	case "":
		role = model.RoleReader
	case model.RoleReader, model.RoleAuthor:
	default:
		return nil, errors.Invalid("role must be reader or author")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, errors.ErrUserAlreadyExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Preferences:  []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user", user.ID.String()).Str("role", string(user.Role)).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues a session. source identifies the
// caller for the attempt limiter.
func (s *authService) Login(ctx context.Context, email, password, source string) (*Session, error) {
	allowed, err := s.limiter.Allow(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("check login attempts: %w", err)
	}
	if !allowed {
		s.log.Warn().Str("source", source).Msg("login rejected by limiter")
		return nil, errors.ErrTooManyAttempts
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		if _, err := s.limiter.Fail(ctx, source); err != nil {
			s.log.Error().Err(err).Msg("record login failure")
		}
		return nil, errors.ErrInvalidCredentials
	}

	if err := s.limiter.Succeed(ctx, source); err != nil {
		s.log.Error().Err(err).Msg("reset login attempts")
	}

	token, claims, err := s.jwtService.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &Session{Token: token, Claims: claims, User: user}, nil
}

// Logout revokes the session until it would have expired. A missing
// session is not an error.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.tokenStore.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Me returns the user behind a session.
func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
