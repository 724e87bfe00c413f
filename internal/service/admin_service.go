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
	"newsdesk/internal/cache"
	"newsdesk/internal/content"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/policy"
	"newsdesk/internal/repository"
)

// UserPage is one page of an admin user listing.
type UserPage struct {
	Users      []model.User          `json:"users"`
	Pagination repository.Pagination `json:"pagination"`
}

// AdminUserUpdate carries an admin edit of another account.
type AdminUserUpdate struct {
	Name     *string
	Avatar   *string
	Bio      *string
	Location *string
	Role     *model.Role
}

// AdminService manages user accounts. Every operation requires an admin.
type AdminService interface {
	ListUsers(ctx context.Context, actor policy.Actor, filter repository.UserFilter) (*UserPage, error)
	GetUser(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.User, error)
	UpdateUser(ctx context.Context, actor policy.Actor, id uuid.UUID, update AdminUserUpdate) (*model.User, error)
	UpdateRole(ctx context.Context, actor policy.Actor, id uuid.UUID, role model.Role) (*model.User, error)
	DeleteUser(ctx context.Context, actor policy.Actor, id uuid.UUID) error
}

type adminService struct {
	users      repository.UserRepository
	cache      *cache.Client
	tokens     auth.TokenStoreInterface
	sessionTTL time.Duration
	log        zerolog.Logger
}

// NewAdminService builds an AdminService. Role changes and deletions revoke
// the target's sessions in tokens for sessionTTL.
func NewAdminService(
	users repository.UserRepository,
	cache *cache.Client,
	tokens auth.TokenStoreInterface,
	sessionTTL time.Duration,
	log zerolog.Logger,
) AdminService {
	return &adminService{
		users:      users,
		cache:      cache,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		log:        log.With().Str("component", "admin").Logger(),
	}
}

func requireAdmin(actor policy.Actor) error {
	if !actor.Authenticated() {
		return errors.ErrNotAuthenticated
	}
	if actor.Role != model.RoleAdmin {
		return errors.ErrUnauthorized
	}
	return nil
}

func (s *adminService) ListUsers(ctx context.Context, actor policy.Actor, filter repository.UserFilter) (*UserPage, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, errors.Invalid("unknown role")
	}
	page, limit := repository.NormalizePage(filter.Page, filter.Limit, 20)
	filter.Page, filter.Limit = page, limit

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return &UserPage{Users: users, Pagination: repository.NewPagination(page, limit, total)}, nil
}

func (s *adminService) GetUser(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *adminService) UpdateUser(ctx context.Context, actor policy.Actor, id uuid.UUID, update AdminUserUpdate) (*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	roleChanged := false
	if update.Role != nil {
		if err := checkRoleChange(actor, user, *update.Role); err != nil {
			return nil, err
		}
		roleChanged = user.Role != *update.Role
		user.Role = *update.Role
	}
	if update.Name != nil {
		name := strings.TrimSpace(content.PlainText(*update.Name))
		if name == "" {
			return nil, errors.Invalid("name is required")
		}
		user.Name = content.Truncate(name, 100)
	}
	if update.Avatar != nil {
		user.Avatar = strings.TrimSpace(*update.Avatar)
	}
	if update.Bio != nil {
		user.Bio = content.Truncate(content.PlainText(*update.Bio), 500)
	}
	if update.Location != nil {
		user.Location = content.Truncate(content.PlainText(*update.Location), 100)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	if roleChanged {
		s.revokeSessions(ctx, id)
	}
	return user, nil
}

// UpdateRole changes a user's role. Admins cannot lower their own role.
func (s *adminService) UpdateRole(ctx context.Context, actor policy.Actor, id uuid.UUID, role model.Role) (*model.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkRoleChange(actor, user, role); err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	s.revokeSessions(ctx, id)
	s.log.Info().
		Str("user", id.String()).
		Str("from", string(user.Role)).
		Str("to", string(role)).
		Str("actor", actor.UserID.String()).
		Msg("role changed")
	user.Role = role
	return user, nil
}

// DeleteUser soft-deletes an account. Admins cannot delete themselves.
func (s *adminService) DeleteUser(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.UserID {
		return errors.Forbidden("you cannot delete your own account")
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanManage(actor.Role, user.Role) {
		return errors.ErrUnauthorized
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	s.revokeSessions(ctx, id)
	s.log.Info().Str("user", id.String()).Str("actor", actor.UserID.String()).Msg("user deleted")
	return nil
}

// revokeSessions ends the user's open sessions so they pick up the new role.
func (s *adminService) revokeSessions(ctx context.Context, id uuid.UUID) {
	if err := s.tokens.RevokeUser(ctx, id, s.sessionTTL); err != nil {
		s.log.Error().Err(err).Str("user", id.String()).Msg("revoke user sessions")
	}
}

func (s *adminService) find(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func checkRoleChange(actor policy.Actor, target *model.User, role model.Role) error {
	if !role.Valid() {
		return errors.Invalid("unknown role")
	}
	if !policy.CanManage(actor.Role, target.Role) {
		return errors.ErrUnauthorized
	}
	if target.ID == actor.UserID && policy.Rank(role) < policy.Rank(actor.Role) {
		return errors.Forbidden("you cannot lower your own role")
	}
	return nil
}
