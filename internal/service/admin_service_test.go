package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"newsdesk/internal/auth"
	"newsdesk/internal/errors"
	"newsdesk/internal/model"
	"newsdesk/internal/policy"
	"newsdesk/internal/repository"
)

func TestAdminService_SelfProtection(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAdminService(repo, nil, auth.NewTokenStore(nil), time.Hour, zerolog.Nop())
	me := admin()
	record := &model.User{ID: me.UserID, Role: model.RoleAdmin, Email: "admin@example.com"}
	repo.On("FindByID", mock.Anything, me.UserID).Return(record, nil)

	err := svc.DeleteUser(context.Background(), me, me.UserID)
	assert.ErrorIs(t, err, errors.ErrForbidden)

	_, err = svc.UpdateRole(context.Background(), me, me.UserID, model.RoleReader)
	assert.ErrorIs(t, err, errors.ErrForbidden)

	demote := model.RoleEditor
	_, err = svc.UpdateUser(context.Background(), me, me.UserID, AdminUserUpdate{Role: &demote})
	assert.ErrorIs(t, err, errors.ErrForbidden)

	assert.Equal(t, model.RoleAdmin, record.Role)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAdminService_UpdateRole(t *testing.T) {
	target := &model.User{ID: uuid.New(), Role: model.RoleReader}

	tests := []struct {
		name      string
		actor     policy.Actor
		role      model.Role
		setupMock func(*MockUserRepository)
		wantErr   error
	}{
		{
			name:  "promote reader to author",
			actor: admin(),
			role:  model.RoleAuthor,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, target.ID).Return(&model.User{ID: target.ID, Role: model.RoleReader}, nil)
				m.On("UpdateRole", mock.Anything, target.ID, model.RoleAuthor).Return(nil)
			},
		},
		{
			name:  "same role is a no-op",
			actor: admin(),
			role:  model.RoleReader,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, target.ID).Return(&model.User{ID: target.ID, Role: model.RoleReader}, nil)
			},
		},
		{
			name:  "unknown role",
			actor: admin(),
			role:  "owner",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, target.ID).Return(&model.User{ID: target.ID, Role: model.RoleReader}, nil)
			},
			wantErr: errors.ErrInvalidInput,
		},
		{
			name:      "editor refused",
			actor:     editor(),
			role:      model.RoleAuthor,
			setupMock: func(m *MockUserRepository) {},
			wantErr:   errors.ErrForbidden,
		},
		{
			name:  "missing user",
			actor: admin(),
			role:  model.RoleAuthor,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, target.ID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: errors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			svc := NewAdminService(repo, nil, auth.NewTokenStore(nil), time.Hour, zerolog.Nop())

			user, err := svc.UpdateRole(context.Background(), tt.actor, target.ID, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, user.Role)
			repo.AssertExpectations(t)
		})
	}
}

func TestAdminService_DeleteUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAdminService(repo, nil, auth.NewTokenStore(nil), time.Hour, zerolog.Nop())
	target := &model.User{ID: uuid.New(), Role: model.RoleAuthor}
	repo.On("FindByID", mock.Anything, target.ID).Return(target, nil)
	repo.On("Delete", mock.Anything, target.ID).Return(nil)

	require.NoError(t, svc.DeleteUser(context.Background(), admin(), target.ID))
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), reader(), target.ID), errors.ErrForbidden)
	repo.AssertNumberOfCalls(t, "Delete", 1)
}

func TestAdminService_ListUsers(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewAdminService(repo, nil, auth.NewTokenStore(nil), time.Hour, zerolog.Nop())
	repo.On("List", mock.Anything, repository.UserFilter{Role: model.RoleEditor, Page: 1, Limit: 20}).
		Return([]model.User{{Role: model.RoleEditor}}, int64(1), nil)

	page, err := svc.ListUsers(context.Background(), admin(), repository.UserFilter{Role: model.RoleEditor})
	require.NoError(t, err)
	assert.Len(t, page.Users, 1)
	assert.Equal(t, 1, page.Pagination.Pages)

	_, err = svc.ListUsers(context.Background(), admin(), repository.UserFilter{Role: "boss"})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestAdminService_RevokesSessions(t *testing.T) {
	target := &model.User{ID: uuid.New(), Role: model.RoleEditor}

	t.Run("role change", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenStore)
		svc := NewAdminService(repo, nil, tokens, time.Hour, zerolog.Nop())
		repo.On("FindByID", mock.Anything, target.ID).Return(&model.User{ID: target.ID, Role: model.RoleEditor}, nil)
		repo.On("UpdateRole", mock.Anything, target.ID, model.RoleReader).Return(nil)
		tokens.On("RevokeUser", mock.Anything, target.ID, time.Hour).Return(nil)

		_, err := svc.UpdateRole(context.Background(), admin(), target.ID, model.RoleReader)
		require.NoError(t, err)
		tokens.AssertExpectations(t)
	})

	t.Run("profile edit keeps sessions", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenStore)
		svc := NewAdminService(repo, nil, tokens, time.Hour, zerolog.Nop())
		repo.On("FindByID", mock.Anything, target.ID).Return(&model.User{ID: target.ID, Role: model.RoleEditor}, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		name := "Renamed"

		_, err := svc.UpdateUser(context.Background(), admin(), target.ID, AdminUserUpdate{Name: &name})
		require.NoError(t, err)
		tokens.AssertNotCalled(t, "RevokeUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delete", func(t *testing.T) {
		repo := new(MockUserRepository)
		tokens := new(MockTokenStore)
		svc := NewAdminService(repo, nil, tokens, time.Hour, zerolog.Nop())
		repo.On("FindByID", mock.Anything, target.ID).Return(&model.User{ID: target.ID, Role: model.RoleEditor}, nil)
		repo.On("Delete", mock.Anything, target.ID).Return(nil)
		tokens.On("RevokeUser", mock.Anything, target.ID, time.Hour).Return(nil)

		require.NoError(t, svc.DeleteUser(context.Background(), admin(), target.ID))
		tokens.AssertExpectations(t)
	})
}
