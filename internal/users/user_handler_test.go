package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"toolmove/internal/repository"
	custom_error "toolmove/pkg/errors"
	"toolmove/pkg/models"
	"toolmove/pkg/roles"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(ctx context.Context, req models.CreateUserRequest, hashedPassword []byte) (*models.User, error) {
	args := m.Called(ctx, req, hashedPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, id string, changes *models.UserChanges) error {
	args := m.Called(ctx, id, changes)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", "admin-1")
	c.Set("role", "admin")
	return c, w
}

func stringPtr(s string) *string {
	return &s
}

func rolesPtr(r roles.Role) *roles.Role {
	return &r
}

func TestRegisterUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, zap.NewNop())

	tests := []struct {
		name           string
		payload        models.CreateUserRequest
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "successful registration",
			payload: models.CreateUserRequest{
				Email:    "welder@plant.local",
				Password: "password123",
				Fullname: stringPtr("Test User"),
				Role:     roles.User,
			},
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything, mock.Anything).
					Return(&models.User{ID: "u-1", Email: "welder@plant.local", Role: roles.User}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate email",
			payload: models.CreateUserRequest{
				Email:    "welder@plant.local",
				Password: "password123",
			},
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("failed to insert user: %w", custom_error.WrapDBError("dup", "23505")))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "short password",
			payload: models.CreateUserRequest{
				Email:    "welder@plant.local",
				Password: "123",
			},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid role",
			payload: models.CreateUserRequest{
				Email:    "welder@plant.local",
				Password: "password123",
				Role:     roles.Role("root"),
			},
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "repository error",
			payload: models.CreateUserRequest{
				Email:    "welder@plant.local",
				Password: "password123",
			},
			setupMock: func() {
				mockRepo.On("PersistUser", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			mockRepo.Calls = nil
			tt.setupMock()
			c, w := setupTestContext()

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("POST", "/users", bytes.NewBuffer(body))
			c.Request.Header.Set("Content-Type", "application/json")

			handler.RegisterUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, zap.NewNop())

	tests := []struct {
		name           string
		userID         string
		payload        models.UpdateUserRequest
		setupMock      func()
		expectedStatus int
	}{
		{
			name:   "role change",
			userID: "u-1",
			payload: models.UpdateUserRequest{
				Fullname: stringPtr("Updated Name"),
				Role:     rolesPtr(roles.Admin),
			},
			setupMock: func() {
				mockRepo.On("GetUser", mock.Anything, "u-1").Return(&models.User{
					ID:    "u-1",
					Email: "welder@plant.local",
					Role:  roles.User,
				}, nil)
				mockRepo.On("UpdateUser", mock.Anything, "u-1", mock.MatchedBy(func(changes *models.UserChanges) bool {
					return changes.Role != nil && *changes.Role == string(roles.Admin) && *changes.Fullname == "Updated Name"
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "password change is hashed",
			userID: "u-1",
			payload: models.UpdateUserRequest{
				Password: stringPtr("newPassword123"),
			},
			setupMock: func() {
				mockRepo.On("GetUser", mock.Anything, "u-1").Return(&models.User{
					ID:           "u-1",
					PasswordHash: "oldHash",
					Role:         roles.User,
				}, nil)
				mockRepo.On("UpdateUser", mock.Anything, "u-1", mock.MatchedBy(func(changes *models.UserChanges) bool {
					return changes.PasswordHash != nil && *changes.PasswordHash != "newPassword123"
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "password too short",
			userID: "u-1",
			payload: models.UpdateUserRequest{
				Password: stringPtr("123"),
			},
			setupMock: func() {
				mockRepo.On("GetUser", mock.Anything, "u-1").Return(&models.User{ID: "u-1", Role: roles.User}, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "no changes",
			userID:  "u-1",
			payload: models.UpdateUserRequest{},
			setupMock: func() {
				mockRepo.On("GetUser", mock.Anything, "u-1").Return(&models.User{ID: "u-1", Role: roles.User}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "user not found",
			userID: "missing",
			payload: models.UpdateUserRequest{
				Fullname: stringPtr("Updated Name"),
			},
			setupMock: func() {
				mockRepo.On("GetUser", mock.Anything, "missing").Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			mockRepo.Calls = nil
			tt.setupMock()
			c, w := setupTestContext()

			body, _ := json.Marshal(tt.payload)
			c.Request = httptest.NewRequest("PATCH", "/users/"+tt.userID, bytes.NewBuffer(body))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Params = []gin.Param{{Key: "id", Value: tt.userID}}

			handler.UpdateUser(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetUserList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo, zap.NewNop())

	tests := []struct {
		name           string
		setupMock      func()
		expectedStatus int
	}{
		{
			name: "successful list retrieval",
			setupMock: func() {
				mockRepo.On("GetUsers", mock.Anything).Return([]models.User{
					{ID: "u-1", Email: "a@plant.local"},
					{ID: "u-2", Email: "b@plant.local"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "repository error",
			setupMock: func() {
				mockRepo.On("GetUsers", mock.Anything).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.ExpectedCalls = nil
			mockRepo.Calls = nil
			tt.setupMock()
			c, w := setupTestContext()
			c.Request = httptest.NewRequest("GET", "/users", nil)

			handler.GetUserList(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestGetUserHidesPasswordHash(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetUser", mock.Anything, "u-1").Return(&models.User{ID: "u-1", Email: "a@plant.local", PasswordHash: "secret-hash"}, nil)
	handler := NewHandler(mockRepo, zap.NewNop())
	c, w := setupTestContext()
	c.Request = httptest.NewRequest("GET", "/users/u-1", nil)
	c.Params = []gin.Param{{Key: "id", Value: "u-1"}}

	handler.GetUser(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")
}

func TestDeleteUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("deleted", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("DeleteUser", mock.Anything, "u-2").Return(nil)
		handler := NewHandler(mockRepo, zap.NewNop())
		c, w := setupTestContext()
		c.Request = httptest.NewRequest("DELETE", "/users/u-2", nil)
		c.Params = []gin.Param{{Key: "id", Value: "u-2"}}

		handler.DeleteUser(c)

		assert.Equal(t, http.StatusNoContent, c.Writer.Status())
		assert.Empty(t, w.Body.String())
		mockRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("DeleteUser", mock.Anything, "u-404").Return(repository.ErrNotFound)
		handler := NewHandler(mockRepo, zap.NewNop())
		c, w := setupTestContext()
		c.Request = httptest.NewRequest("DELETE", "/users/u-404", nil)
		c.Params = []gin.Param{{Key: "id", Value: "u-404"}}

		handler.DeleteUser(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("self delete is refused", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		handler := NewHandler(mockRepo, zap.NewNop())
		c, w := setupTestContext()
		c.Request = httptest.NewRequest("DELETE", "/users/admin-1", nil)
		c.Params = []gin.Param{{Key: "id", Value: "admin-1"}}

		handler.DeleteUser(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockRepo.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	})
}
