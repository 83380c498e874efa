package toolmoves

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"toolmove/internal/repository"
	"toolmove/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	reasonID     = "0b8a3c3e-9d51-4c1e-a4f5-6a1f2c3d4e5f"
	departmentID = "7e0f5b7a-1c2d-4e3f-8a9b-0c1d2e3f4a5b"
	moveID       = "3c4d5e6f-7a8b-4c9d-8e0f-1a2b3c4d5e6f"
)

type MockToolMoveRepository struct {
	mock.Mock
}

func (m *MockToolMoveRepository) GetToolMoves(ctx context.Context, qb repository.QueryBuilder) ([]models.ToolMove, error) {
	args := m.Called(ctx, qb)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ToolMove), args.Error(1)
}

func (m *MockToolMoveRepository) GetToolMove(ctx context.Context, id string) (*models.ToolMove, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ToolMove), args.Error(1)
}

func (m *MockToolMoveRepository) PersistToolMove(ctx context.Context, move *models.ToolMove) error {
	args := m.Called(ctx, move)
	return args.Error(0)
}

func (m *MockToolMoveRepository) UpdateWeldFields(ctx context.Context, id string, patch models.WeldTouchupPatch, updatedAt time.Time) error {
	args := m.Called(ctx, id, patch, updatedAt)
	return args.Error(0)
}

func (m *MockToolMoveRepository) DeleteToolMove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReasonChecker struct {
	mock.Mock
}

func (m *MockReasonChecker) ReasonExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newTestHandler(repo *MockToolMoveRepository, reasons *MockReasonChecker) *ToolMoveHandler {
	service := NewService(repo, reasons)
	service.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }
	return NewHandler(service, zap.NewNop())
}

func setupTestContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userID", "u-1")
	c.Set("role", "user")
	c.Set("email", "operator@plant.local")
	return c, w
}

func TestCreateToolMove(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(repo *MockToolMoveRepository, reasons *MockReasonChecker)
		expectedStatus int
	}{
		{
			name: "created with caller as mover",
			body: `{"reason":"` + reasonID + `","department":"` + departmentID + `","requiresWeldTouchup":true}`,
			setupMock: func(repo *MockToolMoveRepository, reasons *MockReasonChecker) {
				reasons.On("ReasonExists", mock.Anything, reasonID).Return(true, nil)
				repo.On("PersistToolMove", mock.Anything, mock.MatchedBy(func(m *models.ToolMove) bool {
					return m.MovedBy == "operator@plant.local" &&
						m.RequiresWeldTouchup && !m.WeldTouchupCompleted &&
						m.DepartmentID != nil && *m.DepartmentID == departmentID &&
						m.LineID == nil && m.StationID == nil
				})).Return(nil)
				repo.On("GetToolMove", mock.Anything, mock.Anything).Return(nil, errors.New("replica lag"))
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "unknown reason writes nothing",
			body: `{"reason":"` + reasonID + `"}`,
			setupMock: func(repo *MockToolMoveRepository, reasons *MockReasonChecker) {
				reasons.On("ReasonExists", mock.Anything, reasonID).Return(false, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "malformed station id",
			body: `{"reason":"` + reasonID + `","station":"station-9"}`,
			setupMock: func(repo *MockToolMoveRepository, reasons *MockReasonChecker) {
				reasons.On("ReasonExists", mock.Anything, reasonID).Return(true, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing reason",
			body:           `{"notes":"moved die"}`,
			setupMock:      func(repo *MockToolMoveRepository, reasons *MockReasonChecker) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "reason lookup failure",
			body: `{"reason":"` + reasonID + `"}`,
			setupMock: func(repo *MockToolMoveRepository, reasons *MockReasonChecker) {
				reasons.On("ReasonExists", mock.Anything, reasonID).Return(false, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockToolMoveRepository)
			reasons := new(MockReasonChecker)
			tt.setupMock(repo, reasons)
			handler := newTestHandler(repo, reasons)
			c, w := setupTestContext(http.MethodPost, "/tool-moves", tt.body)

			handler.CreateToolMove(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			repo.AssertExpectations(t)
			reasons.AssertExpectations(t)
			if tt.expectedStatus != http.StatusCreated {
				repo.AssertNotCalled(t, "PersistToolMove", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUpdateWeldTouchup(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(repo *MockToolMoveRepository)
		expectedStatus int
	}{
		{
			name: "complete obligation",
			id:   moveID,
			body: `{"weldTouchupCompleted":true}`,
			setupMock: func(repo *MockToolMoveRepository) {
				repo.On("GetToolMove", mock.Anything, moveID).Return(&models.ToolMove{ID: moveID, RequiresWeldTouchup: true}, nil)
				repo.On("UpdateWeldFields", mock.Anything, moveID, mock.MatchedBy(func(p models.WeldTouchupPatch) bool {
					return p.WeldTouchupCompleted != nil && *p.WeldTouchupCompleted &&
						p.RequiresWeldTouchup == nil && p.WeldTouchupNotes == nil
				}), mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "repeat completion still writes the provided fields",
			id:   moveID,
			body: `{"weldTouchupCompleted":true}`,
			setupMock: func(repo *MockToolMoveRepository) {
				repo.On("GetToolMove", mock.Anything, moveID).
					Return(&models.ToolMove{ID: moveID, RequiresWeldTouchup: true, WeldTouchupCompleted: true}, nil)
				repo.On("UpdateWeldFields", mock.Anything, moveID, mock.MatchedBy(func(p models.WeldTouchupPatch) bool {
					return p.WeldTouchupCompleted != nil && *p.WeldTouchupCompleted
				}), mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "empty patch skips the write",
			id:   moveID,
			body: `{}`,
			setupMock: func(repo *MockToolMoveRepository) {
				repo.On("GetToolMove", mock.Anything, moveID).Return(&models.ToolMove{ID: moveID}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "missing move",
			id:   moveID,
			body: `{"weldTouchupCompleted":true}`,
			setupMock: func(repo *MockToolMoveRepository) {
				repo.On("GetToolMove", mock.Anything, moveID).Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "row deleted between read and write",
			id:   moveID,
			body: `{"weldTouchupNotes":"late"}`,
			setupMock: func(repo *MockToolMoveRepository) {
				repo.On("GetToolMove", mock.Anything, moveID).Return(&models.ToolMove{ID: moveID}, nil)
				repo.On("UpdateWeldFields", mock.Anything, moveID, mock.Anything, mock.Anything).Return(repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid payload",
			id:             moveID,
			body:           `{"weldTouchupCompleted":"yes"}`,
			setupMock:      func(repo *MockToolMoveRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockToolMoveRepository)
			tt.setupMock(repo)
			handler := newTestHandler(repo, new(MockReasonChecker))
			c, w := setupTestContext(http.MethodPatch, "/tool-moves/"+tt.id, tt.body)
			c.Params = gin.Params{{Key: "id", Value: tt.id}}

			handler.UpdateWeldTouchup(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			repo.AssertExpectations(t)
		})
	}
}

func TestUpdateWeldTouchupReturnsPatchedMove(t *testing.T) {
	repo := new(MockToolMoveRepository)
	repo.On("GetToolMove", mock.Anything, moveID).Return(&models.ToolMove{ID: moveID, RequiresWeldTouchup: true}, nil)
	repo.On("UpdateWeldFields", mock.Anything, moveID, mock.Anything, mock.Anything).Return(nil)
	handler := newTestHandler(repo, new(MockReasonChecker))
	c, w := setupTestContext(http.MethodPatch, "/tool-moves/"+moveID, `{"weldTouchupCompleted":true,"weldTouchupNotes":"ok"}`)
	c.Params = gin.Params{{Key: "id", Value: moveID}}

	handler.UpdateWeldTouchup(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body models.ToolMove
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.WeldTouchupCompleted)
	assert.Equal(t, "ok", body.WeldTouchupNotes)
	assert.True(t, body.RequiresWeldTouchup)
}

func TestGetOutstandingFiltersOnFlags(t *testing.T) {
	repo := new(MockToolMoveRepository)
	repo.On("GetToolMoves", mock.Anything, mock.MatchedBy(func(qb repository.QueryBuilder) bool {
		conditions := qb.BuildConditions(filterAliases)
		return assert.ObjectsAreEqual(goqu.Ex{
			"tm.requires_weld_touchup":  true,
			"tm.weld_touchup_completed": false,
		}, conditions)
	})).Return([]models.ToolMove{{ID: moveID, RequiresWeldTouchup: true}}, nil)
	handler := newTestHandler(repo, new(MockReasonChecker))
	c, w := setupTestContext(http.MethodGet, "/tool-moves/outstanding", "")

	handler.GetOutstanding(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), moveID)
	repo.AssertExpectations(t)
}

func TestGetToolMovesRejectsMalformedFilter(t *testing.T) {
	repo := new(MockToolMoveRepository)
	handler := newTestHandler(repo, new(MockReasonChecker))
	c, w := setupTestContext(http.MethodGet, "/tool-moves?department=body-shop", "")

	handler.GetToolMoves(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "GetToolMoves", mock.Anything, mock.Anything)
}

func TestDeleteToolMove(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"missing", repository.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockToolMoveRepository)
			repo.On("DeleteToolMove", mock.Anything, moveID).Return(tt.err)
			handler := newTestHandler(repo, new(MockReasonChecker))
			c, _ := setupTestContext(http.MethodDelete, "/tool-moves/"+moveID, "")
			c.Params = gin.Params{{Key: "id", Value: moveID}}

			handler.DeleteToolMove(c)

			assert.Equal(t, tt.expectedStatus, c.Writer.Status())
		})
	}
}
