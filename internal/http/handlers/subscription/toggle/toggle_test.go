package toggle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/authz"
	"github.com/studingplace/learning-platform/internal/http/middlewarectx"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Toggle(ctx context.Context, userID, courseID int64) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(t *testing.T, body any, p *authz.Principal) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/subscriptions/toggle", bytes.NewReader(raw))
	if p != nil {
		ctx := context.WithValue(req.Context(), middlewarectx.PrincipalKey, *p)
		req = req.WithContext(ctx)
	}
	return req
}

func TestToggleHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		principal      *authz.Principal
		setupMock      func(*MockService)
		expectedStatus int
		wantSubscribed *bool
	}{
		{
			name:      "subscribes",
			body:      map[string]any{"course_id": 10},
			principal: &authz.Principal{UserID: 1},
			setupMock: func(s *MockService) {
				s.On("Toggle", mock.Anything, int64(1), int64(10)).Return(true, nil).Once()
			},
			expectedStatus: http.StatusOK,
			wantSubscribed: boolPtr(true),
		},
		{
			name:      "unsubscribes on repeat",
			body:      map[string]any{"course_id": 10},
			principal: &authz.Principal{UserID: 1},
			setupMock: func(s *MockService) {
				s.On("Toggle", mock.Anything, int64(1), int64(10)).Return(false, nil).Once()
			},
			expectedStatus: http.StatusOK,
			wantSubscribed: boolPtr(false),
		},
		{
			name:      "course missing",
			body:      map[string]any{"course_id": 99},
			principal: &authz.Principal{UserID: 1},
			setupMock: func(s *MockService) {
				s.On("Toggle", mock.Anything, int64(1), int64(99)).Return(false, apperr.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "validation failure",
			body:           map[string]any{"course_id": 0},
			principal:      &authz.Principal{UserID: 1},
			setupMock:      func(s *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "anonymous rejected",
			body:           map[string]any{"course_id": 10},
			principal:      nil,
			setupMock:      func(s *MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:      "storage failure",
			body:      map[string]any{"course_id": 10},
			principal: &authz.Principal{UserID: 1},
			setupMock: func(s *MockService) {
				s.On("Toggle", mock.Anything, int64(1), int64(10)).Return(false, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMock(service)
			handler := New(newNoopLogger(), service)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(t, tt.body, tt.principal))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.wantSubscribed != nil {
				var resp struct {
					Data struct {
						Subscribed bool `json:"subscribed"`
					} `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, *tt.wantSubscribed, resp.Data.Subscribed)
			}
			service.AssertExpectations(t)
		})
	}
}

func boolPtr(v bool) *bool { return &v }
