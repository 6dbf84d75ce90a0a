package course_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/authz"
	"github.com/studingplace/learning-platform/internal/models"
	"github.com/studingplace/learning-platform/internal/services/course"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateCourse(ctx context.Context, c models.Course) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) ReadCourse(ctx context.Context, id int64) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}
func (m *RepoMock) UpdateCourse(ctx context.Context, req models.DummyCourse, id int64) (int, error) {
	args := m.Called(ctx, req, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveCourse(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Course), args.Int(1), args.Error(2)
}
func (m *RepoMock) ListCoursesByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Course, int, error) {
	args := m.Called(ctx, ownerID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Course), args.Int(1), args.Error(2)
}
func (m *RepoMock) IsSubscribed(ctx context.Context, userID, courseID int64) (bool, error) {
	args := m.Called(ctx, userID, courseID)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) ListSubscriberEmails(ctx context.Context, courseID int64) ([]string, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) CourseUpdated(c *models.Course, emails []string) {
	m.Called(c, emails)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func ptr(v int64) *int64 { return &v }

func passthroughCache() *CacheMock {
	cache := new(CacheMock)
	cache.On("Get", mock.Anything, mock.Anything).Return(false, nil)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	cache.On("Invalidate", mock.Anything).Return(nil)
	return cache
}

func TestCourseService_Create_ForbiddenForModerator(t *testing.T) {
	repo := new(RepoMock)
	svc := course.NewCourseService(repo, passthroughCache(), nil, newNoopLogger())
	moderator := authz.Principal{UserID: 1, Groups: []string{models.ModeratorsGroup}}

	_, err := svc.Create(context.Background(), moderator, models.DummyCourse{Title: "Go"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	repo.AssertNotCalled(t, "CreateCourse", mock.Anything, mock.Anything)
}

func TestCourseService_Create_SetsOwner(t *testing.T) {
	repo := new(RepoMock)
	svc := course.NewCourseService(repo, passthroughCache(), nil, newNoopLogger())
	p := authz.Principal{UserID: 42}

	repo.On("CreateCourse", mock.Anything, mock.MatchedBy(func(c models.Course) bool {
		return c.OwnerID != nil && *c.OwnerID == 42
	})).Return(int64(1), nil)

	id, err := svc.Create(context.Background(), p, models.DummyCourse{Title: "Go"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestCourseService_Read_ForeignCourseLooksMissing(t *testing.T) {
	repo := new(RepoMock)
	svc := course.NewCourseService(repo, passthroughCache(), nil, newNoopLogger())
	stranger := authz.Principal{UserID: 3}

	repo.On("ReadCourse", mock.Anything, int64(10)).
		Return(&models.Course{ID: 10, OwnerID: ptr(2)}, nil)

	_, err := svc.Read(context.Background(), stranger, 10)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCourseService_Read_AnnotatesSubscription(t *testing.T) {
	repo := new(RepoMock)
	svc := course.NewCourseService(repo, passthroughCache(), nil, newNoopLogger())
	owner := authz.Principal{UserID: 2}

	repo.On("ReadCourse", mock.Anything, int64(10)).
		Return(&models.Course{ID: 10, OwnerID: ptr(2)}, nil)
	repo.On("IsSubscribed", mock.Anything, int64(2), int64(10)).Return(true, nil)

	res, err := svc.Read(context.Background(), owner, 10)
	require.NoError(t, err)
	assert.True(t, res.IsSubscribed)
}

func TestCourseService_List_NarrowsVisibleSet(t *testing.T) {
	repo := new(RepoMock)
	svc := course.NewCourseService(repo, passthroughCache(), nil, newNoopLogger())

	moderator := authz.Principal{UserID: 1, Groups: []string{models.ModeratorsGroup}}
	regular := authz.Principal{UserID: 2}

	all := []*models.Course{{ID: 1, OwnerID: ptr(2)}, {ID: 2, OwnerID: ptr(3)}}
	own := []*models.Course{{ID: 1, OwnerID: ptr(2)}}

	repo.On("ListCourses", mock.Anything, 10, 0).Return(all, 2, nil)
	repo.On("ListCoursesByOwner", mock.Anything, int64(2), 10, 0).Return(own, 1, nil)
	repo.On("IsSubscribed", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	res, total, err := svc.List(context.Background(), moderator, 10, 0)
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, 2, total)

	res, total, err = svc.List(context.Background(), regular, 10, 0)
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, 1, total)
}

func TestCourseService_Update_ModeratorAllowed(t *testing.T) {
	repo := new(RepoMock)
	notifier := new(NotifierMock)
	svc := course.NewCourseService(repo, passthroughCache(), notifier, newNoopLogger())
	moderator := authz.Principal{UserID: 1, Groups: []string{models.ModeratorsGroup}}

	existing := &models.Course{ID: 10, OwnerID: ptr(2), Title: "Go"}
	repo.On("ReadCourse", mock.Anything, int64(10)).Return(existing, nil)
	repo.On("UpdateCourse", mock.Anything, mock.Anything, int64(10)).Return(1, nil)
	repo.On("ListSubscriberEmails", mock.Anything, int64(10)).Return([]string{"a@b.c"}, nil)
	notifier.On("CourseUpdated", mock.Anything, []string{"a@b.c"}).Return()

	_, err := svc.Update(context.Background(), moderator, 10, models.DummyCourse{Title: "Go 2"})
	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestCourseService_Remove_ModeratorForbidden(t *testing.T) {
	repo := new(RepoMock)
	svc := course.NewCourseService(repo, passthroughCache(), nil, newNoopLogger())
	moderator := authz.Principal{UserID: 1, Groups: []string{models.ModeratorsGroup}}

	repo.On("ReadCourse", mock.Anything, int64(10)).
		Return(&models.Course{ID: 10, OwnerID: ptr(2)}, nil)

	err := svc.Remove(context.Background(), moderator, 10)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	repo.AssertNotCalled(t, "RemoveCourse", mock.Anything, mock.Anything)
}
