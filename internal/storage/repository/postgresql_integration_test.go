package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/models"
)

func TestStorage_ToggleSubscription(t *testing.T) {
	tests := []struct {
		name           string
		wantSubscribed bool
		setup          func(t *testing.T, factory *TestDataFactory) (userID, courseID int64)
	}{
		{
			name:           "first toggle subscribes",
			wantSubscribed: true,
			setup: func(t *testing.T, factory *TestDataFactory) (int64, int64) {
				userID := factory.CreateUser(t, "student@example.com", "Ivan", true)
				courseID := factory.CreateCourse(t, "Go с нуля", nil, nil)
				return userID, courseID
			},
		},
		{
			name:           "repeat toggle unsubscribes",
			wantSubscribed: false,
			setup: func(t *testing.T, factory *TestDataFactory) (int64, int64) {
				userID := factory.CreateUser(t, "student@example.com", "Ivan", true)
				courseID := factory.CreateCourse(t, "Go с нуля", nil, nil)
				factory.CreateSubscription(t, userID, courseID, true)
				return userID, courseID
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			userID, courseID := tt.setup(t, factory)

			subscribed, err := storage.ToggleSubscription(context.Background(), userID, courseID)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSubscribed, subscribed)

			// Уникальное ограничение (user_id, course_id) не даёт строке задвоиться.
			count, err := storage.CountSubscriptions(context.Background(), userID, courseID)
			require.NoError(t, err)
			assert.LessOrEqual(t, count, 1)
		})
	}
}

func TestStorage_ToggleSubscription_Involution(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "student@example.com", "Ivan", true)
	courseID := factory.CreateCourse(t, "Go с нуля", nil, nil)
	ctx := context.Background()

	// Двойное переключение возвращает исходное состояние.
	subscribed, err := storage.ToggleSubscription(ctx, userID, courseID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribed, err = storage.ToggleSubscription(ctx, userID, courseID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	count, err := storage.CountSubscriptions(ctx, userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStorage_ListCourses(t *testing.T) {
	type args struct {
		limit  int
		offset int
	}

	tests := []struct {
		name      string
		args      args
		wantCount int
		wantTotal int
		setup     func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name:      "returns all courses with total",
			args:      args{limit: 10, offset: 0},
			wantCount: 3,
			wantTotal: 3,
			setup: func(t *testing.T, factory *TestDataFactory) {
				ownerID := factory.CreateUser(t, "author@example.com", "Author", true)
				factory.CreateCourse(t, "Go с нуля", nil, &ownerID)
				factory.CreateCourse(t, "PostgreSQL", nil, &ownerID)
				factory.CreateCourse(t, "Docker", nil, nil)
			},
		},
		{
			name:      "pagination narrows the page but not the total",
			args:      args{limit: 2, offset: 2},
			wantCount: 1,
			wantTotal: 3,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateCourse(t, "Go с нуля", nil, nil)
				factory.CreateCourse(t, "PostgreSQL", nil, nil)
				factory.CreateCourse(t, "Docker", nil, nil)
			},
		},
		{
			name:      "empty catalog",
			args:      args{limit: 10, offset: 0},
			wantCount: 0,
			wantTotal: 0,
			setup:     func(_ *testing.T, _ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, total, err := storage.ListCourses(context.Background(), tt.args.limit, tt.args.offset)

			require.NoError(t, err)
			assert.Len(t, got, tt.wantCount)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestStorage_ListCoursesByOwner(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	author := factory.CreateUser(t, "author@example.com", "Author", true)
	other := factory.CreateUser(t, "other@example.com", "Other", true)
	factory.CreateCourse(t, "Go с нуля", nil, &author)
	factory.CreateCourse(t, "PostgreSQL", nil, &author)
	factory.CreateCourse(t, "Docker", nil, &other)
	factory.CreateCourse(t, "Без владельца", nil, nil)

	got, total, err := storage.ListCoursesByOwner(context.Background(), author, 10, 0)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, total)
	for _, course := range got {
		require.NotNil(t, course.OwnerID)
		assert.Equal(t, author, *course.OwnerID)
	}
}

func TestStorage_ReadCourse_LessonsCount(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerID := factory.CreateUser(t, "author@example.com", "Author", true)
	price := 1500.0
	courseID := factory.CreateCourse(t, "Go с нуля", &price, &ownerID)
	emptyID := factory.CreateCourse(t, "Пустой курс", nil, &ownerID)
	factory.CreateLesson(t, courseID, "Переменные", &ownerID)
	factory.CreateLesson(t, courseID, "Срезы", &ownerID)

	course, err := storage.ReadCourse(context.Background(), courseID)
	require.NoError(t, err)
	assert.Equal(t, "Go с нуля", course.Title)
	assert.Equal(t, 2, course.LessonsCount)
	require.NotNil(t, course.Price)
	assert.InDelta(t, 1500.0, *course.Price, 0.001)

	empty, err := storage.ReadCourse(context.Background(), emptyID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.LessonsCount)
}

func TestStorage_ReadCourse_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.ReadCourse(context.Background(), 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStorage_ReadPayment_OwnerScope(t *testing.T) {
	type args struct {
		userID int64
	}

	tests := []struct {
		name    string
		wantErr error
		foreign bool
	}{
		{
			name: "owner reads own payment",
		},
		{
			name:    "foreign payment looks missing",
			wantErr: apperr.ErrNotFound,
			foreign: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			owner := factory.CreateUser(t, "owner@example.com", "Owner", true)
			stranger := factory.CreateUser(t, "stranger@example.com", "Stranger", true)
			courseID := factory.CreateCourse(t, "Go с нуля", nil, nil)
			paymentID := factory.CreatePayment(t, owner, courseID, 1500.0, models.PaymentStatusPending)

			reader := args{userID: owner}
			if tt.foreign {
				reader.userID = stranger
			}

			got, err := storage.ReadPayment(context.Background(), paymentID, reader.userID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, owner, got.UserID)
				require.NotNil(t, got.CourseID)
				assert.Equal(t, courseID, *got.CourseID)
			}
		})
	}
}

func TestStorage_CreatePayment_SingleTarget(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "student@example.com", "Ivan", true)
	courseID := factory.CreateCourse(t, "Go с нуля", nil, nil)
	lessonID := factory.CreateLesson(t, courseID, "Срезы", nil)
	ctx := context.Background()

	// Обе цели сразу нарушают CHECK-ограничение payments_single_target.
	_, err := storage.CreatePayment(ctx, models.Payment{
		UserID:        userID,
		CourseID:      &courseID,
		LessonID:      &lessonID,
		Amount:        1500.0,
		PaymentMethod: models.PaymentMethodStripe,
		Status:        models.PaymentStatusPending,
	})
	assert.Error(t, err)

	// Ни одной цели — тоже нарушение.
	_, err = storage.CreatePayment(ctx, models.Payment{
		UserID:        userID,
		Amount:        1500.0,
		PaymentMethod: models.PaymentMethodStripe,
		Status:        models.PaymentStatusPending,
	})
	assert.Error(t, err)

	// Ровно одна цель проходит.
	id, err := storage.CreatePayment(ctx, models.Payment{
		UserID:        userID,
		LessonID:      &lessonID,
		Amount:        1500.0,
		PaymentMethod: models.PaymentMethodStripe,
		Status:        models.PaymentStatusPending,
	})
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestStorage_UpdatePaymentStatus(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "student@example.com", "Ivan", true)
	courseID := factory.CreateCourse(t, "Go с нуля", nil, nil)
	paymentID := factory.CreatePayment(t, userID, courseID, 1500.0, models.PaymentStatusPending)

	err := storage.UpdatePaymentStatus(context.Background(), paymentID, models.PaymentStatusPaid)
	require.NoError(t, err)

	got, err := storage.ReadPayment(context.Background(), paymentID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, got.Status)
}

func TestStorage_ListPayments(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "student@example.com", "Ivan", true)
	other := factory.CreateUser(t, "other@example.com", "Other", true)
	courseID := factory.CreateCourse(t, "Go с нуля", nil, nil)
	factory.CreatePayment(t, userID, courseID, 1500.0, models.PaymentStatusPaid)
	factory.CreatePayment(t, userID, courseID, 500.0, models.PaymentStatusPending)
	factory.CreatePayment(t, other, courseID, 900.0, models.PaymentStatusPaid)

	got, total, err := storage.ListPayments(context.Background(), userID, 10, 0)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, total)
	for _, payment := range got {
		assert.Equal(t, userID, payment.UserID)
	}
}

func TestStorage_ListSubscriberEmails(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	courseID := factory.CreateCourse(t, "Go с нуля", nil, nil)
	otherCourse := factory.CreateCourse(t, "PostgreSQL", nil, nil)

	active := factory.CreateUser(t, "active@example.com", "Active", true)
	second := factory.CreateUser(t, "second@example.com", "Second", true)
	deactivated := factory.CreateUser(t, "gone@example.com", "Gone", false)
	elsewhere := factory.CreateUser(t, "elsewhere@example.com", "Elsewhere", true)

	factory.CreateSubscription(t, active, courseID, true)
	factory.CreateSubscription(t, second, courseID, true)
	// Деактивированный пользователь и неактивная подписка писем не получают.
	factory.CreateSubscription(t, deactivated, courseID, true)
	factory.CreateSubscription(t, elsewhere, courseID, false)
	factory.CreateSubscription(t, elsewhere, otherCourse, true)

	emails, err := storage.ListSubscriberEmails(context.Background(), courseID)

	require.NoError(t, err)
	assert.Equal(t, []string{"active@example.com", "second@example.com"}, emails)
}

func TestStorage_UpdateProfile(t *testing.T) {
	type args struct {
		req models.DummyProfile
	}

	tests := []struct {
		name      string
		args      args
		wantName  string
		wantPhone string
		wantCity  string
	}{
		{
			name: "updates filled fields only",
			args: args{req: models.DummyProfile{
				Name: "Пётр",
				City: "Казань",
			}},
			wantName:  "Пётр",
			wantPhone: "+70000000000",
			wantCity:  "Казань",
		},
		{
			name:      "empty request keeps everything",
			args:      args{req: models.DummyProfile{}},
			wantName:  "Ivan",
			wantPhone: "+70000000000",
			wantCity:  "Москва",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			userID := factory.CreateUser(t, "student@example.com", "Ivan", true)
			_, err := storage.DB.Exec(`UPDATE users SET phone = '+70000000000', city = 'Москва' WHERE id = $1`, userID)
			require.NoError(t, err)

			rowsAffected, err := storage.UpdateProfile(context.Background(), userID, tt.args.req)
			require.NoError(t, err)
			assert.Equal(t, 1, rowsAffected)

			got, err := storage.GetUser(context.Background(), userID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantPhone, got.Phone)
			assert.Equal(t, tt.wantCity, got.City)
		})
	}
}

func TestStorage_GetUserByEmail_WithGroups(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "mod@example.com", "Mod", true)
	factory.AddToGroup(t, userID, models.ModeratorsGroup)

	got, err := storage.GetUserByEmail(context.Background(), "mod@example.com")

	require.NoError(t, err)
	assert.Equal(t, userID, got.ID)
	assert.Contains(t, got.Groups, models.ModeratorsGroup)
	assert.True(t, got.InGroup(models.ModeratorsGroup))
}

func TestStorage_RemoveCourse_Cascade(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "student@example.com", "Ivan", true)
	courseID := factory.CreateCourse(t, "Go с нуля", nil, nil)
	lessonID := factory.CreateLesson(t, courseID, "Срезы", nil)
	factory.CreateSubscription(t, userID, courseID, true)

	removed, err := storage.RemoveCourse(context.Background(), courseID)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// Уроки и подписки курса уходят каскадом.
	_, err = storage.ReadLesson(context.Background(), lessonID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	count, err := storage.CountSubscriptions(context.Background(), userID, courseID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
