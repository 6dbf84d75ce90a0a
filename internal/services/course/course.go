// Package course содержит бизнес-логику каталога курсов: CRUD за политикой
// доступа, кеширование карточек и уведомления подписчиков об обновлениях.
package course

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/authz"
	"github.com/studingplace/learning-platform/internal/lib/sl"
	"github.com/studingplace/learning-platform/internal/models"
)

// Repository определяет методы для работы с курсами в хранилище.
type Repository interface {
	CreateCourse(ctx context.Context, course models.Course) (int64, error)
	ReadCourse(ctx context.Context, id int64) (*models.Course, error)
	UpdateCourse(ctx context.Context, req models.DummyCourse, id int64) (int, error)
	RemoveCourse(ctx context.Context, id int64) (int, error)
	ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, int, error)
	ListCoursesByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Course, int, error)
	IsSubscribed(ctx context.Context, userID, courseID int64) (bool, error)
	ListSubscriberEmails(ctx context.Context, courseID int64) ([]string, error)
}

// Cache описывает методы для кэширования карточек курсов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Notifier публикует уведомления подписчикам. Ошибки отправки не всплывают.
type Notifier interface {
	CourseUpdated(course *models.Course, emails []string)
}

// CourseService реализует бизнес-логику работы с курсами.
type CourseService struct {
	repo     Repository
	cache    Cache
	notifier Notifier
	log      *slog.Logger
}

// NewCourseService создает новый экземпляр CourseService.
func NewCourseService(repo Repository, cache Cache, notifier Notifier, log *slog.Logger) *CourseService {
	return &CourseService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("course:%d", id)
}

// Create создает новый курс. Модераторам создание запрещено;
// создатель автоматически становится владельцем.
func (s *CourseService) Create(ctx context.Context, p authz.Principal, req models.DummyCourse) (int64, error) {
	if !authz.CanCollection(p, authz.ActionCreate) {
		return 0, apperr.ErrForbidden
	}

	course := models.Course{
		Title:       req.Title,
		Description: req.Description,
		Preview:     req.Preview,
		Price:       req.Price,
		OwnerID:     &p.UserID,
	}
	id, err := s.repo.CreateCourse(ctx, course)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new course", slog.Int64("id", id), slog.Int64("owner", p.UserID))
	return id, nil
}

// Read возвращает курс по ID, используя кеш или репозиторий.
// Курс вне видимого множества принципала неотличим от отсутствующего.
func (s *CourseService) Read(ctx context.Context, p authz.Principal, id int64) (*models.Course, error) {
	course, err := s.readThrough(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSee(p, course.OwnerID) {
		return nil, apperr.ErrNotFound
	}

	subscribed, err := s.repo.IsSubscribed(ctx, p.UserID, id)
	if err != nil {
		return nil, err
	}
	course.IsSubscribed = subscribed
	return course, nil
}

func (s *CourseService) readThrough(ctx context.Context, id int64) (*models.Course, error) {
	var cached *models.Course
	key := cacheKey(id)
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("failed to read course from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	course, err := s.repo.ReadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, course, time.Hour); err != nil {
		s.log.Warn("failed to cache course", slog.String("key", key), sl.Err(err))
	}
	return course, nil
}

// List возвращает страницу курсов, видимых принципалу, и их общее количество.
// Модераторы видят все курсы, остальные — только собственные.
func (s *CourseService) List(ctx context.Context, p authz.Principal, limit, offset int) ([]*models.Course, int, error) {
	var courses []*models.Course
	var total int
	var err error
	if p.Moderator() {
		courses, total, err = s.repo.ListCourses(ctx, limit, offset)
	} else {
		courses, total, err = s.repo.ListCoursesByOwner(ctx, p.UserID, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}

	for _, c := range courses {
		subscribed, err := s.repo.IsSubscribed(ctx, p.UserID, c.ID)
		if err != nil {
			return nil, 0, err
		}
		c.IsSubscribed = subscribed
	}
	return courses, total, nil
}

// Update обновляет курс и уведомляет подписчиков. Разрешено владельцу и модератору.
func (s *CourseService) Update(ctx context.Context, p authz.Principal, id int64, req models.DummyCourse) (*models.Course, error) {
	course, err := s.repo.ReadCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSee(p, course.OwnerID) {
		return nil, apperr.ErrNotFound
	}
	if !authz.Can(p, authz.ActionUpdate, course.OwnerID) {
		return nil, apperr.ErrForbidden
	}

	if _, err := s.repo.UpdateCourse(ctx, req, id); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate course cache", slog.Int64("id", id), sl.Err(err))
	}

	updated, err := s.repo.ReadCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		emails, err := s.repo.ListSubscriberEmails(ctx, id)
		if err != nil {
			s.log.Error("failed to list subscribers for notice", slog.Int64("course", id), sl.Err(err))
		} else {
			s.notifier.CourseUpdated(updated, emails)
		}
	}
	return updated, nil
}

// Remove удаляет курс. Разрешено только владельцу; модераторам удаление запрещено.
func (s *CourseService) Remove(ctx context.Context, p authz.Principal, id int64) error {
	course, err := s.repo.ReadCourse(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanSee(p, course.OwnerID) {
		return apperr.ErrNotFound
	}
	if !authz.Can(p, authz.ActionDestroy, course.OwnerID) {
		return apperr.ErrForbidden
	}

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate course cache", slog.Int64("id", id), sl.Err(err))
	}
	if _, err := s.repo.RemoveCourse(ctx, id); err != nil {
		return err
	}
	s.log.Info("removed course", slog.Int64("id", id))
	return nil
}
