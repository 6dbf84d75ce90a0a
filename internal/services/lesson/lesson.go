// Package lesson содержит бизнес-логику уроков: CRUD за той же политикой
// доступа, что и курсы, плюс валидация ссылки на видео и уведомление
// подписчиков курса о новых уроках.
package lesson

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studingplace/learning-platform/internal/apperr"
	"github.com/studingplace/learning-platform/internal/authz"
	"github.com/studingplace/learning-platform/internal/lib/sl"
	"github.com/studingplace/learning-platform/internal/lib/videolink"
	"github.com/studingplace/learning-platform/internal/models"
)

// Repository определяет методы для работы с уроками и их курсами в хранилище.
type Repository interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (int64, error)
	ReadLesson(ctx context.Context, id int64) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, req models.DummyLesson, id int64) (int, error)
	RemoveLesson(ctx context.Context, id int64) (int, error)
	ListLessons(ctx context.Context, limit, offset int) ([]*models.Lesson, int, error)
	ListLessonsByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Lesson, int, error)
	ReadCourse(ctx context.Context, id int64) (*models.Course, error)
	ListSubscriberEmails(ctx context.Context, courseID int64) ([]string, error)
}

// Notifier публикует уведомления подписчикам курса. Ошибки отправки не всплывают.
type Notifier interface {
	LessonAdded(course *models.Course, lessonTitle string, emails []string)
}

// LessonService реализует бизнес-логику работы с уроками.
type LessonService struct {
	repo     Repository
	notifier Notifier
	log      *slog.Logger
}

// NewLessonService создает новый экземпляр LessonService.
func NewLessonService(repo Repository, notifier Notifier, log *slog.Logger) *LessonService {
	return &LessonService{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// Create создает новый урок в курсе. Модераторам создание запрещено;
// создатель автоматически становится владельцем. Ссылка на видео должна
// проходить проверку videolink, курс — существовать.
func (s *LessonService) Create(ctx context.Context, p authz.Principal, req models.DummyLesson) (int64, error) {
	if !authz.CanCollection(p, authz.ActionCreate) {
		return 0, apperr.ErrForbidden
	}
	if err := videolink.Validate(req.VideoLink); err != nil {
		return 0, fmt.Errorf("%w: %w", apperr.ErrValidation, err)
	}

	course, err := s.repo.ReadCourse(ctx, req.CourseID)
	if err != nil {
		return 0, err
	}

	lesson := models.Lesson{
		Title:       req.Title,
		Description: req.Description,
		Preview:     req.Preview,
		VideoLink:   req.VideoLink,
		CourseID:    course.ID,
		OwnerID:     &p.UserID,
	}
	id, err := s.repo.CreateLesson(ctx, lesson)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new lesson", slog.Int64("id", id), slog.Int64("course", course.ID))

	if s.notifier != nil {
		emails, err := s.repo.ListSubscriberEmails(ctx, course.ID)
		if err != nil {
			s.log.Error("failed to list subscribers for notice", slog.Int64("course", course.ID), sl.Err(err))
		} else {
			s.notifier.LessonAdded(course, lesson.Title, emails)
		}
	}
	return id, nil
}

// Read возвращает урок по ID. Урок вне видимого множества принципала
// неотличим от отсутствующего.
func (s *LessonService) Read(ctx context.Context, p authz.Principal, id int64) (*models.Lesson, error) {
	lesson, err := s.repo.ReadLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSee(p, lesson.OwnerID) {
		return nil, apperr.ErrNotFound
	}
	return lesson, nil
}

// List возвращает страницу уроков, видимых принципалу, и их общее количество.
func (s *LessonService) List(ctx context.Context, p authz.Principal, limit, offset int) ([]*models.Lesson, int, error) {
	if p.Moderator() {
		return s.repo.ListLessons(ctx, limit, offset)
	}
	return s.repo.ListLessonsByOwner(ctx, p.UserID, limit, offset)
}

// Update обновляет урок. Разрешено владельцу и модератору.
func (s *LessonService) Update(ctx context.Context, p authz.Principal, id int64, req models.DummyLesson) (*models.Lesson, error) {
	lesson, err := s.repo.ReadLesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanSee(p, lesson.OwnerID) {
		return nil, apperr.ErrNotFound
	}
	if !authz.Can(p, authz.ActionUpdate, lesson.OwnerID) {
		return nil, apperr.ErrForbidden
	}
	if err := videolink.Validate(req.VideoLink); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrValidation, err)
	}

	if _, err := s.repo.UpdateLesson(ctx, req, id); err != nil {
		return nil, err
	}
	return s.repo.ReadLesson(ctx, id)
}

// Remove удаляет урок. Разрешено только владельцу; модераторам удаление запрещено.
func (s *LessonService) Remove(ctx context.Context, p authz.Principal, id int64) error {
	lesson, err := s.repo.ReadLesson(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanSee(p, lesson.OwnerID) {
		return apperr.ErrNotFound
	}
	if !authz.Can(p, authz.ActionDestroy, lesson.OwnerID) {
		return apperr.ErrForbidden
	}

	if _, err := s.repo.RemoveLesson(ctx, id); err != nil {
		return err
	}
	s.log.Info("removed lesson", slog.Int64("id", id))
	return nil
}
