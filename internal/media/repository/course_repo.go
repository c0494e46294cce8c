package repository

import (
	"context"
	"errors"

	"lesson_media_service/internal/media/domain"

	"gorm.io/gorm"
)

// CourseDirectory read-only view of the lesson/class tables owned by the
// course CRUD system. The pipeline validates lessons at submit time and
// resolves the notification recipient from them at finalize time.
type CourseDirectory interface {
	GetLesson(ctx context.Context, lessonID string) (*domain.Lesson, error)
	ResolveLessonOwner(ctx context.Context, lessonID string) (*domain.LessonOwner, error)
}

type courseDirectory struct {
	db *gorm.DB
}

// NewCourseDirectory create CourseDirectory
func NewCourseDirectory(db *gorm.DB) CourseDirectory {
	return &courseDirectory{db: db}
}

func (r *courseDirectory) GetLesson(ctx context.Context, lessonID string) (*domain.Lesson, error) {
	var lesson domain.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, "id = ?", lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// ResolveLessonOwner walk lesson -> class -> teacher
func (r *courseDirectory) ResolveLessonOwner(ctx context.Context, lessonID string) (*domain.LessonOwner, error) {
	lesson, err := r.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	var class domain.Class
	if err := r.db.WithContext(ctx).First(&class, "id = ?", lesson.ClassID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLessonNotFound
		}
		return nil, err
	}

	return &domain.LessonOwner{
		LessonID:    lesson.ID,
		LessonTitle: lesson.Title,
		ClassID:     class.ID,
		ClassName:   class.Name,
		TeacherID:   class.TeacherID,
	}, nil
}
