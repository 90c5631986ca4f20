package authoring

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

type ActivityRepo interface {
	Create(dbc dbctx.Context, rows []*types.Activity) ([]*types.Activity, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Activity, error)
	ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Activity, error)
	ListByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.Activity, error)
	ListStaleGenerating(dbc dbctx.Context, startedBefore time.Time) ([]*types.Activity, error)
	NextPosition(dbc dbctx.Context, lessonID uuid.UUID) (int, error)
	SoftDeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(dbc dbctx.Context, rows []*types.Activity) ([]*types.Activity, error) {
	if len(rows) == 0 {
		return []*types.Activity{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *activityRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Activity, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Activity
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *activityRepo) ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Activity, error) {
	var out []*types.Activity
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("course_id = ?", courseID).
		Order("position ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) ListByLesson(dbc dbctx.Context, lessonID uuid.UUID) ([]*types.Activity, error) {
	var out []*types.Activity
	if lessonID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("lesson_id = ?", lessonID).
		Order("position ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListStaleGenerating returns activities whose generation started before the cutoff
// and never finished.
func (r *activityRepo) ListStaleGenerating(dbc dbctx.Context, startedBefore time.Time) ([]*types.Activity, error) {
	var out []*types.Activity
	if err := dbc.DB(r.db).
		Where("build_state = ? AND generation_started_at < ?", types.BuildStateGenerating, startedBefore).
		Order("generation_started_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) NextPosition(dbc dbctx.Context, lessonID uuid.UUID) (int, error) {
	return nextPosition(dbc.DB(r.db).Model(&types.Activity{}).Where("lesson_id = ?", lessonID))
}

func (r *activityRepo) SoftDeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("lesson_id IN ?", lessonIDs).Delete(&types.Activity{}).Error
}
