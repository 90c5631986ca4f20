package authoring

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, rows []*types.Lesson) ([]*types.Lesson, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Lesson, error)
	NextPosition(dbc dbctx.Context, moduleID uuid.UUID) (int, error)
	SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(dbc dbctx.Context, rows []*types.Lesson) ([]*types.Lesson, error) {
	if len(rows) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Lesson
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *lessonRepo) ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
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

func (r *lessonRepo) NextPosition(dbc dbctx.Context, moduleID uuid.UUID) (int, error) {
	return nextPosition(dbc.DB(r.db).Model(&types.Lesson{}).Where("module_id = ?", moduleID))
}

func (r *lessonRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.Lesson{}).Error
}
