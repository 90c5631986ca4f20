package authoring

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

type CourseModuleRepo interface {
	Create(dbc dbctx.Context, rows []*types.CourseModule) ([]*types.CourseModule, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseModule, error)
	ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.CourseModule, error)
	NextPosition(dbc dbctx.Context, courseID uuid.UUID) (int, error)
}

type courseModuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	return &courseModuleRepo{db: db, log: baseLog.With("repo", "CourseModuleRepo")}
}

func (r *courseModuleRepo) Create(dbc dbctx.Context, rows []*types.CourseModule) ([]*types.CourseModule, error) {
	if len(rows) == 0 {
		return []*types.CourseModule{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseModuleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseModule, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.CourseModule
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *courseModuleRepo) ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.CourseModule, error) {
	var out []*types.CourseModule
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

func (r *courseModuleRepo) NextPosition(dbc dbctx.Context, courseID uuid.UUID) (int, error) {
	return nextPosition(dbc.DB(r.db).Model(&types.CourseModule{}).Where("course_id = ?", courseID))
}
