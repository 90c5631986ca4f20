package authoring

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/courseforge-backend/internal/domain/authoring"
	"github.com/yungbote/courseforge-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseforge-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, rows []*types.Course) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetByOwnerAndID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.Course, error)
	ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.Course, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(dbc dbctx.Context, rows []*types.Course) ([]*types.Course, error) {
	if len(rows) == 0 {
		return []*types.Course{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns nil, nil when the course does not exist.
func (r *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Course
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *courseRepo) GetByOwnerAndID(dbc dbctx.Context, ownerID, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil || ownerID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Course
	if err := dbc.DB(r.db).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *courseRepo) ListByOwner(dbc dbctx.Context, ownerID uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	if ownerID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = nowUTC()
	}
	return dbc.DB(r.db).Model(&types.Course{}).Where("id = ?", id).Updates(updates).Error
}

func (r *courseRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.Course{}).Error
}
