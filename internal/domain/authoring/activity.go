package authoring

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity is one authored item inside a lesson. Content is empty exactly when
// BuildState is DRAFT (or GENERATING from DRAFT).
type Activity struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;column:course_id;not null;index" json:"course_id"`
	LessonID uuid.UUID `gorm:"type:uuid;column:lesson_id;not null;index" json:"lesson_id"`
	Position int       `gorm:"column:position;not null" json:"position"`
	Title    string    `gorm:"column:title;not null" json:"title"`

	ContentType  ContentType  `gorm:"column:content_type;not null;index" json:"content_type"`
	ActivityType ActivityType `gorm:"column:activity_type" json:"activity_type,omitempty"`

	BuildState      BuildState `gorm:"column:build_state;not null;index" json:"build_state"`
	PriorBuildState BuildState `gorm:"column:prior_build_state" json:"-"`

	Content          datatypes.JSON `gorm:"column:content" json:"content,omitempty"`
	Metadata         datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	ValidationIssues datatypes.JSON `gorm:"column:validation_issues" json:"validation_issues,omitempty"`
	PreviousContent  datatypes.JSON `gorm:"column:previous_content" json:"previous_content,omitempty"`
	GenerationParams datatypes.JSON `gorm:"column:generation_params" json:"generation_params,omitempty"`

	LastError           string     `gorm:"column:last_error;type:text" json:"last_error,omitempty"`
	LastModel           string     `gorm:"column:last_model" json:"last_model,omitempty"`
	LastPromptID        string     `gorm:"column:last_prompt_id" json:"last_prompt_id,omitempty"`
	GenerationStartedAt *time.Time `gorm:"column:generation_started_at;index" json:"generation_started_at,omitempty"`

	Version int `gorm:"column:version;not null;default:1" json:"version"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Activity) TableName() string { return "activity" }

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.BuildState == "" {
		a.BuildState = BuildStateDraft
	}
	if a.Version == 0 {
		a.Version = 1
	}
	return nil
}

// Clone returns a deep copy so callers can restore a snapshot after a failed mutation.
func (a *Activity) Clone() *Activity {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Content = cloneJSON(a.Content)
	cp.Metadata = cloneJSON(a.Metadata)
	cp.ValidationIssues = cloneJSON(a.ValidationIssues)
	cp.PreviousContent = cloneJSON(a.PreviousContent)
	cp.GenerationParams = cloneJSON(a.GenerationParams)
	if a.GenerationStartedAt != nil {
		t := *a.GenerationStartedAt
		cp.GenerationStartedAt = &t
	}
	return &cp
}

func cloneJSON(in datatypes.JSON) datatypes.JSON {
	if in == nil {
		return nil
	}
	out := make(datatypes.JSON, len(in))
	copy(out, in)
	return out
}

// HasContent treats an empty or JSON null payload as absent.
func (a *Activity) HasContent() bool {
	if a == nil {
		return false
	}
	s := string(a.Content)
	return s != "" && s != "null"
}

// AllModels lists every persisted authoring model for migrations.
func AllModels() []any {
	return []any{&Course{}, &CourseModule{}, &Lesson{}, &Activity{}}
}
