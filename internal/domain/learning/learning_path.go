package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GenerationKindAI       = "ai"
	GenerationKindTemplate = "template"
)

type LearningPath struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Topic          string         `gorm:"column:topic;not null" json:"topic"`
	Level          Level          `gorm:"column:level;not null" json:"level"`
	Pace           Pace           `gorm:"column:pace;not null" json:"pace"`
	Goals          []string       `gorm:"column:goals;type:text;serializer:json" json:"goals"`
	Resources      []Resource     `gorm:"column:resources;type:text;serializer:json" json:"resources"`
	CourseData     datatypes.JSON `gorm:"column:course_data;type:jsonb" json:"course_data,omitempty"`
	GenerationKind string         `gorm:"column:generation_kind" json:"generation_kind,omitempty"`
	Progress       int            `gorm:"column:progress;not null;default:0" json:"progress"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LearningPath) TableName() string { return "learning_path" }

func (p *LearningPath) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
