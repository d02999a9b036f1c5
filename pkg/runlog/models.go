package runlog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusDegraded  = "degraded" // completed with a columns-complete violation
	StatusFailed    = "failed"
)

type RunModel struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey;column:id"`
	Status         string            `gorm:"column:status"`
	IntegratedRows int               `gorm:"column:integrated_rows"`
	IntegratedPath string            `gorm:"column:integrated_path"`
	PatientDir     string            `gorm:"column:patient_dir"`
	Metrics        datatypes.JSONMap `gorm:"column:metrics"`
	ErrorMessage   string            `gorm:"column:error_message"`
	CreatedAt      time.Time         `gorm:"column:created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at"`
	StartedAt      *time.Time        `gorm:"column:started_at"`
	CompletedAt    *time.Time        `gorm:"column:completed_at"`
}

func (RunModel) TableName() string {
	return "pipeline_runs"
}
