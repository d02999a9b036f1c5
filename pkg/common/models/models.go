package models

import (
	"time"

	"github.com/google/uuid"
)

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // pipeline.run.completed, record.scored
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Batch pipeline
type PipelineRun struct {
	ID             uuid.UUID              `json:"id"`
	Status         string                 `json:"status"`
	SourceRows     map[string]int         `json:"source_rows,omitempty"`
	IntegratedRows int                    `json:"integrated_rows"`
	MissingColumns []string               `json:"missing_columns,omitempty"`
	IntegratedPath string                 `json:"integrated_path,omitempty"`
	PatientDir     string                 `json:"patient_dir,omitempty"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metrics        map[string]interface{} `json:"metrics,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	StartedAt      *time.Time             `json:"started_at,omitempty"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
}

// Model Serving
type ScoreResult struct {
	RequestID    string   `json:"request_id"`
	PatientID    string   `json:"patient_id,omitempty"`
	Class        int      `json:"class"`
	ClassLabel   string   `json:"class_label"` // positive / negative
	Probability  float64  `json:"probability"`
	GroundTruth  *int     `json:"ground_truth,omitempty"`
	Agreement    *bool    `json:"agreement,omitempty"`
	Imputed      []string `json:"imputed_features,omitempty"`
	ModelVersion string   `json:"model_version"`
}

type ModelInfo struct {
	Version      string                 `json:"version"`
	Algorithm    string                 `json:"algorithm"`
	FeatureCount int                    `json:"feature_count"`
	TrainedAt    time.Time              `json:"trained_at"`
	Metrics      map[string]interface{} `json:"metrics,omitempty"`
	ArtifactPath string                 `json:"artifact_path,omitempty"`
}
