// Package scoring implements the live scoring path: schema validation of
// uploaded records against the canonical feature set and classification via
// the memoized model.
package scoring

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/neuroscreen-ai/platform/pkg/catalog"
	kafkabus "github.com/neuroscreen-ai/platform/pkg/common/kafka"
	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/common/models"
	"github.com/neuroscreen-ai/platform/pkg/dataset"
	"github.com/neuroscreen-ai/platform/pkg/ml/linear"
	"github.com/neuroscreen-ai/platform/pkg/observability/metrics"
	"github.com/neuroscreen-ai/platform/pkg/storage"
)

type Service struct {
	cat      catalog.Catalog
	provider *Provider
	cache    *storage.FeatureCache // nil when the feature cache is disabled
	producer *kafkabus.Producer    // nil when events are disabled
}

func NewService(cat catalog.Catalog, provider *Provider, cache *storage.FeatureCache, producer *kafkabus.Producer) *Service {
	return &Service{cat: cat, provider: provider, cache: cache, producer: producer}
}

// ModelInfo forces model initialisation and returns its metadata.
func (s *Service) ModelInfo() (models.ModelInfo, error) {
	_, info, err := s.provider.Model()
	return info, err
}

// ScoreUpload parses an uploaded record (delimiter inferred) and scores its
// first row. Errors are scoped to this request.
func (s *Service) ScoreUpload(ctx context.Context, r io.Reader) (models.ScoreResult, error) {
	table, err := dataset.ReadInferred(r)
	if err != nil {
		return models.ScoreResult{}, err
	}
	return s.score(ctx, table)
}

// ScorePatient scores a patient whose canonical vector was materialised by
// the batch pipeline.
func (s *Service) ScorePatient(ctx context.Context, patientID string) (models.ScoreResult, error) {
	if s.cache == nil {
		return models.ScoreResult{}, ErrPatientNotFound
	}
	row, err := s.cache.Get(ctx, patientID)
	if err != nil {
		return models.ScoreResult{}, err
	}

	columns := make([]string, 0, len(row))
	cells := make([]string, 0, len(row))
	for _, name := range s.cat.OutputColumns() {
		if value, ok := row[name]; ok {
			columns = append(columns, name)
			cells = append(cells, value)
		}
	}
	table := dataset.New(columns)
	table.Rows = append(table.Rows, cells)
	return s.score(ctx, table)
}

// score validates the canonical schema, extracts the first row in canonical
// order and classifies it. The model is never consulted for records that
// fail validation.
func (s *Service) score(ctx context.Context, table *dataset.Table) (models.ScoreResult, error) {
	canonical := s.cat.Canonical()

	var missingColumns []string
	for _, name := range canonical {
		if !table.HasColumn(name) {
			missingColumns = append(missingColumns, name)
		}
	}
	if len(missingColumns) > 0 {
		metrics.ObserveSchemaRejection()
		return models.ScoreResult{}, SchemaError{MissingColumns: missingColumns}
	}
	if table.NumRows() == 0 {
		metrics.ObserveSchemaRejection()
		return models.ScoreResult{}, SchemaError{MissingColumns: []string{"<no data rows>"}}
	}

	model, info, err := s.provider.Model()
	if err != nil {
		return models.ScoreResult{}, err
	}

	sample := make([]float64, len(canonical))
	mask := make([]bool, len(canonical))
	var imputed []string
	for j, name := range canonical {
		value, present := table.Float(0, name)
		sample[j] = value
		mask[j] = !present
		if !present {
			imputed = append(imputed, name)
		}
	}

	class, probability := linear.PredictClass(model, sample, mask)

	result := models.ScoreResult{
		RequestID:    uuid.New().String(),
		PatientID:    table.Cell(0, s.cat.IdentifierField()),
		Class:        class,
		ClassLabel:   classLabel(class),
		Probability:  probability,
		Imputed:      imputed,
		ModelVersion: info.Version,
	}

	// Ground-truth comparison is a display concern: surfaced when the
	// upload carries the label column, never required.
	if table.HasColumn(s.cat.LabelField()) {
		if truth, ok := parseLabel(table.Cell(0, s.cat.LabelField())); ok {
			agreement := truth == class
			result.GroundTruth = &truth
			result.Agreement = &agreement
		}
	}

	metrics.ObserveScore()
	s.publishScored(ctx, result)

	logger.Log.WithFields(map[string]interface{}{
		"request_id":  result.RequestID,
		"class":       result.ClassLabel,
		"probability": result.Probability,
	}).Info("Record scored")

	return result, nil
}

func (s *Service) publishScored(ctx context.Context, result models.ScoreResult) {
	if s.producer == nil {
		return
	}
	data := map[string]interface{}{
		"request_id":  result.RequestID,
		"class":       result.Class,
		"probability": result.Probability,
	}
	if err := s.producer.PublishEvent(ctx, kafkabus.EventRecordScored, "scoring-service", data); err != nil {
		logger.Log.WithError(err).Warn("Failed to publish scoring event")
	}
}

func classLabel(class int) string {
	if class == 1 {
		return "positive"
	}
	return "negative"
}
