package scoring

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neuroscreen-ai/platform/pkg/catalog"
	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/dataset"
	"github.com/neuroscreen-ai/platform/pkg/ml/linear"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func scoringCatalog() catalog.Catalog {
	return catalog.Catalog{
		Version:       "test",
		Identifier:    "ID",
		Label:         "ADHD",
		InclusionFlag: "filter_$",
		CanonicalSize: 3,
		Features:      []string{"f1", "f2", "f3"},
	}
}

// trainedService builds a service over a small separable training table. The
// label follows the sign of f1.
func trainedService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	training := "ID,ADHD,f1,f2,f3\n" +
		"1,1,5.0,1.0,0.5\n" +
		"2,1,5.5,0.8,0.4\n" +
		"3,1,6.0,1.2,0.6\n" +
		"4,1,4.8,0.9,0.5\n" +
		"5,0,-5.0,1.1,0.5\n" +
		"6,0,-5.5,0.7,0.4\n" +
		"7,0,-6.0,1.0,0.6\n" +
		"8,0,-4.8,1.3,0.5\n"
	path := filepath.Join(dir, "integrated.csv")
	if err := os.WriteFile(path, []byte(training), 0o644); err != nil {
		t.Fatalf("writing training table: %v", err)
	}

	cat := scoringCatalog()
	provider := NewProvider(cat, path, ',', filepath.Join(dir, "artifacts"), linear.Options{Epochs: 500, LearningRate: 0.1})
	return NewService(cat, provider, nil, nil)
}

func TestScoreUploadWithGroundTruthAgreement(t *testing.T) {
	service := trainedService(t)

	upload := "ID,ADHD,f1,f2,f3\n42,1,5.2,1.0,0.5\n"
	result, err := service.ScoreUpload(context.Background(), strings.NewReader(upload))
	if err != nil {
		t.Fatalf("scoring upload: %v", err)
	}

	if result.PatientID != "42" {
		t.Fatalf("expected patient 42, got %q", result.PatientID)
	}
	if result.Class != 1 || result.ClassLabel != "positive" {
		t.Fatalf("expected positive class, got %d (%s)", result.Class, result.ClassLabel)
	}
	if result.Probability < 0.5 || result.Probability > 1 {
		t.Fatalf("probability out of range: %v", result.Probability)
	}
	if result.GroundTruth == nil || *result.GroundTruth != 1 {
		t.Fatalf("expected ground truth 1, got %v", result.GroundTruth)
	}
	if result.Agreement == nil || !*result.Agreement {
		t.Fatal("expected agreement with ground truth")
	}
	if result.ModelVersion == "" || result.RequestID == "" {
		t.Fatal("expected model version and request id on the result")
	}
}

func TestScoreUploadDisagreementReported(t *testing.T) {
	service := trainedService(t)

	// Strongly positive features labelled negative.
	upload := "ID,ADHD,f1,f2,f3\n42,0,5.2,1.0,0.5\n"
	result, err := service.ScoreUpload(context.Background(), strings.NewReader(upload))
	if err != nil {
		t.Fatalf("scoring upload: %v", err)
	}
	if result.Agreement == nil || *result.Agreement {
		t.Fatal("expected disagreement with ground truth")
	}
}

func TestScoreUploadWithoutLabelSkipsAgreement(t *testing.T) {
	service := trainedService(t)

	upload := "ID,notes,f1,f2,f3\n42,n/a,-5.2,1.0,0.5\n"
	result, err := service.ScoreUpload(context.Background(), strings.NewReader(upload))
	if err != nil {
		t.Fatalf("scoring upload: %v", err)
	}
	if result.GroundTruth != nil || result.Agreement != nil {
		t.Fatal("expected no ground-truth comparison without a label column")
	}
	if result.Class != 0 || result.ClassLabel != "negative" {
		t.Fatalf("expected negative class, got %d (%s)", result.Class, result.ClassLabel)
	}
}

func TestScoreUploadImputesMissingCells(t *testing.T) {
	service := trainedService(t)

	upload := "ID,ADHD,f1,f2,f3\n42,1,5.2,,0.5\n"
	result, err := service.ScoreUpload(context.Background(), strings.NewReader(upload))
	if err != nil {
		t.Fatalf("scoring upload: %v", err)
	}
	if len(result.Imputed) != 1 || result.Imputed[0] != "f2" {
		t.Fatalf("expected f2 to be imputed, got %v", result.Imputed)
	}
}

func TestScoreUploadSchemaMismatchNeverTrains(t *testing.T) {
	cat := scoringCatalog()
	// A provider over a path that does not exist: any model access would fail
	// loudly, so a schema rejection proves the model was never consulted.
	provider := NewProvider(cat, filepath.Join(t.TempDir(), "absent.csv"), ',', t.TempDir(), linear.Options{})
	service := NewService(cat, provider, nil, nil)

	upload := "ID,ADHD,f1,f2,notes\n42,1,5.2,1.0,n/a\n"
	_, err := service.ScoreUpload(context.Background(), strings.NewReader(upload))
	if err == nil {
		t.Fatal("expected schema mismatch")
	}
	if !IsSchemaMismatch(err) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	var schemaErr SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %T", err)
	}
	if len(schemaErr.MissingColumns) != 1 || schemaErr.MissingColumns[0] != "f3" {
		t.Fatalf("expected missing f3, got %v", schemaErr.MissingColumns)
	}
}

func TestScoreUploadRejectsHeaderOnlyRecord(t *testing.T) {
	service := trainedService(t)

	upload := "ID,ADHD,f1,f2,f3\n"
	_, err := service.ScoreUpload(context.Background(), strings.NewReader(upload))
	if !IsSchemaMismatch(err) {
		t.Fatalf("expected schema mismatch for a record without data rows, got %v", err)
	}
}

func TestScoreUploadAmbiguousDelimiter(t *testing.T) {
	service := trainedService(t)

	upload := "ID|ADHD|f1|f2|f3\n42|1|5.2|1.0|0.5\n"
	_, err := service.ScoreUpload(context.Background(), strings.NewReader(upload))
	if !errors.Is(err, dataset.ErrDelimiterAmbiguous) {
		t.Fatalf("expected ErrDelimiterAmbiguous, got %v", err)
	}
}

func TestScoreUploadSemicolonFallback(t *testing.T) {
	service := trainedService(t)

	upload := "ID;ADHD;f1;f2;f3\n42;1;5.2;1.0;0.5\n"
	result, err := service.ScoreUpload(context.Background(), strings.NewReader(upload))
	if err != nil {
		t.Fatalf("scoring semicolon upload: %v", err)
	}
	if result.Class != 1 {
		t.Fatalf("expected positive class, got %d", result.Class)
	}
}
