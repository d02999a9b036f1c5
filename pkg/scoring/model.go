package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/neuroscreen-ai/platform/pkg/catalog"
	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/common/models"
	"github.com/neuroscreen-ai/platform/pkg/dataset"
	"github.com/neuroscreen-ai/platform/pkg/ml/linear"
)

const artifactName = "adhd_classifier_latest.json"

// Artifact is the persisted model representation served alongside scores.
type Artifact struct {
	Version   string                 `json:"version"`
	Algorithm string                 `json:"algorithm"`
	TrainedAt time.Time              `json:"trained_at"`
	Model     linear.Model           `json:"model"`
	Metrics   map[string]interface{} `json:"metrics,omitempty"`
}

// Provider owns the memoized classifier. The model is trained from the
// integrated table on first use and shared read-only afterwards; the
// sync.Once is the single acquisition barrier for concurrent first access.
type Provider struct {
	cat            catalog.Catalog
	integratedPath string
	delimiter      rune
	artifactDir    string
	opts           linear.Options

	once  sync.Once
	model linear.Model
	info  models.ModelInfo
	err   error
}

func NewProvider(cat catalog.Catalog, integratedPath string, delimiter rune, artifactDir string, opts linear.Options) *Provider {
	return &Provider{
		cat:            cat,
		integratedPath: integratedPath,
		delimiter:      delimiter,
		artifactDir:    artifactDir,
		opts:           opts,
	}
}

// Model returns the trained classifier, training it on first call.
func (p *Provider) Model() (linear.Model, models.ModelInfo, error) {
	p.once.Do(func() {
		p.model, p.info, p.err = p.train()
	})
	return p.model, p.info, p.err
}

func (p *Provider) train() (linear.Model, models.ModelInfo, error) {
	start := time.Now().UTC()

	table, err := dataset.Read(p.integratedPath, p.delimiter)
	if err != nil {
		return linear.Model{}, models.ModelInfo{}, fmt.Errorf("loading training table: %w", err)
	}

	canonical := p.cat.Canonical()
	for _, col := range append([]string{p.cat.LabelField()}, canonical...) {
		if !table.HasColumn(col) {
			return linear.Model{}, models.ModelInfo{}, fmt.Errorf("training table missing column %q", col)
		}
	}

	samples := make([][]float64, 0, table.NumRows())
	missing := make([][]bool, 0, table.NumRows())
	labels := make([]float64, 0, table.NumRows())
	skipped := 0
	for r := 0; r < table.NumRows(); r++ {
		label, ok := table.Float(r, p.cat.LabelField())
		if !ok || (label != 0 && label != 1) {
			skipped++
			continue
		}
		sample := make([]float64, len(canonical))
		mask := make([]bool, len(canonical))
		for j, name := range canonical {
			value, present := table.Float(r, name)
			sample[j] = value
			mask[j] = !present
		}
		samples = append(samples, sample)
		missing = append(missing, mask)
		labels = append(labels, label)
	}
	if len(samples) == 0 {
		return linear.Model{}, models.ModelInfo{}, fmt.Errorf("training table has no labelled rows")
	}

	model, metrics := linear.Train(canonical, samples, missing, labels, p.opts)

	info := models.ModelInfo{
		Version:      uuid.New().String(),
		Algorithm:    "logistic_regression",
		FeatureCount: len(canonical),
		TrainedAt:    start,
		Metrics: map[string]interface{}{
			"training_samples": len(samples),
			"skipped_rows":     skipped,
			"loss":             metrics.Loss,
			"accuracy":         metrics.Accuracy,
		},
	}

	if path, err := p.writeArtifact(model, info); err != nil {
		logger.Log.WithError(err).Warn("Failed to persist model artifact")
	} else {
		info.ArtifactPath = path
	}

	logger.Log.WithFields(map[string]interface{}{
		"samples":  len(samples),
		"features": len(canonical),
		"accuracy": metrics.Accuracy,
	}).Info("Classifier trained")

	return model, info, nil
}

func (p *Provider) writeArtifact(model linear.Model, info models.ModelInfo) (string, error) {
	if err := os.MkdirAll(p.artifactDir, 0o755); err != nil {
		return "", err
	}
	artifact := Artifact{
		Version:   info.Version,
		Algorithm: info.Algorithm,
		TrainedAt: info.TrainedAt,
		Model:     model,
		Metrics:   info.Metrics,
	}
	payload, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(p.artifactDir, artifactName)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// parseLabel interprets a ground-truth label cell; second return is false
// for absent or non-binary values.
func parseLabel(raw string) (int, bool) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if value != 0 && value != 1 {
		return 0, false
	}
	return int(value), true
}
