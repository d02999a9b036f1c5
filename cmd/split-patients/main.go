package main

import (
	"github.com/neuroscreen-ai/platform/pkg/catalog"
	"github.com/neuroscreen-ai/platform/pkg/common/config"
	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/dataset"
	"github.com/neuroscreen-ai/platform/pkg/export"
)

// split-patients re-runs the per-patient fan-out over an existing integrated
// table, one file per row with no merge logic.
func main() {
	logger.Init()
	cfg := config.Load()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load feature catalog")
	}

	table, err := dataset.Read(cfg.IntegratedPath, export.OutputDelimiter)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to read integrated table")
	}

	if err := export.WritePerPatient(table, cfg.PatientDir, cat.IdentifierField()); err != nil {
		logger.Log.WithError(err).Fatal("Failed to write per-patient files")
	}

	logger.Log.WithFields(map[string]interface{}{
		"files": table.NumRows(),
		"dir":   cfg.PatientDir,
	}).Info("Per-patient split finished")
}
