package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neuroscreen-ai/platform/pkg/catalog"
	"github.com/neuroscreen-ai/platform/pkg/common/config"
	"github.com/neuroscreen-ai/platform/pkg/common/database"
	kafkabus "github.com/neuroscreen-ai/platform/pkg/common/kafka"
	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/dataset"
	"github.com/neuroscreen-ai/platform/pkg/export"
	"github.com/neuroscreen-ai/platform/pkg/integrate"
	"github.com/neuroscreen-ai/platform/pkg/observability/metrics"
	"github.com/neuroscreen-ai/platform/pkg/runlog"
	"github.com/neuroscreen-ai/platform/pkg/storage"
)

func main() {
	logger.Init()
	cfg := config.Load()
	ctx := context.Background()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load feature catalog")
	}

	var repo *runlog.Repository
	runID := uuid.New()
	if cfg.RunLogEnabled {
		db, err := database.GetPostgres()
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to connect to run log database")
		}
		repo = runlog.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("Failed to migrate run log tables")
		}
		now := time.Now().UTC()
		run := &runlog.RunModel{
			ID:        runID,
			Status:    runlog.StatusRunning,
			CreatedAt: now,
			UpdatedAt: now,
			StartedAt: &now,
		}
		if err := repo.Create(ctx, run); err != nil {
			logger.Log.WithError(err).Fatal("Failed to record pipeline run")
		}
	}

	fail := func(msg string, err error) {
		metrics.ObserveRunFailed()
		if repo != nil {
			_ = repo.UpdateStatus(ctx, runID, runlog.StatusFailed, nil, err.Error())
			completed := time.Now().UTC()
			_ = repo.SetTimestamps(ctx, runID, nil, &completed)
		}
		logger.Log.WithError(err).Fatal(msg)
	}

	delimiter := sourceDelimiter(cfg.SourceDelimiter)

	clinical, err := dataset.Read(cfg.ClinicalPath, delimiter)
	if err != nil {
		fail("Failed to read clinical source", err)
	}
	performance, err := dataset.Read(cfg.PerformancePath, delimiter)
	if err != nil {
		fail("Failed to read performance source", err)
	}
	signal, err := dataset.Read(cfg.SignalPath, delimiter)
	if err != nil {
		fail("Failed to read signal source", err)
	}

	integrator := integrate.New(cat)
	table, report, err := integrator.Integrate(clinical, performance, signal)
	if err != nil {
		fail("Integration failed", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"clinical_rows":   report.ClinicalRows,
		"included_rows":   report.IncludedRows,
		"integrated_rows": report.IntegratedRows,
		"scrubbed_cells":  report.ScrubbedCells,
	}).Info("Sources integrated")

	if err := export.WriteIntegrated(table, cfg.IntegratedPath); err != nil {
		fail("Failed to write integrated table", err)
	}
	if err := export.WritePerPatient(table, cfg.PatientDir, cat.IdentifierField()); err != nil {
		fail("Failed to write per-patient files", err)
	}

	if cfg.FeatureCacheEnabled {
		cache := storage.NewFeatureCache(database.GetRedis(), cfg.FeatureCacheTTL)
		if err := cache.Materialize(ctx, table, cat.IdentifierField()); err != nil {
			logger.Log.WithError(err).Warn("Failed to materialise feature cache")
		}
	}

	status := runlog.StatusCompleted
	if !report.Complete() {
		status = runlog.StatusDegraded
		logger.Log.WithField("missing_columns", report.MissingColumns).
			Warn("Run completed with an incomplete column contract")
	}

	runMetrics := map[string]interface{}{
		"clinical_rows":      report.ClinicalRows,
		"included_rows":      report.IncludedRows,
		"integrated_rows":    report.IntegratedRows,
		"scrubbed_cells":     report.ScrubbedCells,
		"missing_columns":    report.MissingColumns,
		"undeclared_columns": report.UndeclaredColumns,
	}
	if repo != nil {
		if err := repo.SetCounts(ctx, runID, report.IntegratedRows, cfg.IntegratedPath, cfg.PatientDir); err != nil {
			logger.Log.WithError(err).Error("Failed to record run counts")
		}
		if err := repo.UpdateStatus(ctx, runID, status, runMetrics, ""); err != nil {
			logger.Log.WithError(err).Error("Failed to record run status")
		}
		completed := time.Now().UTC()
		if err := repo.SetTimestamps(ctx, runID, nil, &completed); err != nil {
			logger.Log.WithError(err).Error("Failed to record run completion")
		}
	}

	if cfg.EventsEnabled {
		producer := kafkabus.NewProducer(cfg.KafkaTopic)
		defer producer.Close()
		if err := producer.PublishEvent(ctx, kafkabus.EventRunCompleted, "prepare-pipeline", map[string]interface{}{
			"run_id":          runID.String(),
			"status":          status,
			"integrated_rows": report.IntegratedRows,
		}); err != nil {
			logger.Log.WithError(err).Warn("Failed to publish run event")
		}
	}

	metrics.ObserveRunCompleted(report.IntegratedRows)
	logger.Log.WithFields(map[string]interface{}{
		"run_id": runID,
		"status": status,
		"rows":   report.IntegratedRows,
	}).Info("Pipeline run finished")
}

func sourceDelimiter(s string) rune {
	if s == "" {
		return dataset.SecondaryDelimiter
	}
	return []rune(s)[0]
}
