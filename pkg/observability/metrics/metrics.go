package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	runsCompleted     atomic.Int64
	runsFailed        atomic.Int64
	recordsIntegrated atomic.Int64
	scoresServed      atomic.Int64
	schemaRejections  atomic.Int64
)

func ObserveRunCompleted(integrated int) {
	runsCompleted.Add(1)
	recordsIntegrated.Store(int64(integrated))
}

func ObserveRunFailed() {
	runsFailed.Add(1)
}

func ObserveScore() {
	scoresServed.Add(1)
}

func ObserveSchemaRejection() {
	schemaRejections.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP neuroscreen_pipeline_runs_completed_total Number of batch integration runs completed.\n")
	fmt.Fprintf(w, "# TYPE neuroscreen_pipeline_runs_completed_total counter\n")
	fmt.Fprintf(w, "neuroscreen_pipeline_runs_completed_total %d\n", runsCompleted.Load())

	fmt.Fprintf(w, "# HELP neuroscreen_pipeline_runs_failed_total Number of batch integration runs failed.\n")
	fmt.Fprintf(w, "# TYPE neuroscreen_pipeline_runs_failed_total counter\n")
	fmt.Fprintf(w, "neuroscreen_pipeline_runs_failed_total %d\n", runsFailed.Load())

	fmt.Fprintf(w, "# HELP neuroscreen_pipeline_records_integrated Number of patient records in the latest integrated table.\n")
	fmt.Fprintf(w, "# TYPE neuroscreen_pipeline_records_integrated gauge\n")
	fmt.Fprintf(w, "neuroscreen_pipeline_records_integrated %d\n", recordsIntegrated.Load())

	fmt.Fprintf(w, "# HELP neuroscreen_scoring_scores_served_total Number of scoring requests served.\n")
	fmt.Fprintf(w, "# TYPE neuroscreen_scoring_scores_served_total counter\n")
	fmt.Fprintf(w, "neuroscreen_scoring_scores_served_total %d\n", scoresServed.Load())

	fmt.Fprintf(w, "# HELP neuroscreen_scoring_schema_rejections_total Number of uploads rejected for missing canonical columns.\n")
	fmt.Fprintf(w, "# TYPE neuroscreen_scoring_schema_rejections_total counter\n")
	fmt.Fprintf(w, "neuroscreen_scoring_schema_rejections_total %d\n", schemaRejections.Load())
}

func Handler(w http.ResponseWriter, r *http.Request) {
	WritePrometheus(w)
}
