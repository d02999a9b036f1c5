package scoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/neuroscreen-ai/platform/pkg/common/models"
)

func testRouter(t *testing.T) *mux.Router {
	t.Helper()
	router := mux.NewRouter()
	NewHTTPHandler(trainedService(t)).Register(router)
	return router
}

func TestScoreEndpoint(t *testing.T) {
	router := testRouter(t)

	upload := "ID,ADHD,f1,f2,f3\n42,1,5.2,1.0,0.5\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(upload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result models.ScoreResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.PatientID != "42" || result.ClassLabel != "positive" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestScoreEndpointSchemaMismatchIs422(t *testing.T) {
	router := testRouter(t)

	upload := "ID,ADHD,f1,f2,notes\n42,1,5.2,1.0,n/a\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(upload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestScoreEndpointAmbiguousDelimiterIs400(t *testing.T) {
	router := testRouter(t)

	upload := "ID|ADHD|f1\n42|1|5.2\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/score", strings.NewReader(upload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestScorePatientEndpointWithoutCacheIs404(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/score/patient/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestModelInfoEndpoint(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/model", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var info models.ModelInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if info.Algorithm != "logistic_regression" || info.FeatureCount != 3 {
		t.Fatalf("unexpected model info: %+v", info)
	}
}
