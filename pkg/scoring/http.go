package scoring

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/neuroscreen-ai/platform/pkg/common/logger"
	"github.com/neuroscreen-ai/platform/pkg/dataset"
	"github.com/neuroscreen-ai/platform/pkg/storage"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/api/v1/score", h.handleScore).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/score/patient/{id}", h.handleScorePatient).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/model", h.handleModelInfo).Methods(http.MethodGet)
}

// handleScore accepts one record as a CSV body (or the "record" part of a
// multipart form) and returns the classification. Rejections are scoped to
// the request; the service keeps accepting further uploads.
func (h *HTTPHandler) handleScore(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if err := r.ParseMultipartForm(4 << 20); err == nil {
		if file, _, ferr := r.FormFile("record"); ferr == nil {
			defer file.Close()
			body = file
		}
	}

	result, err := h.service.ScoreUpload(r.Context(), body)
	if err != nil {
		if IsSchemaMismatch(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if dataset.IsDelimiterAmbiguous(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("Failed to score upload")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *HTTPHandler) handleScorePatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	result, err := h.service.ScorePatient(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, ErrPatientNotFound) {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		if IsSchemaMismatch(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		logger.Log.WithError(err).Error("Failed to score patient")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *HTTPHandler) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.ModelInfo()
	if err != nil {
		logger.Log.WithError(err).Error("Model unavailable")
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}
