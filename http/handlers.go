package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"carprice/db"
	"carprice/ml"
	"carprice/monitoring"
)

const maxRequestBytes = 1 << 16

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// TrainingLogReader is the part of the store the model endpoint reads.
type TrainingLogReader interface {
	LatestTrainingLog() (*db.TrainingLog, error)
}

// Handlers holds everything the routes need; all of it is built once at startup.
type Handlers struct {
	predictor *ml.Predictor
	options   Options
	store     TrainingLogReader
	metrics   *monitoring.MetricsCollector
	logger    *zap.Logger
}

// NewHandlers wires the routes. store may be nil when no database is configured.
func NewHandlers(predictor *ml.Predictor, options Options, store TrainingLogReader, metrics *monitoring.MetricsCollector, logger *zap.Logger) *Handlers {
	if metrics == nil {
		metrics = monitoring.NewMetricsCollector()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		predictor: predictor,
		options:   options,
		store:     store,
		metrics:   metrics,
		logger:    logger,
	}
}

func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.HandleFunc("GET /api/options", h.handleOptions)
	mux.HandleFunc("POST /api/predict", h.handlePredict)
	mux.HandleFunc("GET /api/model", h.handleModel)
	mux.HandleFunc("GET /api/metrics", h.handleMetrics)
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) handleOptions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.options)
}

func (h *Handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		h.metrics.RecordPrediction(monitoring.OutcomeInvalidInput, 0)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	estimate, status, resp := h.predict(req)
	if resp != nil {
		respondJSON(w, status, resp)
		return
	}
	h.logger.Debug("prediction",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.Float64s("features", estimate.Features),
		zap.Float64("price", estimate.Price),
	)
	respondJSON(w, http.StatusOK, estimate)
}

// decodeRequest reads one request object, rejecting unknown fields. Both the POST route
// and the websocket go through it.
func decodeRequest(r io.Reader) (ml.CarRequest, error) {
	var req ml.CarRequest
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return ml.CarRequest{}, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}

// predict validates, runs the pipeline and records the outcome. On failure it returns
// the status and body to send instead of an estimate.
func (h *Handlers) predict(req ml.CarRequest) (ml.Estimate, int, *ErrorResponse) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		h.metrics.RecordPrediction(monitoring.OutcomeInvalidInput, time.Since(start))
		var invalid *ml.InvalidInputError
		if errors.As(err, &invalid) {
			return ml.Estimate{}, http.StatusBadRequest, &ErrorResponse{Error: "invalid input", Fields: invalid.Fields}
		}
		return ml.Estimate{}, http.StatusBadRequest, &ErrorResponse{Error: err.Error()}
	}

	estimate, err := h.predictor.Estimate(req.Attributes())
	if err != nil {
		var unknown *ml.UnknownCategoryError
		if errors.As(err, &unknown) {
			h.metrics.RecordPrediction(monitoring.OutcomeUnknownCategory, time.Since(start))
			return ml.Estimate{}, http.StatusUnprocessableEntity, &ErrorResponse{
				Error:  err.Error(),
				Fields: map[string]string{unknown.Field: "unrecognized category " + unknown.Label},
			}
		}
		h.metrics.RecordPrediction(monitoring.OutcomeError, time.Since(start))
		h.logger.Error("prediction failed", zap.Error(err))
		return ml.Estimate{}, http.StatusInternalServerError, &ErrorResponse{Error: "prediction failed"}
	}

	h.metrics.RecordPrediction(monitoring.OutcomeOK, time.Since(start))
	return estimate, http.StatusOK, nil
}

// ModelInfo describes the loaded artifact.
type ModelInfo struct {
	ModelType    string             `json:"model_type"`
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	Schema       string             `json:"schema"`
	TrainedAt    time.Time          `json:"trained_at"`
	TrainRows    int                `json:"train_rows"`
	TestRows     int                `json:"test_rows"`
	R2Test       float64            `json:"r2_test"`
	LastTraining *db.TrainingLog    `json:"last_training,omitempty"`
}

func (h *Handlers) handleModel(w http.ResponseWriter, r *http.Request) {
	model, ok := h.predictor.Model().(*ml.LinearRegression)
	if !ok {
		writeError(w, http.StatusNotFound, "model details unavailable")
		return
	}
	artifact := model.Artifact()
	info := ModelInfo{
		ModelType:    artifact.ModelType,
		Coefficients: make(map[string]float64, len(artifact.Coefficients)),
		Intercept:    artifact.Intercept,
		Schema:       artifact.Schema,
		TrainedAt:    artifact.TrainedAt,
		TrainRows:    artifact.TrainRows,
		TestRows:     artifact.TestRows,
		R2Test:       artifact.R2Test,
	}
	for i, name := range artifact.FeatureNames {
		info.Coefficients[name] = artifact.Coefficients[i]
	}
	if h.store != nil {
		last, err := h.store.LatestTrainingLog()
		switch {
		case err == nil:
			info.LastTraining = last
		case errors.Is(err, db.ErrNoTrainingLog):
		default:
			h.logger.Warn("load training log", zap.Error(err))
		}
	}
	respondJSON(w, http.StatusOK, info)
}

func (h *Handlers) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := h.metrics.Snapshot()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"metrics":      snap,
		"cached_items": h.predictor.CacheLen(),
	})
}

// respondJSON writes data as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
