package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/haskel/drainfox/internal/deploy"
	"github.com/haskel/drainfox/internal/monitor"
	"github.com/haskel/drainfox/internal/retention"
	"github.com/haskel/drainfox/internal/storage"
	"github.com/haskel/drainfox/internal/telemetry"
	"github.com/haskel/drainfox/internal/trainer"
)

type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type StatusResponse struct {
	Version string               `json:"version"`
	System  *monitor.SystemState `json:"system"`
	Model   storage.ModelInfo    `json:"model"`
	Loaded  bool                 `json:"model_loaded"`
}

type EstimateResponse struct {
	Hours  float64 `json:"hours"`
	Branch string  `json:"branch"`
}

type PredictResponse struct {
	Hours float64 `json:"hours"`
	Model string  `json:"model"`
}

type TrainRequest struct {
	Records []telemetry.Record `json:"records"`
}

type TrainResponse struct {
	Model   string `json:"model"`
	Records int    `json:"records"`
}

type ModelInfoResponse struct {
	Loaded   bool              `json:"loaded"`
	Model    string            `json:"model,omitempty"`
	Features []string          `json:"features"`
	Artifact storage.ModelInfo `json:"artifact"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	resp := InfoResponse{
		Name:    "drainfox",
		Version: s.version,
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Version: s.version,
		System:  s.sampler.Sample(),
		Model:   s.store.GetModelInfo(),
		Loaded:  s.Predictor() != nil,
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModelInfo(w http.ResponseWriter, r *http.Request) {
	resp := ModelInfoResponse{
		Features: telemetry.FeatureNames,
		Artifact: s.store.GetModelInfo(),
	}

	if p := s.Predictor(); p != nil {
		resp.Loaded = true
		resp.Model = p.Model()
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var rec telemetry.Record

	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := rec.Validate(); err != nil {
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	res, err := retention.Estimate(rec)
	if err != nil {
		if errors.Is(err, retention.ErrUndefined) {
			s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, EstimateResponse{
		Hours:  res.Hours,
		Branch: string(res.Branch),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var rec telemetry.Record

	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p := s.Predictor()
	if p == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "no trained model available"})
		return
	}

	hours, err := p.Predict(rec)
	if err != nil {
		var schemaErr *trainer.SchemaMismatchError
		if errors.As(err, &schemaErr) {
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, PredictResponse{
		Hours: hours,
		Model: p.Model(),
	})
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	var req TrainRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Records) == 0 {
		http.Error(w, "records field is required", http.StatusBadRequest)
		return
	}

	tr := trainer.New(s.Config().Model.RegressConfig(), s.logger)

	p, err := tr.Fit(req.Records)
	if err != nil {
		var insufficientErr *trainer.InsufficientDataError
		var schemaErr *trainer.SchemaMismatchError
		switch {
		case errors.As(err, &insufficientErr):
			s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		case errors.As(err, &schemaErr):
			s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	if err := s.store.SaveModel(p); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	s.SetPredictor(p)

	s.writeJSON(w, http.StatusOK, TrainResponse{
		Model:   p.Model(),
		Records: len(req.Records),
	})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var in deploy.Inputs

	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	assessment := deploy.Evaluate(in, s.Config().Deployment)

	s.writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status,
		)
	}
}
