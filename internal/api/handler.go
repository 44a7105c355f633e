package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/api/middleware"
	"github.com/veritas-labs/safety-agent/internal/models"
	"github.com/veritas-labs/safety-agent/internal/pipeline"
)

// SafetyService is the coordinator surface the handlers call.
type SafetyService interface {
	CheckInput(ctx context.Context, query string) models.SafetyDecision
	CheckOutput(ctx context.Context, response string, sources []models.Source) models.SafetyDecision
	Events(limit int) []models.SafetyEvent
	Stats() models.SafetyStats
}

// QueryService runs the full pipeline for one query. groundTruth is an
// optional reference answer for evaluation.
type QueryService interface {
	ProcessQuery(ctx context.Context, query, groundTruth string) (models.QueryResult, error)
}

// EvaluationService scores an existing (query, response) pair with
// optional sources and reference answer.
type EvaluationService interface {
	Evaluate(ctx context.Context, query, response string, sources []models.Source, groundTruth string) (models.EvaluationResult, error)
}

type Handler struct {
	safety    SafetyService
	queries   QueryService
	evaluator EvaluationService
	logger    *zerolog.Logger
}

func NewHandler(safety SafetyService, queries QueryService, evaluator EvaluationService, logger *zerolog.Logger) *Handler {
	return &Handler{
		safety:    safety,
		queries:   queries,
		evaluator: evaluator,
		logger:    logger,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type CheckInputRequest struct {
	Query string `json:"query"`
}

type CheckOutputRequest struct {
	Response string          `json:"response"`
	Sources  []models.Source `json:"sources,omitempty"`
}

type ProcessQueryRequest struct {
	Query       string `json:"query"`
	GroundTruth string `json:"ground_truth,omitempty"`
}

type EvaluateRequest struct {
	Query       string          `json:"query"`
	Response    string          `json:"response"`
	Sources     []models.Source `json:"sources,omitempty"`
	GroundTruth string          `json:"ground_truth,omitempty"`
}

// POST /api/v1/safety/input
func (h *Handler) CheckInput(req *restful.Request, resp *restful.Response) {
	var body CheckInputRequest
	if err := req.ReadEntity(&body); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if body.Query == "" {
		middleware.HandleError(resp, errors.New("query is required"), http.StatusBadRequest)
		return
	}

	decision := h.safety.CheckInput(req.Request.Context(), body.Query)

	h.logger.Info().
		Bool("safe", decision.Safe).
		Str("action", string(decision.Action)).
		Msg("input check complete")

	resp.WriteHeaderAndEntity(http.StatusOK, decision)
}

// POST /api/v1/safety/output
func (h *Handler) CheckOutput(req *restful.Request, resp *restful.Response) {
	var body CheckOutputRequest
	if err := req.ReadEntity(&body); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if body.Response == "" {
		middleware.HandleError(resp, errors.New("response is required"), http.StatusBadRequest)
		return
	}

	decision := h.safety.CheckOutput(req.Request.Context(), body.Response, body.Sources)

	h.logger.Info().
		Bool("safe", decision.Safe).
		Str("action", string(decision.Action)).
		Msg("output check complete")

	resp.WriteHeaderAndEntity(http.StatusOK, decision)
}

// POST /api/v1/query
func (h *Handler) ProcessQuery(req *restful.Request, resp *restful.Response) {
	var body ProcessQueryRequest
	if err := req.ReadEntity(&body); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if body.Query == "" {
		middleware.HandleError(resp, errors.New("query is required"), http.StatusBadRequest)
		return
	}

	result, err := h.queries.ProcessQuery(req.Request.Context(), body.Query, body.GroundTruth)
	if err != nil {
		h.logger.Error().Err(err).Msg("query processing failed")
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrTimeout) {
			status = http.StatusGatewayTimeout
		}
		middleware.HandleError(resp, err, status)
		return
	}

	h.logger.Info().
		Str("request_id", result.RequestID).
		Str("action", string(result.Action)).
		Msg("query processed")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// POST /api/v1/evaluate
func (h *Handler) Evaluate(req *restful.Request, resp *restful.Response) {
	var body EvaluateRequest
	if err := req.ReadEntity(&body); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if body.Query == "" || body.Response == "" {
		middleware.HandleError(resp, errors.New("query and response are required"), http.StatusBadRequest)
		return
	}

	result, err := h.evaluator.Evaluate(req.Request.Context(), body.Query, body.Response, body.Sources, body.GroundTruth)
	if err != nil {
		h.logger.Error().Err(err).Msg("evaluation failed")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	h.logger.Info().
		Float64("overall_score", result.OverallScore).
		Msg("evaluation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// GET /api/v1/safety/events
func (h *Handler) Events(req *restful.Request, resp *restful.Response) {
	limit := 0
	if raw := req.QueryParameter("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			middleware.HandleError(resp, errors.New("limit must be a non-negative integer"), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events := h.safety.Events(limit)
	if events == nil {
		events = []models.SafetyEvent{}
	}

	resp.WriteHeaderAndEntity(http.StatusOK, events)
}

// GET /api/v1/safety/stats
func (h *Handler) Stats(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, h.safety.Stats())
}

// GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}
