package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/veritas-labs/safety-agent/internal/api/middleware"
	"github.com/veritas-labs/safety-agent/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/safety/input").
			To(handler.CheckInput).
			Doc("Run the input safety check on a user query").
			Metadata(restfulspec.KeyOpenAPITags, []string{"safety"}).
			Reads(CheckInputRequest{}).
			Writes(models.SafetyDecision{}).
			Returns(200, "OK", models.SafetyDecision{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/safety/output").
			To(handler.CheckOutput).
			Doc("Run the output safety check on a generated response").
			Metadata(restfulspec.KeyOpenAPITags, []string{"safety"}).
			Reads(CheckOutputRequest{}).
			Writes(models.SafetyDecision{}).
			Returns(200, "OK", models.SafetyDecision{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/query").
			To(handler.ProcessQuery).
			Doc("Process a query through the full safety pipeline").
			Metadata(restfulspec.KeyOpenAPITags, []string{"pipeline"}).
			Reads(ProcessQueryRequest{}).
			Writes(models.QueryResult{}).
			Returns(200, "OK", models.QueryResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}).
			Returns(504, "Gateway Timeout", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/evaluate").
			To(handler.Evaluate).
			Doc("Evaluate a response against the configured criteria").
			Metadata(restfulspec.KeyOpenAPITags, []string{"evaluate"}).
			Reads(EvaluateRequest{}).
			Writes(models.EvaluationResult{}).
			Returns(200, "OK", models.EvaluationResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/safety/events").
			To(handler.Events).
			Doc("List recent safety events").
			Metadata(restfulspec.KeyOpenAPITags, []string{"safety"}).
			Param(ws.QueryParameter("limit", "Maximum number of events to return (default: all)").DataType("integer").Required(false)).
			Writes([]models.SafetyEvent{}).
			Returns(200, "OK", []models.SafetyEvent{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/safety/stats").
			To(handler.Stats).
			Doc("Aggregate safety check statistics").
			Metadata(restfulspec.KeyOpenAPITags, []string{"safety"}).
			Writes(models.SafetyStats{}).
			Returns(200, "OK", models.SafetyStats{}))

	container.Add(ws)
}
