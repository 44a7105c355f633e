// Package middleware carries the cross-cutting HTTP filters and the
// shared error envelope for the REST surface.
package middleware

import (
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
)

// ErrorResponse is the JSON body for every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// HandleError writes the error envelope with the given status.
func HandleError(resp *restful.Response, err error, status int) {
	resp.WriteHeaderAndEntity(status, ErrorResponse{
		Error: err.Error(),
		Code:  status,
	})
}

// Logger returns a filter that logs one line per request with method,
// path, status, and duration.
func Logger(logger *zerolog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		start := time.Now()

		chain.ProcessFilter(req, resp)

		logger.Info().
			Str("method", req.Request.Method).
			Str("path", req.Request.URL.Path).
			Int("status", resp.StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	}
}

// RecoverPanic converts handler panics into 500 responses instead of
// killing the server.
func RecoverPanic(logger *zerolog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("panic", r).
					Str("path", req.Request.URL.Path).
					Msg("handler panicked")

				resp.WriteHeaderAndEntity(http.StatusInternalServerError, ErrorResponse{
					Error: "internal server error",
					Code:  http.StatusInternalServerError,
				})
			}
		}()

		chain.ProcessFilter(req, resp)
	}
}
