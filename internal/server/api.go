package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/nao1215/crewguard/internal/model"
	"github.com/nao1215/crewguard/internal/pipeline"
	"github.com/rs/cors"
)

// APIDocsPath is where the OpenAPI description is served.
const APIDocsPath = "/apidocs.json"

// CheckRequest is the body of POST /api/v1/check.
type CheckRequest struct {
	URL string `json:"url" description:"absolute http or https URL to check"`
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the HTTP API.
type Handler struct {
	checker pipeline.SiteChecker
	version string
	logger  *slog.Logger
}

// NewHandler creates a Handler. A nil logger uses slog.Default().
func NewHandler(checker pipeline.SiteChecker, version string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{checker: checker, version: version, logger: logger}
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(_ *restful.Request, resp *restful.Response) {
	writeEntity(h.logger, resp, http.StatusOK, HealthResponse{Status: "ok", Version: h.version})
}

// Check handles POST /api/v1/check.
func (h *Handler) Check(req *restful.Request, resp *restful.Response) {
	var body CheckRequest
	if err := req.ReadEntity(&body); err != nil {
		writeEntity(h.logger, resp, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	report, err := h.checker.CheckSite(req.Request.Context(), body.URL)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrInvalidURL) {
			status = http.StatusBadRequest
		}
		h.logger.Warn("check failed", "url", body.URL, "error", err)
		writeEntity(h.logger, resp, status, ErrorResponse{Error: err.Error()})
		return
	}

	h.logger.Info("check complete", "url", report.URL, "verdict", string(report.Verdict))
	writeEntity(h.logger, resp, http.StatusOK, report)
}

func writeEntity(logger *slog.Logger, resp *restful.Response, status int, v any) {
	if err := resp.WriteHeaderAndEntity(status, v); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}

// RegisterRoutes adds the /api/v1 web service to container.
func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.Route(ws.GET("/health").
		To(handler.Health).
		Doc("Health check").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Writes(HealthResponse{}).
		Returns(http.StatusOK, "OK", HealthResponse{}))

	ws.Route(ws.POST("/check").
		To(handler.Check).
		Doc("Check whether automated collection from a site is permitted").
		Metadata(restfulspec.KeyOpenAPITags, []string{"check"}).
		Reads(CheckRequest{}).
		Writes(model.Report{}).
		Returns(http.StatusOK, "OK", model.Report{}).
		Returns(http.StatusBadRequest, "Bad Request", ErrorResponse{}).
		Returns(http.StatusInternalServerError, "Internal Server Error", ErrorResponse{}))

	container.Add(ws)
}

// logFilter logs one line per request.
func logFilter(logger *slog.Logger) restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		start := time.Now()
		chain.ProcessFilter(req, resp)
		logger.Info("request",
			"method", req.Request.Method,
			"path", req.Request.URL.Path,
			"status", resp.StatusCode(),
			"elapsed", time.Since(start),
		)
	}
}

// NewHTTPHandler builds the complete HTTP handler: API routes, the OpenAPI
// description at APIDocsPath, request logging and permissive CORS.
func NewHTTPHandler(handler *Handler) http.Handler {
	container := restful.NewContainer()
	container.Filter(logFilter(handler.logger))
	RegisterRoutes(container, handler)

	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     APIDocsPath,
	}))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return corsHandler.Handler(container)
}
