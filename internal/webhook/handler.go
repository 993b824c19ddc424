// internal/webhook/handler.go
package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"plan-advisor/internal/advisor"
	apperrors "plan-advisor/internal/common/errors"
	"plan-advisor/internal/common/logger"
	"plan-advisor/internal/common/metrics"
	"plan-advisor/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	engine *advisor.Engine
	logger logger.Logger
}

func NewHandler(engine *advisor.Engine, log logger.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: log.WithFields(map[string]interface{}{"component": "webhook"}),
	}
}

// Register wires the routes onto the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/webhook", h.handleWebhook)
	e.GET("/health", h.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (h *Handler) handleWebhook(c echo.Context) error {
	start := time.Now()
	requestID := uuid.NewString()
	log := h.logger.WithFields(map[string]interface{}{"requestId": requestID})

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorBody(requestID, apperrors.NewInvalidRequestError("unreadable body")))
	}

	if msg, ok := validateRequest(body); !ok {
		metrics.WebhookRequestsTotal.WithLabelValues("invalid").Inc()
		log.Warn("request failed validation", map[string]interface{}{"reason": msg})
		return c.JSON(http.StatusBadRequest, errorBody(requestID, apperrors.NewInvalidRequestError(msg)))
	}

	var req models.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		metrics.WebhookRequestsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorBody(requestID, apperrors.NewInvalidRequestError(err.Error())))
	}

	result, err := h.engine.Handle(c.Request().Context(), req.QueryResult.QueryText, req.QueryResult.Parameters)
	if err != nil {
		stdErr, ok := err.(*apperrors.StandardError)
		if !ok {
			stdErr = apperrors.NewPipelineFailedError(err)
		}
		metrics.WebhookRequestsTotal.WithLabelValues("error").Inc()
		log.Error("query handling failed", map[string]interface{}{
			"code":  stdErr.Code,
			"error": stdErr.Details,
		})
		return c.JSON(stdErr.HTTPStatus(), errorBody(requestID, stdErr))
	}

	metrics.WebhookRequestsTotal.WithLabelValues(result.Outcome).Inc()
	metrics.WebhookRequestDuration.Observe(time.Since(start).Seconds())

	resp := models.WebhookResponse{
		FulfillmentText: result.ResponseText,
		RequestID:       requestID,
	}
	if result.Pagination.Total > 0 {
		resp.Pagination = &result.Pagination
	}

	return c.JSON(http.StatusOK, resp)
}

func errorBody(requestID string, err *apperrors.StandardError) map[string]interface{} {
	return map[string]interface{}{
		"requestId": requestID,
		"error":     err,
	}
}
