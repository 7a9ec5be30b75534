// Package http provides http transport for insights
package http

import (
	stdhttp "net/http"

	"soullatino/internal/modkit/httpkit"
	"soullatino/internal/services/api/insights/domain"
	svc "soullatino/internal/services/api/insights/service"
)

// Register mounts insights endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// full evaluation for one creator
	httpkit.PostJSON[domain.CreatorInsightInput](r, "/creator", h.creator)

	// composed status message for one creator
	httpkit.PostJSON[domain.MessageInput](r, "/message", h.message)

	// roster-wide run, optionally persisting bonus results
	httpkit.PostJSON[domain.BatchInput](r, "/batch", h.batch)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /insights/creator Insights insightsCreator
// @Summary Full metrics, projection, and bonus evaluation for one creator
// @Tags Insights
// @Accept json
// @Produce json
// @Param payload body domain.CreatorInsightInput true "Query"
// @Success 200 {object} engine.Insight "ok"
// @Router /insights/creator [post]
func (h *handlers) creator(r *stdhttp.Request, in domain.CreatorInsightInput) (any, error) {
	return h.svc.CreatorInsight(r.Context(), in)
}

// swagger:route POST /insights/message Insights insightsMessage
// @Summary Composed status message for one creator
// @Tags Insights
// @Accept json
// @Produce json
// @Param payload body domain.MessageInput true "Query"
// @Success 200 {object} domain.MessageRow "ok"
// @Router /insights/message [post]
func (h *handlers) message(r *stdhttp.Request, in domain.MessageInput) (any, error) {
	return h.svc.CreatorMessage(r.Context(), in)
}

// swagger:route POST /insights/batch Insights insightsBatch
// @Summary Evaluate the whole roster
// @Tags Insights
// @Accept json
// @Produce json
// @Param payload body domain.BatchInput true "Query"
// @Success 200 {object} insightsdom.BatchResult "ok"
// @Router /insights/batch [post]
func (h *handlers) batch(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	return h.svc.RunBatch(r.Context(), in)
}
