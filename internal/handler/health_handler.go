package handler

import (
	"context"
	"time"

	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/dto"
	"tennis-analyzer/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const cachePingTimeout = 2 * time.Second

// HealthHandler reports liveness and which storage engine is active.
type HealthHandler struct {
	storageKind string
	cacheKind   string
	cache       domain.Cache
}

// NewHealthHandler creates a HealthHandler. cache may be nil.
func NewHealthHandler(storageKind, cacheKind string, cache domain.Cache) *HealthHandler {
	return &HealthHandler{storageKind: storageKind, cacheKind: cacheKind, cache: cache}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok", Storage: h.storageKind, Cache: h.cacheKind}
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Context(), cachePingTimeout)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			logger.Get().Warn("Cache ping failed", zap.String("cache", h.cacheKind), zap.Error(err))
			resp.Status = "degraded"
		}
	}
	return c.JSON(resp)
}
