package handler

import (
	"tennis-analyzer/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles everything mounted under /api.
type Handlers struct {
	Analysis *AnalysisHandler
	User     *UserHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the API on router, normally app.Group("/api").
func RegisterRoutes(router fiber.Router, h Handlers) {
	vm := middleware.NewValidationMiddleware()

	router.Get("/health", h.Health.Health)

	analyses := router.Group("/analyses")
	analyses.Get("/", h.Analysis.ListAnalyses)
	analyses.Post("/", h.Analysis.CreateAnalysis)
	analyses.Get("/:id", vm.ValidateIDParam("id"), h.Analysis.GetAnalysis)
	analyses.Get("/:id/file", vm.ValidateIDParam("id"), h.Analysis.GetAnalysisFile)
	analyses.Delete("/:id", vm.ValidateIDParam("id"), h.Analysis.DeleteAnalysis)
	router.Post("/upload", h.Analysis.UploadBase64)

	users := router.Group("/users")
	users.Post("/", h.User.CreateUser)
	users.Get("/:id", vm.ValidateIDParam("id"), h.User.GetUser)
}
