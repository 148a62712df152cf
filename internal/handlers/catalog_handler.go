package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type CatalogHandler struct {
	engine *analyzer.Engine
}

func NewCatalogHandler(engine *analyzer.Engine) *CatalogHandler {
	return &CatalogHandler{engine: engine}
}

// HandleTaxonomy handles GET /taxonomy
func (h *CatalogHandler) HandleTaxonomy(c *fiber.Ctx) error {
	policy := h.engine.Policy()
	return c.JSON(fiber.Map{
		"policy":   policy.Name,
		"taxonomy": policy.Taxonomy,
	})
}

// HandleTemplates handles GET /templates
func (h *CatalogHandler) HandleTemplates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"templates": services.Templates(),
	})
}
