package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type ResultHandler struct {
	analysisService services.AnalysisService
	log             *zap.Logger
}

func NewResultHandler(analysisService services.AnalysisService, log *zap.Logger) *ResultHandler {
	return &ResultHandler{
		analysisService: analysisService,
		log:             log.Named("http.results"),
	}
}

// HandleGetResult handles GET /results/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID format",
		})
	}

	analysis, err := h.analysisService.Get(c.UserContext(), analysisID)
	if err != nil {
		return writeError(c, h.log, err, "Failed to load analysis")
	}

	if user, ok := authenticatedUser(c); ok && user != analysis.UserID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	}

	return c.JSON(models.NewAnalysisResponse(analysis))
}

// HandleListResults handles GET /users/:userId/results
func (h *ResultHandler) HandleListResults(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if user, ok := authenticatedUser(c); ok && user != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Cannot list another user's results",
		})
	}

	analyses, err := h.analysisService.ListByUser(c.UserContext(), userID, c.QueryInt("limit", 20))
	if err != nil {
		return writeError(c, h.log, err, "Failed to list analyses")
	}

	response := models.AnalysisListResponse{
		UserID:   userID,
		Analyses: make([]models.AnalysisResponse, 0, len(analyses)),
	}
	for i := range analyses {
		response.Analyses = append(response.Analyses, models.NewAnalysisResponse(&analyses[i]))
	}

	return c.JSON(response)
}
