package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type AnalyzeHandler struct {
	analysisService services.AnalysisService
	maxFileSize     int64
	log             *zap.Logger
}

func NewAnalyzeHandler(
	analysisService services.AnalysisService,
	maxFileSize int64,
	log *zap.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisService: analysisService,
		maxFileSize:     maxFileSize,
		log:             log.Named("http.analyze"),
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file provided. Upload the resume as the 'resume' form field.",
		})
	}

	userID := resolveUser(c, c.FormValue("userId"))
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId is required",
		})
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	analysis, err := h.analysisService.Analyze(c.UserContext(), services.AnalyzeInput{
		UserID:   userID,
		FileName: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		return writeError(c, h.log, err, "Failed to analyze resume")
	}

	return c.Status(fiber.StatusCreated).JSON(models.NewAnalysisResponse(analysis))
}
