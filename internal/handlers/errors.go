package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/analyzer"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

// ErrorHandler renders errors that escape a handler as {"error","code"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

// writeError maps service errors onto status codes. Internal failures are
// logged and answered with a generic message.
func writeError(c *fiber.Ctx, log *zap.Logger, err error, internalMsg string) error {
	var verr *analyzer.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(models.ValidationErrorResponse{
			Error:           verr.Verdict.Reason,
			Type:            "validation",
			Check:           string(verr.Verdict.Check),
			MissingSections: verr.Verdict.MissingSections,
		})
	case errors.Is(err, services.ErrUnsupportedFile), errors.Is(err, services.ErrExtraction):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to extract text from the document. Please upload a PDF, DOCX or TXT file.",
			"type":  "extraction",
		})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, services.ErrObjectNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	}

	log.Error(internalMsg, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": internalMsg,
	})
}
