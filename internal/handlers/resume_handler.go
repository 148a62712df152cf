package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type ResumeHandler struct {
	builder  services.ResumeBuilder
	exporter services.ExportService
	renderer services.ExportRenderer
	basePath string
	log      *zap.Logger
}

func NewResumeHandler(
	builder services.ResumeBuilder,
	exporter services.ExportService,
	renderer services.ExportRenderer,
	basePath string,
	log *zap.Logger,
) *ResumeHandler {
	return &ResumeHandler{
		builder:  builder,
		exporter: exporter,
		renderer: renderer,
		basePath: basePath,
		log:      log.Named("http.resumes"),
	}
}

// HandleCreate handles POST /resumes
func (h *ResumeHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateResumeRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	userID := resolveUser(c, req.UserID)
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId is required",
		})
	}

	created, err := h.builder.Create(c.UserContext(), services.CreateResumeInput{
		UserID:     userID,
		TemplateID: req.TemplateID,
		Form:       req.FormData,
	})
	if err != nil {
		return writeError(c, h.log, err, "Failed to create resume")
	}

	return c.Status(fiber.StatusAccepted).JSON(models.CreateResumeResponse{
		ResumeID:   created.Resume.ID.String(),
		AnalysisID: created.Analysis.ID.String(),
		Status:     string(created.Resume.Status),
		Message:    "Resume created successfully",
	})
}

// loadResume parses :id and fetches the resume owned by the caller.
// On failure the response has already been written and ok is false.
func (h *ResumeHandler) loadResume(c *fiber.Ctx) (resume *models.Resume, ok bool, err error) {
	resumeID, perr := uuid.Parse(c.Params("id"))
	if perr != nil {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resume ID format",
		})
	}

	resume, ferr := h.builder.Get(c.UserContext(), resumeID)
	if ferr != nil {
		return nil, false, writeError(c, h.log, ferr, "Failed to load resume")
	}

	if user, authed := authenticatedUser(c); authed && user != resume.UserID {
		return nil, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	}
	return resume, true, nil
}

// HandleGet handles GET /resumes/:id
func (h *ResumeHandler) HandleGet(c *fiber.Ctx) error {
	resume, ok, err := h.loadResume(c)
	if !ok {
		return err
	}
	return c.JSON(models.NewResumeResponse(resume, h.basePath))
}

// HandlePreview handles GET /resumes/:id/preview. The HTML is rendered on
// demand so a preview is available before the export finishes.
func (h *ResumeHandler) HandlePreview(c *fiber.Ctx) error {
	resume, ok, err := h.loadResume(c)
	if !ok {
		return err
	}

	tmpl, found := services.FindTemplate(resume.TemplateID)
	if !found {
		tmpl, _ = services.FindTemplate(services.DefaultTemplateID)
	}

	page, err := h.renderer.RenderHTML(resume, tmpl)
	if err != nil {
		return writeError(c, h.log, err, "Failed to render resume")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(page)
}

// HandleExport handles GET /resumes/:id/export
func (h *ResumeHandler) HandleExport(c *fiber.Ctx) error {
	return h.sendArtifact(c, services.ArtifactPDF, "application/pdf")
}

// HandleThumbnail handles GET /resumes/:id/thumbnail
func (h *ResumeHandler) HandleThumbnail(c *fiber.Ctx) error {
	return h.sendArtifact(c, services.ArtifactPreview, "image/jpeg")
}

func (h *ResumeHandler) sendArtifact(c *fiber.Ctx, kind services.ArtifactKind, contentType string) error {
	resume, ok, err := h.loadResume(c)
	if !ok {
		return err
	}

	if resume.Status != models.StatusCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "Export is not ready",
			"status": resume.Status,
		})
	}

	data, err := h.exporter.OpenArtifact(c.UserContext(), resume, kind)
	if err != nil {
		return writeError(c, h.log, err, "Failed to load export")
	}

	c.Set(fiber.HeaderContentType, contentType)
	if kind == services.ArtifactPDF {
		c.Attachment("resume-" + resume.ID.String() + ".pdf")
	}
	return c.Send(data)
}
