package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const APIPrefix = "/api/v1"

type Routes struct {
	Analyze *AnalyzeHandler
	Results *ResultHandler
	Resumes *ResumeHandler
	Catalog *CatalogHandler
	Auth    fiber.Handler
}

// Register mounts the API on app. Health and catalog routes stay public;
// the rest run behind the auth middleware. Unknown paths answer 404 either way.
func Register(app *fiber.App, r Routes) {
	api := app.Group(APIPrefix)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})
	api.Get("/taxonomy", r.Catalog.HandleTaxonomy)
	api.Get("/templates", r.Catalog.HandleTemplates)

	secure := func(h fiber.Handler) []fiber.Handler {
		if r.Auth == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{r.Auth, h}
	}

	api.Post("/analyze", secure(r.Analyze.HandleAnalyze)...)
	api.Get("/results/:id", secure(r.Results.HandleGetResult)...)
	api.Get("/users/:userId/results", secure(r.Results.HandleListResults)...)

	api.Post("/resumes", secure(r.Resumes.HandleCreate)...)
	api.Get("/resumes/:id", secure(r.Resumes.HandleGet)...)
	api.Get("/resumes/:id/preview", secure(r.Resumes.HandlePreview)...)
	api.Get("/resumes/:id/export", secure(r.Resumes.HandleExport)...)
	api.Get("/resumes/:id/thumbnail", secure(r.Resumes.HandleThumbnail)...)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST " + APIPrefix + "/analyze",
				"GET " + APIPrefix + "/results/:id",
				"GET " + APIPrefix + "/users/:userId/results",
				"GET " + APIPrefix + "/taxonomy",
				"GET " + APIPrefix + "/templates",
				"POST " + APIPrefix + "/resumes",
				"GET " + APIPrefix + "/resumes/:id",
				"GET " + APIPrefix + "/resumes/:id/preview",
				"GET " + APIPrefix + "/resumes/:id/export",
				"GET " + APIPrefix + "/resumes/:id/thumbnail",
			},
		})
	})
}
