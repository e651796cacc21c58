package routes

import (
	"catalog-admin/internal/handlers"

	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

type Handlers struct {
	Sessions *handlers.Sessions
	Auth     *handlers.AuthHandler
	Console  *handlers.ConsoleHandler
	Audit    *handlers.AuditHandler
	Upload   *handlers.UploadHandler
	Health   *handlers.HealthHandler
}

// Setup registers the console pages and the JSON API.
func Setup(app *fiber.App, h Handlers) {
	requireSession := h.Sessions.Require

	// Sign-in
	app.Get("/login", h.Auth.LoginPage)
	app.Post("/login", h.Auth.Login)
	app.Post("/logout", h.Auth.Logout)

	// Swagger documentation
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Console pages - one mounted resource page per session
	app.Get("/", requireSession, h.Console.Home)
	app.Get("/audit", requireSession, h.Audit.Page)
	resources := app.Group("/resources")
	{
		resources.Get("/:resource", requireSession, h.Console.Resource)
		resources.Post("/:resource/actions/:action", requireSession, h.Console.Action)
	}

	// API versioning
	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Get("/health", h.Health.Health)
	v1.Get("/resources/:resource", requireSession, h.Console.ResourceState)
	v1.Get("/audit", requireSession, h.Audit.ListAudit)

	upload := v1.Group("/uploads")
	{
		upload.Get("/presign", requireSession, h.Upload.GetPresignedURL)
		upload.Delete("/", requireSession, h.Upload.DeleteUpload)
	}
}
