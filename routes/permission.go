package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexvillacis/instituciones-app/controllers"
	"github.com/alexvillacis/instituciones-app/middleware"
)

// SetupPermisoRoutes configures the permission catalog endpoints
func SetupPermisoRoutes(app *fiber.App, pc *controllers.PermisoController) {
	permisos := app.Group("/permisos", middleware.Protected())

	permisos.Get("/init", middleware.RequireRole("admin"), pc.Init)
	permisos.Get("/", pc.List)
	permisos.Post("/", middleware.RequireRole("admin"), pc.Create)
	permisos.Post("/batch", middleware.RequireRole("admin"), pc.CreateBatch)
	permisos.Put("/batch", middleware.RequireRole("admin"), pc.UpdateBatch)
	permisos.Get("/:id", pc.GetByID)
	permisos.Put("/:id", middleware.RequireRole("admin"), pc.Update)
	permisos.Delete("/:id", middleware.RequireRole("admin"), pc.Delete)
}
