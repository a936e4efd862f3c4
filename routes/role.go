package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexvillacis/instituciones-app/controllers"
	"github.com/alexvillacis/instituciones-app/middleware"
)

// SetupRoleRoutes configures the role endpoints
func SetupRoleRoutes(app *fiber.App, rc *controllers.RoleController) {
	roles := app.Group("/roles", middleware.Protected())

	roles.Get("/", rc.List)
	roles.Post("/", middleware.RequireRole("admin"), rc.Create)
	roles.Post("/batch", middleware.RequireRole("admin"), rc.CreateBatch)
	roles.Put("/batch", middleware.RequireRole("admin"), rc.UpdateBatch)
	roles.Get("/:id", rc.GetByID)
	roles.Put("/:id", middleware.RequireRole("admin"), rc.Update)
	roles.Delete("/:id", middleware.RequireRole("admin"), rc.Delete)
}
