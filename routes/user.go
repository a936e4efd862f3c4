package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexvillacis/instituciones-app/controllers"
	"github.com/alexvillacis/instituciones-app/middleware"
)

// SetupUserRoutes configures the user endpoints
func SetupUserRoutes(app *fiber.App, uc *controllers.UserController) {
	users := app.Group("/users", middleware.Protected())

	users.Get("/", middleware.RequirePermission("/users", "get"), uc.List)
	users.Post("/", middleware.RequireRole("admin"), uc.Create)
	users.Post("/batch", middleware.RequireRole("admin"), uc.CreateBatch)
	users.Put("/batch", middleware.RequireRole("admin"), uc.UpdateBatch)
	users.Get("/:id", uc.GetByID)
	users.Put("/:id", middleware.RequireRole("admin"), uc.Update)
	users.Delete("/:id", middleware.RequireRole("admin"), uc.Delete)
}
