package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/alexvillacis/instituciones-app/controllers"
	"github.com/alexvillacis/instituciones-app/cron"
	"github.com/alexvillacis/instituciones-app/db"
	"github.com/alexvillacis/instituciones-app/redis"
	"github.com/alexvillacis/instituciones-app/routes"
	"github.com/alexvillacis/instituciones-app/services"
	"github.com/alexvillacis/instituciones-app/utils"
)

func main() {
	app := fiber.New()
	db.Init()
	db.Migrate()
	redis.InitRedis()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key" // Replace with secure key in production
	}

	verifiers, err := services.DefaultVerifiers(context.Background())
	if err != nil {
		log.Fatal("Failed to configure social login providers: ", err)
	}

	mailer := utils.NewMailer()
	notifier := services.NewRedisNotifier(redis.Client)
	permisoService := services.NewPermissionService(db.DB, mailer)
	roleService := services.NewRoleService(db.DB, permisoService, notifier)
	userService := services.NewUserService(db.DB, roleService, mailer)
	authService := services.NewAuthService(db.DB, roleService, mailer, verifiers, services.NewOutlookFlow(redis.Client), secret)

	// First-boot seeding: permissions from the route table, then the admin role.
	if err := roleService.Seed(routes.ProtectedRoutes()); err != nil {
		log.Fatal("Failed to seed roles and permissions: ", err)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello, World!")
	})

	routes.SetupAuthRoutes(app, controllers.NewAuthController(authService), controllers.NewEventsController(redis.Client))
	routes.SetupPermisoRoutes(app, controllers.NewPermisoController(permisoService, routes.ProtectedRoutes()))
	routes.SetupRoleRoutes(app, controllers.NewRoleController(roleService))
	routes.SetupUserRoutes(app, controllers.NewUserController(userService))

	cron.StartCronJobs()

	app.Listen(":8000")
}
