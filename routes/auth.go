package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexvillacis/instituciones-app/controllers"
	"github.com/alexvillacis/instituciones-app/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App, ac *controllers.AuthController, ec *controllers.EventsController) {
	auth := app.Group("/auth")

	// Social logins are public by nature: the provider assertion is the credential.
	auth.Post("/login", ac.Login)
	auth.Post("/google", ac.GoogleLogin)
	auth.Post("/google-one-tap", ac.GoogleOneTapLogin)
	auth.Post("/google-plus", ac.GooglePlusLogin)
	auth.Post("/facebook", ac.FacebookLogin)
	auth.Get("/outlook/url", ac.OutlookURL)
	auth.Post("/outlook", ac.OutlookLogin)
	auth.Post("/apple", ac.AppleLogin)

	auth.Post("/logout", middleware.Protected(), ac.Logout)

	// Live permission-change events for the authenticated user
	app.Get("/events", middleware.Protected(), ec.Stream)
}
