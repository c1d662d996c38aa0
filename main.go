package main

import (
	"log"
	"strings"

	"edusphere-extension/app/client"
	"edusphere-extension/app/config"
	"edusphere-extension/app/database"
	"edusphere-extension/app/routes/auth"
	"edusphere-extension/app/routes/extension"
	"edusphere-extension/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
)

// customErrorHandler returns JSON for API paths and the landing page
// otherwise
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if strings.HasPrefix(c.Path(), "/api") || strings.HasPrefix(c.Path(), "/auth") {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	return c.Status(code).SendString(err.Error())
}

func main() {
	// Initialize configuration and the user directory database
	config.Init()
	defer config.GetDB().Close()

	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	directory := database.NewDirectory(config.GetDB())
	eduSphere := client.New(config.AppConfig.EduSphereURL, directory, auth.GenerateServiceToken)
	service := services.NewExtensionService(eduSphere, eduSphere, eduSphere)

	// Initialize template engine for the landing page
	engine := html.New("./app/templates", ".html")

	app := fiber.New(fiber.Config{
		Views:        engine,
		ViewsLayout:  "layouts/main",
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			// The dashboard is consumed by the browser extension; local
			// origins are allowed for development.
			return strings.HasPrefix(origin, "chrome-extension://") ||
				origin == "http://localhost:3000" ||
				origin == "https://localhost:3000"
		},
		AllowCredentials: true,
	}))

	// Landing page
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{
			"Title":        "EduSphere Extension Service",
			"EduSphereURL": config.AppConfig.EduSphereURL,
		})
	})

	// Setup auth routes
	auth.SetupAuthRoutes(app)

	// Setup extension routes
	extension.SetupExtensionRoutes(app, &extension.Handler{
		Service: service,
		Users:   directory,
	})

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	log.Println("Server starting on :" + config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
