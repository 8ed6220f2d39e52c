package routes

import (
	"github.com/gofiber/fiber/v2"

	"catalog-backend/controllers"
	"catalog-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Idempotency guard for mutating endpoints
	api.Use(middlewares.Idempotency())

	// Sections
	api.Get("/sections", controllers.GetSections)
	api.Post("/sections", controllers.CreateSection)
	api.Put("/sections/by-name/:name", controllers.UpdateSectionByName)
	api.Put("/sections/:id", controllers.UpdateSection)
	api.Delete("/sections/by-name/:name", controllers.DeleteSectionByName)
	api.Delete("/sections/:id", controllers.DeleteSection)

	// Families
	api.Get("/families", controllers.GetFamilies)
	api.Post("/families", controllers.CreateFamily)
	api.Put("/families/by-name/:name", controllers.UpdateFamilyByName)
	api.Put("/families/:id", controllers.UpdateFamily)
	api.Delete("/families/by-name/:name", controllers.DeleteFamilyByName)
	api.Delete("/families/:id", controllers.DeleteFamily)

	// Articles
	api.Get("/articles", controllers.GetArticles)
	api.Get("/articles/barcode/:value", controllers.GetArticleByBarcode)
	api.Get("/articles/name/:name", controllers.SearchArticles)
	api.Post("/articles", controllers.CreateArticle)
	api.Put("/articles/:id", controllers.UpdateArticle)
	api.Delete("/articles/:id", controllers.DeleteArticle)
}
