package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/ecomm/internal/config"
	"github.com/example/ecomm/internal/events"
	"github.com/example/ecomm/internal/handlers"
	"github.com/example/ecomm/internal/idempotency"
	"github.com/example/ecomm/internal/middleware"
	"github.com/example/ecomm/internal/models"
	"github.com/example/ecomm/internal/services"
)

// Register wires up all HTTP routes. A nil store disables idempotent
// checkout replay; a nil publisher disables order events.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, store idempotency.Store, publisher events.Publisher) {
	catalogService := services.NewCatalogService(db)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db, publisher)
	riderService := services.NewRiderService(db)

	authHandler := handlers.NewAuthHandler(db, cfg)
	itemHandler := handlers.NewItemHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	riderHandler := handlers.NewRiderHandler(riderService, cfg)

	authenticated := middleware.AuthMiddleware(cfg, db)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	userOnly := middleware.RequireRoles(models.RoleUser)
	riderOnly := middleware.RequireRoles(models.RoleRider)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/admin/login", authHandler.AdminLogin)
	auth.Post("/admin/register", authHandler.RegisterAdmin)

	// Catalog
	items := api.Group("/items")
	items.Get("/", itemHandler.ListItems)
	items.Post("/create", authenticated, adminOnly, itemHandler.CreateItem)
	items.Get("/:id", itemHandler.GetItem)
	items.Put("/:id", authenticated, adminOnly, itemHandler.UpdateItem)
	items.Delete("/:id", authenticated, adminOnly, itemHandler.DeleteItem)

	// Cart
	cart := api.Group("/cart", authenticated, userOnly)
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/add", cartHandler.AddItem)
	cart.Put("/update", cartHandler.UpdateItem)
	cart.Delete("/remove", cartHandler.RemoveItem)

	// Orders
	orders := api.Group("/orders", authenticated)
	orders.Post("/create", userOnly, middleware.Idempotency(store), orderHandler.CreateOrder)
	orders.Get("/my-orders", userOnly, orderHandler.ListOrders)
	orders.Get("/all", adminOnly, orderHandler.ListOrders)
	orders.Put("/status", adminOnly, orderHandler.UpdateStatus)
	orders.Get("/rider-orders", riderOnly, orderHandler.ListOrders)
	orders.Put("/delivery-status", riderOnly, orderHandler.UpdateDeliveryStatus)
	orders.Get("/:id", orderHandler.GetOrder)

	// Riders
	rider := api.Group("/rider")
	rider.Post("/login", riderHandler.Login)
	rider.Put("/status", authenticated, riderOnly, riderHandler.UpdateStatus)
	rider.Put("/location", authenticated, riderOnly, riderHandler.UpdateLocation)
	rider.Post("/create", authenticated, adminOnly, riderHandler.CreateRider)
	rider.Get("/all", authenticated, adminOnly, riderHandler.ListRiders)
	rider.Put("/:id", authenticated, adminOnly, riderHandler.UpdateRider)
}
