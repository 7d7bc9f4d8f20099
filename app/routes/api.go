// Package routes wires the HTTP surface: repositories → services →
// controllers → named routes.
package routes

import (
	"github.com/priyamehta/aarohi/app/controllers"
	appgraphql "github.com/priyamehta/aarohi/app/graphql"
	"github.com/priyamehta/aarohi/app/repositories"
	"github.com/priyamehta/aarohi/app/services"
	"github.com/priyamehta/aarohi/pkg/database"
	"github.com/priyamehta/aarohi/pkg/middleware"
	"github.com/priyamehta/aarohi/pkg/router"
)

// RegisterAPI mounts every API route. Call after database.Connect.
func RegisterAPI(r *router.Router) error {
	products := repositories.NewProductRepository(database.Collection("products"))
	categories := repositories.NewCategoryRepository(database.Collection("categories"))
	users := repositories.NewUserRepository(database.Collection("users"))
	orders := repositories.NewOrderRepository(database.Collection("orders"))

	catalogSvc := services.NewCatalogService(products, categories, users)
	authSvc := services.NewAuthService(users)
	categorySvc := services.NewCategoryService(categories, products)
	orderSvc := services.NewOrderService(orders, products)

	productCtl := controllers.NewProductController(catalogSvc)
	authCtl := controllers.NewAuthController(authSvc)
	categoryCtl := controllers.NewCategoryController(categorySvc)
	orderCtl := controllers.NewOrderController(orderSvc)
	uploadCtl := controllers.NewUploadController()

	gql, err := appgraphql.Handler(catalogSvc)
	if err != nil {
		return err
	}

	api := r.Group("/api")

	// Public catalog.
	api.Get("/products", "products.index", productCtl.List)
	api.Get("/products/{slug}", "products.show", productCtl.Get)
	api.Get("/categories", "categories.index", categoryCtl.List)
	api.Get("/categories/{slug}", "categories.show", categoryCtl.Get)
	api.Post("/graphql", "graphql", gql)

	// Accounts.
	api.Post("/auth/register", "auth.register", authCtl.Register)
	api.Post("/auth/login", "auth.login", authCtl.Login)
	api.Post("/auth/logout", "auth.logout", authCtl.Logout)

	authed := api.Group("", middleware.Auth)
	authed.Get("/auth/me", "auth.me", authCtl.Me)
	authed.Put("/auth/profile", "auth.profile", authCtl.UpdateProfile)
	authed.Post("/products/{id}/reviews", "products.review", productCtl.AddReview)
	authed.Post("/orders", "orders.create", orderCtl.Create)
	authed.Get("/orders", "orders.mine", orderCtl.Mine)
	authed.Get("/orders/{id}", "orders.show", orderCtl.Get)

	admin := api.Group("/admin", middleware.Auth, middleware.Admin)
	admin.Post("/products", "admin.products.create", productCtl.Create)
	admin.Put("/products/{id}", "admin.products.update", productCtl.Update)
	admin.Delete("/products/{id}", "admin.products.delete", productCtl.Delete)
	admin.Post("/categories", "admin.categories.create", categoryCtl.Create)
	admin.Put("/categories/{id}", "admin.categories.update", categoryCtl.Update)
	admin.Delete("/categories/{id}", "admin.categories.delete", categoryCtl.Delete)
	admin.Get("/orders", "admin.orders.index", orderCtl.ListAll)
	admin.Put("/orders/{id}/status", "admin.orders.status", orderCtl.UpdateStatus)
	admin.Post("/uploads", "admin.uploads.single", uploadCtl.Single)
	admin.Post("/uploads/batch", "admin.uploads.batch", uploadCtl.Multiple)

	return nil
}
