package router

import (
	"gomart/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)
	users.POST("/forgot-password", handler.ForgotPassword)

	users.PUT("/profile", handler.UpdateProfile, authRequired)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetProducts)
	products.GET("/page/:page", handler.GetProductPage)
	products.GET("/count", handler.CountProducts)
	products.GET("/search/:keyword", handler.SearchProducts)
	products.POST("/filter", handler.FilterProducts)
	products.GET("/related/:pid/:cid", handler.RelatedProducts)
	products.GET("/category/:slug", handler.GetProductsByCategorySlug)
	products.GET("/photo/:id", handler.GetPhoto)
	products.GET("/:slug", handler.GetProductBySlug)

	products.POST("", handler.CreateProduct, authRequired, adminOnly)
	products.PUT("/:id", handler.UpdateProduct, authRequired, adminOnly)
	products.DELETE("/:id", handler.DeleteProduct, authRequired, adminOnly)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	categories := api.Group("/categories")

	categories.GET("", handler.GetAllCategories)
	categories.GET("/:slug", handler.GetCategoryBySlug)

	categories.POST("", handler.CreateCategory, authRequired, adminOnly)
	categories.PUT("/:id", handler.UpdateCategory, authRequired, adminOnly)
	categories.DELETE("/:id", handler.DeleteCategory, authRequired, adminOnly)
}

func SetupOrdersRoutes(api *echo.Group, handler *rest.OrdersHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	orders := api.Group("/orders", authRequired)

	orders.GET("/client-token", handler.ClientToken)
	orders.POST("/checkout", handler.Checkout)
	orders.GET("", handler.GetMyOrders)

	orders.GET("/all", handler.GetAllOrders, adminOnly)
	orders.PUT("/:id/status", handler.UpdateStatus, adminOnly)
}
