package routes

import (
	"food-delivery/controllers"
	"food-delivery/middleware"
	"food-delivery/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Product  *controllers.ProductController
	Category *controllers.CategoryController
	Order    *controllers.OrderController
	History  *controllers.HistoryController
	Review   *controllers.ReviewController
	Team     *controllers.TeamController
	System   *controllers.SystemController
}

func SetupRoutes(router *gin.Engine, ctrl Controllers, tokens middleware.TokenValidator, staticDir string) {
	requireAuth := middleware.AuthMiddleware(tokens)
	requireAdmin := middleware.AdminMiddleware()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", ctrl.System.Health)

	api := router.Group("/api")
	{
		api.GET("/test-db", ctrl.System.TestDB)
		api.GET("/menu", ctrl.Product.GetMenu)

		api.GET("/users", ctrl.User.GetAllUsers)
		api.POST("/users", ctrl.User.Signup)
		api.GET("/users/:userId/orders", ctrl.Order.GetUserOrders)

		api.GET("/orders", ctrl.Order.GetOrders)
		api.GET("/orders/:id", ctrl.Order.GetOrderByID)
		api.POST("/orders", middleware.OptionalAuthMiddleware(tokens), ctrl.Order.CreateOrder)
		api.GET("/order-items", ctrl.Order.GetOrderItems)

		api.POST("/auth/register", ctrl.Auth.Register)
		api.POST("/auth/login", ctrl.Auth.Login)

		api.GET("/products", ctrl.Product.GetAllProducts)
		api.GET("/products/:id", ctrl.Product.GetProductByID)
		api.GET("/categories", ctrl.Category.GetCategories)

		api.GET("/reviews/product/:productId", ctrl.Review.GetProductReviews)

		api.GET("/team", ctrl.Team.GetAll)
		api.GET("/team/:id", ctrl.Team.GetByID)
	}

	auth := api.Group("/")
	auth.Use(requireAuth)
	{
		auth.GET("/auth/me", ctrl.Auth.Me)
		auth.PUT("/auth/profile", ctrl.Auth.UpdateProfile)
		auth.PUT("/auth/change-password", ctrl.Auth.ChangePassword)
		auth.GET("/history", ctrl.History.GetHistory)

		auth.POST("/reviews", ctrl.Review.CreateReview)
		auth.PUT("/reviews/:id", ctrl.Review.UpdateReview)
		auth.DELETE("/reviews/:id", ctrl.Review.DeleteReview)
	}

	admin := api.Group("/")
	admin.Use(requireAuth, requireAdmin)
	{
		admin.POST("/products", ctrl.Product.CreateProduct)
		admin.PUT("/products/:id", ctrl.Product.UpdateProduct)
		admin.DELETE("/products/:id", ctrl.Product.DeleteProduct)

		admin.POST("/team", ctrl.Team.Create)
		admin.PUT("/team/:id", ctrl.Team.Update)
		admin.DELETE("/team/:id", ctrl.Team.Delete)

		admin.DELETE("/admin/orders/:id", ctrl.Order.DeleteOrder)
	}

	router.NoRoute(utils.StaticHandler(staticDir))
}
