package routes

import (
	"net/http"
	"time"

	userRepo "washlane/database/repository/user"
	"washlane/handlers"
	"washlane/middleware"
	"washlane/models"
	"washlane/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, uh *handlers.UserHandler, repo userRepo.UserRepository) {
	api := r.Group("/api/users")
	{
		api.POST("/register", uh.RegisterHandler)
		api.POST("/login", uh.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.AuthRequired(repo))
		api.GET("/me", uh.MeHandler)
		api.DELETE("/logout", uh.LogoutHandler)
		api.GET("/attendants", middleware.RequireRole(models.RoleAdmin), uh.ListAttendantsHandler)
	}
}

// RegisterBookingRoutes registers booking endpoints. Admins manage bookings;
// attendants can only list their own.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler, repo userRepo.UserRepository) {
	api := r.Group("/api/bookings")
	api.Use(middleware.AuthRequired(repo))
	{
		api.GET("/mine", middleware.RequireRole(models.RoleAttendant), bh.ListMyBookingsHandler)

		admin := api.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.POST("", bh.CreateBookingHandler)
		admin.GET("", bh.ListBookingsHandler)
		admin.GET("/:id", bh.GetBookingHandler)
		admin.PATCH("/:id", bh.UpdateBookingHandler)
		admin.DELETE("/:id", bh.DeleteBookingHandler)
	}
}

// RegisterWalletRoutes registers ledger endpoints. Attendants read their own
// wallet; every other operation is admin-only.
func RegisterWalletRoutes(r *gin.Engine, wh *handlers.WalletHandler, repo userRepo.UserRepository) {
	api := r.Group("/api/wallets")
	api.Use(middleware.AuthRequired(repo))
	{
		api.GET("/me", middleware.RequireRole(models.RoleAttendant), wh.GetMyWalletHandler)

		admin := api.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.GET("", wh.GetAllWalletsHandler)
		admin.GET("/system", wh.GetSystemWalletHandler)
		admin.POST("/settle", wh.SettleManyHandler)
		admin.POST("/:attendantId/mark-paid", wh.MarkPaidHandler)
		admin.POST("/:attendantId/rebuild", wh.RebuildHandler)
		admin.POST("/:attendantId/adjust", wh.AdjustHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, uh *handlers.UserHandler, bh *handlers.BookingHandler, wh *handlers.WalletHandler, repo userRepo.UserRepository) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterUserRoutes(r, uh, repo)
	RegisterBookingRoutes(r, bh, repo)
	RegisterWalletRoutes(r, wh, repo)
	RegisterHealthRoute(r)
}
