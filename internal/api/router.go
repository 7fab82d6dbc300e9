package api

import (
	"time"

	"libraryhub/internal/api/handler"
	"libraryhub/internal/api/middleware"
	"libraryhub/internal/api/service"
	"libraryhub/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Handlers bundles the per-resource handlers for route registration.
type Handlers struct {
	Auth   *handler.AuthHandler
	Book   *handler.BookHandler
	Borrow *handler.BorrowHandler
	Admin  *handler.AdminHandler
	Health *handler.HealthHandler
}

// NewRouter builds the Gin engine with the full route table and middleware
// chain.
func NewRouter(cfg *config.Config, authService service.AuthService, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(cfg.JWTSecret))
	r.Use(middleware.Recovery())

	authenticated := middleware.AuthMiddleware(authService)
	active := middleware.RequireActive()
	admin := middleware.RequireAdmin()

	// Probes
	r.GET("/", h.Health.Root)
	r.GET("/database-health", h.Health.DatabaseHealth)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", middleware.LoginRateLimiter(rate.Every(time.Second), 5), h.Auth.Login)
		auth.POST("/token/refresh", authenticated, active, h.Auth.RefreshToken)
		auth.GET("/users/me", authenticated, active, h.Auth.Me)
		auth.POST("/create_admin", authenticated, admin, h.Auth.CreateAdmin)
	}

	books := r.Group("/books")
	{
		books.GET("", h.Book.List)
		books.GET("/:book_id", h.Book.Get)

		books.POST("", authenticated, active, admin, h.Book.Create)
		books.PUT("/:book_id", authenticated, active, admin, h.Book.Update)
		books.DELETE("/:book_id", authenticated, active, admin, h.Book.Delete)
	}

	r.POST("/borrow/:book_id", authenticated, active, h.Borrow.Borrow)
	r.POST("/return/:book_id", authenticated, active, h.Borrow.Return)
	r.GET("/borrowed", authenticated, active, h.Borrow.ListBorrowed)
	r.GET("/borrowed/details", authenticated, active, h.Borrow.ListBorrowedDetails)

	adminGroup := r.Group("/admin", authenticated, active, admin)
	{
		adminGroup.GET("/users", h.Admin.ListUsers)
		adminGroup.GET("/borrowing-history", h.Admin.BorrowingHistory)
	}

	return r
}
