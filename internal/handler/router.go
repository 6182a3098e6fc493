package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/reservation-desk/backend/internal/metrics"
	"github.com/reservation-desk/backend/internal/model"
)

type RouterConfig struct {
	Reservations      *ReservationHandler
	Auth              *AuthHandler
	Users             *UserHandler
	Movies            *MovieHandler
	Tokens            TokenVerifier
	AllowedOrigins    []string
	AuthRatePerMinute int
}

// NewRouter - 전체 라우트 등록
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), MetricsMiddleware(), CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/ping", Ping)
	router.GET("/", Root)
	router.GET("/openapi.json", OpenAPIDoc)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	requireAccess := AuthMiddleware(cfg.Tokens, model.AccessToken)
	requireRefresh := AuthMiddleware(cfg.Tokens, model.RefreshToken)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	limited := RateLimitMiddleware(cfg.AuthRatePerMinute)
	auth.POST("/register", limited, cfg.Auth.Register)
	auth.POST("/login", limited, cfg.Auth.Login)
	auth.POST("/refresh", requireRefresh, cfg.Auth.Refresh)
	auth.GET("/me", requireAccess, cfg.Auth.Me)

	reservations := v1.Group("/reservations")
	reservations.GET("", cfg.Reservations.ListReservations)
	reservations.POST("", requireAccess, cfg.Reservations.CreateReservations)
	reservations.GET("/export", requireAccess, cfg.Reservations.ExportReservations)
	reservations.GET("/:date", cfg.Reservations.GetReservationsByDate)
	reservations.GET("/:date/:time", cfg.Reservations.GetReservation)
	reservations.PATCH("/:date/:time", requireAccess, cfg.Reservations.UpdateReservation)

	users := v1.Group("/users")
	users.GET("", cfg.Users.ListUsers)
	users.GET("/:username", cfg.Users.GetUser)
	users.PATCH("/:username", requireAccess, cfg.Users.UpdateUser)
	users.DELETE("/:username", requireAccess, cfg.Users.DeleteUser)
	users.GET("/:username/avatar", cfg.Users.Avatar)
	users.PUT("/:username/avatar", requireAccess, cfg.Users.UploadAvatar)

	movies := v1.Group("/movies")
	movies.GET("", cfg.Movies.ListMovies)
	movies.GET("/:id", cfg.Movies.GetMovie)
	movies.POST("", requireAccess, cfg.Movies.CreateMovie)
	movies.PUT("/:id", requireAccess, cfg.Movies.UpdateMovie)
	movies.DELETE("/:id", requireAccess, cfg.Movies.DeleteMovie)

	return router
}
