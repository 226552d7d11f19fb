package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"roomies/internal/infra/config"
	"roomies/internal/infra/obs"
)

type Handlers struct {
	Listing  ListingHTTP
	Auth     AuthHTTP
	Images   *ImageHandler
	Sessions SessionMiddleware
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg.Env, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(env string, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.SetHTMLTemplate(loadTemplates())
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Forwarded-For"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(h.Sessions.Identify)

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	if h.Auth != nil {
		router.GET("/login", h.Auth.LoginPage)
		router.POST("/login", h.Auth.Login)
		router.GET("/signup", h.Auth.SignupPage)
		router.POST("/signup", h.Auth.Signup)
		router.POST("/logout", h.Auth.Logout)
	}
	if h.Listing != nil {
		router.GET("/", h.Listing.Home)
		members := router.Group("/properties", h.Sessions.RequireLogin)
		members.GET("", h.Listing.Nearby)
		members.POST("", h.Listing.Nearby)
		router.GET("/property/:id", h.Listing.Detail)
		router.GET("/search", h.Listing.Search)
		router.POST("/search", h.Listing.Search)
	}
	if h.Images != nil {
		router.GET("/static/img/*path", h.Images.Serve)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
