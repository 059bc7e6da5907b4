package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newsly/newsly/internal/core"
	"github.com/newsly/newsly/internal/gateway"
	"github.com/newsly/newsly/internal/middleware"
	"github.com/newsly/newsly/internal/personalize"
	"github.com/newsly/newsly/internal/store"
	"github.com/newsly/newsly/internal/token"
)

// Services groups the dependencies the HTTP layer adapts.
type Services struct {
	Gateway      *gateway.Gateway
	Resolver     *personalize.Resolver
	AuthCore     *core.AuthCore
	Store        store.Store
	TokenManager *token.Manager
}

// NewRouter builds the gin engine with CORS and all API routes.
func NewRouter(services Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	h := &handlers{services: services}
	authed := middleware.RequireAuth(services.TokenManager)

	api := r.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
		})

		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)

		api.GET("/news", h.listByCategory)
		api.GET("/news/search", h.search)
		api.GET("/news/article", h.articleDetail)
		api.GET("/news/personalized", authed, h.personalized)
		api.GET("/news/stats", authed, h.stats)
		api.POST("/news/cache/clear", authed, h.clearCache)

		api.GET("/preferences", authed, h.getPreferences)
		api.PUT("/preferences", authed, h.updatePreferences)

		api.GET("/articles/saved", authed, h.listSaved)
		api.POST("/articles/saved", authed, h.saveArticle)
		api.DELETE("/articles/saved/:id", authed, h.deleteSaved)
	}

	return r
}
