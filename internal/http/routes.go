package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ideatter/ideatter/internal/store"
	"github.com/ideatter/ideatter/internal/ws"
)

// SetupRoutes configures all application routes and middleware.
func SetupRoutes(router *gin.Engine, st *store.Store, hub *ws.Hub, allowedOrigins []string) {

	env := &Env{Store: st, Hub: hub}

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(SecurityHeadersMiddleware())

	// CORS: only the configured development origins may call the API
	// from a browser.
	router.Use(cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
	}))

	// Reads
	router.GET("/ideas", env.GetIdeas)
	router.GET("/comments/:ideaId", env.GetComments)
	router.GET("/comments/:ideaId/count", env.GetCommentCount)
	router.GET("/create/:ideaId", env.GetWantToCreate)
	router.GET("/create/:ideaId/count", env.GetWantToCreateCount)

	// Writes
	router.POST("/post/idea", env.CreateIdea)
	router.POST("/post/comment", env.CreateComment)
	router.POST("/post/create", env.CreateWantToCreate)
	router.POST("/ideas/:ideaId/like", env.LikeIdea)

	// Live feed
	if hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			ws.ServeWs(hub, c.Writer, c.Request)
		})
	}

	// Static landing page. Must come after the API routes.
	router.StaticFile("/", "./public/index.html")
}
