package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"atsumeru/cmd/middleware"
	"atsumeru/internal/api/handler"
)

type Routers struct {
	Handler     *handler.Handler
	Log         *zerolog.Logger
	GinMode     string
	CORSOrigins []string
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func NewRouters(r *Routers) *ginext.Engine {
	mode := r.GinMode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	app := ginext.New(mode)

	app.Use(gin.Recovery())
	app.Use(middleware.LoggingMiddleware(r.Log))
	app.Use(corsMiddleware(r.CORSOrigins))

	h := r.Handler

	app.GET("/healthz", h.Health)

	events := app.Group("/events")
	events.POST("", h.CreateEvent)
	events.GET("/mine", h.OwnedEvents)
	events.GET("/:id", h.GetEvent)
	events.PATCH("/:id/manage", h.UpdateSettings)

	events.POST("/:id/responses", h.CreateResponse)
	events.GET("/:id/responses", h.ListForOwner)
	events.GET("/:id/responses/public", h.ListPublic)
	events.PATCH("/:id/responses/:responseId", h.SelfUpdate)
	events.PATCH("/:id/responses/:responseId/paid", h.OwnerSetPaid)

	return app
}
