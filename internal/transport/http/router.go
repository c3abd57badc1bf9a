package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"webinar-portal/internal/app"
	"webinar-portal/internal/metrics"
)

// RouterDeps are the collaborators the HTTP surface is built from.
type RouterDeps struct {
	Registry *app.Registry
	Verifier app.CredentialVerifier
	WS       *WSHandler
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewRouter wires the REST API, the portal websocket, and the metrics endpoint.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(requestLogger(deps.Logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		deps.Logger.Error("panic serving request", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: "internal", Message: "Internal server error"})
	}))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(deps.Metrics.Middleware())

	store := NewStoreHandler(deps.Registry, deps.Now)
	api := r.Group("/api")
	{
		api.GET("/health", store.Health)
		api.POST("/register", store.Register)
		api.PATCH("/update/:id", store.UpdateStatus)
		api.GET("/participants", requireAdmin(deps.Verifier), store.List)
		api.GET("/participants/export", requireAdmin(deps.Verifier), store.Export)
	}

	r.GET("/metrics", deps.Metrics.Handler())
	if deps.WS != nil {
		r.GET("/ws", gin.WrapF(deps.WS.ServeWS))
	}
	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// requireAdmin checks HTTP basic credentials against verifier.
func requireAdmin(verifier app.CredentialVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || verifier == nil || !verifier.Verify(user, pass) {
			c.Header("WWW-Authenticate", `Basic realm="portal-admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: "Invalid credentials"})
			return
		}
		c.Next()
	}
}
