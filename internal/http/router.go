package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y todas las rutas del servicio.
func NewRouter(
	logger *zap.Logger,
	corsOrigins []string,
	healthCheck func(ctx context.Context) error,
	authH *AuthHandler,
	chatH *ChatHandler,
	skillsH *SkillsHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		if healthCheck != nil {
			if err := healthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/register", authH.Register)
	r.POST("/login", authH.Login)
	r.POST("/auth/refresh", authH.Refresh)
	r.POST("/auth/logout", authH.Logout)

	r.POST("/chat", chatH.Chat)
	r.GET("/chat-sessions", chatH.ListSessions)
	r.GET("/chat-history/:session_id", chatH.History)

	r.GET("/skills", skillsH.Questions)
	r.POST("/evaluate-skills", skillsH.Evaluate)
	r.POST("/save-assessment", skillsH.SaveAssessment)
	r.GET("/skill-assessments", skillsH.ListAssessments)
	r.GET("/skill-assessments/:session_id", skillsH.GetAssessment)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
