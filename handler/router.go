package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"hackathon-backend/log"
)

const requestIDHeader = "X-Request-ID"

func init() {
	gin.EnableJsonDecoderDisallowUnknownFields()
}

// Router wires every route onto a new engine.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = formMemory
	r.Use(requestID(), requestLogger(), gin.Recovery())
	r.Use(cors.New(h.corsConfig()))

	r.GET("/healthz", h.Health)
	r.GET("/files/*name", h.File)

	api := r.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/submit", h.Submit)
		api.GET("/registered-teams", h.RegisteredTeams)
		api.GET("/submission-count", h.SubmissionCount)
		api.GET("/submission-status", h.PublicSubmissionStatus)
		api.GET("/team/:id", h.Team)
	}

	api.POST("/admin/login", h.Login)

	admin := api.Group("/admin")
	admin.Use(h.requireAdmin())
	{
		admin.GET("/checkin", h.ListCheckIns)
		admin.POST("/checkin", h.UpdateCheckIn)
		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/submission-status", h.SubmissionStatus)
		admin.POST("/submission-status", h.SetSubmissionStatus)
		admin.GET("/submissions", h.Submissions)
		admin.GET("/teams", h.Teams)
		admin.GET("/waitlist", h.Waitlist)
		admin.PATCH("/waitlist/:teamId", h.Promote)
		admin.POST("/email", h.SendBulkEmail)
		admin.POST("/certificates", h.RegisterCertificate)
		admin.GET("/live", h.Live)
	}

	return r
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	origins := h.opts.CORSOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("requestID", c.GetString("requestID")),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Logger.Error("request", fields...)
		case status >= 400:
			log.Logger.Info("request", fields...)
		default:
			log.Logger.Debug("request", fields...)
		}
	}
}
