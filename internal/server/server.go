package server

import (
	"context"
	"net/http"

	"github.com/ryoha000/traQ-bookmaker/internal/api"
	"github.com/ryoha000/traQ-bookmaker/internal/command"
	"github.com/ryoha000/traQ-bookmaker/internal/config"
	"github.com/ryoha000/traQ-bookmaker/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EventHandler consumes bot events. Implemented by command.Router.
type EventHandler interface {
	HandleMessageCreated(ctx context.Context, ev command.MessageCreatedEvent) error
}

type Server struct {
	router *gin.Engine
	config *config.Config
	http   *http.Server
}

func New(cfg *config.Config, events EventHandler) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	bot := router.Group("/bot")
	bot.Use(RateLimitMiddleware(20, 40))
	bot.Use(VerifyTokenMiddleware(cfg.BotVerificationToken))
	{
		bot.POST("/event", botEventHandler(events))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		router: router,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// botEventHandler dispatches traQ bot events by the X-TraQ-BOT-Event header.
// traQ only cares about the status code, so everything acknowledges with 204
// and command failures are logged instead of surfaced.
func botEventHandler(events EventHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		event := c.GetHeader("X-TraQ-BOT-Event")

		switch event {
		case "PING", "JOINED", "LEFT":
			c.Status(http.StatusNoContent)
		case "MESSAGE_CREATED":
			var ev command.MessageCreatedEvent
			if err := c.ShouldBindJSON(&ev); err != nil {
				c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid event payload"})
				return
			}

			if err := events.HandleMessageCreated(c.Request.Context(), ev); err != nil {
				logger.Errorf("Failed to handle message %s: %v", ev.Message.ID, err)
			}
			c.Status(http.StatusNoContent)
		default:
			logger.Infof("Ignoring bot event %q", event)
			c.Status(http.StatusNoContent)
		}
	}
}
