package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/azsu/crossfwd/internal/wire"
)

// forwardBody is the admin-facing request shape; it mirrors the wire
// ForwardRequest field for field.
type forwardBody struct {
	TargetServer     string `json:"target_server" binding:"required"`
	Command          string `json:"command" binding:"required"`
	ExecutorName     string `json:"executor_name"`
	ExecutorUUID     string `json:"executor_uuid"`
	ExecuteAsConsole bool   `json:"execute_as_console"`
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"service": s.cfg.Name,
			"version": version,
		})
	})

	s.engine.GET("/destinations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"channel":      s.hub.Channel(),
			"destinations": s.hub.All(),
		})
	})

	// Operator-side injection point: the HTTP equivalent of an inbound
	// channel message. Routing outcomes land in the logs, not the response.
	s.engine.POST("/forward", func(c *gin.Context) {
		var body forwardBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.router.Route(wire.ForwardRequest{
			TargetServer:     body.TargetServer,
			Command:          body.Command,
			ExecutorName:     body.ExecutorName,
			ExecutorUUID:     body.ExecutorUUID,
			ExecuteAsConsole: body.ExecuteAsConsole,
		})
		c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
	})

	s.engine.GET("/channel", func(c *gin.Context) {
		s.hub.ServeChannel(c.Writer, c.Request)
	})
}
