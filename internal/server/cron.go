package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// cronExpire runs the expiry sweep. Scheduling is external and
// at-least-once; the sweep itself is idempotent.
func (s *Server) cronExpire(c *gin.Context) {
	result, err := s.tickets.ExpireStale(c.Request.Context())
	if err != nil {
		s.log.Error("expiry sweep failed", zap.Error(err), zap.Int64("expired", result.Total))
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("expired %d tickets", result.Total),
		"expiredCount": result.Total,
		"detail":       result,
	})
}

func (s *Server) cronPayouts(c *gin.Context) {
	result, err := s.payouts.Settle(c.Request.Context())
	if err != nil {
		s.log.Error("settlement batch failed", zap.Error(err))
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": result.Processed,
		"failed":    result.Failed,
		"total":     result.Total,
	})
}
