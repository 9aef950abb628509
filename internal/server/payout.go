package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listMyPayouts(c *gin.Context) {
	payouts, err := s.payouts.ListMine(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payouts})
}

func (s *Server) getEventPayout(c *gin.Context) {
	payout, err := s.payouts.GetByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, payout)
}
