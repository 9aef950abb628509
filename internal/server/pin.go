package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type setPINRequest struct {
	PIN string `json:"pin"`
}

func (s *Server) setPIN(c *gin.Context) {
	var req setPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.pinGate.Set(c.Request.Context(), c.Param("id"), req.PIN); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type removePINRequest struct {
	CurrentPIN string `json:"current_pin"`
}

func (s *Server) removePIN(c *gin.Context) {
	var req removePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.pinGate.Remove(c.Request.Context(), c.Param("id"), req.CurrentPIN); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type verifyPINRequest struct {
	PIN string `json:"pin"`
}

func (s *Server) verifyPIN(c *gin.Context) {
	var req verifyPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	grant, err := s.pinGate.Verify(c.Request.Context(), c.Param("id"), req.PIN, c.ClientIP())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}
