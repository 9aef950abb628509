package server

import (
	"net/http"

	profiledomain "github.com/gatherup-events/gatherup/internal/profile/domain"
	"github.com/gin-gonic/gin"
)

type updateProfileRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	MonimePhone string `json:"monime_phone"`
}

func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.profiles.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	profile, err := s.profiles.Update(c.Request.Context(), profiledomain.UpdateProfileRequest{
		FullName:    req.FullName,
		Email:       req.Email,
		MonimePhone: req.MonimePhone,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
