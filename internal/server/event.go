package server

import (
	"net/http"
	"time"

	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createEventRequest struct {
	Title            string          `json:"title"`
	Venue            string          `json:"venue"`
	OrganizationID   string          `json:"organization_id"`
	StartsAt         time.Time       `json:"starts_at"`
	EndsAt           time.Time       `json:"ends_at"`
	Capacity         int             `json:"capacity"`
	IsPaid           bool            `json:"is_paid"`
	Price            decimal.Decimal `json:"price"`
	FeeBearer        string          `json:"fee_bearer"`
	RequiresApproval bool            `json:"requires_approval"`
}

func (s *Server) createEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	event, err := s.events.Create(c.Request.Context(), eventdomain.CreateEventRequest{
		Title:            req.Title,
		Venue:            req.Venue,
		OrganizationID:   req.OrganizationID,
		StartsAt:         req.StartsAt,
		EndsAt:           req.EndsAt,
		Capacity:         req.Capacity,
		IsPaid:           req.IsPaid,
		Price:            req.Price,
		FeeBearer:        req.FeeBearer,
		RequiresApproval: req.RequiresApproval,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) getEvent(c *gin.Context) {
	event, err := s.events.GetByID(c.Request.Context(), eventdomain.GetEventRequest{ID: c.Param("id")})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) getEventBySlug(c *gin.Context) {
	event, err := s.events.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) listMyEvents(c *gin.Context) {
	events, err := s.events.ListMine(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (s *Server) managePage(c *gin.Context) {
	event, err := s.events.GetByID(c.Request.Context(), eventdomain.GetEventRequest{ID: c.Param("id")})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	tickets, err := s.tickets.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event, "tickets": tickets})
}
