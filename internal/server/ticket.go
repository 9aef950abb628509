package server

import (
	"net/http"

	ticketdomain "github.com/gatherup-events/gatherup/internal/ticket/domain"
	"github.com/gin-gonic/gin"
)

type issueTicketRequest struct {
	AttendeeName  string `json:"attendee_name"`
	AttendeeEmail string `json:"attendee_email"`
}

func (s *Server) issueTicket(c *gin.Context) {
	var req issueTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ticket, err := s.tickets.Issue(c.Request.Context(), ticketdomain.IssueTicketRequest{
		EventID:       c.Param("id"),
		AttendeeName:  req.AttendeeName,
		AttendeeEmail: req.AttendeeEmail,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (s *Server) getTicket(c *gin.Context) {
	ticket, err := s.tickets.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (s *Server) listEventTickets(c *gin.Context) {
	tickets, err := s.tickets.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tickets})
}

func (s *Server) approveTicket(c *gin.Context) {
	ticket, err := s.tickets.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (s *Server) rejectTicket(c *gin.Context) {
	ticket, err := s.tickets.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

type checkInRequest struct {
	QRToken string `json:"qr_token"`
}

func (s *Server) checkInTicket(c *gin.Context) {
	var req checkInRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.QRToken == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	ticket, err := s.tickets.CheckIn(c.Request.Context(), req.QRToken)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}
