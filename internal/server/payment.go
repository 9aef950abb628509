package server

import (
	"net/http"

	"github.com/gatherup-events/gatherup/internal/observability/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// paymentSuccess is the gateway's browser return URL after a completed
// checkout. Delivery is at-least-once; replays land on the same ticket.
func (s *Server) paymentSuccess(c *gin.Context) {
	ticketID := c.Query("ticket_id")
	if ticketID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	metrics.IncPaymentCallback("success")
	ticket, err := s.tickets.HandlePaymentSuccess(c.Request.Context(), ticketID)
	if err != nil {
		s.log.Warn("payment success callback rejected",
			zap.String("ticket_id", ticketID), zap.Error(err))
		AbortWithError(c, err)
		return
	}

	s.log.Info("payment confirmed",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("status", ticket.Status))
	c.Redirect(http.StatusSeeOther, s.cfg.PaymentSuccessURL)
}

func (s *Server) paymentCancel(c *gin.Context) {
	ticketID := c.Query("ticket_id")
	if ticketID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	metrics.IncPaymentCallback("cancel")
	if err := s.tickets.HandlePaymentCancel(c.Request.Context(), ticketID); err != nil {
		s.log.Warn("payment cancel callback rejected",
			zap.String("ticket_id", ticketID), zap.Error(err))
		AbortWithError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, s.cfg.PaymentCancelURL)
}

type payoutStatusRequest struct {
	Status   string            `json:"status"`
	EventID  string            `json:"event_id"`
	Metadata map[string]string `json:"metadata"`
}

// payoutStatusWebhook receives the gateway's asynchronous verdict on a
// disbursement. The event ID comes back in the metadata we attached when
// creating the payout.
func (s *Server) payoutStatusWebhook(c *gin.Context) {
	var req payoutStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	eventID := req.EventID
	if eventID == "" {
		eventID = req.Metadata["event_id"]
	}
	if err := s.payouts.HandleGatewayStatus(c.Request.Context(), eventID, req.Status); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
