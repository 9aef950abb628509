package server

import (
	"errors"
	"net/http"

	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
	"github.com/gatherup-events/gatherup/internal/monime"
	payoutdomain "github.com/gatherup-events/gatherup/internal/payout/domain"
	"github.com/gatherup-events/gatherup/internal/pingate"
	profiledomain "github.com/gatherup-events/gatherup/internal/profile/domain"
	ticketdomain "github.com/gatherup-events/gatherup/internal/ticket/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware converts errors recorded on the context into a
// single JSON error response; handlers never write raw errors themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, eventdomain.ErrInvalidOrganizer),
		errors.Is(err, pingate.ErrInvalidGrant):
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: "unauthorized"}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, eventdomain.ErrNotOrganizer):
		return http.StatusForbidden, errorPayload{Type: "forbidden", Message: "forbidden"}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: "not found"}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}
	case errors.Is(err, pingate.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorPayload{Type: "rate_limited", Message: "too many attempts"}
	case errors.Is(err, monime.ErrGatewayFailure),
		errors.Is(err, monime.ErrNotConfigured):
		return http.StatusBadGateway, errorPayload{Type: "upstream_failure", Message: "payment gateway unavailable"}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, eventdomain.ErrInvalidTitle),
		errors.Is(err, eventdomain.ErrInvalidSchedule),
		errors.Is(err, eventdomain.ErrInvalidCapacity),
		errors.Is(err, eventdomain.ErrInvalidPrice),
		errors.Is(err, eventdomain.ErrInvalidFeeBearer),
		errors.Is(err, eventdomain.ErrInvalidID),
		errors.Is(err, ticketdomain.ErrInvalidID),
		errors.Is(err, ticketdomain.ErrInvalidAttendee),
		errors.Is(err, payoutdomain.ErrInvalidID),
		errors.Is(err, payoutdomain.ErrInvalidStatus),
		errors.Is(err, profiledomain.ErrInvalidEmail),
		errors.Is(err, profiledomain.ErrInvalidPhone),
		errors.Is(err, pingate.ErrInvalidPIN):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, eventdomain.ErrNotFound),
		errors.Is(err, ticketdomain.ErrNotFound),
		errors.Is(err, ticketdomain.ErrEventNotFound),
		errors.Is(err, payoutdomain.ErrNotFound),
		errors.Is(err, profiledomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, ticketdomain.ErrEventEnded),
		errors.Is(err, ticketdomain.ErrEventFull),
		errors.Is(err, ticketdomain.ErrNotPending),
		errors.Is(err, ticketdomain.ErrNotApproved),
		errors.Is(err, ticketdomain.ErrAlreadyCheckedIn),
		errors.Is(err, ticketdomain.ErrAlreadyFinal),
		errors.Is(err, ticketdomain.ErrPaymentNotAllowed),
		errors.Is(err, pingate.ErrPINMismatch),
		errors.Is(err, pingate.ErrPINNotSet):
		return true
	default:
		return false
	}
}
