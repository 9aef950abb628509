package domain

import (
	"github.com/shopspring/decimal"

	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
)

var (
	platformFeeRate  = decimal.NewFromFloat(0.05)
	processorFeeRate = decimal.NewFromFloat(0.01)
)

// FeeSplit is the money breakdown of one ticket. The invariant
// AmountPaid = OrganizerAmount + PlatformFee + ProcessorFee holds exactly.
type FeeSplit struct {
	AmountPaid      decimal.Decimal
	PlatformFee     decimal.Decimal
	ProcessorFee    decimal.Decimal
	OrganizerAmount decimal.Decimal
}

// ComputeFees splits an event's price according to its fee bearer. When the
// buyer bears fees they are added on top of the price; when the organizer
// bears them they are deducted from the proceeds.
func ComputeFees(event *eventdomain.Event) FeeSplit {
	if !event.IsPaid || event.Price.IsZero() {
		zero := decimal.Zero
		return FeeSplit{AmountPaid: zero, PlatformFee: zero, ProcessorFee: zero, OrganizerAmount: zero}
	}

	price := event.Price.Round(2)
	platformFee := price.Mul(platformFeeRate).Round(2)
	processorFee := price.Mul(processorFeeRate).Round(2)

	if event.FeeBearer == eventdomain.FeeBearerOrganizer {
		return FeeSplit{
			AmountPaid:      price,
			PlatformFee:     platformFee,
			ProcessorFee:    processorFee,
			OrganizerAmount: price.Sub(platformFee).Sub(processorFee),
		}
	}

	return FeeSplit{
		AmountPaid:      price.Add(platformFee).Add(processorFee),
		PlatformFee:     platformFee,
		ProcessorFee:    processorFee,
		OrganizerAmount: price,
	}
}
