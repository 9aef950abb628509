package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	eventdomain "github.com/gatherup-events/gatherup/internal/event/domain"
	"github.com/gatherup-events/gatherup/internal/ticket/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertWithinCapacity(ctx context.Context, db *gorm.DB, ticket *domain.Ticket, capacity int) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO tickets
		   (id, event_id, attendee_name, attendee_email, amount_paid, platform_fee,
		    processor_fee, organizer_amount, status, monime_payment_status, qr_token,
		    created_at, updated_at)
		 SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		 WHERE (SELECT COUNT(*) FROM tickets
		        WHERE event_id = ? AND status NOT IN (?, ?, ?)) < ?`,
		ticket.ID, ticket.EventID, ticket.AttendeeName, ticket.AttendeeEmail,
		ticket.AmountPaid, ticket.PlatformFee, ticket.ProcessorFee, ticket.OrganizerAmount,
		ticket.Status, ticket.PaymentStatus, ticket.QRToken,
		ticket.CreatedAt, ticket.UpdatedAt,
		ticket.EventID, domain.StatusExpired, domain.StatusCancelled, domain.StatusRejected,
		capacity,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Take(&ticket).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repo) FindByQRToken(ctx context.Context, db *gorm.DB, token string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := db.WithContext(ctx).
		Where("qr_token = ?", token).
		Take(&ticket).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repo) ListByEvent(ctx context.Context, db *gorm.DB, eventID snowflake.ID) ([]*domain.Ticket, error) {
	var tickets []*domain.Ticket
	err := db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at asc, id asc").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repo) MarkPaymentApproved(ctx context.Context, db *gorm.DB, id snowflake.ID, qrToken string, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ? AND status = ?", id, domain.StatusUnpaid).
		Updates(map[string]any{
			"status":                domain.StatusApproved,
			"monime_payment_status": domain.PaymentPaid,
			"qr_token":              qrToken,
			"updated_at":            now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) MarkPaymentPending(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ? AND status = ?", id, domain.StatusUnpaid).
		Updates(map[string]any{
			"status":                domain.StatusPending,
			"monime_payment_status": domain.PaymentPaid,
			"updated_at":            now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) MarkPaymentCancelled(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ? AND status = ?", id, domain.StatusUnpaid).
		Updates(map[string]any{
			"monime_payment_status": domain.PaymentCancelled,
			"updated_at":            now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) MarkApproved(ctx context.Context, db *gorm.DB, id snowflake.ID, qrToken string, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":     domain.StatusApproved,
			"qr_token":   qrToken,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) MarkRejected(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":     domain.StatusRejected,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) MarkCheckedIn(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ? AND status = ?", id, domain.StatusApproved).
		Updates(map[string]any{
			"status":        domain.StatusCheckedIn,
			"checked_in_at": now,
			"updated_at":    now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) ExpireAbandoned(ctx context.Context, db *gorm.DB, cutoff, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("status IN ? AND created_at < ?",
			[]string{domain.StatusUnpaid, domain.StatusCancelled}, cutoff).
		Updates(map[string]any{
			"status":     domain.StatusExpired,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) ExpirePostEvent(ctx context.Context, db *gorm.DB, eventCutoff, now time.Time) (int64, error) {
	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&eventdomain.Event{}).
		Select("id").
		Where("ends_at < ?", eventCutoff)

	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("status IN ? AND event_id IN (?)",
			[]string{domain.StatusApproved, domain.StatusPending}, sub).
		Updates(map[string]any{
			"status":     domain.StatusExpired,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) SumPaidByEvent(ctx context.Context, db *gorm.DB, eventID snowflake.ID) (*domain.Settlement, error) {
	var settlement domain.Settlement
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS ticket_count,
		        COALESCE(SUM(amount_paid), 0) AS gross_amount,
		        COALESCE(SUM(platform_fee), 0) AS platform_fees,
		        COALESCE(SUM(processor_fee), 0) AS processor_fees,
		        COALESCE(SUM(organizer_amount), 0) AS organizer_amount
		 FROM tickets
		 WHERE event_id = ? AND monime_payment_status = ?`,
		eventID,
		domain.PaymentPaid,
	).Scan(&settlement).Error
	if err != nil {
		return nil, err
	}
	return &settlement, nil
}
