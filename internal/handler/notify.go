package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/millbrook-pd/roster/backend/internal/domain"
	"github.com/millbrook-pd/roster/backend/internal/roster"
)

// MailQueueName is the RabbitMQ queue the api publishes to and the notify
// worker consumes from.
const MailQueueName = "notification_queue"

func (h *Handler) publishMail(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(ctx, "", MailQueueName, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// checkUnderstaffing re-resolves the day after a roster mutation and mails
// the watch commander when the shift dropped below its minimums. Alert
// failures are logged, never surfaced to the caller: the mutation itself
// already succeeded.
func (h *Handler) checkUnderstaffing(ctx context.Context, date time.Time, shiftTypeID int64) {
	day, err := h.engine.ResolveDay(ctx, date, shiftTypeID, roster.SortRoster)
	if err != nil {
		slog.Error("understaffing check failed", "date", date.Format("2006-01-02"), "shiftTypeID", shiftTypeID, "error", err)
		return
	}

	if !day.Staffing.Understaffed {
		return
	}

	msg := domain.MailMessage{
		Type: "understaffing_alert",
		To:   h.config.Email.AlertRecipient,
		Data: domain.UnderstaffingAlertData{
			Date:                 date.Format("2006-01-02"),
			ShiftName:            day.Shift.Name,
			EffectiveOfficers:    day.Staffing.EffectiveOfficers,
			MinOfficers:          day.Staffing.MinOfficers,
			EffectiveSupervisors: day.Staffing.EffectiveSupervisors,
			MinSupervisors:       day.Staffing.MinSupervisors,
		},
	}

	if err := h.publishMail(msg); err != nil {
		slog.Error("failed to publish understaffing alert", "date", date.Format("2006-01-02"), "shiftTypeID", shiftTypeID, "error", err)
	}
}
