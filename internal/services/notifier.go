package services

import (
	"context"

	"fairshare/internal/logger"
	"fairshare/internal/models"
)

// logSender is a NotificationSender that writes deliveries to the
// structured log. It stands in for the external push/SMS/email transport
// in development and single-node deployments.
type logSender struct{}

// NewLogSender creates a NotificationSender backed by the application log.
func NewLogSender() NotificationSender {
	return logSender{}
}

// Send implements NotificationSender.
func (logSender) Send(ctx context.Context, memberID, accountID string, kind models.BudgetStatus, title, body string, data map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Get().Infow("notification",
		"member_id", memberID,
		"account_id", accountID,
		"kind", kind,
		"title", title,
		"body", body,
		"data", data,
	)
	return nil
}
