package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	apperrors "fairshare/internal/errors"
	"fairshare/internal/logger"
	"fairshare/internal/models"
)

// alertService evaluates an account's spend for a period and dispatches
// at most one alert per category-group per status per period. The marker
// table is the only state it mutates; duplicate-key conflicts on it mean
// a concurrent evaluator got there first and are treated as success.
type alertService struct {
	db      *gorm.DB
	budgets BudgetServicer
	members MembershipProvider
	sender  NotificationSender
	timeout time.Duration
}

// NewAlertService creates a new AlertServicer. timeout bounds each
// notification dispatch so one slow member cannot hang an evaluation.
func NewAlertService(db *gorm.DB, budgets BudgetServicer, members MembershipProvider, sender NotificationSender, timeout time.Duration) AlertServicer {
	return &alertService{db: db, budgets: budgets, members: members, sender: sender, timeout: timeout}
}

// EvaluateAndNotify runs the full pipeline: match budgets, aggregate
// spend, classify, and alert. Per-group failures are logged and do not
// abort sibling groups; only the initial evaluation can fail the call.
func (s *alertService) EvaluateAndNotify(ctx context.Context, accountID string, month, year int) error {
	groups, err := s.budgets.EvaluateAccount(accountID, month, year)
	if err != nil {
		return err
	}

	for _, g := range groups {
		if !g.Status.Alertable() {
			// Downgrades are silent: the engine is alert-only.
			continue
		}
		if err := s.processGroup(ctx, accountID, month, year, g); err != nil {
			logger.Get().Errorw("alert processing failed for group",
				"account_id", accountID,
				"group", g.Group,
				"status", g.Status,
				"error", err,
			)
		}
	}
	return nil
}

// processGroup notifies all members about one alertable group unless a
// marker for (account, group, kind, period) already exists, then writes
// the marker. The marker is written after dispatch attempts, not
// contingent on delivery success: its job is suppressing duplicate noise,
// not guaranteeing delivery.
func (s *alertService) processGroup(ctx context.Context, accountID string, month, year int, g GroupStatus) error {
	var existing int64
	err := s.db.Model(&models.AlertMarker{}).
		Where("account_id = ? AND group_key = ? AND kind = ? AND month = ? AND year = ?",
			accountID, g.Group, g.Status, month, year).
		Count(&existing).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing > 0 {
		return nil
	}

	members, err := s.members.ListMembers(accountID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.dispatch(ctx, accountID, members, month, year, g)

	marker := &models.AlertMarker{
		AccountID: accountID,
		GroupKey:  g.Group,
		Kind:      g.Status,
		Month:     month,
		Year:      year,
	}
	if err := s.db.Create(marker).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent evaluator already wrote it. Same outcome.
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// dispatch fans the notification out to all members concurrently. The
// sends are independent I/O calls with no shared state, so one failure
// never blocks the others; failures are logged and dropped.
func (s *alertService) dispatch(ctx context.Context, accountID string, members []models.Member, month, year int, g GroupStatus) {
	title, body := composeAlert(g)
	data := map[string]string{
		"group":    g.Group,
		"status":   string(g.Status),
		"allotted": fmt.Sprintf("%d", g.Allotted),
		"spent":    fmt.Sprintf("%d", g.Spent),
		"month":    fmt.Sprintf("%d", month),
		"year":     fmt.Sprintf("%d", year),
	}

	var wg sync.WaitGroup
	for _, m := range members {
		wg.Add(1)
		go func(memberID string) {
			defer wg.Done()
			sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			if err := s.sender.Send(sendCtx, memberID, accountID, g.Status, title, body, data); err != nil {
				logger.Get().Warnw("notification dispatch failed",
					"member_id", memberID,
					"account_id", accountID,
					"group", g.Group,
					"error", err,
				)
			}
		}(m.ID)
	}
	wg.Wait()
}

func composeAlert(g GroupStatus) (title, body string) {
	switch g.Status {
	case models.BudgetStatusExceeded:
		title = fmt.Sprintf("Budget exceeded: %s", g.Group)
		body = fmt.Sprintf("Spending on %s reached %s of the %s budget.",
			g.Group, formatCents(g.Spent), formatCents(g.Allotted))
	default:
		title = fmt.Sprintf("Budget warning: %s", g.Group)
		body = fmt.Sprintf("Spending on %s reached %s, over 90%% of the %s budget.",
			g.Group, formatCents(g.Spent), formatCents(g.Allotted))
	}
	return title, body
}

func formatCents(c int64) string {
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}
