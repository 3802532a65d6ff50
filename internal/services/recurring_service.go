package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fairshare/internal/errors"
	"fairshare/internal/logger"
	"fairshare/internal/models"
	"fairshare/internal/period"
)

// recurringService materializes recurring expense templates into concrete
// expense rows, exactly once per (template, period). Idempotent by
// construction: repeated runs for the same period only skip.
type recurringService struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewRecurringService creates a new RecurringServicer. timeout bounds
// each template's storage calls during interactive runs.
func NewRecurringService(db *gorm.DB, timeout time.Duration) RecurringServicer {
	return &recurringService{db: db, timeout: timeout}
}

// GenerateForPeriod enumerates active monthly templates and creates an
// instance for each one that has none in the target period yet. A single
// template's failure is counted and logged, never aborts the run.
func (s *recurringService) GenerateForPeriod(ctx context.Context, month, year int) (*GenerationResult, error) {
	if !period.Valid(month) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	p := period.Resolve(month, year)

	var templates []models.Expense
	err := s.db.WithContext(ctx).
		Where("is_recurring = ? AND frequency = ?", true, models.RecurringFrequencyMonthly).
		Where("has_end_date = ? OR end_date >= ?", false, p.Start).
		Find(&templates).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	log := logger.Get()
	result := &GenerationResult{}

	for i := range templates {
		tmpl := &templates[i]
		switch s.materialize(ctx, tmpl, p) {
		case generated:
			result.Generated++
		case skipped:
			result.Skipped++
		case failed:
			result.Failed++
		}
	}

	log.Infow("recurring generation complete",
		"month", month,
		"year", year,
		"generated", result.Generated,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

type materializeOutcome int

const (
	generated materializeOutcome = iota
	skipped
	failed
)

// materialize runs the existence-check-then-insert sequence for one
// template. The check is the fast path; the unique constraint on
// (recurring_parent_id, date) is the backstop that turns a concurrent
// duplicate insert into a skip.
func (s *recurringService) materialize(ctx context.Context, tmpl *models.Expense, p period.Period) materializeOutcome {
	unitCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var count int64
	err := s.db.WithContext(unitCtx).Model(&models.Expense{}).
		Where("recurring_parent_id = ? AND date BETWEEN ? AND ?", tmpl.ID, p.Start, p.End).
		Count(&count).Error
	if err != nil {
		logger.Get().Errorw("existence check failed for template",
			"template_id", tmpl.ID,
			"error", err,
		)
		return failed
	}
	if count > 0 {
		return skipped
	}

	instance := instanceFromTemplate(tmpl, p)
	if err := s.db.WithContext(unitCtx).Create(instance).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent run for the same period won the insert.
			return skipped
		}
		logger.Get().Errorw("instance insert failed for template",
			"template_id", tmpl.ID,
			"error", err,
		)
		return failed
	}

	logger.Get().Infow("generated expense from template",
		"template_id", tmpl.ID,
		"instance_id", instance.ID,
		"status", instance.Status,
	)
	return generated
}

// instanceFromTemplate builds the concrete expense for the target period.
// A self-paid template (payer created it) is auto-approved, since the
// same person would approve their own submission anyway; anything else
// enters the normal approval workflow as pending.
func instanceFromTemplate(tmpl *models.Expense, p period.Period) *models.Expense {
	status := models.ExpenseStatusPending
	if tmpl.PayerID == tmpl.CreatorID {
		status = models.ExpenseStatusApproved
	}

	parentID := tmpl.ID
	return &models.Expense{
		AccountID:         tmpl.AccountID,
		Description:       tmpl.Description,
		Category:          tmpl.Category,
		Amount:            tmpl.Amount,
		Date:              p.Start,
		Status:            status,
		PayerID:           tmpl.PayerID,
		CreatorID:         tmpl.CreatorID,
		Split:             tmpl.Split,
		IsRecurring:       false,
		RecurringParentID: &parentID,
	}
}
