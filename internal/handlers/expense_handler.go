package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fairshare/internal/errors"
	"fairshare/internal/models"
	"fairshare/internal/pagination"
	"fairshare/internal/services"
)

// ExpenseHandler handles expense-related requests, including the approval
// workflow and recurring templates.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// CreateExpenseRequest represents the request payload for creating an expense
// or a recurring template.
type CreateExpenseRequest struct {
	Description string    `json:"description" binding:"omitempty,max=255"`
	Category    string    `json:"category" binding:"required,min=1,max=100"`
	Amount      int64     `json:"amount" binding:"required,gt=0"`
	Date        time.Time `json:"date" binding:"required"`
	PayerID     string    `json:"payer_id" binding:"required,uuid"`
	Split       bool      `json:"split"`

	IsRecurring bool                      `json:"is_recurring"`
	Frequency   models.RecurringFrequency `json:"frequency" binding:"omitempty,recurring_frequency"`
	HasEndDate  bool                      `json:"has_end_date"`
	EndDate     *time.Time                `json:"end_date"`
}

// UpdateExpenseRequest represents the request payload for editing a pending
// expense or a template.
type UpdateExpenseRequest struct {
	Description *string    `json:"description" binding:"omitempty,max=255"`
	Category    *string    `json:"category" binding:"omitempty,min=1,max=100"`
	Amount      *int64     `json:"amount" binding:"omitempty,gt=0"`
	Date        *time.Time `json:"date"`
	Split       *bool      `json:"split"`
}

// CreateExpense handles the creation of a new expense or recurring template.
// @Summary     Create an expense
// @Description Create a new expense (always pending) or, with is_recurring, a recurring template
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	memberID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), accountID, services.ExpenseInput{
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        req.Date,
		PayerID:     req.PayerID,
		CreatorID:   memberID,
		Split:       req.Split,
		IsRecurring: req.IsRecurring,
		Frequency:   req.Frequency,
		HasEndDate:  req.HasEndDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing expenses for the authenticated account.
// @Summary     Get expenses
// @Description Get a paginated, filtered list of expenses for the authenticated account
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status       query string false "Filter by status (pending/approved/rejected/paid)"
// @Param       category     query string false "Filter by category"
// @Param       from         query string false "Earliest date (RFC 3339)"
// @Param       to           query string false "Latest date (RFC 3339)"
// @Param       is_recurring query bool   false "Templates only (true) or plain expenses only (false)"
// @Param       page         query int    false "Page number (default 1)"
// @Param       page_size    query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.ExpenseFilter
	if v := c.Query("status"); v != "" {
		s := models.ExpenseStatus(v)
		switch s {
		case models.ExpenseStatusPending, models.ExpenseStatusApproved,
			models.ExpenseStatusRejected, models.ExpenseStatusPaid:
			filter.Statuses = []models.ExpenseStatus{s}
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid status filter"))
			return
		}
	}
	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("from"); v != "" {
		d, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be RFC 3339"))
			return
		}
		filter.FromDate = &d
	}
	if v := c.Query("to"); v != "" {
		d, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be RFC 3339"))
			return
		}
		filter.ToDate = &d
	}
	if v := c.Query("is_recurring"); v != "" {
		switch v {
		case "true":
			b := true
			filter.Recurring = &b
		case "false":
			b := false
			filter.Recurring = &b
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "is_recurring must be 'true' or 'false'"))
			return
		}
	}

	result, err := h.expenseService.GetAccountExpenses(accountID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Description Get a specific expense by ID
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(accountID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles editing a pending expense or template.
// @Summary     Update expense
// @Description Edit a pending expense or a recurring template
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Updated expense details"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense not editable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(accountID, expenseID, services.ExpenseUpdate{
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        req.Date,
		Split:       req.Split,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting an expense or template.
// @Summary     Delete expense
// @Description Delete an expense by ID (soft delete)
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(accountID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// ApproveExpense handles the pending -> approved transition.
// @Summary     Approve expense
// @Description Approve a pending expense; triggers budget re-evaluation for its period
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Approved expense"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Invalid status transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/approve [post]
func (h *ExpenseHandler) ApproveExpense(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.Approve(c.Request.Context(), accountID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// RejectExpense handles the pending -> rejected transition.
// @Summary     Reject expense
// @Description Reject a pending expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Rejected expense"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Invalid status transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/reject [post]
func (h *ExpenseHandler) RejectExpense(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.Reject(accountID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// PayExpense handles the approved -> paid transition.
// @Summary     Mark expense paid
// @Description Mark an approved expense as paid
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Paid expense"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Invalid status transition"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/pay [post]
func (h *ExpenseHandler) PayExpense(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.Pay(accountID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}
