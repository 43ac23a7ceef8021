package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/application/service"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/response"
)

const dateLayout = "2006-01-02"

// DepositHandler handles intake, lifecycle and settlement of deposits
type DepositHandler struct {
	depositService *service.DepositService
}

// NewDepositHandler creates a new deposit handler
func NewDepositHandler(depositService *service.DepositService) *DepositHandler {
	return &DepositHandler{depositService: depositService}
}

// Quote prices an intake form without saving it
// @Summary Quote a deposit
// @Tags deposits
// @Security BearerAuth
// @Param request body request.QuoteRequest true "Intake form"
// @Success 200 {object} response.APIResponse
// @Router /deposits/quote [post]
func (h *DepositHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.depositService.Quote(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote computed successfully", quote)
}

// Create confirms an intake form
// @Summary Create a deposit
// @Tags deposits
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key"
// @Param request body request.CreateDepositRequest true "Intake form"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /deposits [post]
func (h *DepositHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.CreateDepositRequest
	if !bindJSON(c, &req) {
		return
	}

	deposit, err := h.depositService.CreateDeposit(c.Request.Context(), req.ToInput(userID, GetUserName(c)))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Deposit created successfully", deposit)
}

// depositFilter reads the listing filters from the query string.
func depositFilter(c *gin.Context) (repository.DepositFilter, bool) {
	filter := repository.DepositFilter{Search: c.Query("search")}

	if v := c.Query("status"); v != "" {
		st, err := enum.ParseDepositStatus(v)
		if err != nil {
			response.BadRequest(c, err.Error())
			return filter, false
		}
		filter.Status = &st
	}
	if v := c.Query("payment_status"); v != "" {
		ps, err := enum.ParsePaymentStatus(v)
		if err != nil {
			response.BadRequest(c, err.Error())
			return filter, false
		}
		filter.PaymentStatus = &ps
	}
	for param, dst := range map[string]**uuid.UUID{"customer_id": &filter.CustomerID, "agency_id": &filter.AgencyID} {
		if v := c.Query(param); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				response.BadRequest(c, "Invalid "+param)
				return filter, false
			}
			*dst = &id
		}
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			response.BadRequest(c, "start_date must be YYYY-MM-DD")
			return filter, false
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			response.BadRequest(c, "end_date must be YYYY-MM-DD")
			return filter, false
		}
		// The whole end day is included.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}
	return filter, true
}

// List handles listing deposits (supports both page-based and cursor-based pagination)
// @Summary List deposits
// @Tags deposits
// @Security BearerAuth
// @Param status query string false "Fulfillment status"
// @Param payment_status query string false "Payment status"
// @Param start_date query string false "Collection date from (YYYY-MM-DD)"
// @Param end_date query string false "Collection date to (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /deposits [get]
func (h *DepositHandler) List(c *gin.Context) {
	filter, ok := depositFilter(c)
	if !ok {
		return
	}
	params := unifiedParams(c)

	if params.IsCursorBased() {
		result, err := h.depositService.ListDepositsWithCursor(c.Request.Context(), &repository.DepositCursorFilterParams{
			DepositFilter: filter,
			Cursor:        params.ToCursorParams(),
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.SuccessWithCursor(c, http.StatusOK, "Deposits retrieved successfully", result)
		return
	}

	result, err := h.depositService.ListDeposits(c.Request.Context(), &repository.DepositFilterParams{
		DepositFilter: filter,
		Pagination:    params.ToPaginationParams(),
		SortBy:        c.DefaultQuery("sort_by", "created_at"),
		SortOrder:     c.DefaultQuery("sort_order", "desc"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Deposits retrieved successfully", result)
}

// Get returns a deposit with its items, installments and payments
func (h *DepositHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	deposit, err := h.depositService.GetDeposit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Deposit retrieved successfully", deposit)
}

// GetByNumber looks a deposit up by its printed number
func (h *DepositHandler) GetByNumber(c *gin.Context) {
	deposit, err := h.depositService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Deposit retrieved successfully", deposit)
}

// UpdateStatus moves a deposit one step forward
// @Summary Advance deposit status
// @Tags deposits
// @Security BearerAuth
// @Param request body request.UpdateStatusRequest true "Target status"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /deposits/{id}/status [put]
func (h *DepositHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	deposit, err := h.depositService.AdvanceStatus(c.Request.Context(), id, *req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Deposit status updated successfully", deposit)
}

// Cancel cancels a deposit that has not been delivered
func (h *DepositHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.CancelDepositRequest
	if !bindJSON(c, &req) {
		return
	}

	deposit, err := h.depositService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Deposit cancelled successfully", deposit)
}

// RecordPayment applies a payment to a deposit
// @Summary Record a payment
// @Tags deposits
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key"
// @Param request body request.PaymentRequest true "Payment"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /deposits/{id}/payments [post]
func (h *DepositHandler) RecordPayment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.depositService.ApplyPayment(c.Request.Context(), &service.ApplyPaymentInput{
		DepositID:     id,
		Amount:        req.Amount,
		Method:        *req.Method,
		InstallmentID: req.InstallmentID,
		Note:          req.Note,
		ActorID:       userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", result)
}

// ListPayments returns the payment ledger of a deposit
func (h *DepositHandler) ListPayments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	payments, err := h.depositService.ListPayments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", payments)
}

// ListInstallments returns the schedule of a deposit
func (h *DepositHandler) ListInstallments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	installments, err := h.depositService.ListInstallments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Installments retrieved successfully", installments)
}

// Refund gives back everything paid on a deposit
func (h *DepositHandler) Refund(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.RefundRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.depositService.Refund(c.Request.Context(), &service.RefundInput{
		DepositID: id,
		Reason:    req.Reason,
		Method:    req.Method,
		ActorID:   userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Deposit refunded successfully", result)
}

// ListOverdueInstallments lists pending installments past their due date
func (h *DepositHandler) ListOverdueInstallments(c *gin.Context) {
	result, err := h.depositService.ListOverdueInstallments(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Overdue installments retrieved successfully", result)
}
