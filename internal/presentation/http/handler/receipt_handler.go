package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pressing-api/internal/application/service"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/response"
)

// ReceiptHandler renders, prints and sends deposit receipts
type ReceiptHandler struct {
	receiptService  *service.ReceiptService
	dispatchService *service.DispatchService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService, dispatchService *service.DispatchService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService, dispatchService: dispatchService}
}

func receiptType(c *gin.Context) enum.ReceiptType {
	return enum.ReceiptType(strings.ToUpper(c.DefaultQuery("type", string(enum.ReceiptTypeDeposit))))
}

// Render returns the receipt document in the requested layout
// @Summary Render a receipt
// @Tags receipts
// @Security BearerAuth
// @Param type query string false "DEPOSIT, PAYMENT or DELIVERY"
// @Param format query string false "A4, A5, CASH_REGISTER or ELECTRONIC"
// @Produce text/html
// @Produce text/plain
// @Router /deposits/{id}/receipt [get]
func (h *ReceiptHandler) Render(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	format := enum.ReceiptFormat(strings.ToUpper(c.DefaultQuery("format", string(enum.ReceiptFormatA4))))

	rendered, err := h.receiptService.Render(c.Request.Context(), id, receiptType(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+rendered.FileName+`"`)
	c.Data(http.StatusOK, rendered.ContentType, rendered.Content)
}

// Print sends the cash register ticket to the thermal printer
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rendered, err := h.receiptService.Print(c.Request.Context(), id, receiptType(c))
	if err != nil {
		if rendered != nil {
			response.ErrorWithData(c, err, gin.H{"printed": false, "preview": rendered.Text})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", gin.H{"printed": true, "preview": rendered.Text})
}

// Message returns the receipt text and its WhatsApp link for a manual send
func (h *ReceiptHandler) Message(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	msg, err := h.dispatchService.Message(c.Request.Context(), id, receiptType(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Message built successfully", msg)
}

// Dispatch sends the receipt message on a channel. A transport failure answers 502
// with the stored error outcome.
// @Summary Dispatch a receipt
// @Tags receipts
// @Security BearerAuth
// @Param request body request.DispatchRequest true "Dispatch"
// @Success 200 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /deposits/{id}/dispatch [post]
func (h *ReceiptHandler) Dispatch(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.DispatchRequest
	if !bindJSON(c, &req) {
		return
	}

	outcome, err := h.dispatchService.Dispatch(c.Request.Context(), &service.DispatchInput{
		DepositID: id,
		Type:      enum.ReceiptType(strings.ToUpper(string(req.Type))),
		Channel:   enum.DispatchChannel(strings.ToUpper(string(req.Channel))),
		Recipient: req.Recipient,
		ActorID:   userID,
	})
	if err != nil {
		if outcome != nil {
			response.ErrorWithData(c, err, outcome)
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt dispatched successfully", outcome)
}

// DispatchStatus returns the last dispatch outcome and every attempt
func (h *ReceiptHandler) DispatchStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	outcome, err := h.dispatchService.LastOutcome(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	history, err := h.dispatchService.History(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dispatch status retrieved successfully", gin.H{
		"last":    outcome,
		"history": history,
	})
}
