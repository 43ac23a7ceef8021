package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pressing-api/internal/application/service"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus(c.Request.Context()))
}

// TestPrint sends a test page to the printer. The preview is returned even when the
// printer fails.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	page, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		response.ErrorWithData(c, err, page)
		return
	}

	response.OK(c, "Test page sent to printer", page)
}
