package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/pressing-api/pkg/apperror"
	"github.com/sangkips/pressing-api/pkg/printer"
	"go.uber.org/zap"
)

// PrinterService reports on and exercises the counter's thermal printer.
type PrinterService struct {
	printer   printer.Printer
	charWidth int
	logger    *zap.Logger
	now       func() time.Time
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, charWidth int, logger *zap.Logger) *PrinterService {
	if charWidth <= 0 {
		charWidth = printer.Width58mm
	}
	return &PrinterService{printer: p, charWidth: charWidth, logger: logger, now: time.Now}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	CharWidth  int    `json:"char_width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Kind() != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printer.Kind(),
		CharWidth:  s.charWidth,
	}
}

// TestPage is the result of a test print. Preview is always filled.
type TestPage struct {
	Printed bool   `json:"printed"`
	Preview string `json:"preview"`
}

// TestPrint sends a test page to the printer.
func (s *PrinterService) TestPrint(ctx context.Context) (*TestPage, error) {
	doc := printer.NewDocument(s.charWidth)
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("TEST IMPRIMANTE").
		SetBold(false).
		Text(s.now().Format("02/01/2006 15:04")).
		SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Type", s.printer.Kind()).
		KeyValue("Largeur", fmt.Sprintf("%d car.", s.charWidth)).
		ItemLine(2, "Chemise", "3 000").
		ItemLine(1, "Pantalon", "1 500").
		Separator('-').
		SetBold(true).
		KeyValue("TOTAL", "4 500").
		SetBold(false).
		Separator('=').
		FeedLines(3).
		PartialCut()

	page := &TestPage{Preview: doc.Preview()}
	if err := s.printer.Print(ctx, doc.Bytes()); err != nil {
		s.logger.Warn("Test print failed", zap.String("printer", s.printer.Kind()), zap.Error(err))
		return page, apperror.NewBadGatewayError("Test print failed", err)
	}
	page.Printed = true
	return page, nil
}
