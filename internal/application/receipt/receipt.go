// Package receipt renders a deposit into one of four layouts for one of three
// receipt types. All layouts are fed from a single view of the deposit so the
// amounts they print cannot drift apart.
package receipt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/pkg/locale"
	"github.com/sangkips/pressing-api/pkg/printer"
)

// ErrUnknownLayout is returned for a receipt type or format outside the supported set.
var ErrUnknownLayout = errors.New("receipt: unknown receipt type or format")

// Business is the letterhead printed on every receipt.
type Business struct {
	Name    string
	Agency  string
	Header  string
	Footer  string
	Phone   string
	Address string
	Email   string
	LogoURL string
}

// Snapshot is everything a receipt is rendered from.
type Snapshot struct {
	Deposit  *entity.Deposit
	Business Business
	Locale   string
	Timezone string
	IssuedAt time.Time
}

// RenderedReceipt is a composed receipt, ready to download, print or send.
type RenderedReceipt struct {
	Type        enum.ReceiptType   `json:"type"`
	Format      enum.ReceiptFormat `json:"format"`
	ContentType string             `json:"content_type"`
	FileName    string             `json:"file_name"`
	Content     []byte             `json:"-"`
	// Text is the plain-text rendition for CASH_REGISTER and ELECTRONIC.
	Text    string  `json:"text,omitempty"`
	Figures Figures `json:"figures"`
}

// Composer renders receipts. It holds no state besides the ticket width.
type Composer struct {
	ticketWidth int
}

// NewComposer creates a composer printing CASH_REGISTER tickets ticketWidth characters wide.
func NewComposer(ticketWidth int) *Composer {
	if ticketWidth <= 0 {
		ticketWidth = printer.Width58mm
	}
	return &Composer{ticketWidth: ticketWidth}
}

// Compose renders s as a receipt of type t in format f.
func (c *Composer) Compose(s Snapshot, t enum.ReceiptType, f enum.ReceiptFormat) (*RenderedReceipt, error) {
	if !t.IsValid() || !f.IsValid() {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownLayout, t, f)
	}
	if s.Deposit == nil {
		return nil, errors.New("receipt: no deposit to render")
	}

	v, err := newView(s, t)
	if err != nil {
		return nil, err
	}

	out := &RenderedReceipt{
		Type:     t,
		Format:   f,
		FileName: fileName(v.Number, t, f),
		Figures:  v.Figures,
	}

	switch f {
	case enum.ReceiptFormatA4, enum.ReceiptFormatA5:
		out.ContentType = "text/html; charset=utf-8"
		out.Content, err = renderHTML(v, f == enum.ReceiptFormatA5)
	case enum.ReceiptFormatCashRegister:
		out.ContentType = "application/vnd.escpos"
		out.Content, out.Text = renderTicket(v, c.ticketWidth)
	case enum.ReceiptFormatElectronic:
		out.ContentType = "text/plain; charset=utf-8"
		out.Text = renderElectronic(v)
		out.Content = []byte(out.Text)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func fileName(number string, t enum.ReceiptType, f enum.ReceiptFormat) string {
	ext := "html"
	switch f {
	case enum.ReceiptFormatCashRegister:
		ext = "bin"
	case enum.ReceiptFormatElectronic:
		ext = "txt"
	}
	return fmt.Sprintf("%s-%s-%s.%s", number, strings.ToLower(string(t)), strings.ToLower(string(f)), ext)
}

type section string

const (
	sectionCollection section = "collection"
	sectionDelivery   section = "delivery"
	sectionItems      section = "items"
	sectionSummary    section = "summary"
	sectionPayments   section = "payments"
	sectionSignature  section = "signature"
)

// sectionsFor orders the sections so each type leads with what it is about.
func sectionsFor(t enum.ReceiptType) []section {
	switch t {
	case enum.ReceiptTypePayment:
		return []section{sectionSummary, sectionPayments, sectionItems}
	case enum.ReceiptTypeDelivery:
		return []section{sectionDelivery, sectionItems, sectionSummary, sectionSignature}
	default:
		return []section{sectionCollection, sectionDelivery, sectionItems, sectionSummary}
	}
}

type customerView struct {
	Name  string
	Phone string
	Email string
}

type placeView struct {
	Address string
	Date    string
	Time    string
	Notes   string
}

type itemView struct {
	Name         string
	Category     string
	Quantity     int
	UnitPrice    string
	Total        string
	Instructions string
}

type paymentView struct {
	Date   string
	Label  string
	Method string
	Amount string
	Refund bool
}

// view is the one formatted rendition of a deposit that every layout prints.
type view struct {
	Type          enum.ReceiptType
	Title         string
	Number        string
	IssuedAt      string
	CreatedAt     string
	Operator      string
	Business      Business
	Customer      customerView
	Collection    placeView
	Delivery      *placeView
	Items         []itemView
	ItemCount     int
	Figures       Figures
	Payments      []paymentView
	Status        string
	PaymentStatus string
	PaymentMethod string
	CancelReason  string
	Sections      []section
}

func newView(s Snapshot, t enum.ReceiptType) (*view, error) {
	d := s.Deposit
	fm, err := locale.New(d.Currency, s.Locale, s.Timezone)
	if err != nil {
		return nil, err
	}

	figures, err := NewFigures(d, fm)
	if err != nil {
		return nil, err
	}

	issued := s.IssuedAt
	if issued.IsZero() {
		issued = time.Now()
	}

	business := s.Business
	if business.Name == "" {
		business.Name = d.TenantName
	}
	if business.Agency == "" {
		business.Agency = d.AgencyName
	}

	v := &view{
		Type:          t,
		Title:         t.Label(),
		Number:        d.DepositNumber,
		IssuedAt:      fm.DateTime(issued),
		CreatedAt:     fm.DateTime(d.CreatedAt),
		Operator:      d.CreatedByName,
		Business:      business,
		Customer:      customerView{Name: d.CustomerName, Phone: d.CustomerPhone, Email: deref(d.CustomerEmail)},
		ItemCount:     d.ItemCount(),
		Figures:       figures,
		Status:        d.Status.Label(),
		PaymentStatus: d.PaymentStatus.Label(),
		PaymentMethod: d.PaymentMethod.Label(),
		CancelReason:  deref(d.CancelReason),
		Sections:      sectionsFor(t),
		Collection: placeView{
			Address: d.CollectionAddress,
			Date:    fm.Date(d.CollectionDate),
			Time:    d.CollectionTime,
			Notes:   deref(d.CollectionNotes),
		},
	}

	if d.DeliveryAddress != nil || d.DeliveryDate != nil {
		p := &placeView{
			Address: deref(d.DeliveryAddress),
			Time:    deref(d.DeliveryTime),
			Notes:   deref(d.DeliveryNotes),
		}
		if d.DeliveryDate != nil {
			p.Date = fm.Date(*d.DeliveryDate)
		}
		v.Delivery = p
	}

	for _, it := range d.Items {
		v.Items = append(v.Items, itemView{
			Name:         it.Name,
			Category:     it.Category.Label(),
			Quantity:     it.Quantity,
			UnitPrice:    fm.Money(it.UnitPrice),
			Total:        fm.Money(it.TotalPrice),
			Instructions: deref(it.SpecialInstructions),
		})
	}

	for _, p := range d.Payments {
		pv := paymentView{
			Date:   fm.DateTime(p.RecordedAt),
			Label:  "Paiement",
			Method: p.Method.Label(),
			Amount: fm.Money(p.Amount),
		}
		if p.Kind == enum.PaymentKindRefund {
			pv.Label = "Remboursement"
			pv.Refund = true
			pv.Amount = fm.Money(p.Amount.Neg())
		}
		v.Payments = append(v.Payments, pv)
	}

	return v, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
