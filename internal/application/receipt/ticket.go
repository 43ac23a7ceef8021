package receipt

import (
	"github.com/sangkips/pressing-api/pkg/printer"
)

// renderTicket lays the view out for a thermal printer. It returns the ESC/POS
// stream and the text the ticket shows.
func renderTicket(v *view, width int) ([]byte, string) {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter)
	doc.SetBold(true).SetFontSize(printer.FontDouble)
	doc.Text(v.Business.Name)
	doc.SetFontSize(printer.FontNormal).SetBold(false)
	if v.Business.Agency != "" {
		doc.Text(v.Business.Agency)
	}
	if v.Business.Header != "" {
		doc.Text(v.Business.Header)
	}
	if v.Business.Address != "" {
		doc.Text(v.Business.Address)
	}
	if v.Business.Phone != "" {
		doc.TextF("Tél: %s", v.Business.Phone)
	}
	doc.Separator('=')
	doc.SetBold(true).Text(v.Title).SetBold(false)
	doc.TextF("N° %s", v.Number)
	doc.Text(v.IssuedAt)
	doc.SetAlign(printer.AlignLeft)
	doc.Separator('-')

	doc.KeyValue("Client:", v.Customer.Name)
	doc.KeyValue("Tél:", v.Customer.Phone)
	doc.KeyValue("Statut:", v.Status)
	if v.CancelReason != "" {
		doc.TextF("Motif: %s", v.CancelReason)
	}

	for _, sec := range v.Sections {
		doc.Separator('-')
		switch sec {
		case sectionCollection:
			doc.SetBold(true).Text("COLLECTE").SetBold(false)
			doc.Text(v.Collection.Address)
			doc.KeyValue("Date:", joinNonEmpty(v.Collection.Date, v.Collection.Time))
		case sectionDelivery:
			doc.SetBold(true).Text("LIVRAISON").SetBold(false)
			if v.Delivery == nil {
				doc.Text("Retrait en agence")
				continue
			}
			if v.Delivery.Address != "" {
				doc.Text(v.Delivery.Address)
			}
			if v.Delivery.Date != "" {
				doc.KeyValue("Date:", joinNonEmpty(v.Delivery.Date, v.Delivery.Time))
			}
		case sectionItems:
			doc.SetBold(true).TextF("ARTICLES (%d)", v.ItemCount).SetBold(false)
			for _, it := range v.Items {
				doc.ItemLine(it.Quantity, it.Name, it.Total)
				if it.Instructions != "" {
					doc.TextF("  %s", it.Instructions)
				}
			}
		case sectionSummary:
			doc.KeyValue("Sous-total:", v.Figures.Subtotal)
			if v.Figures.HasDiscount {
				doc.KeyValue("Remise:", "-"+v.Figures.Discount)
			}
			doc.SetBold(true).KeyValue("TOTAL:", v.Figures.Total).SetBold(false)
			doc.KeyValue("Payé:", v.Figures.Paid)
			if v.Figures.HasRemaining {
				doc.SetBold(true).KeyValue("Reste:", v.Figures.Remaining).SetBold(false)
			}
			if v.Figures.Refunded != "" {
				doc.KeyValue("Remboursé:", v.Figures.Refunded)
			}
			if inst := v.Figures.Installments; inst != nil {
				doc.Text(inst.Summary)
				for _, line := range inst.Schedule {
					mark := " "
					if line.Paid {
						mark = "x"
					}
					doc.KeyValue("["+mark+"] "+line.DueDate, line.Amount)
				}
			}
		case sectionPayments:
			doc.SetBold(true).Text("PAIEMENTS").SetBold(false)
			if len(v.Payments) == 0 {
				doc.Text("Aucun paiement")
			}
			for _, p := range v.Payments {
				doc.Text(p.Date + " " + p.Method)
				doc.KeyValue("  "+p.Label, p.Amount)
			}
		case sectionSignature:
			doc.FeedLines(2)
			doc.Text("Signature client:")
			doc.FeedLines(2)
			doc.Separator('_')
		}
	}

	doc.Separator('=')
	doc.SetAlign(printer.AlignCenter)
	if v.Business.Footer != "" {
		doc.Text(v.Business.Footer)
	} else {
		doc.Text("Merci de votre confiance !")
	}
	if v.Operator != "" {
		doc.TextF("Opérateur: %s", v.Operator)
	}
	doc.FeedLines(3)
	doc.PartialCut()

	return doc.Bytes(), doc.Preview()
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
