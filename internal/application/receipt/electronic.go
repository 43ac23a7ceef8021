package receipt

import (
	"fmt"
	"strings"
)

// renderElectronic writes the receipt as a chat message. Asterisks mark bold
// text in WhatsApp and read fine in an email body.
func renderElectronic(v *view) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("*%s*", v.Business.Name)
	if v.Business.Agency != "" {
		line("%s", v.Business.Agency)
	}
	line("")
	line("*%s N° %s*", v.Title, v.Number)
	line("Émis le %s", v.IssuedAt)
	line("Client : %s", v.Customer.Name)
	line("Statut : %s", v.Status)
	if v.CancelReason != "" {
		line("Motif d'annulation : %s", v.CancelReason)
	}

	for _, sec := range v.Sections {
		switch sec {
		case sectionCollection:
			line("")
			line("*Collecte*")
			line("%s", v.Collection.Address)
			line("Le %s", joinNonEmpty(v.Collection.Date, v.Collection.Time))
		case sectionDelivery:
			line("")
			line("*Livraison*")
			if v.Delivery == nil {
				line("Retrait en agence")
				continue
			}
			if v.Delivery.Address != "" {
				line("%s", v.Delivery.Address)
			}
			if v.Delivery.Date != "" {
				line("Le %s", joinNonEmpty(v.Delivery.Date, v.Delivery.Time))
			}
		case sectionItems:
			line("")
			line("*Articles (%d)*", v.ItemCount)
			for _, it := range v.Items {
				line("• %dx %s : %s", it.Quantity, it.Name, it.Total)
			}
		case sectionSummary:
			line("")
			line("Sous-total : %s", v.Figures.Subtotal)
			if v.Figures.HasDiscount {
				line("Remise : -%s", v.Figures.Discount)
			}
			line("*Total : %s*", v.Figures.Total)
			line("Payé : %s", v.Figures.Paid)
			if v.Figures.HasRemaining {
				line("*Reste à payer : %s*", v.Figures.Remaining)
			}
			if v.Figures.Refunded != "" {
				line("Remboursé : %s", v.Figures.Refunded)
			}
			if inst := v.Figures.Installments; inst != nil {
				line("Paiement échelonné : %s", inst.Summary)
				for _, s := range inst.Schedule {
					status := "à payer"
					if s.Paid {
						status = "payée"
					}
					line("  %d. %s : %s (%s)", s.Number, s.DueDate, s.Amount, status)
				}
			}
		case sectionPayments:
			line("")
			line("*Paiements*")
			if len(v.Payments) == 0 {
				line("Aucun paiement enregistré")
			}
			for _, p := range v.Payments {
				line("%s · %s %s : %s", p.Date, p.Label, p.Method, p.Amount)
			}
		}
	}

	if v.Business.Footer != "" {
		line("")
		line("%s", v.Business.Footer)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
