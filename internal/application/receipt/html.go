package receipt

import (
	"bytes"
	"html/template"
)

type htmlData struct {
	*view
	Compact bool
	Page    string
}

var htmlTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<title>{{.Title}} {{.Number}}</title>
<style>
@page { size: {{.Page}}; margin: {{if .Compact}}8mm{{else}}15mm{{end}}; }
body { font-family: 'Helvetica Neue', Arial, sans-serif; color: #1a1a2e; font-size: {{if .Compact}}10pt{{else}}11pt{{end}}; margin: 0; }
header { display: flex; justify-content: space-between; border-bottom: 2px solid #1a5fb4; padding-bottom: 8px; margin-bottom: 12px; }
h1 { font-size: {{if .Compact}}14pt{{else}}18pt{{end}}; margin: 0; }
h2 { font-size: {{if .Compact}}11pt{{else}}13pt{{end}}; margin: 12px 0 6px; color: #1a5fb4; }
section.lead { background: #f0f5fc; padding: 6px 10px; border-left: 4px solid #1a5fb4; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 4px 6px; text-align: left; border-bottom: 1px solid #e2e8f0; }
td.num, th.num { text-align: right; white-space: nowrap; }
tr.total td { font-weight: bold; border-top: 2px solid #1a1a2e; }
tr.due td { color: #c01c28; font-weight: bold; }
.muted { color: #718096; }
.signature { display: flex; justify-content: space-between; margin-top: 36px; }
.signature div { width: 45%; border-top: 1px solid #1a1a2e; padding-top: 4px; text-align: center; }
footer { margin-top: 16px; text-align: center; color: #718096; }
</style>
</head>
<body>
<header>
  <div>
    {{if and .Business.LogoURL (not .Compact)}}<img src="{{.Business.LogoURL}}" alt="" style="max-height:48px"><br>{{end}}
    <strong>{{.Business.Name}}</strong>{{if .Business.Agency}} · {{.Business.Agency}}{{end}}<br>
    {{if .Business.Header}}<span class="muted">{{.Business.Header}}</span><br>{{end}}
    {{if not .Compact}}{{if .Business.Address}}{{.Business.Address}}<br>{{end}}{{end}}
    {{if .Business.Phone}}Tél. {{.Business.Phone}}{{end}}{{if and .Business.Email (not .Compact)}} · {{.Business.Email}}{{end}}
  </div>
  <div style="text-align:right">
    <h1>{{.Title}}</h1>
    N° <strong>{{.Number}}</strong><br>
    <span class="muted">Émis le {{.IssuedAt}}</span>
  </div>
</header>

<section>
  <strong>Client :</strong> {{.Customer.Name}} · {{.Customer.Phone}}{{if .Customer.Email}} · {{.Customer.Email}}{{end}}<br>
  <strong>Statut :</strong> {{.Status}} · <strong>Paiement :</strong> {{.PaymentStatus}}
  {{if .CancelReason}}<br><strong>Motif d'annulation :</strong> {{.CancelReason}}{{end}}
</section>
{{$v := .}}
{{range $i, $s := .Sections}}
{{if eq $s "collection"}}
<section{{if eq $i 0}} class="lead"{{end}}>
  <h2>Collecte</h2>
  {{$v.Collection.Address}}<br>
  Le {{$v.Collection.Date}}{{if $v.Collection.Time}} à {{$v.Collection.Time}}{{end}}
  {{if and $v.Collection.Notes (not $v.Compact)}}<br><span class="muted">{{$v.Collection.Notes}}</span>{{end}}
</section>
{{else if eq $s "delivery"}}
<section{{if eq $i 0}} class="lead"{{end}}>
  <h2>Livraison</h2>
  {{with $v.Delivery}}
    {{if .Address}}{{.Address}}<br>{{end}}
    {{if .Date}}Le {{.Date}}{{if .Time}} à {{.Time}}{{end}}{{end}}
    {{if and .Notes (not $v.Compact)}}<br><span class="muted">{{.Notes}}</span>{{end}}
  {{else}}
    Retrait en agence
  {{end}}
</section>
{{else if eq $s "items"}}
<section>
  <h2>Articles ({{$v.ItemCount}})</h2>
  <table>
    <tr><th>Article</th>{{if not $v.Compact}}<th>Prestation</th>{{end}}<th class="num">Qté</th><th class="num">P.U.</th><th class="num">Total</th></tr>
    {{range $v.Items}}
    <tr>
      <td>{{.Name}}{{if and .Instructions (not $v.Compact)}}<br><span class="muted">{{.Instructions}}</span>{{end}}</td>
      {{if not $v.Compact}}<td>{{.Category}}</td>{{end}}
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{.UnitPrice}}</td>
      <td class="num">{{.Total}}</td>
    </tr>
    {{end}}
  </table>
</section>
{{else if eq $s "summary"}}
<section{{if eq $i 0}} class="lead"{{end}}>
  <h2>Récapitulatif</h2>
  <table>
    <tr><td>Sous-total</td><td class="num">{{$v.Figures.Subtotal}}</td></tr>
    {{if $v.Figures.HasDiscount}}<tr><td>Remise</td><td class="num">-{{$v.Figures.Discount}}</td></tr>{{end}}
    <tr class="total"><td>Total</td><td class="num">{{$v.Figures.Total}}</td></tr>
    <tr><td>Payé ({{$v.PaymentMethod}})</td><td class="num">{{$v.Figures.Paid}}</td></tr>
    {{if $v.Figures.HasRemaining}}<tr class="due"><td>Reste à payer</td><td class="num">{{$v.Figures.Remaining}}</td></tr>{{end}}
    {{if $v.Figures.Refunded}}<tr><td>Remboursé</td><td class="num">{{$v.Figures.Refunded}}</td></tr>{{end}}
  </table>
  {{with $v.Figures.Installments}}
  <p><strong>Paiement échelonné :</strong> {{.Summary}}, tous les {{.IntervalDays}} jours</p>
  {{if not $v.Compact}}
  <table>
    <tr><th>Échéance</th><th>Date</th><th>Statut</th><th class="num">Montant</th></tr>
    {{range .Schedule}}<tr><td>{{.Number}}</td><td>{{.DueDate}}</td><td>{{.Status}}</td><td class="num">{{.Amount}}</td></tr>{{end}}
  </table>
  {{end}}
  {{end}}
</section>
{{else if eq $s "payments"}}
<section>
  <h2>Historique des paiements</h2>
  {{if $v.Payments}}
  <table>
    {{range $v.Payments}}<tr><td>{{.Date}}</td><td>{{.Label}}{{if not $v.Compact}} · {{.Method}}{{end}}</td><td class="num">{{.Amount}}</td></tr>{{end}}
  </table>
  {{else}}<p class="muted">Aucun paiement enregistré</p>{{end}}
</section>
{{else if eq $s "signature"}}
<div class="signature"><div>Signature du client</div><div>Cachet {{$v.Business.Name}}</div></div>
{{end}}
{{end}}

<footer>
  {{if .Business.Footer}}{{.Business.Footer}}<br>{{end}}
  {{if .Operator}}Opérateur : {{.Operator}}{{end}}
</footer>
</body>
</html>
`))

func renderHTML(v *view, compact bool) ([]byte, error) {
	data := htmlData{view: v, Compact: compact, Page: "A4"}
	if compact {
		data.Page = "A5"
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
