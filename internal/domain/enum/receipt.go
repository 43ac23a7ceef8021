package enum

// ReceiptType selects which sections of a receipt are emphasized.
type ReceiptType string

const (
	ReceiptTypeDeposit  ReceiptType = "DEPOSIT"
	ReceiptTypePayment  ReceiptType = "PAYMENT"
	ReceiptTypeDelivery ReceiptType = "DELIVERY"
)

// AllReceiptTypes lists the three receipt types.
func AllReceiptTypes() []ReceiptType {
	return []ReceiptType{ReceiptTypeDeposit, ReceiptTypePayment, ReceiptTypeDelivery}
}

// IsValid checks if the type is a known receipt type
func (t ReceiptType) IsValid() bool {
	switch t {
	case ReceiptTypeDeposit, ReceiptTypePayment, ReceiptTypeDelivery:
		return true
	}
	return false
}

func (t ReceiptType) String() string {
	return string(t)
}

// Label returns the receipt title printed for the customer.
func (t ReceiptType) Label() string {
	switch t {
	case ReceiptTypeDeposit:
		return "Reçu de dépôt"
	case ReceiptTypePayment:
		return "Reçu de paiement"
	case ReceiptTypeDelivery:
		return "Bon de livraison"
	}
	return string(t)
}

// ReceiptFormat selects the layout density of a rendering.
type ReceiptFormat string

const (
	ReceiptFormatA4           ReceiptFormat = "A4"
	ReceiptFormatA5           ReceiptFormat = "A5"
	ReceiptFormatCashRegister ReceiptFormat = "CASH_REGISTER"
	ReceiptFormatElectronic   ReceiptFormat = "ELECTRONIC"
)

// AllReceiptFormats lists the four layouts.
func AllReceiptFormats() []ReceiptFormat {
	return []ReceiptFormat{ReceiptFormatA4, ReceiptFormatA5, ReceiptFormatCashRegister, ReceiptFormatElectronic}
}

func (f ReceiptFormat) IsValid() bool {
	switch f {
	case ReceiptFormatA4, ReceiptFormatA5, ReceiptFormatCashRegister, ReceiptFormatElectronic:
		return true
	}
	return false
}

func (f ReceiptFormat) String() string {
	return string(f)
}
