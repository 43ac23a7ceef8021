package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod is how money changed hands at the counter.
type PaymentMethod int

const (
	PaymentMethodCash         PaymentMethod = 0
	PaymentMethodMobileMoney  PaymentMethod = 1
	PaymentMethodCard         PaymentMethod = 2
	PaymentMethodBankTransfer PaymentMethod = 3
	PaymentMethodCheck        PaymentMethod = 4
)

var paymentMethodNames = []string{"CASH", "MOBILE_MONEY", "CARD", "BANK_TRANSFER", "CHECK"}

var paymentMethodLabels = []string{"Espèces", "Mobile Money", "Carte bancaire", "Virement", "Chèque"}

func (m PaymentMethod) String() string {
	return nameOf(paymentMethodNames, int(m))
}

func (m PaymentMethod) Label() string {
	return nameOf(paymentMethodLabels, int(m))
}

func (m PaymentMethod) IsValid() bool {
	return m >= PaymentMethodCash && m <= PaymentMethodCheck
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnum(data, paymentMethodNames, "payment method")
	if err != nil {
		return err
	}
	*m = PaymentMethod(i)
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*m = PaymentMethod(i)
	return nil
}

func ParsePaymentMethod(str string) (PaymentMethod, error) {
	i, ok := parseName(paymentMethodNames, str)
	if !ok {
		return PaymentMethodCash, fmt.Errorf("invalid payment method %q", str)
	}
	return PaymentMethod(i), nil
}

// PaymentKind distinguishes money received from money returned in the ledger.
type PaymentKind int

const (
	PaymentKindPayment PaymentKind = 0
	PaymentKindRefund  PaymentKind = 1
)

var paymentKindNames = []string{"PAYMENT", "REFUND"}

func (k PaymentKind) String() string {
	return nameOf(paymentKindNames, int(k))
}

func (k PaymentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k PaymentKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *PaymentKind) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*k = PaymentKind(i)
	return nil
}
