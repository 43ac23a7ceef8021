package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentStatus is derived from paid and total amounts, except REFUNDED which is set explicitly.
type PaymentStatus int

const (
	PaymentStatusPending  PaymentStatus = 0
	PaymentStatusPartial  PaymentStatus = 1
	PaymentStatusPaid     PaymentStatus = 2
	PaymentStatusRefunded PaymentStatus = 3
)

var paymentStatusNames = []string{"PENDING", "PARTIAL", "PAID", "REFUNDED"}

var paymentStatusLabels = []string{"En attente", "Partiel", "Payé", "Remboursé"}

func AllPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusRefunded}
}

func (s PaymentStatus) String() string {
	return nameOf(paymentStatusNames, int(s))
}

func (s PaymentStatus) IsValid() bool {
	return s >= PaymentStatusPending && s <= PaymentStatusRefunded
}

// AcceptsPayments reports whether more money may be recorded against the deposit.
func (s PaymentStatus) AcceptsPayments() bool {
	return s == PaymentStatusPending || s == PaymentStatusPartial
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnum(data, paymentStatusNames, "payment status")
	if err != nil {
		return err
	}
	*s = PaymentStatus(i)
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = PaymentStatus(i)
	return nil
}

func ParsePaymentStatus(str string) (PaymentStatus, error) {
	i, ok := parseName(paymentStatusNames, str)
	if !ok {
		return PaymentStatusPending, fmt.Errorf("invalid payment status %q", str)
	}
	return PaymentStatus(i), nil
}

// Label is the French display name printed on receipts.
func (s PaymentStatus) Label() string {
	return nameOf(paymentStatusLabels, int(s))
}
