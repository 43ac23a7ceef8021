package enum

import (
	"database/sql/driver"
	"encoding/json"
)

type InstallmentStatus int

const (
	InstallmentStatusPending InstallmentStatus = 0
	InstallmentStatusPaid    InstallmentStatus = 1
)

var installmentStatusNames = []string{"PENDING", "PAID"}

var installmentStatusLabels = []string{"À payer", "Payée"}

func (s InstallmentStatus) String() string {
	return nameOf(installmentStatusNames, int(s))
}

func (s InstallmentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InstallmentStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnum(data, installmentStatusNames, "installment status")
	if err != nil {
		return err
	}
	*s = InstallmentStatus(i)
	return nil
}

func (s InstallmentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InstallmentStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = InstallmentStatus(i)
	return nil
}

func (s InstallmentStatus) Label() string {
	return nameOf(installmentStatusLabels, int(s))
}
