package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DepositStatus is the fulfillment state of a deposit.
//
//	NEW -> CONFIRMED -> IN_PROGRESS -> READY -> DELIVERED
//
// CANCELLED is reachable from every state except DELIVERED.
type DepositStatus int

const (
	DepositStatusNew        DepositStatus = 0
	DepositStatusConfirmed  DepositStatus = 1
	DepositStatusInProgress DepositStatus = 2
	DepositStatusReady      DepositStatus = 3
	DepositStatusDelivered  DepositStatus = 4
	DepositStatusCancelled  DepositStatus = 5
)

var depositStatusNames = []string{"NEW", "CONFIRMED", "IN_PROGRESS", "READY", "DELIVERED", "CANCELLED"}

var depositStatusLabels = []string{"Nouveau", "Confirmé", "En cours", "Prêt", "Livré", "Annulé"}

// AllDepositStatuses lists every fulfillment state in lifecycle order.
func AllDepositStatuses() []DepositStatus {
	return []DepositStatus{
		DepositStatusNew,
		DepositStatusConfirmed,
		DepositStatusInProgress,
		DepositStatusReady,
		DepositStatusDelivered,
		DepositStatusCancelled,
	}
}

func (s DepositStatus) String() string {
	return nameOf(depositStatusNames, int(s))
}

// IsValid reports whether s is a known state.
func (s DepositStatus) IsValid() bool {
	return s >= DepositStatusNew && s <= DepositStatusCancelled
}

// IsTerminal reports whether no transition may leave s.
func (s DepositStatus) IsTerminal() bool {
	return s == DepositStatusDelivered || s == DepositStatusCancelled
}

// Next returns the happy-path successor of s. ok is false for terminal states.
func (s DepositStatus) Next() (next DepositStatus, ok bool) {
	switch s {
	case DepositStatusNew, DepositStatusConfirmed, DepositStatusInProgress, DepositStatusReady:
		return s + 1, true
	default:
		return s, false
	}
}

// CanTransitionTo reports whether moving from s to target is allowed:
// one step forward on the linear path, or cancellation of a non-terminal deposit.
func (s DepositStatus) CanTransitionTo(target DepositStatus) bool {
	if !target.IsValid() || s.IsTerminal() {
		return false
	}
	if target == DepositStatusCancelled {
		return true
	}
	next, ok := s.Next()
	return ok && next == target
}

func (s DepositStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *DepositStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnum(data, depositStatusNames, "deposit status")
	if err != nil {
		return err
	}
	*s = DepositStatus(i)
	return nil
}

func (s DepositStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DepositStatus) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*s = DepositStatus(i)
	return nil
}

// ParseDepositStatus resolves a status name such as "IN_PROGRESS".
func ParseDepositStatus(str string) (DepositStatus, error) {
	i, ok := parseName(depositStatusNames, str)
	if !ok {
		return DepositStatusNew, fmt.Errorf("invalid deposit status %q", str)
	}
	return DepositStatus(i), nil
}

// Label is the French display name printed on receipts.
func (s DepositStatus) Label() string {
	return nameOf(depositStatusLabels, int(s))
}
