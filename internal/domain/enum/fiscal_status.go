package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FiscalStatus is the lifecycle tag of a sale's authorization outcome.
type FiscalStatus int

const (
	FiscalStatusPending    FiscalStatus = 0
	FiscalStatusAuthorized FiscalStatus = 1
	FiscalStatusRejected   FiscalStatus = 2
	FiscalStatusError      FiscalStatus = 3
)

var fiscalStatusNames = [...]string{"PENDING", "AUTHORIZED", "REJECTED", "ERROR"}

func (s FiscalStatus) String() string {
	if int(s) < 0 || int(s) >= len(fiscalStatusNames) {
		return "PENDING"
	}
	return fiscalStatusNames[s]
}

// IsTerminal reports whether the status ends the current attempt.
// REJECTED and ERROR are terminal per attempt but re-enterable via retry.
func (s FiscalStatus) IsTerminal() bool {
	return s != FiscalStatusPending
}

// Retryable reports whether a submission may be re-attempted from this status.
func (s FiscalStatus) Retryable() bool {
	return s == FiscalStatusPending || s == FiscalStatusRejected || s == FiscalStatusError
}

// ParseFiscalStatus converts boundary input into a FiscalStatus.
func ParseFiscalStatus(str string) (FiscalStatus, error) {
	for i, name := range fiscalStatusNames {
		if name == str {
			return FiscalStatus(i), nil
		}
	}
	return FiscalStatusPending, fmt.Errorf("unknown fiscal status %q", str)
}

func (s FiscalStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *FiscalStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = FiscalStatus(i)
		return nil
	}
	parsed, err := ParseFiscalStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s FiscalStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *FiscalStatus) Scan(value interface{}) error {
	if value == nil {
		*s = FiscalStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = FiscalStatus(v)
	case int:
		*s = FiscalStatus(v)
	}
	return nil
}
