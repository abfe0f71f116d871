package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// KitchenStatus tracks the preparation lifecycle of a sale.
// It is independent of the fiscal lifecycle.
type KitchenStatus int

const (
	KitchenStatusNew           KitchenStatus = 0
	KitchenStatusInPreparation KitchenStatus = 1
	KitchenStatusReady         KitchenStatus = 2
	KitchenStatusDelivered     KitchenStatus = 3
)

var kitchenStatusNames = [...]string{"NEW", "IN_PREPARATION", "READY", "DELIVERED"}

func (s KitchenStatus) String() string {
	if int(s) < 0 || int(s) >= len(kitchenStatusNames) {
		return "NEW"
	}
	return kitchenStatusNames[s]
}

// ParseKitchenStatus converts boundary input into a KitchenStatus.
func ParseKitchenStatus(str string) (KitchenStatus, error) {
	for i, name := range kitchenStatusNames {
		if name == str {
			return KitchenStatus(i), nil
		}
	}
	return KitchenStatusNew, fmt.Errorf("unknown kitchen status %q", str)
}

func (s KitchenStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *KitchenStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = KitchenStatus(i)
		return nil
	}
	parsed, err := ParseKitchenStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s KitchenStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *KitchenStatus) Scan(value interface{}) error {
	if value == nil {
		*s = KitchenStatusNew
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = KitchenStatus(v)
	case int:
		*s = KitchenStatus(v)
	}
	return nil
}
