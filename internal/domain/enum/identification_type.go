package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IdentificationType classifies the buyer's identification document.
// The authority wire codes ("04", "05", "06", "07") follow the provider contract.
type IdentificationType int

const (
	IdentificationTypeTaxID         IdentificationType = 0
	IdentificationTypeNationalID    IdentificationType = 1
	IdentificationTypePassport      IdentificationType = 2
	IdentificationTypeFinalConsumer IdentificationType = 3
)

var identificationTypeNames = [...]string{"TAX_ID", "NATIONAL_ID", "PASSPORT", "FINAL_CONSUMER"}
var identificationTypeCodes = [...]string{"04", "05", "06", "07"}

func (t IdentificationType) String() string {
	if int(t) < 0 || int(t) >= len(identificationTypeNames) {
		return "FINAL_CONSUMER"
	}
	return identificationTypeNames[t]
}

// WireCode returns the code the fiscal authority expects for this type.
func (t IdentificationType) WireCode() string {
	if int(t) < 0 || int(t) >= len(identificationTypeCodes) {
		return "07"
	}
	return identificationTypeCodes[t]
}

// ParseIdentificationType converts boundary input into an IdentificationType.
func ParseIdentificationType(str string) (IdentificationType, error) {
	for i, name := range identificationTypeNames {
		if name == str {
			return IdentificationType(i), nil
		}
	}
	return IdentificationTypeFinalConsumer, fmt.Errorf("unknown identification type %q", str)
}

func (t IdentificationType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *IdentificationType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = IdentificationType(i)
		return nil
	}
	parsed, err := ParseIdentificationType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t IdentificationType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *IdentificationType) Scan(value interface{}) error {
	if value == nil {
		*t = IdentificationTypeFinalConsumer
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = IdentificationType(v)
	case int:
		*t = IdentificationType(v)
	}
	return nil
}
