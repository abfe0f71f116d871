package enum

import (
	"encoding/json"
	"testing"
)

func TestFiscalStatus_Retryable(t *testing.T) {
	cases := []struct {
		status FiscalStatus
		want   bool
	}{
		{FiscalStatusPending, true},
		{FiscalStatusAuthorized, false},
		{FiscalStatusRejected, true},
		{FiscalStatusError, true},
	}
	for _, tc := range cases {
		if got := tc.status.Retryable(); got != tc.want {
			t.Errorf("%s.Retryable() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestFiscalStatus_IsTerminal(t *testing.T) {
	if FiscalStatusPending.IsTerminal() {
		t.Error("PENDING must not be terminal")
	}
	for _, s := range []FiscalStatus{FiscalStatusAuthorized, FiscalStatusRejected, FiscalStatusError} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestParseFiscalStatus(t *testing.T) {
	for i, name := range fiscalStatusNames {
		got, err := ParseFiscalStatus(name)
		if err != nil {
			t.Fatalf("ParseFiscalStatus(%q): %v", name, err)
		}
		if got != FiscalStatus(i) {
			t.Errorf("ParseFiscalStatus(%q) = %d, want %d", name, got, i)
		}
	}

	if _, err := ParseFiscalStatus("SORT_OF_OK"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestFiscalStatus_JSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(FiscalStatusRejected)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `"REJECTED"` {
		t.Errorf("marshaled as %s", raw)
	}

	var s FiscalStatus
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatal(err)
	}
	if s != FiscalStatusRejected {
		t.Errorf("round-trip = %s", s)
	}

	// Numeric form is still accepted for stored payloads.
	if err := json.Unmarshal([]byte("1"), &s); err != nil {
		t.Fatal(err)
	}
	if s != FiscalStatusAuthorized {
		t.Errorf("numeric unmarshal = %s", s)
	}
}
