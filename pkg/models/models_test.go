package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTimestampJSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 5, 17, 8, 30, 15, 123456789, time.UTC))

	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-05-17T08:30:15"` {
		t.Errorf("unexpected encoding %s", b)
	}

	var back Timestamp
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(ts.Truncate(time.Second)) {
		t.Errorf("round trip mismatch: %v vs %v", back, ts)
	}
}

func TestTimestampZeroIsNull(t *testing.T) {
	b, err := json.Marshal(struct {
		LastLogin Timestamp `json:"lastLogin"`
	}{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"lastLogin":null}` {
		t.Errorf("unexpected %s", b)
	}

	v, err := Timestamp{}.Value()
	if err != nil || v != nil {
		t.Errorf("zero timestamp should be SQL NULL, got %v, %v", v, err)
	}
}

func TestTimestampScan(t *testing.T) {
	var ts Timestamp
	if err := ts.Scan(time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if ts.Year() != 2023 {
		t.Errorf("unexpected %v", ts)
	}
	if err := ts.Scan("2023-01-02T03:04:05"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if err := ts.Scan(nil); err != nil || !ts.IsZero() {
		t.Errorf("scan nil should reset, got %v %v", ts, err)
	}
	if err := ts.Scan(42); err == nil {
		t.Error("expected error for int")
	}
}

func TestTimestampRejectsGarbage(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected parse error")
	}
	if err := json.Unmarshal([]byte(`12`), &ts); err == nil {
		t.Error("expected error for non-string")
	}
}

func TestOptionalTriState(t *testing.T) {
	var patch struct {
		Type     Optional[string] `json:"accountType"`
		Branch   Optional[int64]  `json:"branchId"`
		Currency Optional[string] `json:"currencyCode"`
	}
	if err := json.Unmarshal([]byte(`{"accountType":"SAVINGS","branchId":null}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !patch.Type.Present() || patch.Type.Value != "SAVINGS" {
		t.Errorf("accountType should be present: %+v", patch.Type)
	}
	if !patch.Branch.Cleared() || patch.Branch.Present() {
		t.Errorf("branchId should be cleared: %+v", patch.Branch)
	}
	if patch.Currency.Set {
		t.Errorf("currencyCode should be absent: %+v", patch.Currency)
	}
}

func TestOptionalDecimal(t *testing.T) {
	var o Optional[decimal.Decimal]
	if err := json.Unmarshal([]byte(`"1234.56"`), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !o.Present() || o.Value.String() != "1234.56" {
		t.Errorf("unexpected %+v", o)
	}
}

func TestAccountJSONDecimalsAreStrings(t *testing.T) {
	acc := NewAccount()
	acc.Balance = decimal.RequireFromString("1234.56")
	acc.InterestRate = decimal.RequireFromString("0.0125")

	b, err := json.Marshal(acc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"balance":"1234.56"`, `"interestRate":"0.0125"`, `"overdraftLimit":"0"`, `"status":"ACTIVE"`, `"branchId":null`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
}

func TestUserPasswordNeverSerialised(t *testing.T) {
	b, err := json.Marshal(User{Email: "a@x.com", Password: "$2a$10$hash"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "hash") || strings.Contains(string(b), "password") {
		t.Errorf("password leaked: %s", b)
	}
}
