package http

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestHex32Validation(t *testing.T) {
	type P struct {
		PropertyID string `json:"property_id" validate:"hex32"`
	}
	cv := NewValidator()

	// valid: 32-char lowercase hex
	ok := P{PropertyID: strings.Repeat("a", 32)}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	// invalid samples
	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		err := cv.Validate(P{PropertyID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "property_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, ToFieldErrors(err))
		}
	}
}

func TestDec2Validation(t *testing.T) {
	type P struct {
		Rate float64 `validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []float64{1.29, 2.00, 0.9, 1.2} {
		if err := cv.Validate(P{Rate: v}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{1.234, 2.9999} {
		err := cv.Validate(P{Rate: v})
		if err == nil {
			t.Fatalf("expected dec2 error for %v", v)
		}
		if !containsFieldMsg(ToFieldErrors(err), "Rate", "at most 2 decimal places") {
			t.Fatalf("expected 'at most 2 decimal places' for %v, got %+v", v, ToFieldErrors(err))
		}
	}
}

func TestDecimalFields(t *testing.T) {
	type P struct {
		Amount *decimal.Decimal    `json:"amount" validate:"required,gte=0,dec2"`
		Rate   decimal.NullDecimal `json:"rate"   validate:"omitempty,gte=0,lte=100"`
	}
	cv := NewValidator()
	d := func(s string) *decimal.Decimal { v := decimal.RequireFromString(s); return &v }

	if err := cv.Validate(P{Amount: d("0")}); err != nil {
		t.Fatalf("zero amount with nil rate should pass: %v", err)
	}
	if err := cv.Validate(P{Amount: d("1500.25"), Rate: decimal.NewNullDecimal(decimal.RequireFromString("6.5"))}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	cases := []struct {
		name  string
		in    P
		field string
		msg   string
	}{
		{"missing amount", P{}, "amount", "is required"},
		{"negative amount", P{Amount: d("-1")}, "amount", "greater than or equal to 0"},
		{"three decimals", P{Amount: d("10.005")}, "amount", "at most 2 decimal places"},
		{"rate above 100", P{Amount: d("1"), Rate: decimal.NewNullDecimal(decimal.NewFromInt(101))}, "rate", "less than or equal to 100"},
	}
	for _, tc := range cases {
		err := cv.Validate(tc.in)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !containsFieldMsg(ToFieldErrors(err), tc.field, tc.msg) {
			t.Fatalf("%s: want %s %q, got %+v", tc.name, tc.field, tc.msg, ToFieldErrors(err))
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name string  `validate:"required"`
		Min  int     `validate:"gte=10"`
		Max  int     `validate:"lte=5"`
		Pct  float64 `validate:"dec2,gte=0,lte=100"`
		Kind string  `validate:"oneof=A B"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{
		Name: "",    // required
		Min:  9,     // gte=10
		Max:  6,     // lte=5
		Pct:  1.333, // dec2 runs before the bounds
		Kind: "C",   // oneof
	})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "Name", "is required") {
		t.Fatalf("missing 'is required' for Name: %+v", fe)
	}
	if !containsFieldMsg(fe, "Min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for Min: %+v", fe)
	}
	if !containsFieldMsg(fe, "Max", "less than or equal to 5") {
		t.Fatalf("missing lte message for Max: %+v", fe)
	}
	if !containsFieldMsg(fe, "Pct", "at most 2 decimal places") {
		t.Fatalf("missing dec2 message for Pct: %+v", fe)
	}
	if !containsFieldMsg(fe, "Kind", "one of A B") {
		t.Fatalf("missing oneof message for Kind: %+v", fe)
	}
}

func TestNestedFieldNames(t *testing.T) {
	type Tier struct {
		Name string `json:"tier_name" validate:"required"`
	}
	type P struct {
		Tiers []Tier `json:"tiers" validate:"required,min=1,dive"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Tiers: []Tier{{Name: "a"}, {}}})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !containsFieldMsg(ToFieldErrors(err), "tiers[1].tier_name", "is required") {
		t.Fatalf("unexpected details: %+v", ToFieldErrors(err))
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
