package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestTaxID(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"529.982.247-25", true},
		{"52998224725", true},
		{"52998224724", false},
		{"111.111.111-11", false},
		{"11.222.333/0001-81", true},
		{"11222333000180", false},
		{"1234", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidTaxID(tc.value); got != tc.want {
			t.Fatalf("IsValidTaxID(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	// "e" followed by a combining acute accent composes into a single rune
	if got := NormalizeName("  Jose\u0301   da  Silva "); got != "Jos\u00e9 da Silva" {
		t.Fatalf("unexpected normalized name %q", got)
	}
}

func TestStringValidation(t *testing.T) {
	if NewStringValidation("Jo").WithMinLength(NameMinLength).Validate() {
		t.Fatalf("expected short name to fail")
	}
	if !NewStringValidation("Ana").WithMinLength(NameMinLength).Validate() {
		t.Fatalf("expected three letter name to pass")
	}
	if !NewStringValidation("").WithRequired(false).Validate() {
		t.Fatalf("expected empty optional value to pass")
	}
}

func TestEmail(t *testing.T) {
	if !IsEmail(NormalizeEmail("  Carlos@Gym.com ")) {
		t.Fatalf("expected normalized email to be valid")
	}
	if IsEmail("carlos@") {
		t.Fatalf("expected invalid email")
	}
}

func TestRegisteredRules(t *testing.T) {
	v := validator.New()
	if err := RegisterRules(v); err != nil {
		t.Fatalf("register: %v", err)
	}

	type payload struct {
		Day  string `validate:"weekday"`
		Code string `validate:"accesscode"`
		CPF  string `validate:"taxid"`
	}
	if err := v.Struct(payload{Day: "MONDAY", Code: "48213", CPF: "52998224725"}); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	if err := v.Struct(payload{Day: "SEGUNDA", Code: "48213", CPF: "52998224725"}); err == nil {
		t.Fatalf("expected invalid day tag to fail")
	}
	if err := v.Struct(payload{Day: "MONDAY", Code: "4821", CPF: "52998224725"}); err == nil {
		t.Fatalf("expected short access code to fail")
	}
}
