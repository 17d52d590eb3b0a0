package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		AccountID:   1,
		Amount:      Money{Cents: 100},
		Type:        Credit,
		Description: "دفعة نقدية",
		Date:        NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{AccountID: 1, Amount: Money{Cents: 0}, Type: Credit, Description: "a", Date: NewDate(2025, 1, 1)},
		{AccountID: 1, Amount: Money{Cents: -5}, Type: Debit, Description: "a", Date: NewDate(2025, 1, 1)},
		{AccountID: 1, Amount: Money{Cents: 1}, Type: "transfer", Description: "a", Date: NewDate(2025, 1, 1)},
		{AccountID: 1, Amount: Money{Cents: 1}, Type: Credit, Description: "  ", Date: NewDate(2025, 1, 1)},
		{AccountID: 1, Amount: Money{Cents: 1}, Type: Credit, Description: "a", Date: Date{Time: time.Time{}}},
		{AccountID: 0, Amount: Money{Cents: 1}, Type: Credit, Description: "a", Date: NewDate(2025, 1, 1)},
	}
	for i, bad := range bads {
		if err := bad.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSignedAmount(t *testing.T) {
	c := Transaction{Amount: Money{Cents: 250}, Type: Credit}
	d := Transaction{Amount: Money{Cents: 250}, Type: Debit}
	if c.Signed() != 250 || d.Signed() != -250 {
		t.Fatalf("expected +250/-250, got %d/%d", c.Signed(), d.Signed())
	}
}

func TestCategoryValidate(t *testing.T) {
	cases := []struct {
		c  Category
		ok bool
	}{
		{Category{Name: "موردون", Currency: "YER"}, true},
		{Category{Name: "Suppliers", Currency: "USD"}, true},
		{Category{Name: "", Currency: "YER"}, false},
		{Category{Name: "x", Currency: "yer"}, false},
		{Category{Name: "x", Currency: "YERR"}, false},
		{Category{Name: "x", Currency: ""}, false},
	}
	for i, tc := range cases {
		err := tc.c.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-01-01" {
		t.Fatalf("expected 2024-01-01, got %s", d.String())
	}
	if _, err := ParseDate("01/02/2024"); err == nil {
		t.Fatalf("expected error for non-canonical form")
	}
}
