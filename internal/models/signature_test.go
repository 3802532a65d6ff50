package models

import "testing"

func TestNewCategorySignature(t *testing.T) {
	t.Run("order_insensitive", func(t *testing.T) {
		a := NewCategorySignature([]string{"Food", "Groceries"})
		b := NewCategorySignature([]string{"Groceries", "Food"})
		if a != b {
			t.Errorf("expected equal signatures, got %q vs %q", a.Label(), b.Label())
		}
	})

	t.Run("deduplicates_and_trims", func(t *testing.T) {
		s := NewCategorySignature([]string{" Food ", "Food", "", "Groceries"})
		got := s.Categories()
		if len(got) != 2 || got[0] != "Food" || got[1] != "Groceries" {
			t.Errorf("unexpected categories %v", got)
		}
	})

	t.Run("usable_as_map_key", func(t *testing.T) {
		m := map[CategorySignature]int64{}
		m[NewCategorySignature([]string{"Food"})] += 100
		m[NewCategorySignature([]string{"Food"})] += 50
		if m[NewCategorySignature([]string{"Food"})] != 150 {
			t.Error("expected both increments to land on the same key")
		}
	})

	t.Run("no_separator_collision", func(t *testing.T) {
		a := NewCategorySignature([]string{"Food, Drinks"})
		b := NewCategorySignature([]string{"Food", "Drinks"})
		if a == b {
			t.Error("a single category containing a comma must not collide with a two-category group")
		}
	})

	t.Run("zero_value", func(t *testing.T) {
		s := NewCategorySignature(nil)
		if !s.IsZero() {
			t.Error("expected zero signature")
		}
		if s.Contains("Food") {
			t.Error("zero signature contains nothing")
		}
	})
}

func TestSignatureContains(t *testing.T) {
	s := NewCategorySignature([]string{"Food", "Groceries"})
	if !s.Contains("Food") || !s.Contains("Groceries") {
		t.Error("expected signature to contain its categories")
	}
	if s.Contains("Rent") {
		t.Error("expected Rent to be outside the signature")
	}
}

func TestSignatureLabel(t *testing.T) {
	s := NewCategorySignature([]string{"Groceries", "Food"})
	if s.Label() != "Food, Groceries" {
		t.Errorf("expected sorted label, got %q", s.Label())
	}
}
