package model

import "testing"

func TestValidCategory(t *testing.T) {
	tests := []struct {
		category string
		expected bool
	}{
		{CategoryTops, true},
		{CategoryBottoms, true},
		{CategoryDresses, true},
		{CategoryOuterwear, true},
		{CategoryShoes, true},
		{CategoryAccessories, true},
		{"Tops", false},
		{"hats", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidCategory(tt.category); got != tt.expected {
			t.Errorf("ValidCategory(%q) = %v, want %v", tt.category, got, tt.expected)
		}
	}
}

func TestValidCondition(t *testing.T) {
	tests := []struct {
		condition string
		expected  bool
	}{
		{ConditionExcellent, true},
		{ConditionGood, true},
		{ConditionFair, true},
		{ConditionPoor, true},
		{"new", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidCondition(tt.condition); got != tt.expected {
			t.Errorf("ValidCondition(%q) = %v, want %v", tt.condition, got, tt.expected)
		}
	}
}
