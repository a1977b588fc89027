package usecase

import (
	"testing"
)

func TestNameNormalizer_Normalize(t *testing.T) {
	n := NewNameNormalizer()

	testCases := []struct {
		name        string
		input       string
		want        string
		wantChanged bool
	}{
		{name: "plain name", input: "milk", want: "milk"},
		{name: "case and spacing only", input: "  Brown   Sugar ", want: "brown sugar"},
		{name: "plural fold is not a change", input: "eggs", want: "egg"},
		{name: "leading of is not a change", input: "of flour", want: "flour"},
		{name: "compound flour", input: "All-Purpose Flour", want: "flour", wantChanged: true},
		{name: "compound olive oil", input: "extra virgin olive oil", want: "olive oil", wantChanged: true},
		{name: "granulated sugar", input: "granulated sugar", want: "white sugar", wantChanged: true},
		{name: "confectioners sugar", input: "confectioners sugar", want: "powdered sugar", wantChanged: true},
		{name: "kosher salt", input: "kosher salt", want: "salt", wantChanged: true},
		{name: "parmesan keeps its cheese", input: "grated parmesan cheese", want: "cheese", wantChanged: true},
		{name: "packed sugar keeps its variety", input: "packed light brown sugar", want: "light brown sugar", wantChanged: true},
		{name: "preparation after comma", input: "unsalted butter, softened", want: "unsalted butter", wantChanged: true},
		{name: "parenthetical", input: "butter (at room temperature)", want: "butter", wantChanged: true},
		{name: "size words", input: "large eggs", want: "egg", wantChanged: true},
		{name: "trailing note", input: "flour divided", want: "flour", wantChanged: true},
		{name: "compound only at the end", input: "whole milk ricotta", want: "whole milk ricotta"},
		{name: "eggplant is not egg", input: "eggplant", want: "eggplant"},
		{name: "empty", input: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := n.Normalize(tc.input)
			if got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
			if changed != tc.wantChanged {
				t.Errorf("Normalize(%q) changed = %v, want %v", tc.input, changed, tc.wantChanged)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	testCases := []struct {
		input string
		want  []string
	}{
		{input: "Large Eggs", want: []string{"large", "egg"}},
		{input: "chocolate-chips", want: []string{"chocolate", "chip"}},
		{input: "berries", want: []string{"berry"}},
		{input: "tomatoes", want: []string{"tomato"}},
		{input: "swiss", want: []string{"swiss"}},
		{input: "oil", want: []string{"oil"}},
		{input: "", want: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := tokenize(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("tokenize(%q) = %v, want %v", tc.input, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("tokenize(%q)[%d] = %q, want %q", tc.input, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	testCases := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"butter", "buttr", 1},
		{"flour", "flower", 2},
		{"kitten", "sitting", 3},
		{"crème", "creme", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.s1+"_"+tc.s2, func(t *testing.T) {
			if got := levenshteinDistance(tc.s1, tc.s2); got != tc.want {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tc.s1, tc.s2, got, tc.want)
			}
		})
	}
}

func TestFuzzyTokenMatch(t *testing.T) {
	testCases := []struct {
		a, b string
		want bool
	}{
		{"butter", "buttr", true},
		{"sugar", "sugr", false}, // too short
		{"flour", "floor", true},
		{"butter", "batter", true},
		{"cheese", "cheddar", false},
	}

	for _, tc := range testCases {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			if got := fuzzyTokenMatch(tc.a, tc.b, 1); got != tc.want {
				t.Errorf("fuzzyTokenMatch(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
