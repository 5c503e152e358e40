package expansion

import (
	"slices"
	"testing"
)

func TestDefaultLookup(t *testing.T) {
	table := Default()
	tests := []struct {
		word string
		want []string
		ok   bool
	}{
		{"he's", []string{"he", "is"}, true},
		{"He’s", []string{"he", "is"}, true},
		{"AITA", []string{"am", "i", "the", "asshole"}, true},
		{"aita", []string{"am", "i", "the", "asshole"}, true},
		{"17M", []string{"seventeen", "m"}, true},
		{"25f", []string{"twenty", "five", "f"}, true},
		{"SO", []string{"significant", "other"}, true},
		{"so", nil, false},
		{"shouldn't've", []string{"should", "not", "have"}, true},
		{"won't", []string{"will", "not"}, true},
		{"y'all", []string{"you", "all"}, true},
		{"5", []string{"five"}, true},
		{"-5", nil, false},
		{"home", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		got, ok := table.Lookup(tt.word)
		if ok != tt.ok || !slices.Equal(got, tt.want) {
			t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tt.word, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	table := Default()
	first, _ := table.Lookup("he's")
	first[0] = "mutated"
	second, _ := table.Lookup("he's")
	if second[0] != "he" {
		t.Fatalf("table mutated through returned slice: %v", second)
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default should return the same table")
	}
	if Default().Len() == 0 {
		t.Fatal("Default table is empty")
	}
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"empty surface", []Entry{{Surface: " ", Tokens: []string{"x"}}}},
		{"no tokens", []Entry{{Surface: "x"}}},
		{"token with space", []Entry{{Surface: "x", Tokens: []string{"a b"}}}},
		{"duplicate folded", []Entry{
			{Surface: "Abc", Tokens: []string{"a"}},
			{Surface: "aBC", Tokens: []string{"b"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.entries); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewCaseSensitiveAndFoldedCoexist(t *testing.T) {
	table, err := New([]Entry{
		{Surface: "US", Tokens: []string{"united", "states"}, CaseSensitive: true},
		{Surface: "us", Tokens: []string{"us"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got, _ := table.Lookup("US"); !slices.Equal(got, []string{"united", "states"}) {
		t.Fatalf("Lookup(US) = %v", got)
	}
	if got, _ := table.Lookup("Us"); !slices.Equal(got, []string{"us"}) {
		t.Fatalf("Lookup(Us) = %v", got)
	}
}

func TestNilTable(t *testing.T) {
	var table *Table
	if _, ok := table.Lookup("he's"); ok {
		t.Fatal("nil table should not match")
	}
	if table.Len() != 0 {
		t.Fatal("nil table should be empty")
	}
}
