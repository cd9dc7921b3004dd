package keyword

import (
	"reflect"
	"testing"
)

func TestProcessExtractsKeywords(t *testing.T) {
	t.Parallel()

	result := Process("How do I reset my password?")

	want := []string{"reset", "password"}
	if !reflect.DeepEqual(result.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", result.Keywords, want)
	}
	if result.Category != "account" {
		t.Errorf("Category = %q, want %q", result.Category, "account")
	}
}

func TestProcessDeduplicatesTokens(t *testing.T) {
	t.Parallel()

	result := Process("shipping shipping SHIPPING costs")

	want := []string{"shipping", "costs"}
	if !reflect.DeepEqual(result.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", result.Keywords, want)
	}
}

func TestProcessCategoryVoting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"billing wins with more votes", "refund my payment invoice or return it", "billing"},
		{"no category keywords", "tell me something interesting", CategoryGeneral},
		{"empty question", "", CategoryGeneral},
		{"shipping question", "where is my order and how do I track delivery", "shipping"},
		{"tie broken alphabetically", "cancel my subscription", "billing"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Process(tt.question).Category
			if got != tt.want {
				t.Errorf("Process(%q).Category = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestRequiresHuman(t *testing.T) {
	t.Parallel()

	tests := []struct {
		question string
		want     bool
	}{
		{"I want to speak to a human", true},
		{"this is URGENT, my manager needs it", true},
		{"how do I reset my password", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := RequiresHuman(tt.question); got != tt.want {
			t.Errorf("RequiresHuman(%q) = %v, want %v", tt.question, got, tt.want)
		}
	}
}
