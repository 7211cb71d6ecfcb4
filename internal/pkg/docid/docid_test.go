package docid

import "testing"

func TestNewProducesValidIds(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		if !IsValid(id) {
			t.Fatalf("New() = %q, not a 24-char hex id", id)
		}
		if seen[id] {
			t.Fatalf("New() returned duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid lowercase", "507f1f77bcf86cd799439011", true},
		{"valid uppercase", "507F1F77BCF86CD799439011", true},
		{"too short", "507f1f77bcf86cd79943901", false},
		{"too long", "507f1f77bcf86cd7994390111", false},
		{"non-hex characters", "507f1f77bcf86cd79943901z", false},
		{"empty", "", false},
		{"numeric legacy id", "1700000000000", false},
		{"display name", "Chef Gio", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.input); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
