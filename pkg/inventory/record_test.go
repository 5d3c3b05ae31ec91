package inventory

import "testing"

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"yes", true},
		{"Y", true},
		{"TRUE", true},
		{"1", true},
		{"да", true},
		{"Да", true},
		{"ok", true},
		{"checked", true},
		{"  yes  ", true},
		{"no", false},
		{"нет", false},
		{"0", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsTruthy(tt.input); got != tt.want {
			t.Errorf("IsTruthy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"3", 3},
		{"3.0", 3},
		{" 12 ", 12},
		{"0", 0},
		{"-5", 0},
		{"abc", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseQuantity(tt.input); got != tt.want {
			t.Errorf("parseQuantity(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"new", CategoryNew},
		{"NEW", CategoryNew},
		{" New ", CategoryNew},
		{"old", CategoryOld},
		{"refurbished", CategoryUnknown},
		{"", CategoryUnknown},
	}
	for _, tt := range tests {
		if got := parseCategory(tt.input); got != tt.want {
			t.Errorf("parseCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewRecord(t *testing.T) {
	rec, ok := newRecord(" PH-6002CEP ", "3.0", "A1", "12", "yes", "new", "", "да")
	if !ok {
		t.Fatal("newRecord returned !ok for a valid row")
	}
	if rec.PartNumber != "PH-6002CEP" {
		t.Errorf("PartNumber = %q, want PH-6002CEP", rec.PartNumber)
	}
	if rec.Normalized != "ph6002cep" {
		t.Errorf("Normalized = %q, want ph6002cep", rec.Normalized)
	}
	if rec.Quantity != 3 {
		t.Errorf("Quantity = %d, want 3", rec.Quantity)
	}
	if !rec.HasPassport || !rec.IsChecked {
		t.Errorf("HasPassport/IsChecked = %v/%v, want true/true", rec.HasPassport, rec.IsChecked)
	}
	if rec.Category != CategoryNew {
		t.Errorf("Category = %q, want new", rec.Category)
	}
}

func TestNewRecordEmptyPartNumber(t *testing.T) {
	if _, ok := newRecord("   ", "3", "A1", "12", "yes", "new", "", "да"); ok {
		t.Error("newRecord accepted an empty part number")
	}
}
