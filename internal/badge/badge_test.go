package badge

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0"},
		{7, "7"},
		{1234, "1,234"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := Label(tt.count); got != tt.want {
			t.Errorf("Label(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestWidthGrowsWithDigits(t *testing.T) {
	short := Width("1")
	long := Width("1,234")
	if short <= 0 {
		t.Fatalf("Width(1) = %v, want > 0", short)
	}
	if long <= short {
		t.Errorf("Width(1,234) = %v, want more than Width(1) = %v", long, short)
	}
}

func TestMeasurerCaches(t *testing.T) {
	m, err := NewMeasurer(goregular.TTF, 12)
	if err != nil {
		t.Fatalf("NewMeasurer() = %v", err)
	}
	a := m.Width("42")
	b := m.Width("42")
	if a != b {
		t.Errorf("Width() = %v then %v, want stable", a, b)
	}
	if len(m.cache) != 1 {
		t.Errorf("cache size = %d, want 1", len(m.cache))
	}
}

func TestNewMeasurerRejectsGarbage(t *testing.T) {
	if _, err := NewMeasurer([]byte("not a font"), 12); err == nil {
		t.Error("NewMeasurer(garbage) = nil error")
	}
}
