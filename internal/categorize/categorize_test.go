package categorize

import "testing"

func TestPrimary(t *testing.T) {
	priority := []string{"Soups", "Main Courses", "Desserts"}

	tests := []struct {
		name     string
		declared []string
		want     string
	}{
		{
			name:     "priority category wins",
			declared: []string{"Quick", "Desserts"},
			want:     "Desserts",
		},
		{
			name:     "earliest priority entry wins over later",
			declared: []string{"Desserts", "Soups"},
			want:     "Soups",
		},
		{
			name:     "no priority match uses first declared",
			declared: []string{"Quick", "Weeknight"},
			want:     "Quick",
		},
		{
			name:     "no categories falls back",
			declared: nil,
			want:     Fallback,
		},
		{
			name:     "empty slice falls back",
			declared: []string{},
			want:     Fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Primary(tt.declared, priority)
			if got != tt.want {
				t.Errorf("Primary(%v) = %q, want %q", tt.declared, got, tt.want)
			}
		})
	}
}

func TestPrimaryEmptyPriority(t *testing.T) {
	if got := Primary([]string{"Anything"}, nil); got != "Anything" {
		t.Errorf("expected first declared category, got %q", got)
	}
}

func TestPriorityIndex(t *testing.T) {
	priority := []string{"Soups", "Salads"}

	if got := PriorityIndex("Soups", priority); got != 0 {
		t.Errorf("expected index 0 for Soups, got %d", got)
	}
	if got := PriorityIndex("Salads", priority); got != 1 {
		t.Errorf("expected index 1 for Salads, got %d", got)
	}
	if got := PriorityIndex("Unknown", priority); got != len(priority) {
		t.Errorf("expected %d for unlisted category, got %d", len(priority), got)
	}
	if got := PriorityIndex(Fallback, priority); got != len(priority)+1 {
		t.Errorf("fallback must rank last, got %d", got)
	}
	if got := PriorityIndex("Anything", nil); got != 0 {
		t.Errorf("expected 0 with empty priority list, got %d", got)
	}
}
