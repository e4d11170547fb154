package ui

import (
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/dshills/cnbpad/internal/settings"
)

func TestCursorAt(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		offset int
		row    int
		col    int
	}{
		{"start", "hello", 0, 0, 0},
		{"first line", "hello world", 6, 0, 6},
		{"second line", "one\ntwo three", 8, 1, 4},
		{"after newline", "one\ntwo", 4, 1, 0},
		{"multibyte", "héllo\nwörld", 10, 1, 2},
		{"past end", "abc", 99, 0, 3},
		{"negative", "abc", -1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col := cursorAt(tt.text, tt.offset)
			if row != tt.row || col != tt.col {
				t.Errorf("cursorAt(%q, %d) = (%d, %d), want (%d, %d)",
					tt.text, tt.offset, row, col, tt.row, tt.col)
			}
		})
	}
}

func TestWrapping(t *testing.T) {
	if got := wrapping(true); got != fyne.TextWrapWord {
		t.Errorf("wrapping(true) = %v, want TextWrapWord", got)
	}
	if got := wrapping(false); got != fyne.TextWrapOff {
		t.Errorf("wrapping(false) = %v, want TextWrapOff", got)
	}
}

func TestThemeFor(t *testing.T) {
	tests := []struct {
		name    string
		variant fyne.ThemeVariant
	}{
		{settings.ThemeDark, theme.VariantDark},
		{settings.ThemeLight, theme.VariantLight},
		{"unknown", theme.VariantDark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, ok := themeFor(tt.name).(variantTheme)
			if !ok {
				t.Fatalf("themeFor(%q) is not a variantTheme", tt.name)
			}
			if th.variant != tt.variant {
				t.Errorf("variant = %v, want %v", th.variant, tt.variant)
			}
		})
	}
}

func TestRecentLabel(t *testing.T) {
	path := filepath.Join("home", "me", "notes.txt")
	want := "notes.txt (" + filepath.Join("home", "me") + ")"
	if got := recentLabel(path); got != want {
		t.Errorf("recentLabel(%q) = %q, want %q", path, got, want)
	}
}
