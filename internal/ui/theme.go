package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/dshills/cnbpad/internal/settings"
)

// variantTheme pins the default theme to one variant regardless of the
// desktop preference.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

// themeFor returns the fyne theme for a settings theme name.
func themeFor(name string) fyne.Theme {
	variant := theme.VariantDark
	if name == settings.ThemeLight {
		variant = theme.VariantLight
	}
	return variantTheme{Theme: theme.DefaultTheme(), variant: variant}
}

// wrapping maps the word_wrap setting to an entry wrap mode.
func wrapping(on bool) fyne.TextWrap {
	if on {
		return fyne.TextWrapWord
	}
	return fyne.TextWrapOff
}
