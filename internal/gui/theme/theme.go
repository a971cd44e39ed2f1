package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var (
	// Accent is the terminal green used for text and highlights.
	Accent     = color.NRGBA{R: 0x0d, G: 0xff, B: 0x00, A: 0xff}
	accentDim  = color.NRGBA{R: 0x0d, G: 0xff, B: 0x00, A: 0x40}
	background = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	surface    = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
)

// ClipTheme is a black and green theme over the default Fyne theme.
type ClipTheme struct {
	fyne.Theme
}

var _ fyne.Theme = (*ClipTheme)(nil)

// NewClipTheme creates a new theme
func NewClipTheme() *ClipTheme {
	return &ClipTheme{
		Theme: theme.DefaultTheme(),
	}
}

// Color returns a custom color for the given name
func (t *ClipTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground, theme.ColorNameOverlayBackground, theme.ColorNameMenuBackground:
		return background
	case theme.ColorNameInputBackground, theme.ColorNameButton, theme.ColorNameHeaderBackground:
		return surface
	case theme.ColorNameForeground, theme.ColorNamePrimary, theme.ColorNameFocus, theme.ColorNameForegroundOnPrimary:
		return Accent
	case theme.ColorNameHover, theme.ColorNameSelection, theme.ColorNamePressed:
		return accentDim
	default:
		// Dark variant so disabled and placeholder colors suit the black background.
		return t.Theme.Color(name, theme.VariantDark)
	}
}

// Size returns a custom size for the given name
func (t *ClipTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 8
	case theme.SizeNameText:
		return 13
	default:
		return t.Theme.Size(name)
	}
}
