package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// notifyTheme is the dark theme used by the reminder window.
type notifyTheme struct{}

func (t *notifyTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameButton:
		return color.NRGBA{R: 0xCC, G: 0x00, B: 0x00, A: 0xFF}
	case theme.ColorNameHover:
		return color.NRGBA{R: 0xFF, G: 0x33, B: 0x33, A: 0x40}
	case theme.ColorNameBackground:
		return color.Black
	case theme.ColorNameForeground:
		return color.White
	default:
		return theme.DefaultTheme().Color(name, theme.VariantDark)
	}
}

func (t *notifyTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *notifyTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *notifyTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 16
	default:
		return theme.DefaultTheme().Size(name)
	}
}
