package gui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"

	"fyne.io/fyne/v2"

	"github.com/keepgenius/jira-notify/internal/constants"
)

var (
	iconBackground = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	iconForeground = color.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF}
)

// trayIcon loads the icon file at path, or draws the fallback when it is missing.
func trayIcon(path string) fyne.Resource {
	if path != "" {
		if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
			return fyne.NewStaticResource("icon.png", data)
		}
	}
	return fyne.NewStaticResource("icon.png", generatedIcon(constants.TrayIconSize, iconBackground, iconForeground))
}

// generatedIcon draws a size×size PNG in bg with the top-right and bottom-left
// quadrants filled in fg.
func generatedIcon(size int, bg, fg color.Color) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	half := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := bg
			if (x >= half) != (y >= half) {
				c = fg
			}
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	// Encoding an in-memory NRGBA cannot fail
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
