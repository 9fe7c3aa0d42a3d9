package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for 24-bit terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8

	swatchGlyph = "██"
)

// ColourPreview returns a solid block of the given width in colour c,
// drawn with background-coloured spaces.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	bg := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	return bg + strings.Repeat(" ", width) + ansiReset
}

// FormatColourWithPreview formats a colour with its preview and hex code.
func FormatColourWithPreview(rgb RGB, width int) string {
	return fmt.Sprintf("%s %s", ColourPreview(rgb, width), rgb.Hex())
}

// ColourString returns text in foreground colour rgb.
func ColourString(rgb RGB, text string) string {
	fg := fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, rgb.R, rgb.G, rgb.B, ansiSuffix)
	return fg + text + ansiReset
}

// Swatch renders the palette as a single line of coloured blocks.
func Swatch(colours []RGB) string {
	var sb strings.Builder
	for _, c := range colours {
		sb.WriteString(ColourString(c, swatchGlyph))
	}
	return sb.String()
}
