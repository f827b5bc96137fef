package utils

import (
	"strings"
)

// FallbackColor is used for base colors missing from the palette
const FallbackColor = "#ccc"

// colorPalette maps base color labels to their swatch
var colorPalette = map[string]string{
	"Rosso":     "#e74c3c",
	"Bianco":    "#ecf0f1",
	"Nero":      "#2c3e50",
	"Blu":       "#3498db",
	"Giallo":    "#f1c40f",
	"Verde":     "#2ecc71",
	"Grigio":    "#95a5a6",
	"Rosa":      "#e91e63",
	"Azzurro":   "#1abc9c",
	"Arancione": "#e67e22",
	"Marrone":   "#8B4513",
}

// BaseColor returns the part of a color label before the first hyphen
// Example: "Rosso-Scuro" -> "Rosso"
func BaseColor(label string) string {
	base, _, _ := strings.Cut(label, "-")
	return base
}

// MapColorToSwatch maps a color label to its swatch using the base color.
// Lookup is case sensitive, unmapped colors fall back to FallbackColor.
func MapColorToSwatch(label string) string {
	if swatch, exists := colorPalette[BaseColor(label)]; exists {
		return swatch
	}
	return FallbackColor
}
