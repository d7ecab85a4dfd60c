package terminal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rgb represents an RGB color value.
//
// This is the color model Processor.processSGR and Handler.SetForeground/
// SetBackground exchange; it sits next to, not on top of, the AnsiCode/
// NamedColor pair in character.go that TerminalBuffer's own grid cells use
// directly. The two exist because TerminalBuffer and Processor are two
// independent consumers of the same control-sequence stream: one renders
// straight into a grid, the other dispatches to a caller-supplied Handler.
type Rgb struct {
	R uint8
	G uint8
	B uint8
}

// NewRgb creates a new RGB color.
func NewRgb(r, g, b uint8) Rgb {
	return Rgb{R: r, G: g, B: b}
}

// Luminance calculates the luminance of the color using W3C's algorithm.
// https://www.w3.org/TR/WCAG20/#relativeluminancedef
func (c Rgb) Luminance() float64 {
	channelLuminance := func(channel uint8) float64 {
		ch := float64(channel) / 255.0
		if ch <= 0.03928 {
			return ch / 12.92
		}
		return math.Pow((ch+0.055)/1.055, 2.4)
	}

	rLum := channelLuminance(c.R)
	gLum := channelLuminance(c.G)
	bLum := channelLuminance(c.B)

	return 0.2126*rLum + 0.7152*gLum + 0.0722*bLum
}

// Contrast calculates the contrast ratio between two colors using W3C's algorithm.
// https://www.w3.org/TR/WCAG20/#contrast-ratiodef
func (c Rgb) Contrast(other Rgb) float64 {
	selfLum := c.Luminance()
	otherLum := other.Luminance()

	var lighter, darker float64
	if selfLum > otherLum {
		lighter = selfLum
		darker = otherLum
	} else {
		lighter = otherLum
		darker = selfLum
	}

	return (lighter + 0.05) / (darker + 0.05)
}

// Add returns the result of adding two RGB colors with saturation.
func (c Rgb) Add(other Rgb) Rgb {
	return Rgb{
		R: saturateAdd(c.R, other.R),
		G: saturateAdd(c.G, other.G),
		B: saturateAdd(c.B, other.B),
	}
}

// Sub returns the result of subtracting two RGB colors with saturation.
func (c Rgb) Sub(other Rgb) Rgb {
	return Rgb{
		R: saturateSub(c.R, other.R),
		G: saturateSub(c.G, other.G),
		B: saturateSub(c.B, other.B),
	}
}

// Mul returns the result of multiplying an RGB color by a scalar with clamping.
func (c Rgb) Mul(factor float64) Rgb {
	return Rgb{
		R: clamp(float64(c.R) * factor),
		G: clamp(float64(c.G) * factor),
		B: clamp(float64(c.B) * factor),
	}
}

func saturateAdd(a, b uint8) uint8 {
	result := uint16(a) + uint16(b)
	if result > 255 {
		return 255
	}
	return uint8(result)
}

func saturateSub(a, b uint8) uint8 {
	if a < b {
		return 0
	}
	return a - b
}

func clamp(value float64) uint8 {
	if value < 0 {
		return 0
	}
	if value > 255 {
		return 255
	}
	return uint8(value)
}

// String returns the color as a hex string.
func (c Rgb) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RgbFromString parses a hex color string into an RGB color.
// Supports formats: "#rrggbb", "0xrrggbb"
// Returns the parsed color and true if successful, or zero color and false if invalid.
func RgbFromString(s string) (Rgb, bool) {
	if len(s) == 0 {
		return Rgb{}, false
	}

	var hexStr string
	if strings.HasPrefix(s, "#") {
		hexStr = s[1:]
	} else if strings.HasPrefix(strings.ToLower(s), "0x") {
		hexStr = s[2:]
	} else {
		return Rgb{}, false
	}

	if len(hexStr) != 6 {
		return Rgb{}, false
	}

	val, err := strconv.ParseUint(hexStr, 16, 32)
	if err != nil {
		return Rgb{}, false
	}

	r := uint8((val >> 16) & 0xFF)
	g := uint8((val >> 8) & 0xFF)
	b := uint8(val & 0xFF)

	return Rgb{R: r, G: g, B: b}, true
}

// Blend blends this color with another using alpha blending.
// alpha=0.0 returns this color, alpha=1.0 returns other color.
func (c Rgb) Blend(other Rgb, alpha float64) Rgb {
	if alpha <= 0.0 {
		return c
	}
	if alpha >= 1.0 {
		return other
	}

	invAlpha := 1.0 - alpha
	return Rgb{
		R: uint8(float64(c.R)*invAlpha + float64(other.R)*alpha),
		G: uint8(float64(c.G)*invAlpha + float64(other.G)*alpha),
		B: uint8(float64(c.B)*invAlpha + float64(other.B)*alpha),
	}
}

// Lerp performs linear interpolation between this color and another.
// t=0.0 returns this color, t=1.0 returns other color.
func (c Rgb) Lerp(other Rgb, t float64) Rgb {
	return c.Blend(other, t)
}

// Distance calculates the Euclidean distance between two colors in RGB space.
func (c Rgb) Distance(other Rgb) float64 {
	dr := float64(c.R) - float64(other.R)
	dg := float64(c.G) - float64(other.G)
	db := float64(c.B) - float64(other.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// PerceptualDistance calculates perceptual color distance weighted by human vision.
// Uses redmean approximation for better perceptual accuracy than Euclidean.
func (c Rgb) PerceptualDistance(other Rgb) float64 {
	rMean := (float64(c.R) + float64(other.R)) / 2.0
	dr := float64(c.R) - float64(other.R)
	dg := float64(c.G) - float64(other.G)
	db := float64(c.B) - float64(other.B)

	weightR := 2.0 + rMean/256.0
	weightG := 4.0
	weightB := 2.0 + (255.0-rMean)/256.0

	return math.Sqrt(weightR*dr*dr + weightG*dg*dg + weightB*db*db)
}

// Ansi16Color represents the 16 standard terminal colors plus bright variants.
// processSGR maps SGR 30-37/40-47/90-97/100-107 parameters onto this type.
type Ansi16Color uint8

const (
	Black Ansi16Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
	// Foreground/Background are SGR 39/49's "reset to default" sentinels,
	// not real palette entries; ToRgb falls through to black for them.
	Foreground Ansi16Color = 16
	Background Ansi16Color = 17
)

// ToRgb converts a named color to its default RGB value.
func (c Ansi16Color) ToRgb() Rgb {
	switch c {
	case Black:
		return Rgb{0, 0, 0}
	case Red:
		return Rgb{170, 0, 0}
	case Green:
		return Rgb{0, 170, 0}
	case Yellow:
		return Rgb{170, 85, 0}
	case Blue:
		return Rgb{0, 0, 170}
	case Magenta:
		return Rgb{170, 0, 170}
	case Cyan:
		return Rgb{0, 170, 170}
	case White:
		return Rgb{170, 170, 170}
	case BrightBlack:
		return Rgb{85, 85, 85}
	case BrightRed:
		return Rgb{255, 85, 85}
	case BrightGreen:
		return Rgb{85, 255, 85}
	case BrightYellow:
		return Rgb{255, 255, 85}
	case BrightBlue:
		return Rgb{85, 85, 255}
	case BrightMagenta:
		return Rgb{255, 85, 255}
	case BrightCyan:
		return Rgb{85, 255, 255}
	case BrightWhite:
		return Rgb{255, 255, 255}
	default:
		return Rgb{0, 0, 0}
	}
}

// Color represents a terminal color which can be named, indexed, or RGB.
// It is the type carried through Handler.SetForeground/SetBackground;
// processSGR and processExtendedColor build these from SGR 30-38/39-48
// groups, including the `:`-joined sub-parameter forms CSIArgs.HasMore
// folds back into groups via csiGroups.
type Color struct {
	Type  ColorType
	Named Ansi16Color
	Index uint8
	Rgb   Rgb
}

// ColorType indicates the type of color.
type ColorType uint8

const (
	ColorTypeNamed ColorType = iota
	ColorTypeIndexed
	ColorTypeRgb
)

// NewNamedColor creates a color from a named color.
func NewNamedColor(c Ansi16Color) Color {
	return Color{Type: ColorTypeNamed, Named: c}
}

// NewIndexedColor creates a color from a palette index (0-255).
func NewIndexedColor(index uint8) Color {
	return Color{Type: ColorTypeIndexed, Index: index}
}

// NewRgbColor creates a color from RGB values.
func NewRgbColor(r, g, b uint8) Color {
	return Color{Type: ColorTypeRgb, Rgb: Rgb{r, g, b}}
}

// ToRgb converts any Color type to its RGB representation.
func (c Color) ToRgb() Rgb {
	switch c.Type {
	case ColorTypeNamed:
		return c.Named.ToRgb()
	case ColorTypeIndexed:
		return indexedColorToRgb(c.Index)
	case ColorTypeRgb:
		return c.Rgb
	default:
		return Rgb{0, 0, 0}
	}
}

// indexedColorToRgb converts a palette index (0-255) to RGB, following
// xterm's 256-color layout: 16 named colors, a 6x6x6 cube, then a
// 24-step grayscale ramp.
func indexedColorToRgb(index uint8) Rgb {
	switch {
	case index < 16:
		return Ansi16Color(index).ToRgb()
	case index < 232:
		cubeIndex := index - 16
		r := cubeIndex / 36
		g := (cubeIndex % 36) / 6
		b := cubeIndex % 6

		paletteValues := [6]uint8{0, 95, 135, 175, 215, 255}
		return Rgb{paletteValues[r], paletteValues[g], paletteValues[b]}
	default:
		gray := uint8(8 + (index-232)*10)
		return Rgb{gray, gray, gray}
	}
}

// Hsl represents a color in HSL (Hue, Saturation, Lightness) color space.
type Hsl struct {
	H float64 // Hue: 0.0-1.0 (0°-360°)
	S float64 // Saturation: 0.0-1.0
	L float64 // Lightness: 0.0-1.0
}

// NewHsl creates a new HSL color.
func NewHsl(h, s, l float64) Hsl {
	return Hsl{H: h, S: s, L: l}
}

// ToHsl converts RGB color to HSL color space.
func (c Rgb) ToHsl() Hsl {
	r := float64(c.R) / 255.0
	g := float64(c.G) / 255.0
	b := float64(c.B) / 255.0

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	l := (max + min) / 2.0

	if delta == 0 {
		return Hsl{H: 0, S: 0, L: l}
	}

	var s float64
	if l < 0.5 {
		s = delta / (max + min)
	} else {
		s = delta / (2.0 - max - min)
	}

	var h float64
	switch max {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6.0
		}
	case g:
		h = (b-r)/delta + 2.0
	case b:
		h = (r-g)/delta + 4.0
	}
	h /= 6.0

	return Hsl{H: h, S: s, L: l}
}

// ToRgb converts HSL color to RGB color space.
func (hsl Hsl) ToRgb() Rgb {
	if hsl.S == 0 {
		gray := uint8(hsl.L * 255.0)
		return Rgb{gray, gray, gray}
	}

	hueToRgb := func(p, q, t float64) float64 {
		if t < 0 {
			t += 1
		}
		if t > 1 {
			t -= 1
		}
		if t < 1.0/6.0 {
			return p + (q-p)*6.0*t
		}
		if t < 1.0/2.0 {
			return q
		}
		if t < 2.0/3.0 {
			return p + (q-p)*(2.0/3.0-t)*6.0
		}
		return p
	}

	var q float64
	if hsl.L < 0.5 {
		q = hsl.L * (1.0 + hsl.S)
	} else {
		q = hsl.L + hsl.S - hsl.L*hsl.S
	}
	p := 2.0*hsl.L - q

	r := hueToRgb(p, q, hsl.H+1.0/3.0)
	g := hueToRgb(p, q, hsl.H)
	b := hueToRgb(p, q, hsl.H-1.0/3.0)

	return Rgb{
		R: uint8(r * 255.0),
		G: uint8(g * 255.0),
		B: uint8(b * 255.0),
	}
}

// ColorBlindnessType represents different types of color blindness.
type ColorBlindnessType uint8

const (
	ColorBlindnessDeuteranopia ColorBlindnessType = iota // Green-blind
	ColorBlindnessProtanopia                             // Red-blind
	ColorBlindnessTritanopia                             // Blue-blind
)

// IsSafeWith checks if two colors are distinguishable for people with color blindness.
func (c Rgb) IsSafeWith(other Rgb, cbType ColorBlindnessType) bool {
	if cbType == ColorBlindnessDeuteranopia {
		cLum := c.Luminance()
		otherLum := other.Luminance()

		lumDiff := math.Abs(cLum - otherLum)
		if lumDiff < 0.1 {
			rDiff := math.Abs(float64(c.R) - float64(other.R))
			gDiff := math.Abs(float64(c.G) - float64(other.G))
			if rDiff > 100 || gDiff > 100 {
				return false
			}
		}

		return c.Contrast(other) >= 3.0
	}

	var c1, c2 Rgb
	switch cbType {
	case ColorBlindnessProtanopia:
		c1 = Rgb{0, c.G, c.B}
		c2 = Rgb{0, other.G, other.B}
	case ColorBlindnessTritanopia:
		c1 = Rgb{c.R, c.G, 0}
		c2 = Rgb{other.R, other.G, 0}
	default:
		c1, c2 = c, other
	}

	return c1.Contrast(c2) >= 3.0
}
