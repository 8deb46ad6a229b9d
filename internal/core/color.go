package core

// Color is the foreground color of a screen cell. The platform maps it to
// ANSI codes.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Lander palette.
const (
	ColorRocket   = ColorBrightWhite
	ColorFlame    = ColorOrange
	ColorTarget   = ColorBrightGreen
	ColorHazard   = ColorRed
	ColorGround   = ColorYellow
	ColorSea      = ColorBlue
	ColorWaves    = ColorBrightCyan
	ColorAsteroid = ColorGray
	ColorHUD      = ColorCyan
	ColorWarning  = ColorBrightYellow
	ColorSuccess  = ColorBrightGreen
	ColorFailure  = ColorBrightRed
)
