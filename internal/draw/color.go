package draw

// ANSI foreground colors.
const (
	ColorReset       = "\033[0m"
	ColorRed         = "\033[31m"
	ColorGreen       = "\033[32m"
	ColorYellow      = "\033[33m"
	ColorBlue        = "\033[34m"
	ColorMagenta     = "\033[35m"
	ColorCyan        = "\033[36m"
	ColorGray        = "\033[90m"
	ColorBrightCyan  = "\033[96m"
	ColorBrightWhite = "\033[97m"
)

// Pen selects the color of canvas pixels. The zero value is an empty pixel.
type Pen uint8

const (
	PenNone Pen = iota
	PenDefault
	PenGray
	PenRed
	PenGreen
	PenYellow
	PenBlue
	PenMagenta
	PenCyan
	PenBright
)

var penColors = [...]string{
	PenNone:    ColorReset,
	PenDefault: ColorReset,
	PenGray:    ColorGray,
	PenRed:     ColorRed,
	PenGreen:   ColorGreen,
	PenYellow:  ColorYellow,
	PenBlue:    ColorBlue,
	PenMagenta: ColorMagenta,
	PenCyan:    ColorBrightCyan,
	PenBright:  ColorBrightWhite,
}

// ANSI returns the escape sequence selecting the pen's color.
func (p Pen) ANSI() string {
	if int(p) < len(penColors) {
		return penColors[p]
	}
	return ColorReset
}
