package report

import (
	"os"

	"golang.org/x/term"

	"github.com/wjt/sms-query/internal/config"
)

// ANSI escape sequences used in the report body. Every colorized span is
// closed with an explicit reset.
const (
	Reset   = "\033[0m"
	Red     = "\033[91m"
	Green   = "\033[92m"
	Yellow  = "\033[93m"
	Blue    = "\033[94m"
	Magenta = "\033[95m"
)

// palette is the fixed set of colors cycled through for remote numbers,
// in assignment order.
var palette = []string{Red, Yellow, Green, Blue, Magenta}

// ColorFormatter handles colored output based on configuration
type ColorFormatter struct {
	config     *config.OutputConfig
	enabled    bool
	isTTY      bool
	noColorEnv bool
}

// NewColorFormatter creates a new color formatter with the given
// configuration
func NewColorFormatter(cfg *config.OutputConfig) *ColorFormatter {
	formatter := &ColorFormatter{
		config: cfg,
		isTTY:  term.IsTerminal(int(os.Stdout.Fd())),

		// NO_COLOR environment variable (follows standard); sticky for
		// the formatter's lifetime so no flag can re-enable color
		noColorEnv: os.Getenv("NO_COLOR") != "",
	}

	formatter.enabled = formatter.computeEnabled()
	return formatter
}

// computeEnabled derives the color state from config, TTY and environment
func (cf *ColorFormatter) computeEnabled() bool {
	if cf.noColorEnv {
		return false
	}
	return cf.config.ColorsEnabled && (!cf.config.AutoDetectTTY || cf.isTTY)
}

// SetNoColor disables color output (for --no-color flag)
func (cf *ColorFormatter) SetNoColor(noColor bool) {
	if noColor {
		cf.enabled = false
		return
	}
	cf.enabled = cf.computeEnabled()
}

// IsEnabled returns whether colors are currently enabled
func (cf *ColorFormatter) IsEnabled() bool {
	return cf.enabled
}

// Colorize wraps text in the given ANSI color code and a reset marker
func (cf *ColorFormatter) Colorize(color, text string) string {
	if !cf.enabled || color == "" {
		return text
	}
	return color + text + Reset
}

// PaletteColor returns the palette color for assignment slot n, cycling
// when the palette is exhausted
func PaletteColor(n int) string {
	return palette[n%len(palette)]
}

// PaletteSize returns the number of colors in the fixed palette
func PaletteSize() int {
	return len(palette)
}
