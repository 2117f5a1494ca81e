package outwriter

import (
	"os"

	"github.com/elcfinder/elcfinder/internal/contract"
	"golang.org/x/term"
)

// Display width bounds for school names in tables.
const (
	minNameWidth = 15
	maxNameWidth = 50
)

// getTerminalWidth returns the configured width override or the detected terminal width.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80
	}
	return detectedWidth
}

// getMaxTableNameWidth calculates the maximum width for school names in table output
// based on terminal width and table configuration.
func getMaxTableNameWidth(cfg *contract.Config) int {
	termWidth := getTerminalWidth(cfg)

	// Reserve space for fixed columns with table formatting
	baseWidth := 40 // Rank + Score + Label + Status with borders/padding

	if cfg.Detail {
		baseWidth += 60 // Address + six ratings with formatting
	}
	if cfg.Explain {
		baseWidth += 35
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 20

	available := termWidth - baseWidth
	if available < minNameWidth {
		return minNameWidth
	}
	if available > maxNameWidth {
		return maxNameWidth
	}
	return available
}
