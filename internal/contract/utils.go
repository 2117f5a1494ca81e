package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/elcfinder/elcfinder/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // ExcellentColor represents a standout school.
	GoodColor      = color.New(color.FgCyan)              // GoodColor represents a solid choice.
	FairColor      = color.New(color.FgYellow)            // FairColor represents standard caution, not bold.
	PoorColor      = color.New(color.FgRed)               // PoorColor represents a weak match for the weights.
)

// Status badge colors, mirroring the enquiry pipeline.
var statusColors = map[schema.SchoolStatus]*color.Color{
	schema.PrioritisedStatus:    color.New(color.FgHiWhite, color.BgBlue, color.Bold),
	schema.RequestedStatus:      color.New(color.FgBlack, color.BgYellow),
	schema.AvailabilityStatus:   color.New(color.FgBlack, color.BgGreen),
	schema.NoAvailabilityStatus: color.New(color.FgHiWhite, color.BgRed),
}

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := schema.GetPlainLabel(score)

	switch text {
	case schema.ExcellentValue:
		return ExcellentColor.Sprint(text)
	case schema.GoodValue:
		return GoodColor.Sprint(text)
	case schema.FairValue:
		return FairColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// StatusBadge returns the badge text for a status, colored when requested.
// Statuses without a badge return an empty string.
func StatusBadge(status schema.SchoolStatus, useColors bool) string {
	if !status.HasBadge() {
		return ""
	}
	text := "[" + string(status) + "]"
	if !useColors {
		return text
	}
	if c, ok := statusColors[status]; ok {
		return c.Sprint(text)
	}
	return text
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for source cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".elcfinder_cache.db"
	}
	return filepath.Join(homeDir, ".elcfinder_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for ranking history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".elcfinder_history.db"
	}
	return filepath.Join(homeDir, ".elcfinder_history.db")
}

// TruncateName truncates a display name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is space for the "..." suffix and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// IsRemoteSource reports whether a source refers to an HTTP(S) URL.
func IsRemoteSource(source string) bool {
	lower := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
