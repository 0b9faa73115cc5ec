package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/botscan/schema"
)

// Color variables for console output.
var (
	FlaggedColor      = color.New(color.FgRed, color.Bold) // FlaggedColor represents a rejected submission.
	CleanColor        = color.New(color.FgGreen)           // CleanColor represents an organic-looking submission.
	InsufficientColor = color.New(color.FgYellow)          // InsufficientColor represents too little data to decide.
	ErrorColor        = color.New(color.FgMagenta)         // ErrorColor represents a failed fetch or parse.
	HeaderColor       = color.New(color.FgCyan, color.Bold)
)

// GetColorLabel returns a colored text label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(status schema.ResultStatus) string {
	text := schema.GetPlainLabel(status)

	switch status {
	case schema.StatusFlagged:
		return FlaggedColor.Sprint(text)
	case schema.StatusClean:
		return CleanColor.Sprint(text)
	case schema.StatusInsufficient:
		return InsufficientColor.Sprint(text)
	default:
		return ErrorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
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

// GetScanDBFilePath returns the path to the SQLite DB file for scan storage.
func GetScanDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".botscan_scans.db"
	}
	return filepath.Join(homeDir, ".botscan_scans.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for verdict history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".botscan_history.db"
	}
	return filepath.Join(homeDir, ".botscan_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis leaves room for content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
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
