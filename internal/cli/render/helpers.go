package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	labelStyle   = color.New(color.Faint)
	valueStyle   = color.New(color.FgWhite)
	addressStyle = color.New(color.FgYellow)
	hashStyle    = color.New(color.FgMagenta)
	successStyle = color.New(color.FgGreen)
	failureStyle = color.New(color.FgRed)
	pendingStyle = color.New(color.FgYellow)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error with the error icon. Alerts show their
// user-facing message, other errors the last element of the chain.
func FormatError(err error) string {
	var alert *domain.AlertError
	if errors.As(err, &alert) {
		return color.New(color.FgRed, color.Bold).Sprintf("❌ %s", alert.Message)
	}

	parts := strings.Split(err.Error(), ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// Title capitalizes status words such as "connected"
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}
