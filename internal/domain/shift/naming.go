package shift

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UnpaidPrefix marks section files of purchase receipts still to be paid.
const UnpaidPrefix = "UNPAID-"

var (
	unsafeNameChars  = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	repeatedUnderbar = regexp.MustCompile(`_{2,}`)
)

// SanitizeName makes a label safe for a file name while keeping its case:
// accents are stripped, whitespace becomes "_", other symbols are dropped.
func SanitizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, strings.TrimSpace(name))
	if err != nil {
		result = name
	}

	result = strings.Join(strings.Fields(result), "_")
	result = unsafeNameChars.ReplaceAllString(result, "")
	result = repeatedUnderbar.ReplaceAllString(result, "_")
	return strings.Trim(result, "_-")
}

// SanitizeEventName is SanitizeName with a fallback for empty names.
func SanitizeEventName(name string) string {
	if sanitized := SanitizeName(name); sanitized != "" {
		return sanitized
	}
	return "event"
}

// NormalizeEventDate returns the YYYY-MM-DD part of a stored date.
func NormalizeEventDate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= 10 {
		if parsed, err := time.Parse("2006-01-02", trimmed[:10]); err == nil {
			return parsed.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEventDate, raw)
}

// EventFolderName is the per-event directory below the events dir.
func EventFolderName(date string, eventName string) string {
	return date + "-" + SanitizeEventName(eventName)
}

// SectionFileName builds "{prefix}{category}-{date}-{event}{ext}".
func SectionFileName(prefix string, category string, date string, eventName string, ext string) string {
	return prefix + SanitizeName(category) + "-" + date + "-" + SanitizeEventName(eventName) + ext
}

// CollisionCandidate returns name for attempt 0 and name_N.ext after that.
func CollisionCandidate(name string, attempt int) string {
	if attempt <= 0 {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%d%s", stem, attempt, ext)
}
