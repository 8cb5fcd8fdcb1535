package errors

import (
	"strings"
	"unicode"
)

// MaxZoneNameLength bounds zone names accepted from the API and CLI.
const MaxZoneNameLength = 128

// ValidateZoneName rejects names that can never resolve to a zone:
// empty strings, control characters, and absurd lengths. Whether the zone
// exists is the catalog's business.
func ValidateZoneName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "zone name cannot be empty")
	}
	if len(name) > MaxZoneNameLength {
		return New(ErrCodeInvalidInput, "zone name too long (max %d characters)", MaxZoneNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "zone name contains invalid control characters")
		}
	}
	return nil
}

// ValidateCategory checks a connection category against the known set.
func ValidateCategory(category string, known []string) error {
	for _, k := range known {
		if category == k {
			return nil
		}
	}
	return New(ErrCodeInvalidCategory, "unknown category %q (want one of %s)", category, strings.Join(known, ", "))
}

// ValidateDuration checks an hours/minutes pair from the add form.
func ValidateDuration(hours, minutes int) error {
	if hours < 0 || minutes < 0 {
		return New(ErrCodeInvalidInput, "duration cannot be negative")
	}
	if minutes >= 60 {
		return New(ErrCodeInvalidInput, "minutes must be below 60, got %d", minutes)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
