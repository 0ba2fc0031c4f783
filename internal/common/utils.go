package common

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\(([^\)]+)\)$`)

// SanitizePath performs basic cleanup on a tracklist path to handle common
// copy-paste issues. A full page URL on baseURL is reduced to its path part.
func SanitizePath(raw, baseURL string) string {
	cleaned := strings.TrimSpace(raw)

	// Extract URL from markdown link format: [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	// Remove common trailing punctuation from copy-paste errors
	trailingChars := []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"}
	for _, char := range trailingChars {
		cleaned = strings.TrimSuffix(cleaned, char)
	}

	leadingChars := []string{"(", "[", "<", "\"", "'"}
	for _, char := range leadingChars {
		cleaned = strings.TrimPrefix(cleaned, char)
	}
	cleaned = strings.TrimSpace(cleaned)

	// Pasted page URLs: drop the site root, then the tracklist segment.
	for _, root := range siteRoots(baseURL) {
		if strings.HasPrefix(cleaned, root) {
			cleaned = strings.TrimPrefix(cleaned, root)
			break
		}
	}
	cleaned = strings.TrimPrefix(cleaned, "/")
	cleaned = strings.TrimPrefix(cleaned, "tracklist/")

	return cleaned
}

// siteRoots returns baseURL plus its http/https twin, so that a pasted
// https link still matches an http base and vice versa.
func siteRoots(baseURL string) []string {
	if baseURL == "" {
		return nil
	}
	roots := []string{baseURL}
	switch {
	case strings.HasPrefix(baseURL, "http://"):
		roots = append(roots, "https://"+strings.TrimPrefix(baseURL, "http://"))
	case strings.HasPrefix(baseURL, "https://"):
		roots = append(roots, "http://"+strings.TrimPrefix(baseURL, "https://"))
	}
	return roots
}

// SanitizeAndValidatePaths sanitizes all paths and returns (sanitized, invalid).
// Invalid paths are those that are empty after cleanup, contain whitespace,
// or still point at another site.
func SanitizeAndValidatePaths(paths []string, baseURL string) ([]string, []string) {
	sanitized := make([]string, 0, len(paths))
	var invalid []string

	for _, raw := range paths {
		cleaned := SanitizePath(raw, baseURL)

		switch {
		case cleaned == "":
			invalid = append(invalid, raw)
		case strings.ContainsAny(cleaned, " \t\n\r"):
			invalid = append(invalid, raw)
		case strings.Contains(cleaned, "://"):
			invalid = append(invalid, raw)
		default:
			sanitized = append(sanitized, cleaned)
		}
	}

	return sanitized, invalid
}
