package handlers

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxNameLength        = 120
	maxPositionLength    = 120
	maxMessageLength     = 1000
	maxDescriptionLength = 5000
)

// textPolicy strips all markup from user supplied free text
var textPolicy = bluemonday.StrictPolicy()

// cleanText removes markup and surrounding space from s and checks its length. The
// result is stored as plain text, so the entities the policy emits are decoded again.
func cleanText(field, s string, max int) (string, error) {
	s = strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
	if utf8.RuneCountInString(s) > max {
		return "", fmt.Errorf("%w: %s must be at most %d characters", errBadRequest, field, max)
	}
	return s, nil
}

// cleanURL accepts an empty string or an absolute http(s) URL
func cleanURL(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s must be an http or https URL", errBadRequest, field)
	}
	return u.String(), nil
}
