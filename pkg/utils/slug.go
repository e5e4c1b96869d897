package utils

import (
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeSlug turns a user-supplied slug into its canonical lookup key:
// punycode-encode, lowercase, and drop the trailing hyphen the encoding step
// may append. The result is stable under repeated application.
func NormalizeSlug(slug string) (string, error) {
	encoded, err := idna.Punycode.ToASCII(slug)
	if err != nil {
		return "", err
	}

	normalized := strings.ToLower(encoded)

	// only strip a trailing hyphen the encoder introduced, otherwise slugs
	// that legitimately end with "-" would lose a character per call
	if strings.HasSuffix(normalized, "-") && !strings.HasSuffix(strings.ToLower(slug), "-") {
		normalized = strings.TrimSuffix(normalized, "-")
	}

	return normalized, nil
}
