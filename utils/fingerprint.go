package utils

import (
	"strings"
)

// CanonicalFingerprint lower-cases a PGP primary-key fingerprint and strips
// any separating whitespace, matching the 40-hex-character form the Keyring
// indexes users by (§4.2).
func CanonicalFingerprint(fpr string) string {
	fpr = strings.ToLower(fpr)
	fpr = strings.ReplaceAll(fpr, " ", "")
	return fpr
}
