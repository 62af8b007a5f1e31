package intake

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ValidateSignature checks the X-Hub-Signature-256 header against the raw
// request body. An empty secret disables validation (callers log a warning).
// Comparison is constant-time.
func ValidateSignature(appSecret string, body []byte, header string) bool {
	if appSecret == "" {
		return true
	}

	provided, ok := strings.CutPrefix(header, "sha256=")
	if !ok || provided == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(provided))
}
