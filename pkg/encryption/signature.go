package encryption

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
)

// ChallengePassword answers a Freebox login challenge: the hex encoded HMAC-SHA1 of
// challenge keyed with the application token.
func ChallengePassword(appToken, challenge string) string {
	h := hmac.New(sha1.New, []byte(appToken))
	h.Write([]byte(challenge))
	return hex.EncodeToString(h.Sum(nil))
}
