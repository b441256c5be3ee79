package kanoon

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"sort"
	"strings"
)

// CanonicalString renders params as k=v pairs sorted by key and joined with
// '&'. Values are used raw, without URL escaping.
func CanonicalString(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// Sign returns the standard base64 HMAC-SHA1 of the canonical string keyed
// with secret.
func Sign(params map[string]string, secret string) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(CanonicalString(params)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
