// Package signature implements the shared-secret HMAC scheme Postmark uses
// to authenticate webhook callbacks. The provider signs the compact JSON
// serialization of the payload with HMAC-SHA256 and sends the digest
// Base64-encoded in a request header.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
)

// Header is the request header carrying the provider's signature.
const Header = "X-Postmark-Signature"

// Compute serializes payload to compact JSON and returns the standard
// Base64 encoding of its HMAC-SHA256 digest keyed by secret.
func Compute(payload any, secret string) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(b)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// Verify reports whether sig matches the signature of payload under secret.
// Serialization failures count as verification failures; they are never
// propagated. The comparison is constant-time.
func Verify(payload any, sig, secret string) bool {
	want, err := Compute(payload, secret)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(want), []byte(sig))
}
