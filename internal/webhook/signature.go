package webhook

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// ComputeHMAC signs a payload with the endpoint secret.
func ComputeHMAC(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received signature against the payload.
func VerifySignature(payload []byte, signature, secret string) bool {
	expected := ComputeHMAC(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// GenerateSecret returns a random signing secret for a new endpoint.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}
	return "whsec_" + base64.URLEncoding.EncodeToString(bytes), nil
}
