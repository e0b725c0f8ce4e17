package webhook

import (
	"strings"
	"testing"
)

func TestComputeHMAC(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		secret  string
	}{
		{name: "simple payload", payload: "hello world", secret: "my-secret"},
		{name: "empty payload", payload: "", secret: "my-secret"},
		{name: "json payload", payload: `{"event":"ruleset.updated"}`, secret: "secret123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeHMAC([]byte(tt.payload), tt.secret)
			if !strings.HasPrefix(result, "sha256=") {
				t.Errorf("missing sha256= prefix: %v", result)
			}
			hexPart := strings.TrimPrefix(result, "sha256=")
			if len(hexPart) != 64 {
				t.Errorf("hex part length = %d, want 64", len(hexPart))
			}
			// deterministic
			if again := ComputeHMAC([]byte(tt.payload), tt.secret); again != result {
				t.Error("signature not deterministic")
			}
		})
	}
}

func TestComputeHMACDiffersBySecret(t *testing.T) {
	payload := []byte(`{"event":"ruleset.created"}`)
	if ComputeHMAC(payload, "secret-a") == ComputeHMAC(payload, "secret-b") {
		t.Error("different secrets produced the same signature")
	}
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"event":"ruleset.deleted"}`)
	secret := "whsec_test"
	sig := ComputeHMAC(payload, secret)

	if !VerifySignature(payload, sig, secret) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(payload, sig, "wrong-secret") {
		t.Error("signature verified with wrong secret")
	}
	if VerifySignature([]byte("tampered"), sig, secret) {
		t.Error("signature verified for tampered payload")
	}
	if VerifySignature(payload, "sha256=deadbeef", secret) {
		t.Error("bogus signature verified")
	}
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(a, "whsec_") {
		t.Errorf("missing whsec_ prefix: %v", a)
	}
	b, err := GenerateSecret()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a == b {
		t.Error("two generated secrets are identical")
	}
}
