package server

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := hashPassword("secret")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}

	if hash == "secret" {
		t.Fatal("hash must never equal the plaintext")
	}

	if !verifyPassword("secret", hash) {
		t.Error("Expected correct password to verify")
	}
	if verifyPassword("wrong", hash) {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestPasswordHashIsSalted(t *testing.T) {
	h1, err := hashPassword("secret")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	h2, err := hashPassword("secret")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}

	if h1 == h2 {
		t.Error("Expected two hashes of the same password to differ (per-call salt)")
	}
	if !verifyPassword("secret", h1) || !verifyPassword("secret", h2) {
		t.Error("Expected both salted hashes to verify")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-bcrypt-hash"},
		{"truncated", "$2a$12$tooshort"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if verifyPassword("secret", tt.hash) {
				t.Errorf("Expected malformed hash %q to verify as mismatch", tt.hash)
			}
		})
	}
}
