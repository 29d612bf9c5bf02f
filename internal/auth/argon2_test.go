package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_Format(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Str0ngP@ss1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// PHC format: $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("hash should be in PHC format, got: %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("hash should have 6 parts, got: %d", len(parts))
	}
	if parts[3] != "m=65536,t=3,p=4" {
		t.Errorf("expected m=65536,t=3,p=4, got: %s", parts[3])
	}
}

func TestHashPassword_SaltUniqueness(t *testing.T) {
	t.Parallel()

	password := "the same password 12345"

	hash1, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// Same password must produce different hashes (independent random salts).
	if hash1 == hash2 {
		t.Error("same password should produce different hashes")
	}

	match1, _ := VerifyPassword(password, hash1)
	match2, _ := VerifyPassword(password, hash2)
	if !match1 || !match2 {
		t.Error("both hashes should verify the original password")
	}
}

func TestHashPassword_NeverPlaintext(t *testing.T) {
	t.Parallel()

	password := "Sup3r$ecretValue"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == password || strings.Contains(hash, password) {
		t.Error("stored hash must not contain the plaintext")
	}
}

func TestVerifyPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	password := "Str0ngP@ss1"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	match, err := VerifyPassword(password, hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !match {
		t.Error("original password should verify")
	}

	match, err = VerifyPassword("Wr0ngP@ss1", hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if match {
		t.Error("different password should not verify")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	bad := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=3,p=4$salt", // too few parts
		"$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA", // wrong version
		"$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA",    // invalid base64 salt
	}

	for _, hash := range bad {
		if match, err := VerifyPassword("whatever", hash); err == nil || match {
			t.Errorf("VerifyPassword(%q) should fail, got match=%v err=%v", hash, match, err)
		}
	}
}
