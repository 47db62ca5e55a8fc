package security

import (
	"strings"
	"testing"

	"github.com/fixflowhq/fixflow-backend/pkg/config"
)

func testParams() config.PasswordConfig {
	// small parameters keep the test fast
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := HashSecret("hunter2", testParams())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifySecret("hunter2", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("expected matching secret to verify")
	}

	ok, err = VerifySecret("hunter3", hash)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Fatal("expected mismatching secret to fail")
	}
}

func TestHashSecretRejectsEmpty(t *testing.T) {
	if _, err := HashSecret("", testParams()); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestVerifySecretMalformedHash(t *testing.T) {
	if _, err := VerifySecret("x", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestValidatePIN(t *testing.T) {
	valid := []string{"0000", "1234", "9999"}
	for _, pin := range valid {
		if err := ValidatePIN(pin); err != nil {
			t.Errorf("expected %q to be valid: %v", pin, err)
		}
	}

	invalid := []string{"", "123", "12345", "12a4", "12.4", "٣٤٥٦"}
	for _, pin := range invalid {
		if err := ValidatePIN(pin); err == nil {
			t.Errorf("expected %q to be rejected", pin)
		}
	}
}
