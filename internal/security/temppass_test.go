package security

import (
	"strings"
	"testing"
)

func TestGenerateTempPassword(t *testing.T) {
	pw, err := GenerateTempPassword(TempPasswordLength)
	if err != nil {
		t.Fatalf("GenerateTempPassword: %v", err)
	}
	if len(pw) != TempPasswordLength {
		t.Errorf("len = %d, want %d", len(pw), TempPasswordLength)
	}
	for _, r := range pw {
		if !strings.ContainsRune(tempPasswordAlphabet, r) {
			t.Errorf("character %q outside alphabet", r)
		}
	}
}

func TestGenerateTempPassword_TooShort(t *testing.T) {
	if _, err := GenerateTempPassword(8); err == nil {
		t.Fatal("expected error for length below minimum")
	}
}

func TestGenerateTempPassword_Distinct(t *testing.T) {
	a, err := GenerateTempPassword(16)
	if err != nil {
		t.Fatalf("GenerateTempPassword: %v", err)
	}
	b, err := GenerateTempPassword(16)
	if err != nil {
		t.Fatalf("GenerateTempPassword: %v", err)
	}
	if a == b {
		t.Error("two generated passwords should not be equal")
	}
}
