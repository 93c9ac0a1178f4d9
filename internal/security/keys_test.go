package security

import (
	"crypto/rsa"
	"testing"
)

func TestParsePrivateKey_PKCS8(t *testing.T) {
	signer, err := ParsePrivateKey(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	if _, ok := signer.Public().(*rsa.PublicKey); !ok {
		t.Errorf("public key type = %T, want *rsa.PublicKey", signer.Public())
	}
}

func TestParsePublicKey_PKIX(t *testing.T) {
	pub, err := ParsePublicKey(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if _, ok := pub.(*rsa.PublicKey); !ok {
		t.Errorf("key type = %T, want *rsa.PublicKey", pub)
	}
}

func TestParsePrivateKey_Invalid(t *testing.T) {
	for _, s := range []string{"", "not-pem", "-----BEGIN GARBAGE-----\nAAAA\n-----END GARBAGE-----"} {
		if _, err := ParsePrivateKey(s); err == nil {
			t.Errorf("ParsePrivateKey(%q) should fail", s)
		}
	}
}

func TestParsePublicKey_Invalid(t *testing.T) {
	if _, err := ParsePublicKey("not-pem"); err == nil {
		t.Error("ParsePublicKey with non-PEM input should fail")
	}
}

func TestLoadPEM_Inline(t *testing.T) {
	b, err := LoadPEM(testPublicKeyPEM)
	if err != nil {
		t.Fatalf("LoadPEM: %v", err)
	}
	if len(b) == 0 {
		t.Error("LoadPEM returned empty bytes")
	}
}
