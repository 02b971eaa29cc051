package service

import (
	"strings"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef-extra"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintexts := []string{
		"access-sandbox-7f2b9c",
		"",
		strings.Repeat("x", 1024),
	}

	for _, pt := range plaintexts {
		enc, err := EncryptAES(pt, testKey)
		if err != nil {
			t.Fatalf("EncryptAES() error = %v", err)
		}
		if enc == pt && pt != "" {
			t.Error("ciphertext equals plaintext")
		}

		dec, err := DecryptAES(enc, testKey)
		if err != nil {
			t.Fatalf("DecryptAES() error = %v", err)
		}
		if dec != pt {
			t.Errorf("round trip = %q, want %q", dec, pt)
		}
	}
}

func TestEncryptUsesRandomIV(t *testing.T) {
	a, err := EncryptAES("same input", testKey)
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncryptAES("same input", testKey)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two encryptions of the same plaintext produced identical ciphertext")
	}
}

func TestDecryptRejectsBadInput(t *testing.T) {
	if _, err := DecryptAES("not base64!!", testKey); err == nil {
		t.Error("DecryptAES accepted invalid base64")
	}
	if _, err := DecryptAES("c2hvcnQ=", testKey); err == nil {
		t.Error("DecryptAES accepted ciphertext shorter than one block")
	}
}
