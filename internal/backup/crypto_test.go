package backup

import (
	"bytes"
	"errors"
	"testing"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if len(salt1) != saltSize {
		t.Errorf("salt length = %d, want %d", len(salt1), saltSize)
	}
	salt2, _ := GenerateSalt()
	if bytes.Equal(salt1, salt2) {
		t.Error("two salts should not be equal")
	}
}

func TestDeriveKey(t *testing.T) {
	salt := []byte("1234567890abcdef")
	key1 := DeriveKey("mypassphrase", salt)
	if !bytes.Equal(key1, DeriveKey("mypassphrase", salt)) {
		t.Error("same passphrase and salt should give the same key")
	}
	if len(key1) != keySize {
		t.Errorf("key length = %d, want %d", len(key1), keySize)
	}
	if bytes.Equal(key1, DeriveKey("other", salt)) {
		t.Error("different passphrases should give different keys")
	}
}

func TestEncryptDecrypt(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"workbook bytes", []byte("PK\x03\x04 pretend this is a workbook")},
		{"empty", []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Encrypt(tt.plaintext, "secret")
			if err != nil {
				t.Fatalf("encrypt: %v", err)
			}
			if len(tt.plaintext) > 0 && bytes.Contains(enc, tt.plaintext) {
				t.Error("ciphertext contains the plaintext")
			}
			dec, err := Decrypt(enc, "secret")
			if err != nil {
				t.Fatalf("decrypt: %v", err)
			}
			if !bytes.Equal(dec, tt.plaintext) {
				t.Errorf("decrypted = %q, want %q", dec, tt.plaintext)
			}
		})
	}
}

func TestDecryptFailures(t *testing.T) {
	enc, err := Encrypt([]byte("inventory"), "secret")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := Decrypt(enc, "wrong"); err == nil {
		t.Error("wrong passphrase should fail")
	}

	tampered := bytes.Clone(enc)
	tampered[len(tampered)-1] ^= 0xff
	if _, err := Decrypt(tampered, "secret"); err == nil {
		t.Error("tampered ciphertext should fail")
	}

	if _, err := Decrypt(make([]byte, 10), "secret"); !errors.Is(err, ErrTooSmall) {
		t.Errorf("err = %v, want ErrTooSmall", err)
	}
}
