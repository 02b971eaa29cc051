package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"
)

// EncryptAES encrypts plaintext with the first 32 bytes of key (AES-256).
// Provider access tokens never touch the database unencrypted.
func EncryptAES(plaintext, key string) (string, error) {
	block, err := aes.NewCipher([]byte(key)[:32])
	if err != nil {
		return "", err
	}

	b := []byte(plaintext)
	ciphertext := make([]byte, aes.BlockSize+len(b))
	iv := ciphertext[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], b)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptAES reverses EncryptAES.
func DecryptAES(ciphertextBase64, key string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextBase64)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher([]byte(key)[:32])
	if err != nil {
		return "", err
	}

	if len(ciphertext) < aes.BlockSize {
		return "", errCiphertextTooShort
	}
	iv := ciphertext[:aes.BlockSize]
	ciphertext = ciphertext[aes.BlockSize:]

	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(ciphertext, ciphertext)

	return string(ciphertext), nil
}
