// Package aes256 provides AES-256 encryption helpers for sensitive log data.
//
// Data is encrypted in CBC mode with PKCS#7 padding, so ciphertexts are
// compatible with the common platform defaults for AES.
package aes256

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// IVSize is the initialization vector length in bytes.
const IVSize = aes.BlockSize

var (
	// ErrKeySize is returned when the key is not KeySize bytes long.
	ErrKeySize = errors.New("aes256: key must be 32 bytes")

	// ErrIVSize is returned when the IV is not IVSize bytes long.
	ErrIVSize = errors.New("aes256: iv must be 16 bytes")

	// ErrNilInput is returned when data or cipher is nil.
	ErrNilInput = errors.New("aes256: input is nil")

	// ErrPadding is returned when a decrypted block carries invalid padding.
	ErrPadding = errors.New("aes256: invalid padding")
)

func check(key, iv []byte) error {
	if len(key) != KeySize {
		return ErrKeySize
	}
	if len(iv) != IVSize {
		return ErrIVSize
	}
	return nil
}

// Encrypt encrypts data with key and iv.
// Empty data yields an empty, non-nil cipher.
func Encrypt(data, key, iv []byte) ([]byte, error) {
	if data == nil {
		return nil, ErrNilInput
	}
	if err := check(key, iv); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []byte{}, nil
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes256: create cipher: %w", err)
	}

	padLen := aes.BlockSize - len(data)%aes.BlockSize
	plain := make([]byte, len(data), len(data)+padLen)
	copy(plain, data)
	plain = append(plain, bytes.Repeat([]byte{byte(padLen)}, padLen)...)

	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, plain)
	return out, nil
}

// Decrypt reverses Encrypt.
// An empty cipher yields empty data.
func Decrypt(ciphertext, key, iv []byte) ([]byte, error) {
	if ciphertext == nil {
		return nil, ErrNilInput
	}
	if err := check(key, iv); err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 {
		return []byte{}, nil
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("aes256: cipher length %d is not a multiple of the block size", len(ciphertext))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes256: create cipher: %w", err)
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)

	padLen := int(out[len(out)-1])
	if padLen == 0 || padLen > aes.BlockSize || padLen > len(out) {
		return nil, ErrPadding
	}
	for _, b := range out[len(out)-padLen:] {
		if int(b) != padLen {
			return nil, ErrPadding
		}
	}
	return out[:len(out)-padLen], nil
}
