package vaultcrypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"go-password-vault/pkg/config"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var ErrDecryptFailed = errors.New("vaultcrypto: decryption failed")

// 从配置加载32字节主密钥
func masterKey() (*[32]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(config.GlobalConfig.Vault.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("invalid master key encoding: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("invalid master key length: expected 32 bytes, got %d bytes", len(raw))
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

// Encrypt 使用 secretbox 加密明文，随机nonce置于密文之前，返回base64编码结果
func Encrypt(plaintext string) (string, error) {
	key, err := masterKey()
	if err != nil {
		return "", err
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt 解密 Encrypt 的输出。对于任意明文 x，Decrypt(Encrypt(x)) == x。
func Decrypt(ciphertext string) (string, error) {
	key, err := masterKey()
	if err != nil {
		return "", err
	}

	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext encoding: %w", err)
	}
	if len(sealed) < nonceSize {
		return "", ErrDecryptFailed
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}
