package processor

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/acrelle/dataproc/internal/domain"
)

// Common errors returned by the crypto operations
var (
	// ErrEmptyData is returned when an operation is given nothing to work on.
	ErrEmptyData = errors.New("data cannot be empty")

	// ErrEmptyPassphrase is returned when no passphrase is provided.
	ErrEmptyPassphrase = errors.New("passphrase cannot be empty")

	// ErrInvalidCiphertext is returned when an encrypted envelope is
	// structurally invalid.
	ErrInvalidCiphertext = errors.New("invalid ciphertext envelope")

	// ErrDecryptionFailed is returned when an envelope decrypts to garbage,
	// typically because the passphrase is wrong.
	ErrDecryptionFailed = errors.New("decryption failed")
)

const (
	// saltSize is the length of the random PBKDF2 salt carried in the
	// envelope.
	saltSize = 16

	// keySize selects AES-256.
	keySize = 32
)

// EncryptData encrypts data with AES-256-CBC and PKCS#7 padding. The key is
// derived from the passphrase with PBKDF2-SHA256 using a random salt; the
// salt and IV are carried with the ciphertext in the returned base64
// envelope (salt || IV || ciphertext).
func (p *Processor) EncryptData(ctx context.Context, data []byte, passphrase string) (string, error) {
	if len(data) == 0 {
		p.recordFailure(ctx, domain.OperationEncryption, ErrEmptyData)
		return "", ErrEmptyData
	}
	if passphrase == "" {
		p.recordFailure(ctx, domain.OperationEncryption, ErrEmptyPassphrase)
		return "", ErrEmptyPassphrase
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		wrapped := NewProcessorError("encrypt_data", "failed to generate salt", err)
		p.recordFailure(ctx, domain.OperationEncryption, wrapped)
		return "", wrapped
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		wrapped := NewProcessorError("encrypt_data", "failed to generate IV", err)
		p.recordFailure(ctx, domain.OperationEncryption, wrapped)
		return "", wrapped
	}

	block, err := aes.NewCipher(p.deriveKey(passphrase, salt))
	if err != nil {
		wrapped := NewProcessorError("encrypt_data", "failed to initialize cipher", err)
		p.recordFailure(ctx, domain.OperationEncryption, wrapped)
		return "", wrapped
	}

	plaintext := pkcs7Pad(data, aes.BlockSize)
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)

	envelope := make([]byte, 0, saltSize+aes.BlockSize+len(ciphertext))
	envelope = append(envelope, salt...)
	envelope = append(envelope, iv...)
	envelope = append(envelope, ciphertext...)
	encoded := base64.StdEncoding.EncodeToString(envelope)

	p.logger.Info("encrypted data",
		"plaintext_bytes", len(data),
		"envelope_bytes", len(encoded))
	p.recordSuccess(ctx, domain.OperationEncryption,
		fmt.Sprintf("encrypted %d bytes", len(data)))

	return encoded, nil
}

// DecryptData reverses EncryptData: it decodes the base64 envelope, derives
// the key from the passphrase and the embedded salt, and strips the PKCS#7
// padding. A structurally invalid envelope returns ErrInvalidCiphertext; a
// wrong passphrase surfaces as ErrDecryptionFailed.
func (p *Processor) DecryptData(ctx context.Context, encoded string, passphrase string) ([]byte, error) {
	if encoded == "" {
		p.recordFailure(ctx, domain.OperationEncryption, ErrEmptyData)
		return nil, ErrEmptyData
	}
	if passphrase == "" {
		p.recordFailure(ctx, domain.OperationEncryption, ErrEmptyPassphrase)
		return nil, ErrEmptyPassphrase
	}

	envelope, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
		p.recordFailure(ctx, domain.OperationEncryption, wrapped)
		return nil, wrapped
	}

	// The envelope must hold the salt, the IV and at least one cipher block.
	if len(envelope) < saltSize+2*aes.BlockSize {
		wrapped := fmt.Errorf("%w: envelope too short", ErrInvalidCiphertext)
		p.recordFailure(ctx, domain.OperationEncryption, wrapped)
		return nil, wrapped
	}

	salt := envelope[:saltSize]
	iv := envelope[saltSize : saltSize+aes.BlockSize]
	ciphertext := envelope[saltSize+aes.BlockSize:]

	if len(ciphertext)%aes.BlockSize != 0 {
		wrapped := fmt.Errorf("%w: ciphertext is not block-aligned", ErrInvalidCiphertext)
		p.recordFailure(ctx, domain.OperationEncryption, wrapped)
		return nil, wrapped
	}

	block, err := aes.NewCipher(p.deriveKey(passphrase, salt))
	if err != nil {
		wrapped := NewProcessorError("decrypt_data", "failed to initialize cipher", err)
		p.recordFailure(ctx, domain.OperationEncryption, wrapped)
		return nil, wrapped
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		p.logger.Error("failed to strip padding, passphrase is likely wrong")
		wrapped := fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
		p.recordFailure(ctx, domain.OperationEncryption, wrapped)
		return nil, wrapped
	}

	p.logger.Info("decrypted data", "plaintext_bytes", len(unpadded))
	p.recordSuccess(ctx, domain.OperationEncryption,
		fmt.Sprintf("decrypted %d bytes", len(unpadded)))

	return unpadded, nil
}

// GenerateHash returns the SHA-256 digest of data as a lowercase hex string.
func (p *Processor) GenerateHash(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		p.recordFailure(ctx, domain.OperationHashing, ErrEmptyData)
		return "", ErrEmptyData
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	p.logger.Info("generated digest",
		"input_bytes", len(data),
		"digest", digest)
	p.recordSuccess(ctx, domain.OperationHashing,
		fmt.Sprintf("hashed %d bytes", len(data)))

	return digest, nil
}

// deriveKey stretches a passphrase into an AES-256 key with PBKDF2-SHA256.
func (p *Processor) deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, p.keyIterations, keySize, sha256.New)
}

// pkcs7Pad pads a copy of data to a whole number of blocks. A full padding
// block is added when the input is already aligned.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs7Unpad strips the padding added by pkcs7Pad, validating every padding
// byte.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("padded data is not block-aligned")
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, errors.New("invalid padding length")
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, errors.New("inconsistent padding bytes")
		}
	}

	return data[:len(data)-padLen], nil
}
