package processor

import (
	"context"
	"crypto/aes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)
	ctx := context.Background()

	plaintext := []byte("sensitive payload that must round-trip intact")

	encoded, err := p.EncryptData(ctx, plaintext, "correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)
	assert.NotContains(t, encoded, string(plaintext))

	decrypted, err := p.DecryptData(ctx, encoded, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
	assert.False(t, p.HasErrors())
}

func TestEncryptDataRandomized(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)
	ctx := context.Background()

	first, err := p.EncryptData(ctx, []byte("same input"), "same passphrase")
	require.NoError(t, err)
	second, err := p.EncryptData(ctx, []byte("same input"), "same passphrase")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "fresh salt and IV must vary the envelope")
}

func TestEncryptDataBlockAlignedInput(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)
	ctx := context.Background()

	// Exactly one cipher block, forcing a full padding block.
	plaintext := make([]byte, aes.BlockSize)
	for i := range plaintext {
		plaintext[i] = byte(i)
	}

	encoded, err := p.EncryptData(ctx, plaintext, "pass")
	require.NoError(t, err)

	decrypted, err := p.DecryptData(ctx, encoded, "pass")
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptDataValidation(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)
	ctx := context.Background()

	_, err := p.EncryptData(ctx, nil, "pass")
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = p.EncryptData(ctx, []byte("data"), "")
	assert.ErrorIs(t, err, ErrEmptyPassphrase)
}

func TestDecryptDataWrongPassphrase(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)
	ctx := context.Background()

	encoded, err := p.EncryptData(ctx, []byte("guarded content"), "right passphrase")
	require.NoError(t, err)

	decrypted, err := p.DecryptData(ctx, encoded, "wrong passphrase")
	assert.ErrorIs(t, err, ErrDecryptionFailed)
	assert.Nil(t, decrypted)
	assert.True(t, p.HasErrors())
}

func TestDecryptDataInvalidEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{
			name:    "not base64",
			encoded: "%%% definitely not base64 %%%",
			wantErr: ErrInvalidCiphertext,
		},
		{
			name:    "too short",
			encoded: base64.StdEncoding.EncodeToString([]byte("short")),
			wantErr: ErrInvalidCiphertext,
		},
		{
			name:    "misaligned ciphertext",
			encoded: base64.StdEncoding.EncodeToString(make([]byte, 16+16+17)),
			wantErr: ErrInvalidCiphertext,
		},
		{
			name:    "empty input",
			encoded: "",
			wantErr: ErrEmptyData,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestProcessor(t)

			decrypted, err := p.DecryptData(context.Background(), tc.encoded, "pass")
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, decrypted)
		})
	}
}

func TestGenerateHash(t *testing.T) {
	t.Parallel()

	p, _ := newTestProcessor(t)
	ctx := context.Background()

	digest, err := p.GenerateHash(ctx, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", digest)

	_, err = p.GenerateHash(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestPKCS7Padding(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		for _, size := range []int{1, 15, 16, 17, 31, 32, 100} {
			data := make([]byte, size)
			for i := range data {
				data[i] = byte(i % 251)
			}

			padded := pkcs7Pad(data, aes.BlockSize)
			assert.Zero(t, len(padded)%aes.BlockSize, "padded length must be block-aligned for size %d", size)

			unpadded, err := pkcs7Unpad(padded, aes.BlockSize)
			require.NoError(t, err)
			assert.Equal(t, data, unpadded, "round trip failed for size %d", size)
		}
	})

	t.Run("invalid padding rejected", func(t *testing.T) {
		tests := []struct {
			name string
			data []byte
		}{
			{name: "empty", data: []byte{}},
			{name: "misaligned", data: make([]byte, 15)},
			{name: "zero padding byte", data: append(make([]byte, 15), 0)},
			{name: "padding too long", data: append(make([]byte, 15), 17)},
			{name: "inconsistent bytes", data: append(make([]byte, 14), 1, 2)},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := pkcs7Unpad(tc.data, aes.BlockSize)
				assert.Error(t, err)
			})
		}
	})
}
