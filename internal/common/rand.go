package common

import (
	"crypto/rand"

	"github.com/google/uuid"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRandByteArray returns size cryptographically random bytes.
// It panics if the system random source fails.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites b with zeros. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NewID returns an identifier of IDLength characters: the prefix followed by
// random alphanumerics drawn from two v4 UUIDs.
func NewID(prefix string) string {
	n := IDLength - len(prefix)
	if n <= 0 {
		return prefix
	}
	src := make([]byte, 0, 32)
	for len(src) < n {
		u := uuid.New()
		src = append(src, u[:]...)
	}
	out := make([]byte, 0, IDLength)
	out = append(out, prefix...)
	for i := 0; i < n; i++ {
		out = append(out, idAlphabet[int(src[i])%len(idAlphabet)])
	}
	return string(out)
}
