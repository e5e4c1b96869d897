package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

func Hash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

func RandomID() string {
	return Hash(uuid.NewString())
}

// ShortID returns the first n characters of a fresh random id. Used for
// generated slugs and edit passwords.
func ShortID(n int) string {
	id := RandomID()
	if n > len(id) {
		n = len(id)
	}
	return id[:n]
}

func EpochMilli() int64 {
	return time.Now().UnixMilli()
}
