package services

import (
	"crypto/sha256"
	"fmt"
)

// ComputeHash fingerprints a request for idempotency checks.
func ComputeHash(v any) string {
	data := fmt.Sprintf("%+v", v)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
