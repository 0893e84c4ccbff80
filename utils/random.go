package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewTicketID returns a fresh opaque ticket identifier.
func NewTicketID() string {
	return uuid.NewString()
}

// NewTransactionID returns an identifier in the shape the mock payment
// provider settles with.
func NewTransactionID() string {
	return fmt.Sprintf("tx-%s", uuid.NewString())
}

// GenerateCode returns an uppercase hex reference code of n random bytes.
func GenerateCode(n int) (string, error) {
	byt := make([]byte, n)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(byt)), nil
}
