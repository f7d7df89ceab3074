package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// PickupCodeExpiration is how long an issued pickup code stays valid.
	PickupCodeExpiration = 10 * time.Minute

	pickupCodeDigits = 6
)

// GeneratePickupCode returns a fixed-length numeric code the driver uses
// to confirm a passenger's identity at pickup. Re-issuing a code for the
// same membership simply overwrites the previous one.
func GeneratePickupCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < pickupCodeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate pickup code: %v", err)
	}

	return fmt.Sprintf("%0*d", pickupCodeDigits, n), nil
}
