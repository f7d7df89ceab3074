package utils

import (
	"testing"
)

func TestGeneratePickupCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GeneratePickupCode()
		if err != nil {
			t.Fatalf("GeneratePickupCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}
