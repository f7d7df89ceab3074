package models

import (
	"testing"
)

func TestLoyaltyAwardAccumulates(t *testing.T) {
	var record LoyaltyRecord
	record.Award(20, 12.5, 1.9)
	record.Award(10, 7.5, 0.6)

	if record.Points != 30 {
		t.Errorf("expected 30 points, got %d", record.Points)
	}
	if record.TotalDistanceKm != 20 {
		t.Errorf("expected 20 km, got %v", record.TotalDistanceKm)
	}
	if record.TotalEmissionsSaved != 2.5 {
		t.Errorf("expected 2.5 kg saved, got %v", record.TotalEmissionsSaved)
	}
}

func TestLoyaltyDeductNeverNegative(t *testing.T) {
	record := LoyaltyRecord{Points: 15}

	if err := record.Deduct(10); err != nil {
		t.Fatalf("deduct within balance: %v", err)
	}
	if record.Points != 5 {
		t.Errorf("expected 5 points left, got %d", record.Points)
	}

	if err := record.Deduct(6); err != ErrInsufficientPoints {
		t.Errorf("expected ErrInsufficientPoints, got %v", err)
	}
	if record.Points != 5 {
		t.Errorf("balance must be untouched on a rejected deduction, got %d", record.Points)
	}

	if err := record.Deduct(-1); err == nil {
		t.Error("negative deduction must be rejected")
	}
}
