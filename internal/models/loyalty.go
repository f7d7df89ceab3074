package models

import (
	"errors"

	"gorm.io/gorm"
)

var ErrInsufficientPoints = errors.New("insufficient loyalty points")

// LoyaltyRecord keeps per-user running totals. Totals only grow;
// the single exception is an explicit point deduction on redemption.
type LoyaltyRecord struct {
	gorm.Model
	UserID              uint    `json:"userId" gorm:"not null;uniqueIndex"`
	Points              int     `json:"points" gorm:"not null;default:0"`
	TotalDistanceKm     float64 `json:"totalDistanceKm" gorm:"not null;default:0"`
	TotalEmissionsSaved float64 `json:"totalEmissionsSaved" gorm:"not null;default:0"`
}

// Award adds points and trip totals to the record.
func (l *LoyaltyRecord) Award(points int, distanceKm, emissionsSavedKg float64) {
	l.Points += points
	l.TotalDistanceKm += distanceKm
	l.TotalEmissionsSaved += emissionsSavedKg
}

// Deduct removes points for a redemption. The balance never goes negative.
func (l *LoyaltyRecord) Deduct(points int) error {
	if points < 0 {
		return errors.New("deduction must be non-negative")
	}
	if l.Points-points < 0 {
		return ErrInsufficientPoints
	}
	l.Points -= points
	return nil
}
