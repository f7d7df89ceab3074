package matcher

import (
	"time"

	"gorm.io/gorm"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
)

// GormSource reads open rides from the relational store.
type GormSource struct {
	DB *gorm.DB
}

func (s *GormSource) OpenRides(from, to time.Time) ([]models.Ride, error) {
	var rides []models.Ride
	err := s.DB.Preload("Driver").
		Where("status = ? AND available_seats > 0 AND departure_time BETWEEN ? AND ?",
			models.RideStatusUpcoming, from, to).
		Find(&rides).Error
	return rides, err
}
