package database

import (
	"gorm.io/gorm"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Ride{},
		&models.RideMembership{},
		&models.LoyaltyRecord{},
	)
	if err != nil {
		return err
	}

	// Status columns are closed sets; back them with check constraints so
	// nothing outside the transition tables can be written directly.
	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('passenger', 'driver'))`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Ride{}) {
		db.Exec(`ALTER TABLE rides DROP CONSTRAINT IF EXISTS rides_status_check`)
		if err := db.Exec(`ALTER TABLE rides ADD CONSTRAINT rides_status_check CHECK (status IN ('upcoming', 'ongoing', 'completed', 'closed', 'cancelled'))`).Error; err != nil {
			return err
		}

		// The driver occupies one seat, always.
		db.Exec(`ALTER TABLE rides DROP CONSTRAINT IF EXISTS rides_seating_check`)
		if err := db.Exec(`ALTER TABLE rides ADD CONSTRAINT rides_seating_check CHECK (max_passengers >= 1 AND max_passengers <= total_seats - 1 AND available_seats >= 0)`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.RideMembership{}) {
		db.Exec(`ALTER TABLE ride_memberships DROP CONSTRAINT IF EXISTS ride_memberships_status_check`)
		if err := db.Exec(`ALTER TABLE ride_memberships ADD CONSTRAINT ride_memberships_status_check CHECK (status IN ('requested', 'accepted', 'rejected', 'completed'))`).Error; err != nil {
			return err
		}

		db.Exec(`ALTER TABLE ride_memberships DROP CONSTRAINT IF EXISTS ride_memberships_payment_check`)
		if err := db.Exec(`ALTER TABLE ride_memberships ADD CONSTRAINT ride_memberships_payment_check CHECK (payment_status IN ('pending', 'split_pending', 'paid', 'paid_full', 'confirmed'))`).Error; err != nil {
			return err
		}

		// One membership per passenger per ride
		if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_ride_passenger ON ride_memberships (ride_id, passenger_id) WHERE deleted_at IS NULL`).Error; err != nil {
			return err
		}
	}

	return nil
}
