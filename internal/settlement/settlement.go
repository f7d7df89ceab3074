// Package settlement credits loyalty points once every passenger on a
// completed ride has paid. Attempt is invoked after every payment event;
// it is a no-op until the last payment lands and a no-op forever after
// the one run that credits points.
package settlement

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
	"github.com/magic-peach/greenmobility-sub000/internal/observability"
)

const (
	// DriverBonusPoints is the flat award for the driver of a settled ride.
	DriverBonusPoints = 20
	// PassengerBonusPoints is the flat award for each passenger.
	PassengerBonusPoints = 10
)

// Ineligibility reasons. These are deferred states, not failures: the
// caller reports them and tries again on the next payment event.
var (
	ErrRideNotCompleted    = errors.New("ride is not completed")
	ErrAlreadyAwarded      = errors.New("points already awarded for this ride")
	ErrPaymentsOutstanding = errors.New("not all passengers have paid")
)

// Eligible decides whether a ride's points may be credited now. The
// membership slice must hold every membership that counts against
// capacity (accepted or completed).
func Eligible(ride *models.Ride, memberships []models.RideMembership) error {
	if ride.Status != models.RideStatusCompleted {
		return ErrRideNotCompleted
	}
	if ride.PointsAwarded {
		return ErrAlreadyAwarded
	}
	for i := range memberships {
		if !memberships[i].PaymentStatus.IsSettledByPassenger() {
			return ErrPaymentsOutstanding
		}
	}
	return nil
}

// Result reports what an Attempt did.
type Result struct {
	Settled bool   `json:"settled"`
	Reason  string `json:"reason,omitempty"`
	Driver  uint   `json:"driverId,omitempty"`
	Credits []Credit
}

// Credit is one user's award from a settled ride.
type Credit struct {
	UserID uint `json:"userId"`
	Points int  `json:"points"`
}

// Attempt re-evaluates eligibility and, if every gate holds, credits the
// driver and each passenger exactly once. The eligibility check and the
// points_awarded flip happen inside one transaction with the ride row
// locked, so two concurrent attempts cannot both credit.
func Attempt(db *gorm.DB, rideID uint) (Result, error) {
	var result Result

	err := db.Transaction(func(tx *gorm.DB) error {
		var ride models.Ride
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ride, rideID).Error; err != nil {
			return err
		}

		var memberships []models.RideMembership
		if err := tx.Where("ride_id = ? AND status IN ?", rideID,
			[]models.MembershipStatus{models.MembershipStatusAccepted, models.MembershipStatusCompleted}).
			Find(&memberships).Error; err != nil {
			return err
		}

		if err := Eligible(&ride, memberships); err != nil {
			result = Result{Settled: false, Reason: err.Error()}
			return nil
		}

		if err := credit(tx, ride.DriverID, DriverBonusPoints, &ride); err != nil {
			return err
		}
		result.Credits = append(result.Credits, Credit{UserID: ride.DriverID, Points: DriverBonusPoints})

		for i := range memberships {
			passengerID := memberships[i].PassengerID
			if err := credit(tx, passengerID, PassengerBonusPoints, &ride); err != nil {
				return err
			}
			result.Credits = append(result.Credits, Credit{UserID: passengerID, Points: PassengerBonusPoints})
		}

		// The one-way flag. Set in the same transaction as the credits so
		// a crash cannot leave points applied twice.
		ride.PointsAwarded = true
		if err := tx.Save(&ride).Error; err != nil {
			return err
		}

		result.Settled = true
		result.Driver = ride.DriverID
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if result.Settled {
		observability.SettlementsTotal.Inc()
	}
	return result, nil
}

func credit(tx *gorm.DB, userID uint, points int, ride *models.Ride) error {
	var record models.LoyaltyRecord
	if err := tx.Where(models.LoyaltyRecord{UserID: userID}).
		FirstOrCreate(&record).Error; err != nil {
		return err
	}

	record.Award(points, ride.DistanceKm, ride.EmissionsSavedKg)
	return tx.Save(&record).Error
}
