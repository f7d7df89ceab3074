package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
	"github.com/magic-peach/greenmobility-sub000/internal/services"
	"github.com/magic-peach/greenmobility-sub000/pkg/utils"
)

// StartRide moves an upcoming ride to ongoing. Every accepted passenger
// must have verified their pickup code first; a ride with no accepted
// passengers starts unconditionally. The per-ride lock and the row lock
// keep an accept from slipping an unverified member in between the
// verification count and the status flip, and the status is written as a
// single column so a concurrent seat decrement is never clobbered.
func StartRide(db *gorm.DB, hub *services.Hub, locks *services.RideLocks) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("rideId")
		userId := c.GetUint("userId")

		locks.Lock(parseID(rideID))
		defer locks.Unlock(parseID(rideID))

		var ride models.Ride
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&ride, rideID).Error; err != nil {
				return errNotFound
			}
			if ride.DriverID != userId {
				return errNotDriver
			}
			if ride.Status != models.RideStatusUpcoming {
				return errWrongStatus
			}

			var unverified int64
			if err := tx.Model(&models.RideMembership{}).
				Where("ride_id = ? AND status = ? AND verified = ?",
					ride.ID, models.MembershipStatusAccepted, false).
				Count(&unverified).Error; err != nil {
				return err
			}
			if unverified > 0 {
				return errUnverified
			}

			ride.Status = models.RideStatusOngoing
			return tx.Model(&ride).Update("status", ride.Status).Error
		})

		switch err {
		case nil:
		case errNotFound:
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		case errNotDriver:
			c.JSON(403, gin.H{"error": "Only the ride's driver can start it"})
			return
		case errWrongStatus:
			c.JSON(400, gin.H{"error": "Only upcoming rides can be started"})
			return
		case errUnverified:
			c.JSON(400, gin.H{"error": "Verification required for all accepted passengers"})
			return
		default:
			c.JSON(500, gin.H{"error": "Failed to start ride"})
			return
		}

		go notifyRideParticipants(db, hub, &ride)

		c.JSON(200, gin.H{"message": "Ride started", "status": ride.Status})
	}
}

// CompleteRide settles the trip's accounting: distance and duration from
// the oracle (great-circle fallback, never a failure), emitted and saved
// CO2, and each accepted passenger's fare share. Accepted memberships move
// to completed; their payment status becomes split_pending unless the
// passenger already paid, which is kept as-is since payment never moves
// backwards. Loyalty points are NOT credited here; that waits for
// settlement once everyone has paid.
//
// Completion is allowed straight from upcoming as well, covering drivers
// who never pressed start. The verification gate applies only to start.
func CompleteRide(db *gorm.DB, hub *services.Hub, locks *services.RideLocks) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("rideId")
		userId := c.GetUint("userId")

		// Held across the oracle calls so the membership set cannot grow
		// between the fare computation and the commit.
		locks.Lock(parseID(rideID))
		defer locks.Unlock(parseID(rideID))

		var ride models.Ride
		if err := db.First(&ride, rideID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}
		if ride.DriverID != userId {
			c.JSON(403, gin.H{"error": "Only the ride's driver can complete it"})
			return
		}
		if !ride.Status.CanTransitionTo(models.RideStatusCompleted) {
			c.JSON(400, gin.H{"error": "Ride cannot be completed from its current status"})
			return
		}

		var memberships []models.RideMembership
		if err := db.Where("ride_id = ? AND status = ?", ride.ID, models.MembershipStatusAccepted).
			Find(&memberships).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to load passengers"})
			return
		}

		// Oracle calls happen before the transaction; no row lock is held
		// across them.
		ctx := c.Request.Context()
		distanceKm, durationSec := services.DistanceAndDuration(ctx,
			ride.OriginLat, ride.OriginLng, ride.DestLat, ride.DestLng)

		subDistances := make([]float64, len(memberships))
		for i := range memberships {
			m := &memberships[i]
			subDistances[i], _ = services.DistanceAndDuration(ctx,
				m.PickupLat, m.PickupLng, m.DropLat, m.DropLng)
		}

		emitted := utils.EmittedCO2(ride.VehicleCategory, distanceKm)
		saved := utils.SavedCO2(ride.VehicleCategory, distanceKm, len(memberships))

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&ride, ride.ID).Error; err != nil {
				return err
			}
			if !ride.Status.CanTransitionTo(models.RideStatusCompleted) {
				return errWrongStatus
			}

			for i := range memberships {
				m := &memberships[i]
				m.SubDistanceKm = subDistances[i]
				m.FareShare = utils.FareShare(m.SubDistanceKm, distanceKm, ride.EstimatedFare)
				m.Status = models.MembershipStatusCompleted
				m.PaymentStatus = m.PaymentStatus.OnCompletion()
				if err := tx.Model(m).Updates(map[string]interface{}{
					"sub_distance_km": m.SubDistanceKm,
					"fare_share":      m.FareShare,
					"status":          m.Status,
					"payment_status":  m.PaymentStatus,
				}).Error; err != nil {
					return err
				}
			}

			ride.DistanceKm = distanceKm
			ride.DurationSec = durationSec
			ride.EmissionsKg = emitted
			ride.EmissionsSavedKg = saved
			ride.Status = models.RideStatusCompleted
			return tx.Model(&ride).Updates(map[string]interface{}{
				"distance_km":        ride.DistanceKm,
				"duration_sec":       ride.DurationSec,
				"emissions_kg":       ride.EmissionsKg,
				"emissions_saved_kg": ride.EmissionsSavedKg,
				"status":             ride.Status,
			}).Error
		})
		if err == errWrongStatus {
			c.JSON(409, gin.H{"error": "Ride status changed, try again"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to complete ride"})
			return
		}

		go notifyRideParticipants(db, hub, &ride)

		c.JSON(200, gin.H{
			"message":          "Trip completed",
			"status":           ride.Status,
			"distanceKm":       ride.DistanceKm,
			"durationSec":      ride.DurationSec,
			"emissionsKg":      ride.EmissionsKg,
			"emissionsSavedKg": ride.EmissionsSavedKg,
			"passengers":       len(memberships),
		})
	}
}

// CloseRide is the administrative terminal marker, typically invoked by
// the driver once every payment is confirmed.
func CloseRide(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("rideId")
		userId := c.GetUint("userId")

		var ride models.Ride
		if err := db.First(&ride, rideID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}
		if ride.DriverID != userId {
			c.JSON(403, gin.H{"error": "Only the ride's driver can close it"})
			return
		}
		if !ride.Status.CanTransitionTo(models.RideStatusClosed) {
			c.JSON(400, gin.H{"error": "Only completed rides can be closed"})
			return
		}

		res := db.Model(&models.Ride{}).
			Where("id = ? AND status = ?", ride.ID, models.RideStatusCompleted).
			Update("status", models.RideStatusClosed)
		if res.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to close ride"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(409, gin.H{"error": "Ride status changed, try again"})
			return
		}
		ride.Status = models.RideStatusClosed

		go func() {
			ctx := context.Background()
			_ = services.CacheRideStatus(ctx, ride.ID, string(ride.Status))
		}()

		c.JSON(200, gin.H{"message": "Ride closed", "status": ride.Status})
	}
}

// GetRideStatus serves the cached status when redis has it, falling back
// to the database.
func GetRideStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("rideId")

		ctx := c.Request.Context()
		if status, err := services.GetCachedRideStatus(ctx, parseID(rideID)); err == nil {
			c.JSON(200, gin.H{"rideId": parseID(rideID), "status": status, "cached": true})
			return
		}

		var ride models.Ride
		if err := db.First(&ride, rideID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}

		c.JSON(200, gin.H{"rideId": ride.ID, "status": ride.Status, "cached": false})
	}
}
