package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
	"github.com/magic-peach/greenmobility-sub000/internal/observability"
	"github.com/magic-peach/greenmobility-sub000/internal/services"
	"github.com/magic-peach/greenmobility-sub000/pkg/utils"
)

// JoinRide creates a membership request against an upcoming ride.
func JoinRide(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("rideId")
		userId := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypePassenger) {
			c.JSON(403, gin.H{"error": "Only passengers can join rides"})
			return
		}

		var input struct {
			PickupName string  `json:"pickupName" binding:"required"`
			PickupLat  float64 `json:"pickupLat"`
			PickupLng  float64 `json:"pickupLng"`
			DropName   string  `json:"dropName" binding:"required"`
			DropLat    float64 `json:"dropLat"`
			DropLng    float64 `json:"dropLng"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var ride models.Ride
		if err := db.First(&ride, rideID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}

		if ride.DriverID == userId {
			c.JSON(400, gin.H{"error": "Drivers cannot join their own ride"})
			return
		}
		if ride.Status != models.RideStatusUpcoming {
			c.JSON(400, gin.H{"error": "Ride is not open for requests"})
			return
		}
		if ride.AvailableSeats <= 0 {
			c.JSON(409, gin.H{"error": "Capacity reached"})
			return
		}

		var acceptedCount int64
		if err := db.Model(&models.RideMembership{}).
			Where("ride_id = ? AND status IN ?", ride.ID,
				[]models.MembershipStatus{models.MembershipStatusAccepted, models.MembershipStatusCompleted}).
			Count(&acceptedCount).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to check capacity"})
			return
		}
		if acceptedCount >= int64(ride.MaxPassengers) {
			c.JSON(409, gin.H{"error": "Capacity reached"})
			return
		}

		membership := models.RideMembership{
			RideID:        ride.ID,
			PassengerID:   userId,
			PickupName:    input.PickupName,
			PickupLat:     input.PickupLat,
			PickupLng:     input.PickupLng,
			DropName:      input.DropName,
			DropLat:       input.DropLat,
			DropLng:       input.DropLng,
			Status:        models.MembershipStatusRequested,
			PaymentStatus: models.PaymentStatusPending,
		}

		if !membership.HasValidCoordinates() {
			c.JSON(400, gin.H{"error": "Invalid pickup or drop coordinates"})
			return
		}

		if err := db.Create(&membership).Error; err != nil {
			c.JSON(409, gin.H{"error": "You have already requested this ride"})
			return
		}

		hub.SendMembershipUpdate(ride.DriverID, "membership_requested", services.MembershipUpdate{
			RideID:       ride.ID,
			MembershipID: membership.ID,
			PassengerID:  userId,
			Status:       string(membership.Status),
		})

		c.JSON(201, membership)
	}
}

// AcceptMember accepts a join request. The capacity bound is re-checked
// here, not just at join time, because several requests can race for the
// last slot: the per-ride lock plus the row lock make the check and the
// seat decrement one unit, so at most one racer wins. Acceptance issues
// the pickup verification code.
func AcceptMember(db *gorm.DB, hub *services.Hub, locks *services.RideLocks) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("rideId")
		memberID := c.Param("memberId")
		userId := c.GetUint("userId")

		locks.Lock(parseID(rideID))
		defer locks.Unlock(parseID(rideID))

		var membership models.RideMembership
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

			if err := tx.Where("id = ? AND ride_id = ?", memberID, ride.ID).
				First(&membership).Error; err != nil {
				return errNotFound
			}
			if !membership.Status.CanTransitionTo(models.MembershipStatusAccepted) {
				return errWrongStatus
			}

			// Recount inside the locked transaction. Counting again here is
			// what keeps racing accepts from both passing the bound.
			var acceptedCount int64
			if err := tx.Model(&models.RideMembership{}).
				Where("ride_id = ? AND status IN ?", ride.ID,
					[]models.MembershipStatus{models.MembershipStatusAccepted, models.MembershipStatusCompleted}).
				Count(&acceptedCount).Error; err != nil {
				return err
			}
			if acceptedCount >= int64(ride.MaxPassengers) || ride.AvailableSeats <= 0 {
				return errCapacity
			}

			code, err := utils.GeneratePickupCode()
			if err != nil {
				return err
			}

			membership.Status = models.MembershipStatusAccepted
			membership.VerificationCode = code
			membership.CodeExpiresAt = time.Now().Add(utils.PickupCodeExpiration)
			membership.Verified = false
			if err := tx.Save(&membership).Error; err != nil {
				return err
			}

			ride.AvailableSeats--
			return tx.Save(&ride).Error
		})

		switch err {
		case nil:
		case errNotFound:
			c.JSON(404, gin.H{"error": "Ride or membership not found"})
			return
		case errNotDriver:
			c.JSON(403, gin.H{"error": "Only the ride's driver can accept requests"})
			return
		case errWrongStatus:
			c.JSON(400, gin.H{"error": "Membership cannot be accepted in its current state"})
			return
		case errCapacity:
			observability.AcceptConflicts.Inc()
			c.JSON(409, gin.H{"error": "Capacity reached"})
			return
		default:
			c.JSON(500, gin.H{"error": "Failed to accept request"})
			return
		}

		// Deliver the code to the passenger out-of-band. Delivery failures
		// never roll back the acceptance.
		go deliverPickupCode(db, &ride, &membership)

		hub.SendMembershipUpdate(membership.PassengerID, "membership_accepted", services.MembershipUpdate{
			RideID:       ride.ID,
			MembershipID: membership.ID,
			PassengerID:  membership.PassengerID,
			Status:       string(membership.Status),
		})

		c.JSON(200, gin.H{
			"message":        "Request accepted",
			"membershipId":   membership.ID,
			"availableSeats": ride.AvailableSeats,
		})
	}
}

// RejectMember rejects a join request. The seat count is untouched; a
// seat is only ever taken on acceptance.
func RejectMember(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("rideId")
		memberID := c.Param("memberId")
		userId := c.GetUint("userId")

		var ride models.Ride
		if err := db.First(&ride, rideID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}
		if ride.DriverID != userId {
			c.JSON(403, gin.H{"error": "Only the ride's driver can reject requests"})
			return
		}

		var membership models.RideMembership
		if err := db.Where("id = ? AND ride_id = ?", memberID, ride.ID).
			First(&membership).Error; err != nil {
			c.JSON(404, gin.H{"error": "Membership not found"})
			return
		}

		if !membership.Status.CanTransitionTo(models.MembershipStatusRejected) {
			c.JSON(400, gin.H{"error": "Membership cannot be rejected in its current state"})
			return
		}

		res := db.Model(&membership).
			Where("status = ?", models.MembershipStatusRequested).
			Update("status", models.MembershipStatusRejected)
		if res.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to reject request"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(409, gin.H{"error": "Membership status changed, try again"})
			return
		}
		membership.Status = models.MembershipStatusRejected

		hub.SendMembershipUpdate(membership.PassengerID, "membership_rejected", services.MembershipUpdate{
			RideID:       ride.ID,
			MembershipID: membership.ID,
			PassengerID:  membership.PassengerID,
			Status:       string(membership.Status),
		})

		c.JSON(200, gin.H{"message": "Request rejected"})
	}
}

// VerifyPickup checks the code a passenger read out at pickup. An expired
// code fails even when it matches.
func VerifyPickup(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("rideId")
		memberID := c.Param("memberId")
		userId := c.GetUint("userId")

		var input struct {
			Code string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var ride models.Ride
		if err := db.First(&ride, rideID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}
		if ride.DriverID != userId {
			c.JSON(403, gin.H{"error": "Only the ride's driver can verify pickups"})
			return
		}

		var membership models.RideMembership
		if err := db.Where("id = ? AND ride_id = ?", memberID, ride.ID).
			First(&membership).Error; err != nil {
			c.JSON(404, gin.H{"error": "Membership not found"})
			return
		}

		if membership.Status != models.MembershipStatusAccepted {
			c.JSON(400, gin.H{"error": "Only accepted passengers can be verified"})
			return
		}

		if !membership.CodeMatches(input.Code, time.Now()) {
			c.JSON(400, gin.H{"error": "Verification code invalid or expired"})
			return
		}

		membership.Verified = true
		if err := db.Model(&membership).Update("verified", true).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to verify pickup"})
			return
		}

		hub.SendMembershipUpdate(membership.PassengerID, "pickup_verified", services.MembershipUpdate{
			RideID:       ride.ID,
			MembershipID: membership.ID,
			PassengerID:  membership.PassengerID,
			Status:       string(membership.Status),
		})

		c.JSON(200, gin.H{"message": "Pickup verified", "verified": true})
	}
}

// deliverPickupCode pushes the freshly issued code to the passenger over
// every channel we have on file for them.
func deliverPickupCode(db *gorm.DB, ride *models.Ride, membership *models.RideMembership) {
	var passenger models.User
	if err := db.First(&passenger, membership.PassengerID).Error; err != nil {
		log.Printf("Failed to load passenger %d for code delivery: %v", membership.PassengerID, err)
		return
	}

	if passenger.PhoneNumber != "" {
		if err := utils.SendPickupCodeSMS(passenger.PhoneNumber, membership.VerificationCode, ride.Origin); err != nil {
			log.Printf("Failed to send pickup code SMS: %v", err)
		}
	}

	if err := utils.SendPickupCodeEmail(passenger.Email, membership.VerificationCode, ride.Origin, ride.Destination); err != nil {
		log.Printf("Failed to send pickup code email: %v", err)
	}

	ctx := context.Background()
	payload := services.NotificationPayload{
		Title: "Ride request accepted",
		Body:  "Your seat is confirmed. Your pickup code is in your SMS and email.",
		Data: map[string]interface{}{
			"type":   "membership_accepted",
			"rideId": ride.ID,
		},
		ChannelID: "greenmobility_rides",
		Priority:  "high",
	}
	if err := services.SendNotificationToToken(ctx, passenger.FCMToken, payload); err != nil {
		log.Printf("Failed to send acceptance push: %v", err)
	}
}
