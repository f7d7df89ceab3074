package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
	"github.com/magic-peach/greenmobility-sub000/internal/services"
	"github.com/magic-peach/greenmobility-sub000/internal/settlement"
)

// MarkPaid lets a passenger self-report payment for their seat, either
// their split share or the full fare. Every payment event re-runs the
// settlement attempt; crediting happens once the last passenger pays.
func MarkPaid(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("rideId")
		userId := c.GetUint("userId")

		var input struct {
			Mode string `json:"mode" binding:"required,oneof=split full"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var membership models.RideMembership
		if err := db.Where("ride_id = ? AND passenger_id = ?", parseID(rideID), userId).
			First(&membership).Error; err != nil {
			c.JSON(404, gin.H{"error": "Membership not found"})
			return
		}

		var ride models.Ride
		if err := db.First(&ride, membership.RideID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}
		if ride.Status == models.RideStatusClosed {
			c.JSON(400, gin.H{"error": "Ride is closed"})
			return
		}

		// Only a passenger holding a seat owes anything.
		if !membership.Status.CountsAgainstCapacity() {
			c.JSON(400, gin.H{"error": "No seat held on this ride"})
			return
		}

		next := models.PaymentStatusPaid
		if input.Mode == "full" {
			next = models.PaymentStatusPaidFull
		}

		if !membership.PaymentStatus.CanAdvanceTo(next) {
			c.JSON(400, gin.H{"error": "Payment status cannot move backwards"})
			return
		}

		membership.PaymentStatus = next
		if err := db.Model(&membership).Update("payment_status", next).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to record payment"})
			return
		}

		result := attemptSettlement(db, hub, membership.RideID)

		c.JSON(200, gin.H{
			"message":       "Payment recorded",
			"paymentStatus": membership.PaymentStatus,
			"settled":       result.Settled,
			"reason":        result.Reason,
		})
	}
}

// ConfirmPayment lets the driver acknowledge a passenger's payment,
// advancing it to confirmed. Also re-runs settlement: confirmation can be
// the event that makes the last unpaid membership count as paid when the
// passenger never self-reported.
func ConfirmPayment(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
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
			c.JSON(403, gin.H{"error": "Only the ride's driver can confirm payments"})
			return
		}

		var membership models.RideMembership
		if err := db.Where("id = ? AND ride_id = ?", memberID, ride.ID).
			First(&membership).Error; err != nil {
			c.JSON(404, gin.H{"error": "Membership not found"})
			return
		}

		if !membership.Status.CountsAgainstCapacity() {
			c.JSON(400, gin.H{"error": "No seat held on this ride"})
			return
		}

		if !membership.PaymentStatus.CanAdvanceTo(models.PaymentStatusConfirmed) {
			c.JSON(400, gin.H{"error": "Payment is already confirmed"})
			return
		}

		membership.PaymentStatus = models.PaymentStatusConfirmed
		if err := db.Model(&membership).Update("payment_status", models.PaymentStatusConfirmed).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to confirm payment"})
			return
		}

		result := attemptSettlement(db, hub, ride.ID)

		c.JSON(200, gin.H{
			"message":       "Payment confirmed",
			"paymentStatus": membership.PaymentStatus,
			"settled":       result.Settled,
			"reason":        result.Reason,
		})
	}
}

// attemptSettlement runs the settlement coordinator and fans out the
// award notifications when points land. Ineligibility is a normal
// deferred outcome, not an error.
func attemptSettlement(db *gorm.DB, hub *services.Hub, rideID uint) settlement.Result {
	result, err := settlement.Attempt(db, rideID)
	if err != nil {
		log.Printf("Settlement attempt for ride %d failed: %v", rideID, err)
		return settlement.Result{Settled: false, Reason: "settlement attempt failed"}
	}

	if result.Settled {
		for _, credit := range result.Credits {
			hub.SendSettlementUpdate(credit.UserID, services.SettlementUpdate{
				RideID: rideID,
				Points: credit.Points,
			})
		}
	}

	return result
}
