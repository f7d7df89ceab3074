package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"

	"gorm.io/gorm"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
	"github.com/magic-peach/greenmobility-sub000/internal/services"
)

// Sentinel errors carried out of handler transactions so the HTTP layer
// can name the invariant that blocked the operation.
var (
	errNotFound    = errors.New("record not found")
	errNotDriver   = errors.New("caller is not the ride's driver")
	errWrongStatus = errors.New("operation not allowed in current status")
	errCapacity    = errors.New("capacity reached")
	errUnverified  = errors.New("unverified accepted passengers remain")
)

func parseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// notifyRideParticipants fans a ride status change out to the driver and
// every capacity-holding passenger, and mirrors it into the redis cache
// and pub/sub channel. Best effort all the way down.
func notifyRideParticipants(db *gorm.DB, hub *services.Hub, ride *models.Ride) {
	update := services.RideLifecycleUpdate{
		RideID: ride.ID,
		Status: string(ride.Status),
	}

	hub.SendRideLifecycleUpdate(ride.DriverID, update)

	var memberships []models.RideMembership
	if err := db.Where("ride_id = ? AND status IN ?", ride.ID,
		[]models.MembershipStatus{models.MembershipStatusAccepted, models.MembershipStatusCompleted}).
		Find(&memberships).Error; err != nil {
		log.Printf("Failed to load memberships for ride %d notifications: %v", ride.ID, err)
		return
	}

	for i := range memberships {
		hub.SendRideLifecycleUpdate(memberships[i].PassengerID, update)
	}

	ctx := context.Background()
	if err := services.CacheRideStatus(ctx, ride.ID, string(ride.Status)); err != nil {
		log.Printf("Failed to cache ride %d status: %v", ride.ID, err)
	}
	if err := services.PublishRideUpdate(ctx, ride.ID, string(ride.Status), nil); err != nil {
		log.Printf("Failed to publish ride %d update: %v", ride.ID, err)
	}
}
