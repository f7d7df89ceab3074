package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/magic-peach/greenmobility-sub000/internal/matcher"
	"github.com/magic-peach/greenmobility-sub000/internal/models"
	"github.com/magic-peach/greenmobility-sub000/internal/observability"
	"github.com/magic-peach/greenmobility-sub000/internal/services"
)

// CreateRide handles the creation of a new ride by a driver
func CreateRide(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers can create rides"})
			return
		}

		var driver models.User
		if err := db.First(&driver, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		if !driver.CanOfferRides() {
			c.JSON(403, gin.H{"error": "Driver verification not approved"})
			return
		}

		var input struct {
			Origin          string    `json:"origin" binding:"required"`
			Destination     string    `json:"destination" binding:"required"`
			OriginLat       float64   `json:"originLat"`
			OriginLng       float64   `json:"originLng"`
			DestLat         float64   `json:"destLat"`
			DestLng         float64   `json:"destLng"`
			DepartureTime   time.Time `json:"departureTime" binding:"required"`
			VehicleCategory string    `json:"vehicleCategory"`
			TotalSeats      int       `json:"totalSeats" binding:"required"`
			MaxPassengers   int       `json:"maxPassengers" binding:"required"`
			EstimatedFare   float64   `json:"estimatedFare" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		// Check if the scheduled time is in the future
		if input.DepartureTime.Before(time.Now()) {
			c.JSON(400, gin.H{"error": "Departure time must be in the future"})
			return
		}

		category := input.VehicleCategory
		if category == "" {
			category = driver.VehicleCategory
		}

		ride := models.Ride{
			DriverID:        userId,
			Origin:          input.Origin,
			Destination:     input.Destination,
			OriginLat:       input.OriginLat,
			OriginLng:       input.OriginLng,
			DestLat:         input.DestLat,
			DestLng:         input.DestLng,
			DepartureTime:   input.DepartureTime,
			VehicleCategory: category,
			TotalSeats:      input.TotalSeats,
			MaxPassengers:   input.MaxPassengers,
			AvailableSeats:  input.TotalSeats - 1, // driver takes one seat
			EstimatedFare:   input.EstimatedFare,
			Status:          models.RideStatusUpcoming,
		}

		if err := ride.ValidateSeating(); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		// A zero latitude or longitude on its own is a real place; only
		// (0,0) and out of range values are rejected.
		if !ride.HasValidCoordinates() {
			c.JSON(400, gin.H{"error": "Invalid ride coordinates"})
			return
		}

		if err := db.Create(&ride).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create ride"})
			return
		}

		observability.RidesCreated.Inc()

		// Cache is advisory; a miss falls through to the database.
		go func() {
			_ = services.CacheRideStatus(context.Background(), ride.ID, string(ride.Status))
		}()

		c.JSON(201, ride)
	}
}

// SearchRides finds open rides near the searcher's origin and destination
// inside a departure window, ranked by combined endpoint distance.
func SearchRides(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := matcher.Query{}

		var err error
		if q.OriginLat, err = strconv.ParseFloat(c.Query("originLat"), 64); err != nil {
			c.JSON(400, gin.H{"error": "originLat is required"})
			return
		}
		if q.OriginLng, err = strconv.ParseFloat(c.Query("originLng"), 64); err != nil {
			c.JSON(400, gin.H{"error": "originLng is required"})
			return
		}
		if q.DestLat, err = strconv.ParseFloat(c.Query("destLat"), 64); err != nil {
			c.JSON(400, gin.H{"error": "destLat is required"})
			return
		}
		if q.DestLng, err = strconv.ParseFloat(c.Query("destLng"), 64); err != nil {
			c.JSON(400, gin.H{"error": "destLng is required"})
			return
		}

		if radius := c.Query("radius"); radius != "" {
			if q.RadiusKm, err = strconv.ParseFloat(radius, 64); err != nil {
				c.JSON(400, gin.H{"error": "Invalid radius"})
				return
			}
		}
		if window := c.Query("windowHours"); window != "" {
			hours, err := strconv.ParseFloat(window, 64)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid windowHours"})
				return
			}
			q.Window = time.Duration(hours * float64(time.Hour))
		}

		svc := matcher.Service{Source: &matcher.GormSource{DB: db}}
		matches, err := svc.Search(q)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to search rides"})
			return
		}

		observability.SearchesTotal.Inc()

		// An empty list is a normal answer, not an error.
		c.JSON(200, gin.H{"matches": matches, "count": len(matches)})
	}
}

// GetRide retrieves one ride with its driver and memberships.
func GetRide(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("rideId")

		var ride models.Ride
		if err := db.Preload("Driver").First(&ride, rideID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}

		var memberships []models.RideMembership
		if err := db.Preload("Passenger").
			Where("ride_id = ?", ride.ID).
			Find(&memberships).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch memberships"})
			return
		}

		c.JSON(200, gin.H{"ride": ride, "memberships": memberships})
	}
}

// GetDriverRides retrieves all rides created by the calling driver
func GetDriverRides(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var rides []models.Ride
		if err := db.Where("driver_id = ?", userId).
			Order("departure_time DESC").
			Find(&rides).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch driver rides"})
			return
		}

		c.JSON(200, rides)
	}
}

// GetPassengerTripHistory retrieves the calling passenger's memberships
// with their rides.
func GetPassengerTripHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var memberships []models.RideMembership
		if err := db.Where("passenger_id = ?", userId).
			Preload("Ride").
			Preload("Ride.Driver").
			Order("created_at DESC").
			Find(&memberships).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch trip history"})
			return
		}

		c.JSON(200, memberships)
	}
}

// CancelRide terminates an upcoming ride before departure.
func CancelRide(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		rideID := c.Param("rideId")
		userId := c.GetUint("userId")

		var ride models.Ride
		if err := db.First(&ride, rideID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Ride not found"})
			return
		}

		if ride.DriverID != userId {
			c.JSON(403, gin.H{"error": "Only the ride's driver can cancel it"})
			return
		}

		if !ride.Status.CanTransitionTo(models.RideStatusCancelled) {
			c.JSON(400, gin.H{"error": "Only upcoming rides can be cancelled"})
			return
		}

		// Single-column conditional write: a concurrent accept's seat
		// decrement must survive the cancellation.
		res := db.Model(&models.Ride{}).
			Where("id = ? AND status = ?", ride.ID, models.RideStatusUpcoming).
			Update("status", models.RideStatusCancelled)
		if res.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to cancel ride"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(409, gin.H{"error": "Ride status changed, try again"})
			return
		}
		ride.Status = models.RideStatusCancelled

		notifyRideParticipants(db, hub, &ride)

		c.JSON(200, gin.H{"message": "Ride cancelled", "status": ride.Status})
	}
}
