package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
	"github.com/magic-peach/greenmobility-sub000/internal/services"
)

// GetLoyalty returns the caller's accumulated points and trip totals.
// A user who never completed a ride gets a zero record, not a 404.
func GetLoyalty(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var record models.LoyaltyRecord
		if err := db.Where("user_id = ?", userId).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(200, gin.H{
					"userId":              userId,
					"points":              0,
					"totalDistanceKm":     0,
					"totalEmissionsSaved": 0,
				})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to fetch loyalty record"})
			return
		}

		go func() {
			ctx := context.Background()
			if err := services.CacheLoyaltyBalance(ctx, userId, record.Points); err != nil {
				log.Printf("Failed to cache loyalty balance: %v", err)
			}
		}()

		c.JSON(200, gin.H{
			"userId":              record.UserID,
			"points":              record.Points,
			"totalDistanceKm":     record.TotalDistanceKm,
			"totalEmissionsSaved": record.TotalEmissionsSaved,
		})
	}
}

// RedeemPoints deducts points from the caller's balance. The balance
// never goes negative; an over-ask is rejected outright.
func RedeemPoints(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Points int `json:"points" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			var record models.LoyaltyRecord
			if err := tx.Where("user_id = ?", userId).First(&record).Error; err != nil {
				return err
			}
			if err := record.Deduct(input.Points); err != nil {
				return err
			}
			return tx.Save(&record).Error
		})

		switch {
		case err == nil:
		case errors.Is(err, models.ErrInsufficientPoints):
			c.JSON(400, gin.H{"error": "Insufficient points"})
			return
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(400, gin.H{"error": "Insufficient points"})
			return
		default:
			c.JSON(500, gin.H{"error": "Failed to redeem points"})
			return
		}

		c.JSON(200, gin.H{"message": "Points redeemed", "deducted": input.Points})
	}
}
