package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
	"github.com/magic-peach/greenmobility-sub000/internal/services"
)

// GetProfile retrieves the user's profile
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, gin.H{
			"id":                 user.ID,
			"email":              user.Email,
			"username":           user.Username,
			"phoneNumber":        user.PhoneNumber,
			"userType":           user.UserType,
			"verificationStatus": user.VerificationStatus,
			"vehicleCategory":    user.VehicleCategory,
			"carPlate":           user.CarPlate,
			"carMake":            user.CarMake,
			"carColor":           user.CarColor,
			"documentUrl":        user.DocumentURL,
		})
	}
}

// UpdateProfile updates the user's profile information
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Username        *string `json:"username"`
			PhoneNumber     *string `json:"phoneNumber"`
			VehicleCategory *string `json:"vehicleCategory"`
			CarPlate        *string `json:"carPlate"`
			CarMake         *string `json:"carMake"`
			CarColor        *string `json:"carColor"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		// Update fields individually to handle empty strings properly
		if input.Username != nil {
			user.Username = *input.Username
		}
		if input.PhoneNumber != nil {
			user.PhoneNumber = *input.PhoneNumber
		}
		if input.VehicleCategory != nil {
			user.VehicleCategory = *input.VehicleCategory
		}
		if input.CarPlate != nil {
			user.CarPlate = *input.CarPlate
		}
		if input.CarMake != nil {
			user.CarMake = *input.CarMake
		}
		if input.CarColor != nil {
			user.CarColor = *input.CarColor
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, gin.H{
			"id":                 user.ID,
			"email":              user.Email,
			"username":           user.Username,
			"phoneNumber":        user.PhoneNumber,
			"userType":           user.UserType,
			"verificationStatus": user.VerificationStatus,
			"vehicleCategory":    user.VehicleCategory,
			"carPlate":           user.CarPlate,
			"carMake":            user.CarMake,
			"carColor":           user.CarColor,
		})
	}
}

// UploadVerificationDocument stores a driver's verification document and
// resets their review state to pending.
func UploadVerificationDocument(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeDriver) {
			c.JSON(403, gin.H{"error": "Only drivers submit verification documents"})
			return
		}

		file, err := c.FormFile("document")
		if err != nil {
			c.JSON(400, gin.H{"error": "Document file is required"})
			return
		}

		url, err := services.UploadDocument(file, "documents")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to store document"})
			return
		}

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		user.DocumentURL = url
		user.VerificationStatus = models.VerificationPending
		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update verification status"})
			return
		}

		c.JSON(200, gin.H{
			"message":            "Document uploaded, pending review",
			"documentUrl":        url,
			"verificationStatus": user.VerificationStatus,
		})
	}
}

// UpdateVerificationStatus flips a driver's review state. Exposed for the
// back-office reviewer tooling.
func UpdateVerificationStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid user ID"})
			return
		}

		var input struct {
			Status string `json:"status" binding:"required,oneof=approved rejected pending"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, uint(targetID)).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		user.VerificationStatus = models.VerificationStatus(input.Status)
		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update verification status"})
			return
		}

		c.JSON(200, gin.H{
			"id":                 user.ID,
			"verificationStatus": user.VerificationStatus,
		})
	}
}
