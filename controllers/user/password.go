package userControllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/mailer"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
	"github.com/Ahmed-Mansy/shoe-zone-online/tokens"
)

type PasswordResetRequestInput struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirmInput struct {
	UID         string `json:"uid" binding:"required"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// POST /users/password-reset
// The response never reveals whether the email belongs to an account.
func RequestPasswordReset(db *gorm.DB, gen *tokens.Generator, m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PasswordResetRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required."})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusOK, gin.H{"message": "If an account with that email exists, a reset link has been sent."})
			return
		}

		token, err := gen.PasswordResetToken(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reset token"})
			return
		}
		resetURL := fmt.Sprintf("%s/reset-password/%s/%s/", FrontendURL(), EncodeUID(user.ID), token)

		if err := m.SendPasswordResetEmail(c.Request.Context(), user.Email, user.FullName(), resetURL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email. Please check your email configuration."})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "If an account with that email exists, a reset link has been sent."})
	}
}

// POST /users/password-reset/confirm
// A successful reset changes the password hash, which invalidates the token
// for any further use.
func ConfirmPasswordReset(db *gorm.DB, gen *tokens.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PasswordResetConfirmInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		uid, err := DecodeUID(input.UID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid user or UID"})
			return
		}

		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid user or UID"})
			return
		}

		if err := gen.VerifyPasswordReset(input.Token, &user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid or expired token"})
			return
		}

		if err := user.SetPassword(input.NewPassword); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
			return
		}
		if err := db.Model(&user).Update("password_hash", user.PasswordHash).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
	}
}
