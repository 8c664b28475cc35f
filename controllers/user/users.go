package userControllers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/mailer"
	"github.com/Ahmed-Mansy/shoe-zone-online/middleware"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
	"github.com/Ahmed-Mansy/shoe-zone-online/tokens"
)

var mobilePattern = regexp.MustCompile(`^(010|011|012|015)[0-9]{8}$`)

type RegisterInput struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Mobile    *string `json:"mobile"`
}

type DeleteAccountInput struct {
	Password string `json:"password" binding:"required"`
}

// FrontendURL is where activation and reset links point.
func FrontendURL() string {
	if u := os.Getenv("FRONTEND_URL"); u != "" {
		return u
	}
	return "http://localhost:5173"
}

// EncodeUID encodes a user id the way activation links carry it.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

func DecodeUID(encoded string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// POST /users/register
// Creates an inactive account and mails an activation link. A failed send is
// reported but never rolls back the created account.
func RegisterUser(db *gorm.DB, gen *tokens.Generator, m mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var existing int64
		db.Model(&models.User{}).Where("email = ?", input.Email).Count(&existing)
		if existing > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A user with this email already exists"})
			return
		}

		user := models.User{
			Email:     input.Email,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			IsActive:  false,
		}
		if err := user.SetPassword(input.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		token, err := gen.ActivationToken(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate activation token"})
			return
		}
		activationURL := fmt.Sprintf("%s/activate/%s/%s/", FrontendURL(), EncodeUID(user.ID), token)

		if err := m.SendActivationEmail(c.Request.Context(), user.Email, user.FullName(), activationURL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"details": "Failed to send email. Please check your email configuration.",
				"user":    user,
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"user": user, "message": "Activation email sent."})
	}
}

// GET /users/activate/:uid/:token
func ActivateAccount(db *gorm.DB, gen *tokens.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := DecodeUID(c.Param("uid"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid user or UID"})
			return
		}

		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid user or UID"})
			return
		}

		if err := gen.VerifyActivation(c.Param("token"), &user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid or expired token"})
			return
		}

		if err := db.Model(&user).Update("is_active", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to activate account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"detail": "Account activated successfully"})
	}
}

// POST /users/login
func LoginUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if !user.CheckPassword(input.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is not active. Please check your activation email."})
			return
		}

		token, err := middleware.IssueAccessToken(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// GET /users/profile
func GetUserProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var user models.User
		if err := db.Preload("Addresses").First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// PUT /users/profile
func UpdateUserProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.FirstName != nil {
			if *input.FirstName == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "First name is required."})
				return
			}
			updates["first_name"] = *input.FirstName
		}
		if input.LastName != nil {
			if *input.LastName == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Last name is required."})
				return
			}
			updates["last_name"] = *input.LastName
		}
		if input.Mobile != nil {
			if !mobilePattern.MatchString(*input.Mobile) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Egyptian mobile number."})
				return
			}
			updates["mobile"] = *input.Mobile
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
		}
		c.JSON(http.StatusOK, user)
	}
}

// POST /users/delete-account
// Deletion requires re-entry of the current password.
func DeleteAccount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var input DeleteAccountInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required."})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		if !user.CheckPassword(input.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect password."})
			return
		}

		if err := db.Delete(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully."})
	}
}

// GET /users (admin)
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Where("is_staff = ?", false).
			Order("created_at desc").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// PATCH /users/:id/block and /users/:id/unblock (admin)
func SetUserActive(db *gorm.DB, active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}

		result := db.Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		status := "user blocked"
		if active {
			status = "user unblocked"
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}
