package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/cache"
	"github.com/Ahmed-Mansy/shoe-zone-online/mailer"
	"github.com/Ahmed-Mansy/shoe-zone-online/payment"
	"github.com/Ahmed-Mansy/shoe-zone-online/tokens"
)

// Dependencies carries the external services handlers need beyond the DB.
type Dependencies struct {
	Gateway  payment.Gateway
	Mailer   mailer.Mailer
	Tokens   *tokens.Generator
	Products *cache.ProductCache
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, deps Dependencies) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db, deps)

	// User routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Catalog routes (public reads, admin writes live under /admin)
	SetupCatalogRoutes(r, db, deps)

	// Cart and order routes (JWT-protected)
	SetupCartRoutes(r, db)
	SetupOrderRoutes(r, db, deps)

	// Review routes
	SetupReviewRoutes(r, db)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db, deps)
}
