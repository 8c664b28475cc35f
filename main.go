package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Ahmed-Mansy/shoe-zone-online/cache"
	"github.com/Ahmed-Mansy/shoe-zone-online/mailer"
	"github.com/Ahmed-Mansy/shoe-zone-online/models"
	"github.com/Ahmed-Mansy/shoe-zone-online/payment"
	"github.com/Ahmed-Mansy/shoe-zone-online/routes"
	"github.com/Ahmed-Mansy/shoe-zone-online/tokens"
)

func main() {
	log.Println("Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Rating{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.ReviewReply{},
		&models.Report{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	deps := routes.Dependencies{
		Gateway:  payment.NewStripeClient(os.Getenv("STRIPE_SECRET_KEY")),
		Mailer:   initMailer(),
		Tokens:   tokens.New(os.Getenv("JWT_SECRET")),
		Products: initProductCache(),
	}

	// Setup routes
	routes.SetupRoutes(r, db, deps)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect DB: %v", err)
	}
	return db
}

// initMailer prefers SES and falls back to logging when it is not configured.
func initMailer() mailer.Mailer {
	m, err := mailer.NewSESMailer(context.Background())
	if err != nil {
		log.Printf("SES mailer unavailable (%v), emails will be logged instead", err)
		return mailer.LogMailer{}
	}
	return m
}

// initProductCache connects to Redis when REDIS_ADDR is set. A nil cache
// disables product caching without affecting reads.
func initProductCache() *cache.ProductCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	client, err := cache.Connect(addr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		log.Printf("Redis unavailable (%v), product caching disabled", err)
		return nil
	}
	return cache.NewProductCache(client)
}
