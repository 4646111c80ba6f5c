package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aliraza-a/portfolio-backend/api"
	"github.com/aliraza-a/portfolio-backend/auth"
	"github.com/aliraza-a/portfolio-backend/config"
	"github.com/aliraza-a/portfolio-backend/database"
	"github.com/aliraza-a/portfolio-backend/services"
	"github.com/aliraza-a/portfolio-backend/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	connStr := config.GetString(c, "DATABASE_URL", "")
	if connStr == "" {
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "postgres"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "portfolio"),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "disable"),
		)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	gate := auth.NewGate(auth.Config{
		AdminEmail:    config.GetString(c, "ADMIN_EMAIL", ""),
		AdminPassword: config.GetString(c, "ADMIN_PASSWORD", ""),
		JWTSecret:     config.GetString(c, "JWT_SECRET", ""),
	})

	blobs, err := storage.New(context.Background(), storage.Config{
		Bucket:          config.GetString(c, "STORAGE_BUCKET", ""),
		Region:          config.GetString(c, "STORAGE_REGION", "us-east-1"),
		Endpoint:        config.GetString(c, "STORAGE_ENDPOINT", ""),
		AccessKeyID:     config.GetString(c, "STORAGE_ACCESS_KEY_ID", ""),
		SecretAccessKey: config.GetString(c, "STORAGE_SECRET_ACCESS_KEY", ""),
		PublicBaseURL:   config.GetString(c, "STORAGE_PUBLIC_BASE_URL", ""),
	})
	if err != nil {
		fmt.Printf("Error initializing object storage: %v\n", err)
		os.Exit(1)
	}

	notifier := services.NewNotifier(services.NotifierConfig{
		APIKey:            config.GetString(c, "RESEND_API_KEY", ""),
		FromEmail:         config.GetString(c, "RESEND_FROM_EMAIL", ""),
		NotificationEmail: config.GetString(c, "NOTIFICATION_EMAIL", ""),
	})

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, gate, blobs, notifier)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
