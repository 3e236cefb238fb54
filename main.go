package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"esports-community-system/handlers"
	"esports-community-system/middleware"
	"esports-community-system/models"
	"esports-community-system/services"
	"esports-community-system/utils"
	"esports-community-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // uploads are posters and cover images, not builds
	})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.UserProfile{},
		&models.Tournament{},
		&models.TournamentParticipant{},
		&models.RegistrationHistory{},
		&models.PlayerGameStat{},
		&models.AppConfig{},
		&models.BlogPost{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// R2 is optional: without it the upload endpoint returns 503 and
	// everything else works.
	if err := utils.InitR2(); err != nil {
		log.Printf("R2 not configured, image uploads disabled: %v", err)
	}

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	authServiceToken := os.Getenv("AUTH_SERVICE_TOKEN")
	if authServiceToken == "" {
		log.Fatal("AUTH_SERVICE_TOKEN environment variable not set")
	}
	authClient := services.NewAuthServiceClient(authServiceURL, authServiceToken)

	accountService := services.NewAccountService(db, authClient)
	tournamentService := services.NewTournamentService(db, accountService)
	leaderboardService := services.NewLeaderboardService(db)
	blogService := services.NewBlogService(db)
	configService := services.NewConfigService(db)
	mediaService := services.NewMediaService()

	userCtx := middleware.UserContextMiddleware(authClient)
	adminOnly := middleware.AdminOnlyMiddleware(db)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	api.Get("/config", configService.GetConfig)

	handlers.SetupAccountRoutes(api, accountService, userCtx)
	handlers.SetupTournamentRoutes(api, tournamentService, userCtx)
	handlers.SetupLeaderboardRoutes(api, leaderboardService)
	handlers.SetupBlogRoutes(api, blogService)
	handlers.SetupAdminRoutes(api, accountService, tournamentService, leaderboardService, blogService, configService, mediaService, userCtx, adminOnly)

	services.StartRankSnapshotScheduler(leaderboardService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncInterval, _ := time.ParseDuration(os.Getenv("PARTICIPANT_SYNC_INTERVAL"))
	syncWorker := workers.NewParticipantSyncWorker(db, syncInterval)
	go syncWorker.Run(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5200"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server running on http://localhost:%s", port)
	log.Printf("CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
