package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sports-picks-system/handlers"
	"sports-picks-system/middleware"
	"sports-picks-system/models"
	"sports-picks-system/services"
	"sports-picks-system/utils"
	"sports-picks-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		ReadTimeout: 30 * time.Second,
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Sport{},
		&models.Team{},
		&models.Game{},
		&models.Pick{},
		&models.Profile{},
		&models.Article{},
		&models.Comment{},
		&models.Follow{},
		&models.Notification{},
		&models.BroadcastEvent{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// --- External collaborators ---
	providerBaseURL := os.Getenv("SPORTS_API_BASE_URL")
	if providerBaseURL == "" {
		providerBaseURL = "https://api.sportradar.us"
	}
	providerAPIKey := os.Getenv("SPORTS_API_KEY")
	if providerAPIKey == "" {
		log.Fatal("SPORTS_API_KEY environment variable not set")
	}

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("PICKS_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("PICKS_SERVICE_TOKEN environment variable not set")
	}

	provider := services.NewScheduleProvider(providerBaseURL, providerAPIKey)
	authClient := services.NewAuthServiceClient(authServiceURL, serviceToken)

	// --- Services ---
	gameService := services.NewGameService(db)
	pickService := services.NewPickService(db)
	socialService := services.NewSocialService(db)
	ringService := services.NewRingService(db)
	articleService := services.NewArticleService(db, os.Getenv("OPENAI_API_KEY"))
	importService := services.NewImportService(db)
	settlementService := services.NewSettlementService(db, ringService)
	automationService := services.NewAutomationService(db, provider, importService, settlementService, ringService, articleService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Workers ---
	syncWorker := workers.NewProfileSyncWorker(db, authServiceURL, "/api/v1/public/profiles", serviceToken)
	syncWorker.Start(ctx)

	liveScoreClient := workers.NewLiveScoreClient(db, provider, importService, settlementService)
	go workers.PollLiveScores(ctx, liveScoreClient, 1*time.Minute)

	automationService.StartScheduler(ctx)

	// ✅ Routes — Gateway auth enforced globally
	handlers.SetupArticleRoutes(app, articleService)
	handlers.SetupGameRoutes(app, gameService)
	handlers.SetupPickRoutes(app, pickService)
	handlers.SetupSocialRoutes(app, socialService, authClient)
	handlers.SetupAdminRoutes(app, automationService, settlementService, ringService, articleService, gameService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Profile Sync Worker running")
	log.Println("✅ Live score polling running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
