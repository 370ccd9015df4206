package main

import (
	"log"
	"os"
	"time"

	"pharmprep/database"
	"pharmprep/handlers"
	"pharmprep/handlers/admin"
	"pharmprep/middleware"
	"pharmprep/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database and seed defaults
	database.InitDB()
	database.SeedDefaults()

	// Initialize services
	services.InitExamService(database.GetDB())
	services.InitGenerator()
	services.InitCleanupService()
	defer func() {
		if cleanupService := services.GetCleanupService(); cleanupService != nil {
			cleanupService.Stop()
		}
	}()

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)

	// Content catalog (public)
	api.Get("/competencies", handlers.GetCompetencies)
	api.Get("/topics", handlers.GetTopics)
	api.Get("/topics/:id", handlers.GetTopic)
	api.Get("/cases", handlers.GetCases)
	api.Get("/cases/:id", handlers.GetCase)
	api.Get("/questions/quiz", handlers.GetQuizQuestions)
	api.Get("/questions/:id", handlers.GetQuestion)

	// User routes
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.GetCurrentUser)
	userGroup.Put("/me", handlers.UpdateCurrentUser)
	userGroup.Get("/me/analytics", handlers.GetMyAnalytics)

	// Quiz routes
	quizGroup := api.Group("/quiz")
	quizGroup.Use(middleware.AuthMiddleware)
	quizGroup.Post("/attempts", handlers.RecordQuizAttempt)
	quizGroup.Get("/history", handlers.GetQuizHistory)
	quizGroup.Get("/attempts/:id", handlers.GetQuizAttempt)

	// Mock exam routes
	examGroup := api.Group("/exams")
	examGroup.Use(middleware.AuthMiddleware)
	examGroup.Post("/", handlers.StartExam)
	examGroup.Get("/:id", handlers.GetExamState)
	examGroup.Post("/:id/answer", handlers.AnswerExamQuestion)
	examGroup.Post("/:id/flag", handlers.FlagExamQuestion)
	examGroup.Post("/:id/submit", handlers.SubmitExam)

	// Exam countdown stream (token auth happens inside the socket)
	app.Use("/ws", handlers.WebSocketUpgrade)
	app.Get("/ws/exams/:id", websocket.New(handlers.ExamClock))

	// Progression routes
	progressionGroup := api.Group("/progression")
	progressionGroup.Use(middleware.AuthMiddleware)
	progressionGroup.Get("/", handlers.GetProgression)
	progressionGroup.Get("/badges", handlers.GetBadges)
	progressionGroup.Post("/daily-challenge", handlers.CompleteDailyChallenge)

	// Study plan (subscriber feature)
	api.Post("/study-plan", middleware.AuthMiddleware, handlers.GenerateStudyPlan)

	// Leaderboard routes
	leaderboardGroup := api.Group("/leaderboard")
	leaderboardGroup.Get("/", handlers.GetLeaderboard)
	leaderboardGroup.Get("/activity", handlers.GetRecentActivity)
	leaderboardGroup.Get("/me", middleware.AuthMiddleware, handlers.GetUserRank)

	// Reward shop routes
	rewardGroup := api.Group("/rewards")
	rewardGroup.Use(middleware.AuthMiddleware)
	rewardGroup.Get("/", handlers.GetRewardItems)
	rewardGroup.Get("/mine", handlers.GetMyRewards)
	rewardGroup.Post("/purchase", handlers.PurchaseReward)
	rewardGroup.Post("/equip", handlers.EquipReward)

	// Community message board
	api.Get("/messages", handlers.GetMessages)
	api.Post("/messages", middleware.AuthMiddleware, handlers.PostMessage)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", admin.Login)
	adminGroup.Post("/logout", admin.Logout)

	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware)
	adminProtected.Get("/verify", admin.VerifyToken)

	// Admin user management
	adminProtected.Get("/users", admin.GetUsers)
	adminProtected.Get("/users/:id", admin.GetUser)
	adminProtected.Put("/users/:id", admin.UpdateUser)
	adminProtected.Delete("/users/:id", admin.DeleteUser)
	adminProtected.Post("/users/:id/ban", admin.BanUser)
	adminProtected.Post("/users/:id/reset-password", admin.ResetUserPassword)
	adminProtected.Get("/users/:id/analytics", admin.GetUserAnalytics)
	adminProtected.Post("/users/:id/analyze", admin.AnalyzeUserPerformance)

	// Admin content management
	adminProtected.Get("/competencies", admin.GetCompetencies)
	adminProtected.Post("/competencies", admin.CreateCompetency)
	adminProtected.Put("/competencies/:id", admin.UpdateCompetency)
	adminProtected.Delete("/competencies/:id", admin.DeleteCompetency)
	adminProtected.Get("/topics", admin.GetTopics)
	adminProtected.Post("/topics", admin.CreateTopic)
	adminProtected.Put("/topics/:id", admin.UpdateTopic)
	adminProtected.Delete("/topics/:id", admin.DeleteTopic)
	adminProtected.Get("/cases", admin.GetCases)
	adminProtected.Post("/cases", admin.CreateCase)
	adminProtected.Put("/cases/:id", admin.UpdateCase)
	adminProtected.Delete("/cases/:id", admin.DeleteCase)
	adminProtected.Get("/questions", admin.GetQuestions)
	adminProtected.Post("/questions", admin.CreateQuestion)
	adminProtected.Put("/questions/:id", admin.UpdateQuestion)
	adminProtected.Delete("/questions/:id", admin.DeleteQuestion)
	adminProtected.Post("/questions/import", admin.BulkImportQuestions)

	// Admin content generation
	adminProtected.Post("/generate/questions", admin.GenerateQuestions)
	adminProtected.Post("/generate/import", admin.ImportGenerated)
	adminProtected.Post("/questions/:id/explanation", admin.RegenerateExplanation)

	// Admin gamification management
	adminProtected.Get("/badges", admin.GetBadges)
	adminProtected.Post("/badges", admin.CreateBadge)
	adminProtected.Put("/badges/:id", admin.UpdateBadge)
	adminProtected.Delete("/badges/:id", admin.DeleteBadge)
	adminProtected.Get("/rewards", admin.GetRewardItems)
	adminProtected.Post("/rewards", admin.CreateRewardItem)
	adminProtected.Put("/rewards/:id", admin.UpdateRewardItem)
	adminProtected.Delete("/rewards/:id", admin.DeleteRewardItem)

	// Admin dashboard
	adminProtected.Get("/stats", admin.GetPlatformStats)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("✅ Quiz endpoint available at /api/questions/quiz")

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
		if os.Getenv("MOCK_GENERATOR") != "true" && os.Getenv("ANTHROPIC_API_KEY") == "" {
			log.Println("WARNING: ANTHROPIC_API_KEY not set; content generation will fail")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
