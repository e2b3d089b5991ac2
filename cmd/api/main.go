package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"careerbot/internal/config"
	"careerbot/internal/db"
	apihttp "careerbot/internal/http"
	"careerbot/internal/llm"
	"careerbot/internal/repository"
	"careerbot/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	assessmentRepo := repository.NewPgAssessmentRepository(pool)

	llmClient := llm.NewHTTPClient(
		cfg.LLMBaseURL,
		cfg.LLMAPIKey,
		cfg.LLMModel,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second,
		logger,
	)

	authWindow := time.Duration(cfg.AuthRateWindowSeconds) * time.Second
	authLimiter := service.NewAuthRateLimiter(authWindow, cfg.AuthRateMax)
	var tokenStore service.RefreshTokenStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			authLimiter = service.NewRedisAuthRateLimiter(redisClient, authWindow, cfg.AuthRateMax)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	userSvc := service.NewUserService(logger, userRepo, authLimiter)
	chatSvc := service.NewChatService(logger, llmClient, sessionRepo, messageRepo)
	skillsSvc := service.NewSkillsService(logger, llmClient)
	evaluationSvc := service.NewEvaluationService(logger, llmClient)
	assessmentSvc := service.NewAssessmentService(logger, sessionRepo, assessmentRepo)

	authHandler := apihttp.NewAuthHandler(logger, userSvc, jwtSvc)
	chatHandler := apihttp.NewChatHandler(logger, chatSvc, jwtSvc)
	skillsHandler := apihttp.NewSkillsHandler(logger, skillsSvc, evaluationSvc, assessmentSvc)

	healthCheck := func(ctx context.Context) error {
		return db.Ping(ctx, pool)
	}
	router := apihttp.NewRouter(logger, cfg.CORSOrigins, healthCheck, authHandler, chatHandler, skillsHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
