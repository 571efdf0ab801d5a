package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"playverse/internal/adapter/api"
	"playverse/internal/adapter/api/handler"
	apimiddleware "playverse/internal/adapter/api/middleware"
	"playverse/internal/adapter/api/router"
	"playverse/internal/adapter/repository"
	"playverse/internal/infrastructure/cache"
	"playverse/internal/infrastructure/firebase"
	"playverse/internal/infrastructure/storage"
	"playverse/internal/infrastructure/websocket"
	"playverse/internal/usecase"
	"playverse/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account from environment variable (production) or file path
	// (local development)
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	// Presence degrades gracefully when Redis is unreachable
	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := redisCache.Ping(ctx); err != nil {
		log.Printf("Redis unavailable, presence disabled: %v", err)
		redisCache = nil
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()
	presence := cache.NewPresenceCache(redisCache)

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	gameRepo := repository.NewFirestoreGameRepository(firestoreClient)
	conversationRepo := repository.NewFirestoreConversationRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	forumRepo := repository.NewFirestoreForumRepository(firestoreClient)
	couponRepo := repository.NewFirestoreCouponRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, presence)
	gameUseCase := usecase.NewGameUseCase(gameRepo)
	chatUseCase := usecase.NewChatUseCase(conversationRepo, userRepo, wsManager, presence)
	forumUseCase := usecase.NewForumUseCase(forumRepo, userRepo, notificationRepo, wsManager)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo)
	loyaltyUseCase := usecase.NewLoyaltyUseCase(couponRepo, userRepo)

	handler.Setup(authUseCase, userUseCase, gameUseCase, chatUseCase, forumUseCase, notificationUseCase, loyaltyUseCase)
	handler.SetupFileHandler(storageClient)
	handler.SetupWebSocketHandler(wsManager, presence, userRepo)
	handler.SetupHealthHandler()

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)
	authLimiter := apimiddleware.NewRateLimiter(10, time.Minute)

	router.Setup(e, authMiddleware, adminMiddleware, authLimiter)
	router.SetupFileRouter(e, authMiddleware, adminMiddleware)
	router.SetupWebSocketRouter(e, authMiddleware)

	log.Printf("Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
