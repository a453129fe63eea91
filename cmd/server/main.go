package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"careloop-backend-go/internal/api"
	"careloop-backend-go/internal/config"
	"careloop-backend-go/internal/core"
	"careloop-backend-go/internal/db"
	"careloop-backend-go/internal/middleware"
	"careloop-backend-go/internal/models"
	"careloop-backend-go/internal/payments"
	"careloop-backend-go/pkg/cache"
	"careloop-backend-go/pkg/mailer"
	"careloop-backend-go/pkg/messagequeue"
)

// defaultProfiles is the fixed workspace list offered to the session. In a
// later iteration this comes from the organization's team records.
var defaultProfiles = []models.Profile{
	{ID: "margaret-care-team", DisplayName: "Margaret's Care Team", Subtitle: "Primary workspace", Role: models.RoleOwner, AvatarRef: "avatars/margaret.png"},
	{ID: "henry-care-team", DisplayName: "Henry's Care Team", Subtitle: "Shared with Rivera family", Role: models.RoleAdmin, AvatarRef: "avatars/henry.png"},
	{ID: "agency-overview", DisplayName: "Agency Overview", Subtitle: "Read-only view", Role: models.RoleViewer, AvatarRef: "avatars/agency.png"},
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore and Firebase Admin SDK", zap.Error(err))
	}
	firestoreClient := db.GetFirestoreClient()
	if firestoreClient == nil || db.GetFirebaseAuthClient() == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase clients are nil after initialization. Application cannot start.")
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	// --- 4. Initialize Repositories ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	eventRepo := db.NewMemoryEventRepository()
	notificationRepo := db.NewMemoryNotificationRepository()

	// --- 5. Optional infrastructure: cache, analytics broker, mail relay ---
	var dedupeCache cache.Cache
	if appConfig.RedisAddr != "" {
		dedupeCache, err = cache.NewRedisCache(cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis", zap.Error(err))
		}
		zapLogger.Info("Redis cache connected", zap.String("addr", appConfig.RedisAddr))
	} else {
		dedupeCache = cache.NewMemoryCache()
		zapLogger.Warn("REDIS_ADDR not set; webhook de-duplication uses the in-process cache.")
	}

	analyticsSink := core.NewNoopAnalyticsSink()
	if appConfig.AMQPURL != "" {
		queue, mqErr := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.AMQPURL})
		if mqErr != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(mqErr))
		}
		defer queue.Close()
		analyticsSink = core.NewQueueAnalyticsSink(queue)
		zapLogger.Info("Search analytics sink connected to RabbitMQ.")
	} else {
		zapLogger.Warn("AMQP_URL not set; search analytics events are discarded.")
	}

	var mailSender core.MailSender
	if appConfig.SMTPUser != "" && appConfig.SMTPPass != "" && appConfig.NotifyFrom != "" {
		m, mailErr := mailer.New(appConfig.SMTPHost, appConfig.SMTPPort, appConfig.SMTPUser, appConfig.SMTPPass, appConfig.NotifyFrom)
		if mailErr != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to configure mailer", zap.Error(mailErr))
		}
		mailSender = m
		zapLogger.Info("Notification mailer configured", zap.String("host", appConfig.SMTPHost))
	} else {
		zapLogger.Warn("SMTP credentials not set; notification email delivery is disabled.")
	}

	// --- 6. Initialize Services ---
	userService := core.NewUserService(userRepo)
	profileSwitcher := core.NewProfileSwitcher(defaultProfiles, zapLogger)
	searchService := core.NewSearchService(analyticsSink, zapLogger)
	searchService.Initialize()
	eventService := core.NewEventService(eventRepo, notificationRepo, zapLogger)
	notifier := core.NewNotifier(eventService, mailSender, core.ParseDirectory(appConfig.NotifyDirectory), zapLogger)

	var paymentsClient core.PaymentsClient
	if appConfig.PaymentsSecretKey != "" {
		paymentsClient = payments.NewClient(appConfig.PaymentsAPIBase, appConfig.PaymentsSecretKey)
	} else {
		zapLogger.Warn("PAYMENTS_SECRET_KEY not set; billing endpoints will report payments as unconfigured.")
	}
	billingService := core.NewBillingService(paymentsClient, userRepo, dedupeCache, appConfig.PaymentsWebhookSecret, appConfig.ClientURL, zapLogger)
	zapLogger.Info("Core services initialized successfully.")

	// --- 7. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()

	// --- 8. Apply Global Middleware (order matters) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured.")
	}

	// --- 9. Setup API Routes ---
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		userService,
		profileSwitcher,
		searchService,
		eventService,
		notifier,
		billingService,
	)

	// --- 10. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 11. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
