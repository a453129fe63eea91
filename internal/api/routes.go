package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"careloop-backend-go/internal/config"
	"careloop-backend-go/internal/core"
	"careloop-backend-go/internal/db"
	"careloop-backend-go/internal/middleware"
)

// SetupRoutes configures all application routes with their handlers and
// middleware. Global middleware (logging, recovery, CORS) is expected to be
// applied to the router before this is called.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	userService core.UserService,
	profileSwitcher *core.ProfileSwitcher,
	searchService *core.SearchService,
	eventService *core.EventService,
	notifier *core.Notifier,
	billingService core.BillingService,
) {
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("Firebase Auth client is not initialized; routes cannot be secured.")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient)

	authHandler := NewAuthHandler(userService)
	userHandler := NewUserHandler(userService)
	profileHandler := NewProfileHandler(profileSwitcher)
	searchHandler := NewSearchHandler(searchService)
	eventHandler := NewEventHandler(eventService, notifier)
	billingHandler := NewBillingHandler(billingService)

	apiV1 := router.Group("/api/v1")
	{
		usersGroup := apiV1.Group("/users")
		{
			usersGroup.POST("/initialize", authMW.VerifyToken(), authHandler.InitializeUserProfile)
			usersGroup.GET("/me", authMW.VerifyToken(), userHandler.GetCurrentUser)
		}

		profilesGroup := apiV1.Group("/profiles", authMW.VerifyToken())
		{
			profilesGroup.GET("", profileHandler.ListProfiles)
			profilesGroup.POST("/switch", profileHandler.SwitchProfile)
			profilesGroup.GET("/capabilities", profileHandler.GetCapabilities)
		}

		searchGroup := apiV1.Group("/search", authMW.VerifyToken())
		{
			searchGroup.GET("", searchHandler.Search)
			searchGroup.GET("/suggestions", searchHandler.Suggestions)
		}

		eventsGroup := apiV1.Group("/events", authMW.VerifyToken())
		{
			eventsGroup.POST("", eventHandler.CreateEvent)
			eventsGroup.GET("", eventHandler.ListEvents)
			// Registered before :eventId so the literal segment wins.
			eventsGroup.GET("/notifications", eventHandler.ListNotifications)
			eventsGroup.PUT("/:eventId", eventHandler.UpdateEvent)
			eventsGroup.DELETE("/:eventId", eventHandler.DeleteEvent)
		}

		apiV1.POST("/notifications/:id/send", authMW.VerifyToken(), eventHandler.DeliverNotification)

		billingGroup := apiV1.Group("/billing")
		{
			billingGroup.POST("/create-checkout-session", authMW.VerifyToken(), billingHandler.CreateCheckoutSession)
			billingGroup.POST("/create-portal-session", authMW.VerifyToken(), billingHandler.CreatePortalSession)

			// Public webhook endpoint: the provider authenticates via signature.
			billingGroup.POST("/webhooks/payments", billingHandler.HandleWebhook)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Careloop backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
